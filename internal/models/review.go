package models

import "time"

// Review представляет модель отзыва одного участника проекта о другом.
type Review struct {
	ID           int64     `json:"id"`
	ProjectID    int64     `json:"projectId"`
	ReviewerID   int64     `json:"reviewerId"`
	ReviewerName string    `json:"reviewerName,omitempty"`
	TargetID     int64     `json:"targetId"`
	Dim1         int       `json:"dim1"`
	Dim2         int       `json:"dim2"`
	Dim3         int       `json:"dim3"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ReviewRequest представляет структуру запроса для отзыва.
type ReviewRequest struct {
	TargetID int64  `json:"targetId" validate:"required"`
	Dim1     int    `json:"dim1" validate:"min=1,max=5"`
	Dim2     int    `json:"dim2" validate:"min=1,max=5"`
	Dim3     int    `json:"dim3" validate:"min=1,max=5"`
	Comment  string `json:"comment" validate:"max=2000"`
}

// ReviewStatus сообщает участнику, кого он оценивает и оставил ли уже отзыв.
type ReviewStatus struct {
	ProjectID   int64 `json:"projectId"`
	TargetID    int64 `json:"targetId"`
	HasReviewed bool  `json:"hasReviewed"`
}

// ScoreTotals - суммы оценок пользователя по трем критериям.
type ScoreTotals struct {
	Count int64
	Dim1  int64
	Dim2  int64
	Dim3  int64
}

// RatingSummary - средние оценки пользователя.
type RatingSummary struct {
	AvgDim1     float64 `json:"avgDim1"`
	AvgDim2     float64 `json:"avgDim2"`
	AvgDim3     float64 `json:"avgDim3"`
	OverallAvg  float64 `json:"overallAvg"`
	ReviewCount int64   `json:"reviewCount"`
}
