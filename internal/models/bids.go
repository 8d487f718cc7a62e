package models

import "time"

type BidStatus string // Статус предложения

const (
	PendingBid  BidStatus = "pending"  // Предложение ожидает решения
	AcceptedBid BidStatus = "accepted" // Предложение принято
	RejectedBid BidStatus = "rejected" // Предложение отклонено
)

// Bid представляет модель предложения исполнителя.
type Bid struct {
	ID             int64     `json:"id"`
	ProjectID      int64     `json:"projectId"`
	ContractorID   int64     `json:"contractorId"`
	ContractorName string    `json:"contractorName,omitempty"`
	Price          int64     `json:"price"`
	Message        string    `json:"message"`
	ProposalName   *string   `json:"proposalName,omitempty"`
	ProposalPath   *string   `json:"proposalPath,omitempty"`
	Status         BidStatus `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// BidRequest представляет структуру запроса для подачи предложения.
type BidRequest struct {
	Price   int64  `json:"price" validate:"gt=0"`
	Message string `json:"message" validate:"required,max=2000"`
}

// BidWithRating - предложение вместе с рейтингом и последними отзывами исполнителя.
type BidWithRating struct {
	Bid
	Rating  *RatingSummary `json:"rating"`
	Reviews []Review       `json:"reviews"`
}
