package services

import (
	"context"
	"math"

	"github.com/senyabanana/freelance-market/internal/models"
	"github.com/senyabanana/freelance-market/internal/repository"
)

// Summarize считает средние по каждому критерию с точностью до сотых и общую оценку
// как среднее трех округленных средних. Без отзывов возвращает nil: пользователь без оценки.
func Summarize(t models.ScoreTotals) *models.RatingSummary {
	if t.Count == 0 {
		return nil
	}
	n := float64(t.Count)
	avg1 := round2(float64(t.Dim1) / n)
	avg2 := round2(float64(t.Dim2) / n)
	avg3 := round2(float64(t.Dim3) / n)
	return &models.RatingSummary{
		AvgDim1:     avg1,
		AvgDim2:     avg2,
		AvgDim3:     avg3,
		OverallAvg:  round2((avg1 + avg2 + avg3) / 3),
		ReviewCount: t.Count,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func loadRating(ctx context.Context, reviews repository.ReviewRepository, userID int64) (*models.RatingSummary, error) {
	totals, err := reviews.ScoreTotals(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Summarize(totals), nil
}
