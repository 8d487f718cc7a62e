package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/senyabanana/freelance-market/internal/errs"
	"github.com/senyabanana/freelance-market/internal/models"
	"github.com/senyabanana/freelance-market/internal/services"
	"github.com/senyabanana/freelance-market/internal/utils"

	"github.com/rs/zerolog"
)

// ReviewHandler - структура для обработки отзывов и рейтингов.
type ReviewHandler struct {
	Service *services.ReviewService
	Logger  zerolog.Logger
	Timeout time.Duration
}

// NewReviewHandler создает новый экземпляр ReviewHandler.
func NewReviewHandler(service *services.ReviewService, logger zerolog.Logger, timeout time.Duration) *ReviewHandler {
	return &ReviewHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// ReviewStatus сообщает, кого пользователь оценивает и оставил ли отзыв.
func (h *ReviewHandler) ReviewStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	id, err := mustIdentity(r)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	projectID, err := utils.ParseID(r, "projectId")
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	status, err := h.Service.ReviewStatus(ctx, id, projectID)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, status)
}

// SubmitReview сохраняет отзыв о второй стороне проекта.
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	id, err := mustIdentity(r)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	projectID, err := utils.ParseID(r, "projectId")
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	var req models.ReviewRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	review, err := h.Service.SubmitReview(ctx, id, projectID, req)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	utils.SendJSON(w, http.StatusCreated, review)
}

// ratingResponse - рейтинг пользователя; rating равен null, пока отзывов нет.
type ratingResponse struct {
	UserID int64                 `json:"userId"`
	Rating *models.RatingSummary `json:"rating"`
}

// UserRating возвращает средние оценки пользователя.
func (h *ReviewHandler) UserRating(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	userID, err := utils.ParseID(r, "userId")
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	rating, err := h.Service.RatingFor(ctx, userID)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, ratingResponse{UserID: userID, Rating: rating})
}

// UserReviews возвращает отзывы о пользователе, новые первыми.
func (h *ReviewHandler) UserReviews(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	userID, err := utils.ParseID(r, "userId")
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	var limit int
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 || limit > utils.MaxLimit {
			writeError(w, r, h.Logger, errs.Validation("invalid limit parameter, must be a positive integer [1:50]"))
			return
		}
	}

	reviews, err := h.Service.ReviewsFor(ctx, userID, limit)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, nonNil(reviews))
}
