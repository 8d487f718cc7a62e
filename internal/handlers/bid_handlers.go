package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/senyabanana/freelance-market/internal/models"
	"github.com/senyabanana/freelance-market/internal/services"
	"github.com/senyabanana/freelance-market/internal/utils"

	"github.com/rs/zerolog"
)

// BidHandler - структура для обработки HTTP-запросов.
type BidHandler struct {
	Service        *services.BidService
	Logger         zerolog.Logger
	Timeout        time.Duration
	MaxUploadBytes int64
}

// NewBidHandler создает новый экземпляр BidHandler.
func NewBidHandler(service *services.BidService, logger zerolog.Logger, timeout time.Duration, maxUploadBytes int64) *BidHandler {
	return &BidHandler{
		Service:        service,
		Logger:         logger,
		Timeout:        timeout,
		MaxUploadBytes: maxUploadBytes,
	}
}

// SubmitBid обрабатывает запросы для подачи предложения. Форма multipart:
// price, message и необязательный файл proposal в формате PDF.
func (h *BidHandler) SubmitBid(w http.ResponseWriter, r *http.Request) {
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
	if err := parseMultipart(w, r, h.MaxUploadBytes); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	price, err := formInt(r, "price")
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	proposal, closeFile, err := formFile(r, "proposal")
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	defer closeFile()

	req := models.BidRequest{Price: price, Message: r.FormValue("message")}
	bid, err := h.Service.SubmitBid(ctx, id, projectID, req, proposal)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, bid)
}

// ListProjectBids возвращает предложения по проекту вместе с рейтингом исполнителей.
func (h *BidHandler) ListProjectBids(w http.ResponseWriter, r *http.Request) {
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

	bids, err := h.Service.ListProjectBids(ctx, id, projectID)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, nonNil(bids))
}

// GetMyBid возвращает предложение исполнителя по проекту.
func (h *BidHandler) GetMyBid(w http.ResponseWriter, r *http.Request) {
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

	bid, err := h.Service.GetMyBid(ctx, id, projectID)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, bid)
}

// AcceptBid принимает предложение и назначает исполнителя.
func (h *BidHandler) AcceptBid(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	id, err := mustIdentity(r)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	bidID, err := utils.ParseID(r, "bidId")
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	bid, err := h.Service.AcceptBid(ctx, id, bidID)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, bid)
}
