package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/senyabanana/freelance-market/internal/errs"
	"github.com/senyabanana/freelance-market/internal/services"
	"github.com/senyabanana/freelance-market/internal/utils"

	"github.com/rs/zerolog"
)

// DeliverableHandler - структура для обработки загрузок результата работы.
type DeliverableHandler struct {
	Service        *services.DeliverableService
	Logger         zerolog.Logger
	Timeout        time.Duration
	MaxUploadBytes int64
}

// NewDeliverableHandler создает новый экземпляр DeliverableHandler.
func NewDeliverableHandler(service *services.DeliverableService, logger zerolog.Logger, timeout time.Duration, maxUploadBytes int64) *DeliverableHandler {
	return &DeliverableHandler{
		Service:        service,
		Logger:         logger,
		Timeout:        timeout,
		MaxUploadBytes: maxUploadBytes,
	}
}

// Upload принимает новую версию результата: форма multipart с полями message и file.
func (h *DeliverableHandler) Upload(w http.ResponseWriter, r *http.Request) {
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

	file, closeFile, err := formFile(r, "file")
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	defer closeFile()
	if file == nil {
		writeError(w, r, h.Logger, errs.Validation("file is required"))
		return
	}

	deliverable, err := h.Service.Upload(ctx, id, projectID, r.FormValue("message"), *file)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	utils.SendJSON(w, http.StatusCreated, deliverable)
}

// Latest возвращает актуальную версию результата.
func (h *DeliverableHandler) Latest(w http.ResponseWriter, r *http.Request) {
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

	deliverable, err := h.Service.Latest(ctx, id, projectID)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	if deliverable == nil {
		writeError(w, r, h.Logger, errs.NotFound("no deliverables uploaded yet"))
		return
	}
	utils.SendJSON(w, http.StatusOK, deliverable)
}

// History возвращает все версии результата, новые первыми.
func (h *DeliverableHandler) History(w http.ResponseWriter, r *http.Request) {
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

	history, err := h.Service.History(ctx, id, projectID)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, nonNil(history))
}
