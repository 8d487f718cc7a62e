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

// ProjectHandler - структура для обработки HTTP-запросов по проектам.
type ProjectHandler struct {
	Service  *services.ProjectService
	Logger   zerolog.Logger
	Timeout  time.Duration
	Location *time.Location
}

// NewProjectHandler создает новый экземпляр ProjectHandler.
func NewProjectHandler(service *services.ProjectService, logger zerolog.Logger, timeout time.Duration, loc *time.Location) *ProjectHandler {
	return &ProjectHandler{
		Service:  service,
		Logger:   logger,
		Timeout:  timeout,
		Location: loc,
	}
}

// projectPayload - тело запроса на создание и изменение проекта.
// Срок принимается строкой, чтобы понимать время без указания пояса.
type projectPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Budget      int64  `json:"budget"`
	Deadline    string `json:"deadline"`
}

func (h *ProjectHandler) decodeProject(r *http.Request) (models.ProjectRequest, error) {
	var payload projectPayload
	if err := utils.DecodeJSON(r, &payload); err != nil {
		return models.ProjectRequest{}, err
	}
	deadline, err := utils.ParseDeadline(payload.Deadline, h.Location)
	if err != nil {
		return models.ProjectRequest{}, err
	}
	return models.ProjectRequest{
		Title:       payload.Title,
		Description: payload.Description,
		Budget:      payload.Budget,
		Deadline:    deadline,
	}, nil
}

// CreateProject обрабатывает запросы для создания проекта.
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	id, err := mustIdentity(r)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	req, err := h.decodeProject(r)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	project, err := h.Service.CreateProject(ctx, id, req)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	utils.SendJSON(w, http.StatusCreated, project)
}

// UpdateProject обрабатывает запросы для изменения открытого проекта.
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
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
	req, err := h.decodeProject(r)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	project, err := h.Service.UpdateProject(ctx, id, projectID, req)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, project)
}

// GetProject возвращает проект, если пользователь может его видеть.
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
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

	project, err := h.Service.GetProject(ctx, id, projectID)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, project)
}

// ListOpenProjects возвращает открытые проекты постранично.
func (h *ProjectHandler) ListOpenProjects(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	limit, offset, err := utils.ParseLimitOffset(r.URL.Query().Get("limit"), r.URL.Query().Get("offset"))
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	projects, err := h.Service.ListOpenProjects(ctx, limit, offset)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, nonNil(projects))
}

// ListMyProjects возвращает панель пользователя: проекты заказчика либо назначенные исполнителю.
func (h *ProjectHandler) ListMyProjects(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	id, err := mustIdentity(r)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	view := models.ProjectView(r.URL.Query().Get("view"))

	if id.IsClient() {
		projects, err := h.Service.ListClientProjects(ctx, id, view)
		if err != nil {
			writeError(w, r, h.Logger, err)
			return
		}
		utils.SendJSON(w, http.StatusOK, nonNil(projects))
		return
	}

	projects, err := h.Service.ListContractorProjects(ctx, id, view)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, nonNil(projects))
}

// CompleteProject принимает работу по проекту.
func (h *ProjectHandler) CompleteProject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.CompleteProject)
}

// RejectProject отклоняет работу по проекту.
func (h *ProjectHandler) RejectProject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.RejectProject)
}

type transitionFunc func(ctx context.Context, id models.Identity, projectID int64) (*models.Project, error)

func (h *ProjectHandler) transition(w http.ResponseWriter, r *http.Request, fn transitionFunc) {
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

	project, err := fn(ctx, id, projectID)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, project)
}
