package router

import (
	"net/http"

	"github.com/senyabanana/freelance-market/internal/handlers"
	"github.com/senyabanana/freelance-market/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Handlers - набор обработчиков, из которых собираются маршруты.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Projects     *handlers.ProjectHandler
	Bids         *handlers.BidHandler
	Deliverables *handlers.DeliverableHandler
	Reviews      *handlers.ReviewHandler
	Sessions     handlers.SessionStore
}

func InitRoutes(h Handlers, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(handlers.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.SendErrorResponse(w, r, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.SendErrorResponse(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", handlers.PingHandler)

		r.Post("/auth/register", h.Auth.Register)
		r.Post("/auth/login", h.Auth.Login)
		r.Post("/auth/logout", h.Auth.Logout)

		r.Group(func(r chi.Router) {
			r.Use(handlers.RequireAuth(h.Sessions, logger))

			r.Get("/auth/me", h.Auth.Me)

			r.Route("/projects", func(r chi.Router) {
				r.Post("/", h.Projects.CreateProject)
				r.Get("/open", h.Projects.ListOpenProjects)
				r.Get("/my", h.Projects.ListMyProjects)

				r.Route("/{projectId}", func(r chi.Router) {
					r.Get("/", h.Projects.GetProject)
					r.Patch("/", h.Projects.UpdateProject)
					r.Post("/complete", h.Projects.CompleteProject)
					r.Post("/reject", h.Projects.RejectProject)

					r.Get("/bids", h.Bids.ListProjectBids)
					r.Post("/bids", h.Bids.SubmitBid)
					r.Get("/bids/my", h.Bids.GetMyBid)

					r.Get("/deliverables", h.Deliverables.History)
					r.Post("/deliverables", h.Deliverables.Upload)
					r.Get("/deliverables/latest", h.Deliverables.Latest)

					r.Get("/reviews/status", h.Reviews.ReviewStatus)
					r.Post("/reviews", h.Reviews.SubmitReview)
				})
			})

			r.Post("/bids/{bidId}/accept", h.Bids.AcceptBid)

			r.Get("/users/{userId}/rating", h.Reviews.UserRating)
			r.Get("/users/{userId}/reviews", h.Reviews.UserReviews)
		})
	})

	return r
}
