package routers

import (
	"github.com/go-chi/chi/v5"

	"intervue/internal/handlers"
	"intervue/internal/middleware"
	"intervue/internal/models"
)

func InterviewRoutes(router *chi.Mux, interviewHandler *handlers.InterviewHandler) {
	router.Route("/api/v1/interviews", func(r chi.Router) {
		r.Post("/resume", interviewHandler.UploadResumeHandler)
		r.Get("/current", interviewHandler.CurrentHandler)
		r.With(middleware.ValidateRequest[*models.ChatMessageRequest]()).Post("/current/messages", interviewHandler.MessageHandler)
		r.With(middleware.ValidateRequest[*models.AnswerRequest]()).Post("/current/answers", interviewHandler.AnswerHandler)
		r.Post("/current/resume-session", interviewHandler.ResumeSessionHandler)
		r.Post("/current/reset", interviewHandler.ResetHandler)
		r.Post("/current/archive", interviewHandler.ArchiveHandler)
	})
}

func DashboardRoutes(router *chi.Mux, dashboardHandler *handlers.DashboardHandler) {
	router.Route("/api/v1/dashboard", func(r chi.Router) {
		r.Get("/interviews", dashboardHandler.ListHandler)
		r.Get("/interviews/{id}", dashboardHandler.DetailHandler)
	})
}
