package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/chensoul/interview-guide/internal/handlers"
	"github.com/chensoul/interview-guide/internal/middleware"
	"github.com/chensoul/interview-guide/internal/models"
)

func InterviewRoutes(router *chi.Mux, sessionHandler *handlers.SessionHandler, answerHandler *handlers.AnswerHandler, reportHandler *handlers.ReportHandler) {
	router.Route("/api/interview", func(r chi.Router) {
		r.With(middleware.ValidateRequest[*models.CreateSessionRequest]()).Post("/session", sessionHandler.CreateSessionHandler)
		r.Get("/session/{sessionID}", sessionHandler.GetSessionHandler)
		r.Get("/session/{sessionID}/question", sessionHandler.GetCurrentQuestionHandler)
		r.Get("/session/{sessionID}/report", reportHandler.GetReportHandler)
		r.Get("/unfinished/{resumeID}", sessionHandler.FindUnfinishedHandler)

		r.With(middleware.ValidateRequest[*models.SubmitAnswerRequest]()).Post("/answer", answerHandler.SubmitAnswerHandler)
		r.With(middleware.ValidateRequest[*models.SaveAnswerRequest]()).Post("/save-answer", answerHandler.SaveAnswerHandler)

		r.Post("/{sessionID}/complete", reportHandler.CompleteInterviewHandler)
		r.Get("/{sessionID}/detail", reportHandler.GetDetailHandler)
		r.Get("/{sessionID}/export", reportHandler.ExportReportHandler)
	})
}
