package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/chensoul/interview-guide/internal/middleware"
	"github.com/chensoul/interview-guide/internal/models"
	"github.com/chensoul/interview-guide/internal/session"
	"github.com/chensoul/interview-guide/internal/utils"
)

type SessionHandler struct {
	sessions *session.Manager
	logger   *zap.Logger
}

func NewSessionHandler(sessions *session.Manager, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		logger:   logger,
	}
}

func (h *SessionHandler) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	// Get the validated request from middleware
	req := middleware.GetValidatedRequest[*models.CreateSessionRequest](r)

	sess, err := h.sessions.CreateSession(r.Context(), req)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	utils.JSON(w, http.StatusCreated, models.NewSessionResponse(sess))
}

func (h *SessionHandler) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sess, err := h.sessions.GetSession(r.Context(), sessionID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	utils.JSON(w, http.StatusOK, models.NewSessionResponse(sess))
}

// GetCurrentQuestionHandler serves the question at the pointer. The first
// retrieval moves a fresh session into IN_PROGRESS.
func (h *SessionHandler) GetCurrentQuestionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	question, sess, err := h.sessions.GetCurrentQuestion(r.Context(), sessionID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	utils.JSON(w, http.StatusOK, models.QuestionResponse{
		SessionID: sess.ID,
		State:     sess.State,
		Question:  question,
		Remaining: len(sess.Questions) - sess.Pointer,
	})
}

func (h *SessionHandler) FindUnfinishedHandler(w http.ResponseWriter, r *http.Request) {
	resumeID, err := strconv.ParseInt(chi.URLParam(r, "resumeID"), 10, 64)
	if err != nil || resumeID <= 0 {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "invalid_resume_id",
			Message: "resumeID must be a positive integer",
		})
		return
	}

	sess, err := h.sessions.FindUnfinishedSession(r.Context(), resumeID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	utils.JSON(w, http.StatusOK, models.NewSessionResponse(sess))
}
