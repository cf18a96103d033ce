package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/chensoul/interview-guide/internal/grading"
	"github.com/chensoul/interview-guide/internal/middleware"
	"github.com/chensoul/interview-guide/internal/models"
	"github.com/chensoul/interview-guide/internal/utils"
)

type AnswerHandler struct {
	evaluator *grading.Evaluator
	logger    *zap.Logger
}

func NewAnswerHandler(evaluator *grading.Evaluator, logger *zap.Logger) *AnswerHandler {
	return &AnswerHandler{
		evaluator: evaluator,
		logger:    logger,
	}
}

// SubmitAnswerHandler grades an answer and returns the stored verdict. A
// degraded verdict is still a 200; the response carries the degraded flag.
func (h *AnswerHandler) SubmitAnswerHandler(w http.ResponseWriter, r *http.Request) {
	// Get the validated request from middleware
	req := middleware.GetValidatedRequest[*models.SubmitAnswerRequest](r)

	resp, err := h.evaluator.SubmitAnswer(r.Context(), req)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}

func (h *AnswerHandler) SaveAnswerHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.SaveAnswerRequest](r)

	if err := h.evaluator.SaveAnswer(r.Context(), req); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	utils.JSON(w, http.StatusOK, models.StatusResponse{Status: "saved"})
}
