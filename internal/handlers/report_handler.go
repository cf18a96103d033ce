package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/chensoul/interview-guide/internal/history"
	"github.com/chensoul/interview-guide/internal/models"
	"github.com/chensoul/interview-guide/internal/session"
	"github.com/chensoul/interview-guide/internal/utils"
)

type ReportHandler struct {
	sessions *session.Manager
	history  *history.Service
	logger   *zap.Logger
}

func NewReportHandler(sessions *session.Manager, historyService *history.Service, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		sessions: sessions,
		history:  historyService,
		logger:   logger,
	}
}

func (h *ReportHandler) GetReportHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	report, err := h.sessions.GenerateReport(r.Context(), sessionID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	utils.JSON(w, http.StatusOK, report)
}

// CompleteInterviewHandler finalizes a session. Completing an already
// completed session answers 200 with the unchanged session.
func (h *ReportHandler) CompleteInterviewHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sess, err := h.sessions.CompleteInterview(r.Context(), sessionID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	utils.JSON(w, http.StatusOK, models.NewSessionResponse(sess))
}

func (h *ReportHandler) GetDetailHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	detail, err := h.history.GetInterviewDetail(r.Context(), sessionID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	utils.JSON(w, http.StatusOK, detail)
}

func (h *ReportHandler) ExportReportHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	result, err := h.history.ExportReport(r.Context(), sessionID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(result.Filename)))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Content)))
	w.WriteHeader(http.StatusOK)
	w.Write(result.Content)
}
