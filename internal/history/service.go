package history

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/chensoul/interview-guide/internal/export"
	"github.com/chensoul/interview-guide/internal/metrics"
	"github.com/chensoul/interview-guide/internal/models"
	"github.com/chensoul/interview-guide/internal/session"
)

// Service serves the read side of an interview: the joined detail view and
// the report export.
type Service struct {
	sessions *session.Manager
	renderer export.Renderer
	logger   *zap.Logger
}

func NewService(sessions *session.Manager, renderer export.Renderer, logger *zap.Logger) *Service {
	return &Service{
		sessions: sessions,
		renderer: renderer,
		logger:   logger,
	}
}

// ExportResult is a rendered report ready to send as a download.
type ExportResult struct {
	Filename string
	Content  []byte
}

// GetInterviewDetail joins the session, its per-question records and the
// report. A session whose answers cannot score yet ships without a report;
// that is not an error for the detail view.
func (s *Service) GetInterviewDetail(ctx context.Context, id string) (*models.InterviewDetail, error) {
	report, err := s.sessions.GenerateReport(ctx, id)
	if err != nil && !models.IsKind(err, models.KindInsufficientData) {
		return nil, err
	}

	sess, err := s.sessions.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	items := make([]models.QuestionDetail, len(sess.Questions))
	for i, q := range sess.Questions {
		items[i] = models.QuestionDetail{Question: q}
		if rec, ok := sess.AnswerAt(i); ok {
			recCopy := rec
			items[i].Answer = &recCopy
		}
	}

	return &models.InterviewDetail{
		Session: models.NewSessionResponse(sess),
		Items:   items,
		Report:  report,
	}, nil
}

// ExportReport renders the interview as a PDF. Unlike the detail view, an
// export needs a report, so insufficient data surfaces to the caller.
func (s *Service) ExportReport(ctx context.Context, id string) (*ExportResult, error) {
	if _, err := s.sessions.GenerateReport(ctx, id); err != nil {
		return nil, err
	}

	detail, err := s.GetInterviewDetail(ctx, id)
	if err != nil {
		return nil, err
	}

	content, err := s.renderer.Render(ctx, detail)
	if err != nil {
		return nil, models.WrapError(models.KindRenderFailed, "failed to render report", err)
	}

	metrics.RecordReportExport()
	s.logger.Info("report exported",
		zap.String("session_id", id),
		zap.Int("bytes", len(content)))

	return &ExportResult{
		Filename: fmt.Sprintf("interview_report_%s.pdf", id),
		Content:  content,
	}, nil
}
