package history

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/chensoul/interview-guide/internal/models"
	"github.com/chensoul/interview-guide/internal/questions"
	"github.com/chensoul/interview-guide/internal/session"
	"github.com/chensoul/interview-guide/internal/store"
)

type stubSource struct{}

func (stubSource) Questions(_ context.Context, count int, _ questions.Options) ([]models.Question, error) {
	qs := make([]models.Question, count)
	for i := range qs {
		qs[i] = models.Question{Index: i, Prompt: fmt.Sprintf("question %d", i+1)}
	}
	return qs, nil
}

type stubRenderer struct {
	renderFunc func(ctx context.Context, detail *models.InterviewDetail) ([]byte, error)
	calls      int
}

func (r *stubRenderer) Render(ctx context.Context, detail *models.InterviewDetail) ([]byte, error) {
	r.calls++
	if r.renderFunc != nil {
		return r.renderFunc(ctx, detail)
	}
	return []byte("%PDF-1.7 stub"), nil
}

func newTestService(t *testing.T, renderer *stubRenderer) (*Service, *session.Manager, *models.InterviewSession) {
	t.Helper()

	manager := session.NewManager(store.NewMemStore(), stubSource{}, zap.NewNop())
	svc := NewService(manager, renderer, zap.NewNop())

	sess, err := manager.CreateSession(context.Background(), &models.CreateSessionRequest{
		ResumeID:      7,
		QuestionCount: 3,
	})
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return svc, manager, sess
}

func gradedRecord(text string, score float64) models.AnswerRecord {
	now := time.Now().UTC()
	return models.AnswerRecord{
		AnswerText: text,
		Score:      &score,
		Feedback:   "fine",
		Attempts:   1,
		GradedAt:   &now,
	}
}

func TestGetInterviewDetail(t *testing.T) {
	svc, manager, sess := newTestService(t, &stubRenderer{})
	ctx := context.Background()

	if _, err := manager.WriteAnswer(ctx, sess.ID, 0, gradedRecord("first", 80)); err != nil {
		t.Fatalf("WriteAnswer failed: %v", err)
	}
	if _, err := manager.WriteDraft(ctx, sess.ID, 1, "draft in progress"); err != nil {
		t.Fatalf("WriteDraft failed: %v", err)
	}

	detail, err := svc.GetInterviewDetail(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetInterviewDetail failed: %v", err)
	}

	if len(detail.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(detail.Items))
	}
	if detail.Items[0].Answer == nil || !detail.Items[0].Answer.Graded() {
		t.Error("graded record missing from item 0")
	}
	if detail.Items[1].Answer == nil || detail.Items[1].Answer.Graded() {
		t.Error("draft missing or marked graded on item 1")
	}
	if detail.Items[2].Answer != nil {
		t.Error("unanswered item 2 carries a record")
	}
	if detail.Report == nil {
		t.Fatal("detail missing report despite a graded answer")
	}
	if detail.Report.OverallScore != 80 {
		t.Errorf("overall = %v, want 80", detail.Report.OverallScore)
	}
	if detail.Session.Answered != 1 {
		t.Errorf("answered = %d, want 1", detail.Session.Answered)
	}
}

func TestGetInterviewDetailWithoutScores(t *testing.T) {
	svc, _, sess := newTestService(t, &stubRenderer{})

	detail, err := svc.GetInterviewDetail(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("GetInterviewDetail failed: %v", err)
	}
	if detail.Report != nil {
		t.Error("report present for a session with no graded answers")
	}
	if len(detail.Items) != 3 {
		t.Errorf("items = %d, want 3", len(detail.Items))
	}
}

func TestGetInterviewDetailUnknownSession(t *testing.T) {
	svc, _, _ := newTestService(t, &stubRenderer{})

	_, err := svc.GetInterviewDetail(context.Background(), "missing")
	if !models.IsKind(err, models.KindNotFound) {
		t.Fatalf("error kind = %v, want not found", models.KindOf(err))
	}
}

func TestExportReport(t *testing.T) {
	renderer := &stubRenderer{}
	svc, manager, sess := newTestService(t, renderer)
	ctx := context.Background()

	if _, err := manager.WriteAnswer(ctx, sess.ID, 0, gradedRecord("first", 90)); err != nil {
		t.Fatalf("WriteAnswer failed: %v", err)
	}

	result, err := svc.ExportReport(ctx, sess.ID)
	if err != nil {
		t.Fatalf("ExportReport failed: %v", err)
	}
	if result.Filename != "interview_report_"+sess.ID+".pdf" {
		t.Errorf("filename = %q", result.Filename)
	}
	if len(result.Content) == 0 {
		t.Error("export produced no content")
	}
	if renderer.calls != 1 {
		t.Errorf("renderer calls = %d, want 1", renderer.calls)
	}
}

func TestExportReportInsufficientData(t *testing.T) {
	renderer := &stubRenderer{}
	svc, _, sess := newTestService(t, renderer)

	_, err := svc.ExportReport(context.Background(), sess.ID)
	if !models.IsKind(err, models.KindInsufficientData) {
		t.Fatalf("error kind = %v, want insufficient data", models.KindOf(err))
	}
	if renderer.calls != 0 {
		t.Errorf("renderer calls = %d, want 0 when no report can be built", renderer.calls)
	}
}

func TestExportReportRenderFailure(t *testing.T) {
	renderer := &stubRenderer{
		renderFunc: func(context.Context, *models.InterviewDetail) ([]byte, error) {
			return nil, errors.New("chromium went away")
		},
	}
	svc, manager, sess := newTestService(t, renderer)
	ctx := context.Background()

	if _, err := manager.WriteAnswer(ctx, sess.ID, 0, gradedRecord("first", 60)); err != nil {
		t.Fatalf("WriteAnswer failed: %v", err)
	}

	_, err := svc.ExportReport(ctx, sess.ID)
	if !models.IsKind(err, models.KindRenderFailed) {
		t.Fatalf("error kind = %v, want render failed", models.KindOf(err))
	}
}
