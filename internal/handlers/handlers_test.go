package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/chensoul/interview-guide/internal/config"
	"github.com/chensoul/interview-guide/internal/grading"
	"github.com/chensoul/interview-guide/internal/history"
	"github.com/chensoul/interview-guide/internal/models"
	"github.com/chensoul/interview-guide/internal/prompts"
	"github.com/chensoul/interview-guide/internal/questions"
	"github.com/chensoul/interview-guide/internal/session"
	"github.com/chensoul/interview-guide/internal/store"
)

type stubSource struct{}

func (stubSource) Questions(_ context.Context, count int, _ questions.Options) ([]models.Question, error) {
	qs := make([]models.Question, count)
	for i := range qs {
		qs[i] = models.Question{Index: i, Prompt: fmt.Sprintf("question %d", i+1), Topics: []string{"go"}}
	}
	return qs, nil
}

type mockProvider struct {
	gradeFn  func(ctx context.Context, prompt string) (string, error)
	repairFn func(ctx context.Context, prompt, brokenText string) (string, error)
}

func (m *mockProvider) Grade(ctx context.Context, prompt string) (string, error) {
	if m.gradeFn == nil {
		return `{"score": 80, "feedback": "solid"}`, nil
	}
	return m.gradeFn(ctx, prompt)
}

func (m *mockProvider) Repair(ctx context.Context, prompt, brokenText string) (string, error) {
	if m.repairFn == nil {
		return brokenText, nil
	}
	return m.repairFn(ctx, prompt, brokenText)
}

func (m *mockProvider) GetProviderName() string { return "mock" }

type mockRenderer struct {
	renderFn func(ctx context.Context, detail *models.InterviewDetail) ([]byte, error)
}

func (m *mockRenderer) Render(ctx context.Context, detail *models.InterviewDetail) ([]byte, error) {
	if m.renderFn == nil {
		return []byte("%PDF-1.7 test"), nil
	}
	return m.renderFn(ctx, detail)
}

type testStack struct {
	manager  *session.Manager
	store    store.SessionStore
	provider *mockProvider
	renderer *mockRenderer

	session *SessionHandler
	answer  *AnswerHandler
	report  *ReportHandler
	health  *HealthHandler
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	provider := &mockProvider{}
	renderer := &mockRenderer{}
	memStore := store.NewMemStore()
	manager := session.NewManager(memStore, stubSource{}, zap.NewNop())

	promptManager, err := prompts.NewPromptManager()
	if err != nil {
		t.Fatalf("failed to load prompts: %v", err)
	}

	evaluator := grading.NewEvaluator(provider, promptManager, manager, zap.NewNop())
	historyService := history.NewService(manager, renderer, zap.NewNop())
	cfg := &config.Config{Provider: "gemini"}

	return &testStack{
		manager:  manager,
		store:    memStore,
		provider: provider,
		renderer: renderer,
		session:  NewSessionHandler(manager, zap.NewNop()),
		answer:   NewAnswerHandler(evaluator, zap.NewNop()),
		report:   NewReportHandler(manager, historyService, zap.NewNop()),
		health:   NewHealthHandler(provider, promptManager, memStore, cfg),
	}
}

func (ts *testStack) createSession(t *testing.T, resumeID int64, count int) *models.InterviewSession {
	t.Helper()
	sess, err := ts.manager.CreateSession(context.Background(), &models.CreateSessionRequest{
		ResumeID:      resumeID,
		QuestionCount: count,
	})
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return sess
}

func performRequest(handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// paramRequest builds a request whose chi route parameters are preset, so
// handlers reading URL params can run without a mounted router.
func paramRequest(method, target string, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func serve(handlerFunc http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handlerFunc.ServeHTTP(rec, req)
	return rec
}
