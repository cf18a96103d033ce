package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/chensoul/interview-guide/internal/middleware"
	"github.com/chensoul/interview-guide/internal/models"
)

func TestCreateSessionHandler(t *testing.T) {
	ts := newTestStack(t)
	wrapped := middleware.ValidateRequest[*models.CreateSessionRequest]()(http.HandlerFunc(ts.session.CreateSessionHandler))

	rec := performRequest(wrapped, http.MethodPost, "/session", `{"resumeId": 7, "questionCount": 3}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body %s)", rec.Code, rec.Body.String())
	}

	var resp models.SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.QuestionCount != 3 {
		t.Errorf("questionCount = %d, want 3", resp.QuestionCount)
	}
	if resp.State != models.StateCreated {
		t.Errorf("state = %s, want CREATED", resp.State)
	}
	if resp.ID == "" {
		t.Error("response has no session id")
	}
}

func TestCreateSessionHandlerConflict(t *testing.T) {
	ts := newTestStack(t)
	ts.createSession(t, 7, 3)

	wrapped := middleware.ValidateRequest[*models.CreateSessionRequest]()(http.HandlerFunc(ts.session.CreateSessionHandler))
	rec := performRequest(wrapped, http.MethodPost, "/session", `{"resumeId": 7, "questionCount": 3}`)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	var errResp models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if errResp.Code != "conflict" {
		t.Errorf("code = %q, want conflict", errResp.Code)
	}
}

func TestCreateSessionHandlerValidation(t *testing.T) {
	ts := newTestStack(t)
	wrapped := middleware.ValidateRequest[*models.CreateSessionRequest]()(http.HandlerFunc(ts.session.CreateSessionHandler))

	rec := performRequest(wrapped, http.MethodPost, "/session", `{"questionCount": 3}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var errResp models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if errResp.Code != "missing_resume_id" {
		t.Errorf("code = %q, want missing_resume_id", errResp.Code)
	}
}

func TestGetSessionHandler(t *testing.T) {
	ts := newTestStack(t)
	sess := ts.createSession(t, 7, 3)

	rec := serve(ts.session.GetSessionHandler,
		paramRequest(http.MethodGet, "/session/"+sess.ID, map[string]string{"sessionID": sess.ID}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp models.SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.ID != sess.ID {
		t.Errorf("id = %q, want %q", resp.ID, sess.ID)
	}
}

func TestGetSessionHandlerNotFound(t *testing.T) {
	ts := newTestStack(t)

	rec := serve(ts.session.GetSessionHandler,
		paramRequest(http.MethodGet, "/session/missing", map[string]string{"sessionID": "missing"}))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetCurrentQuestionHandler(t *testing.T) {
	ts := newTestStack(t)
	sess := ts.createSession(t, 7, 3)

	rec := serve(ts.session.GetCurrentQuestionHandler,
		paramRequest(http.MethodGet, "/session/"+sess.ID+"/question", map[string]string{"sessionID": sess.ID}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body %s)", rec.Code, rec.Body.String())
	}

	var resp models.QuestionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Question.Index != 0 {
		t.Errorf("question index = %d, want 0", resp.Question.Index)
	}
	if resp.State != models.StateInProgress {
		t.Errorf("state = %s, want IN_PROGRESS after first retrieval", resp.State)
	}
	if resp.Remaining != 3 {
		t.Errorf("remaining = %d, want 3", resp.Remaining)
	}
}

func TestGetCurrentQuestionHandlerCompleted(t *testing.T) {
	ts := newTestStack(t)
	sess := ts.createSession(t, 7, 3)
	if _, err := ts.manager.CompleteInterview(context.Background(), sess.ID); err != nil {
		t.Fatalf("CompleteInterview failed: %v", err)
	}

	rec := serve(ts.session.GetCurrentQuestionHandler,
		paramRequest(http.MethodGet, "/session/"+sess.ID+"/question", map[string]string{"sessionID": sess.ID}))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestFindUnfinishedHandler(t *testing.T) {
	ts := newTestStack(t)
	sess := ts.createSession(t, 9, 3)

	rec := serve(ts.session.FindUnfinishedHandler,
		paramRequest(http.MethodGet, "/unfinished/9", map[string]string{"resumeID": "9"}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp models.SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.ID != sess.ID {
		t.Errorf("id = %q, want %q", resp.ID, sess.ID)
	}
}

func TestFindUnfinishedHandlerBadParam(t *testing.T) {
	ts := newTestStack(t)

	rec := serve(ts.session.FindUnfinishedHandler,
		paramRequest(http.MethodGet, "/unfinished/abc", map[string]string{"resumeID": "abc"}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var errResp models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if errResp.Code != "invalid_resume_id" {
		t.Errorf("code = %q, want invalid_resume_id", errResp.Code)
	}
}

func TestFindUnfinishedHandlerNone(t *testing.T) {
	ts := newTestStack(t)

	rec := serve(ts.session.FindUnfinishedHandler,
		paramRequest(http.MethodGet, "/unfinished/123", map[string]string{"resumeID": "123"}))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
