package grading

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/chensoul/interview-guide/internal/llm"
	"github.com/chensoul/interview-guide/internal/metrics"
	"github.com/chensoul/interview-guide/internal/models"
	"github.com/chensoul/interview-guide/internal/prompts"
	"github.com/chensoul/interview-guide/internal/session"
)

// DegradedFeedback is the feedback stored when grading ran out of budget
// without producing a usable verdict.
const DegradedFeedback = "grading unavailable"

const (
	// maxProviderCalls caps external calls per submission, the one
	// transient retry included.
	maxProviderCalls = 3
	// degradedAttempts marks a record that consumed the whole pipeline.
	degradedAttempts = 3
)

// Evaluator grades submitted answers. Provider calls run outside any
// session lock; the per-answer in-flight guard keeps a second submission
// for the same question from starting a parallel pipeline.
type Evaluator struct {
	provider llm.Provider
	prompts  prompts.PromptProvider
	sessions *session.Manager
	logger   *zap.Logger

	mu       sync.Mutex
	inFlight map[answerKey]struct{}
}

type answerKey struct {
	sessionID string
	index     int
}

func NewEvaluator(provider llm.Provider, promptProvider prompts.PromptProvider, sessions *session.Manager, logger *zap.Logger) *Evaluator {
	return &Evaluator{
		provider: provider,
		prompts:  promptProvider,
		sessions: sessions,
		logger:   logger,
		inFlight: make(map[answerKey]struct{}),
	}
}

// SubmitAnswer runs the full grading pipeline for one answer and persists
// the outcome. Every submission ends in a stored record: either a graded
// one or, when the budget ran out, a degraded one that still advances the
// interview.
func (e *Evaluator) SubmitAnswer(ctx context.Context, req *models.SubmitAnswerRequest) (*models.SubmitAnswerResponse, error) {
	key := answerKey{sessionID: req.SessionID, index: req.QuestionIndex}
	if !e.begin(key) {
		return nil, models.Errorf(models.KindConflict, "question %d of session %s is already being graded", req.QuestionIndex, req.SessionID)
	}
	defer e.end(key)

	// Check against a snapshot first so a doomed submission never spends
	// a provider call. WriteAnswer re-validates under the session lock.
	snapshot, err := e.sessions.GetSession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if snapshot.State == models.StateCompleted {
		return nil, models.Errorf(models.KindInvalidState, "session %s is already completed", req.SessionID)
	}
	if req.QuestionIndex < 0 || req.QuestionIndex >= len(snapshot.Questions) {
		return nil, models.Errorf(models.KindNotFound, "session %s has no question %d", req.SessionID, req.QuestionIndex)
	}
	if existing, ok := snapshot.AnswerAt(req.QuestionIndex); ok && existing.Graded() {
		return nil, models.Errorf(models.KindConflict, "question %d is already graded", req.QuestionIndex)
	}

	question := snapshot.Questions[req.QuestionIndex]
	prompt, err := e.prompts.BuildPrompt("grading", "default", map[string]string{
		"Question": question.Prompt,
		"Topics":   strings.Join(question.Topics, ", "),
		"Answer":   req.AnswerText,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build grading prompt: %w", err)
	}

	rec := e.grade(ctx, prompt, req.AnswerText)

	updated, err := e.sessions.WriteAnswer(ctx, req.SessionID, req.QuestionIndex, rec)
	if err != nil {
		return nil, err
	}

	outcome := "graded"
	if rec.Degraded() {
		outcome = "degraded"
	}
	metrics.RecordSubmission(outcome)
	e.logger.Info("answer graded",
		zap.String("session_id", req.SessionID),
		zap.Int("question_index", req.QuestionIndex),
		zap.String("outcome", outcome),
		zap.Int("attempts", rec.Attempts))

	return &models.SubmitAnswerResponse{
		SessionID:     req.SessionID,
		QuestionIndex: req.QuestionIndex,
		Score:         rec.Score,
		Feedback:      rec.Feedback,
		Degraded:      rec.Degraded(),
		Attempts:      rec.Attempts,
		Pointer:       updated.Pointer,
		Finished:      updated.Exhausted(),
	}, nil
}

// SaveAnswer stores a draft without grading it.
func (e *Evaluator) SaveAnswer(ctx context.Context, req *models.SaveAnswerRequest) error {
	_, err := e.sessions.WriteDraft(ctx, req.SessionID, req.QuestionIndex, req.AnswerText)
	return err
}

// grade runs the bounded pipeline: grade call, local normalization, at
// most one remote repair round. It always returns a record to store.
func (e *Evaluator) grade(ctx context.Context, prompt, answerText string) models.AnswerRecord {
	calls := 0

	raw, err := e.callProvider(ctx, &calls, func(ctx context.Context) (string, error) {
		return e.provider.Grade(ctx, prompt)
	})
	if err != nil {
		e.logger.Warn("grading call failed", zap.Error(err))
		return degradedRecord(answerText, raw)
	}

	result, attempts, err := Normalize(raw)
	if err == nil {
		if attempts == 2 {
			metrics.RecordRepair("syntactic")
		}
		return gradedRecord(answerText, raw, result, attempts)
	}

	if calls >= maxProviderCalls {
		return degradedRecord(answerText, raw)
	}

	repairPrompt, err := e.prompts.BuildPrompt("repair", "default", nil)
	if err != nil {
		e.logger.Error("repair prompt unavailable", zap.Error(err))
		return degradedRecord(answerText, raw)
	}

	fixed, err := e.callProvider(ctx, &calls, func(ctx context.Context) (string, error) {
		return e.provider.Repair(ctx, repairPrompt, raw)
	})
	if err != nil {
		e.logger.Warn("repair call failed", zap.Error(err))
		return degradedRecord(answerText, raw)
	}

	// Repaired text goes through the local stages again; there is no
	// second remote round.
	result, _, err = Normalize(fixed)
	if err != nil {
		return degradedRecord(answerText, raw)
	}
	metrics.RecordRepair("remote")
	return gradedRecord(answerText, raw, result, degradedAttempts)
}

// callProvider makes one provider call, retrying once when the failure is
// transient and the budget still allows another call.
func (e *Evaluator) callProvider(ctx context.Context, calls *int, do func(context.Context) (string, error)) (string, error) {
	if *calls >= maxProviderCalls {
		return "", models.NewError(models.KindTransientGradingFailure, "grading call budget exhausted")
	}
	*calls++
	raw, err := do(ctx)
	if err == nil {
		return raw, nil
	}
	if !llm.IsTransient(err) || *calls >= maxProviderCalls {
		return "", err
	}
	*calls++
	return do(ctx)
}

func (e *Evaluator) begin(key answerKey) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.inFlight[key]; ok {
		return false
	}
	e.inFlight[key] = struct{}{}
	return true
}

func (e *Evaluator) end(key answerKey) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.inFlight, key)
}

func gradedRecord(answerText, raw string, result *GradeResult, attempts int) models.AnswerRecord {
	now := time.Now().UTC()
	score := math.Min(ScoreMax, math.Max(ScoreMin, result.Score))
	return models.AnswerRecord{
		AnswerText:        answerText,
		RawGraderResponse: raw,
		Score:             &score,
		Feedback:          result.Feedback,
		Attempts:          attempts,
		GradedAt:          &now,
	}
}

func degradedRecord(answerText, raw string) models.AnswerRecord {
	now := time.Now().UTC()
	return models.AnswerRecord{
		AnswerText:        answerText,
		RawGraderResponse: raw,
		Feedback:          DegradedFeedback,
		Attempts:          degradedAttempts,
		GradedAt:          &now,
	}
}
