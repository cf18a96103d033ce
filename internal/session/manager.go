package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chensoul/interview-guide/internal/events"
	"github.com/chensoul/interview-guide/internal/metrics"
	"github.com/chensoul/interview-guide/internal/models"
	"github.com/chensoul/interview-guide/internal/questions"
	"github.com/chensoul/interview-guide/internal/report"
	"github.com/chensoul/interview-guide/internal/store"
)

// Manager owns the session lifecycle: creation, question serving, answer
// write-back, completion and report caching. Every mutation of one session
// runs under that session's mutex; nothing here calls the grading provider,
// so the locks are only ever held around store round-trips.
type Manager struct {
	store    store.SessionStore
	source   questions.Source
	strategy report.ScoreStrategy
	logger   *zap.Logger

	locks *lockTable

	// mu guards the resume index. activeByResume maps a resume to its one
	// unfinished session so resume lookups skip the store scan.
	mu             sync.Mutex
	activeByResume map[int64]string

	publisher events.Publisher
}

func NewManager(sessionStore store.SessionStore, source questions.Source, logger *zap.Logger) *Manager {
	return &Manager{
		store:          sessionStore,
		source:         source,
		strategy:       report.MeanStrategy{},
		logger:         logger,
		locks:          newLockTable(),
		activeByResume: make(map[int64]string),
	}
}

// SetPublisher wires an optional completion event publisher.
func (m *Manager) SetPublisher(p events.Publisher) {
	m.publisher = p
}

// SetScoreStrategy overrides the default mean aggregation.
func (m *Manager) SetScoreStrategy(s report.ScoreStrategy) {
	m.strategy = s
}

// CreateSession fixes the question sequence and registers the session as
// the resume's single unfinished interview. A resume with an unfinished
// session gets a conflict, never a second session.
func (m *Manager) CreateSession(ctx context.Context, req *models.CreateSessionRequest) (*models.InterviewSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existingID, ok := m.activeByResume[req.ResumeID]; ok {
		existing, err := m.store.Get(ctx, existingID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("failed to check existing session: %w", err)
		}
		if err == nil && existing.State != models.StateCompleted {
			return nil, models.Errorf(models.KindConflict, "resume %d already has unfinished session %s", req.ResumeID, existingID)
		}
		delete(m.activeByResume, req.ResumeID)
	} else {
		// Cold index, e.g. after a restart. The store is the authority.
		unfinished, err := m.store.ListUnfinishedByResume(ctx, req.ResumeID)
		if err != nil {
			return nil, fmt.Errorf("failed to list unfinished sessions: %w", err)
		}
		if len(unfinished) > 0 {
			m.activeByResume[req.ResumeID] = unfinished[0].ID
			return nil, models.Errorf(models.KindConflict, "resume %d already has unfinished session %s", req.ResumeID, unfinished[0].ID)
		}
	}

	qs, err := m.source.Questions(ctx, req.QuestionCount, questions.Options{
		Topics:     req.Topics,
		Difficulty: req.Difficulty,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to pick questions: %w", err)
	}
	if len(qs) == 0 {
		return nil, models.NewError(models.KindInvalidState, "question source returned no questions")
	}

	session := &models.InterviewSession{
		ID:        uuid.New().String(),
		ResumeID:  req.ResumeID,
		Questions: qs,
		Answers:   map[int]models.AnswerRecord{},
		State:     models.StateCreated,
		CreatedAt: time.Now().UTC(),
	}

	if err := m.store.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	m.activeByResume[req.ResumeID] = session.ID
	metrics.RecordSessionCreated()

	m.logger.Info("interview session created",
		zap.String("session_id", session.ID),
		zap.Int64("resume_id", req.ResumeID),
		zap.Int("questions", len(qs)))
	return session, nil
}

// GetSession loads a session without taking its lock.
func (m *Manager) GetSession(ctx context.Context, id string) (*models.InterviewSession, error) {
	session, err := m.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, models.Errorf(models.KindNotFound, "session %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return session, nil
}

// GetCurrentQuestion serves the question at the pointer and moves a fresh
// session into IN_PROGRESS on first retrieval.
func (m *Manager) GetCurrentQuestion(ctx context.Context, id string) (models.Question, *models.InterviewSession, error) {
	mu := m.locks.acquire(id)
	defer mu.Unlock()

	session, err := m.GetSession(ctx, id)
	if err != nil {
		return models.Question{}, nil, err
	}

	if session.State == models.StateCompleted {
		return models.Question{}, nil, models.Errorf(models.KindInvalidState, "session %s is already completed", id)
	}
	if session.Exhausted() {
		return models.Question{}, nil, models.Errorf(models.KindInvalidState, "session %s has no ungraded questions left", id)
	}

	if session.State == models.StateCreated {
		session.State = models.StateInProgress
		if err := m.store.Put(ctx, session); err != nil {
			return models.Question{}, nil, fmt.Errorf("failed to persist session: %w", err)
		}
	}

	return session.Questions[session.Pointer], session, nil
}

// FindUnfinishedSession returns the resume's single unfinished session.
// The index answers most lookups; a stale or cold entry falls back to the
// store and repairs the index.
func (m *Manager) FindUnfinishedSession(ctx context.Context, resumeID int64) (*models.InterviewSession, error) {
	m.mu.Lock()
	id, ok := m.activeByResume[resumeID]
	m.mu.Unlock()

	if ok {
		session, err := m.store.Get(ctx, id)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("failed to load session: %w", err)
		}
		if err == nil && session.State != models.StateCompleted {
			return session, nil
		}

		m.mu.Lock()
		if m.activeByResume[resumeID] == id {
			delete(m.activeByResume, resumeID)
		}
		m.mu.Unlock()
	}

	unfinished, err := m.store.ListUnfinishedByResume(ctx, resumeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unfinished sessions: %w", err)
	}
	if len(unfinished) == 0 {
		return nil, models.Errorf(models.KindNotFound, "no unfinished session for resume %d", resumeID)
	}

	session := unfinished[0]
	m.mu.Lock()
	m.activeByResume[resumeID] = session.ID
	m.mu.Unlock()
	return &session, nil
}

// CompleteInterview moves a session to COMPLETED. The call is idempotent:
// completing a completed session returns it unchanged. A session whose
// answers cannot produce a report still completes; the report endpoint
// surfaces the shortfall instead.
func (m *Manager) CompleteInterview(ctx context.Context, id string) (*models.InterviewSession, error) {
	session, transitioned, err := m.completeLocked(ctx, id)
	if err != nil {
		return nil, err
	}
	if !transitioned {
		return session, nil
	}

	m.publishCompleted(ctx, session)
	metrics.RecordSessionCompleted()
	m.logger.Info("interview session completed",
		zap.String("session_id", id),
		zap.Int64("resume_id", session.ResumeID),
		zap.Int("answered", session.GradedCount()))
	return session, nil
}

func (m *Manager) completeLocked(ctx context.Context, id string) (*models.InterviewSession, bool, error) {
	mu := m.locks.acquire(id)
	defer mu.Unlock()

	session, err := m.GetSession(ctx, id)
	if err != nil {
		return nil, false, err
	}

	if session.State == models.StateCompleted {
		return session, false, nil
	}

	if session.Report == nil {
		rep, err := report.Build(session, m.strategy)
		switch {
		case err == nil:
			session.Report = rep
		case models.IsKind(err, models.KindInsufficientData):
			m.logger.Info("completing session without report",
				zap.String("session_id", id))
		default:
			return nil, false, err
		}
	}

	now := time.Now().UTC()
	session.State = models.StateCompleted
	session.CompletedAt = &now

	if err := m.store.Put(ctx, session); err != nil {
		return nil, false, fmt.Errorf("failed to persist session: %w", err)
	}

	m.mu.Lock()
	if m.activeByResume[session.ResumeID] == id {
		delete(m.activeByResume, session.ResumeID)
	}
	m.mu.Unlock()
	m.locks.drop(id)

	return session, true, nil
}

func (m *Manager) publishCompleted(ctx context.Context, session *models.InterviewSession) {
	if m.publisher == nil {
		return
	}

	event := events.InterviewCompletedEvent{
		SessionID:     session.ID,
		ResumeID:      session.ResumeID,
		QuestionCount: len(session.Questions),
		Answered:      session.GradedCount(),
		CompletedAt:   *session.CompletedAt,
	}
	if session.Report != nil {
		overall := session.Report.OverallScore
		event.OverallScore = &overall
	}

	// Fire and forget: a dropped event never blocks completion.
	if err := m.publisher.PublishInterviewCompleted(ctx, event); err != nil {
		m.logger.Warn("completion event dropped",
			zap.String("session_id", session.ID),
			zap.Error(err))
	}
}

// GenerateReport returns the cached report or builds and caches one from
// the current records.
func (m *Manager) GenerateReport(ctx context.Context, id string) (*models.Report, error) {
	mu := m.locks.acquire(id)
	defer mu.Unlock()

	session, err := m.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.Report != nil {
		return session.Report, nil
	}

	rep, err := report.Build(session, m.strategy)
	if err != nil {
		return nil, err
	}

	session.Report = rep
	if err := m.store.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to cache report: %w", err)
	}
	return rep, nil
}

// WriteAnswer finalizes a graded record. The caller grades outside any
// lock, so the session is re-validated here before the write, the pointer
// advance and the report invalidation happen atomically under the lock.
func (m *Manager) WriteAnswer(ctx context.Context, id string, questionIndex int, rec models.AnswerRecord) (*models.InterviewSession, error) {
	mu := m.locks.acquire(id)
	defer mu.Unlock()

	session, err := m.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.State == models.StateCompleted {
		return nil, models.Errorf(models.KindInvalidState, "session %s is already completed", id)
	}
	if questionIndex < 0 || questionIndex >= len(session.Questions) {
		return nil, models.Errorf(models.KindNotFound, "session %s has no question %d", id, questionIndex)
	}
	if existing, ok := session.AnswerAt(questionIndex); ok && existing.Graded() {
		return nil, models.Errorf(models.KindConflict, "question %d is already graded", questionIndex)
	}

	if session.Answers == nil {
		session.Answers = map[int]models.AnswerRecord{}
	}
	session.Answers[questionIndex] = rec

	// Answering out of order leaves the pointer alone; answering the
	// pointed question advances it past everything already graded.
	if questionIndex == session.Pointer {
		session.Pointer = session.NextUngraded(session.Pointer)
	}
	if session.State == models.StateCreated {
		session.State = models.StateInProgress
	}
	session.Report = nil

	if err := m.store.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist answer: %w", err)
	}
	return session, nil
}

// WriteDraft stores answer text without grading. Drafts overwrite freely;
// a graded record never loses to a draft.
func (m *Manager) WriteDraft(ctx context.Context, id string, questionIndex int, text string) (*models.InterviewSession, error) {
	mu := m.locks.acquire(id)
	defer mu.Unlock()

	session, err := m.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.State == models.StateCompleted {
		return nil, models.Errorf(models.KindInvalidState, "session %s is already completed", id)
	}
	if questionIndex < 0 || questionIndex >= len(session.Questions) {
		return nil, models.Errorf(models.KindNotFound, "session %s has no question %d", id, questionIndex)
	}
	if existing, ok := session.AnswerAt(questionIndex); ok && existing.Graded() {
		return nil, models.Errorf(models.KindConflict, "question %d is already graded", questionIndex)
	}

	if session.Answers == nil {
		session.Answers = map[int]models.AnswerRecord{}
	}
	session.Answers[questionIndex] = models.AnswerRecord{AnswerText: text}
	session.Report = nil

	if err := m.store.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist draft: %w", err)
	}
	return session, nil
}
