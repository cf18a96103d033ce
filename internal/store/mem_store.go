package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/chensoul/interview-guide/internal/models"
)

// MemStore is an in-memory SessionStore for tests and single-node setups.
// Sessions are cloned on the way in and out so callers never share state
// with the store.
type MemStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.InterviewSession
}

func NewMemStore() *MemStore {
	return &MemStore{sessions: make(map[string]*models.InterviewSession)}
}

func (s *MemStore) Get(ctx context.Context, id string) (*models.InterviewSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneSession(session), nil
}

func (s *MemStore) Put(ctx context.Context, session *models.InterviewSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := cloneSession(session)
	now := time.Now()
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = now
	}
	copied.UpdatedAt = now
	s.sessions[copied.ID] = copied
	return nil
}

func (s *MemStore) ListUnfinishedByResume(ctx context.Context, resumeID int64) ([]models.InterviewSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := []models.InterviewSession{}
	for _, session := range s.sessions {
		if session.ResumeID == resumeID && session.State != models.StateCompleted {
			matches = append(matches, *cloneSession(session))
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches, nil
}

func (s *MemStore) ListIdleUnfinished(ctx context.Context, cutoff time.Time) ([]models.InterviewSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := []models.InterviewSession{}
	for _, session := range s.sessions {
		if session.State != models.StateCompleted && session.UpdatedAt.Before(cutoff) {
			matches = append(matches, *cloneSession(session))
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].UpdatedAt.Before(matches[j].UpdatedAt)
	})
	return matches, nil
}

func cloneSession(s *models.InterviewSession) *models.InterviewSession {
	copied := *s

	if s.Questions != nil {
		copied.Questions = make([]models.Question, len(s.Questions))
		for i, q := range s.Questions {
			copied.Questions[i] = q
			if q.Topics != nil {
				copied.Questions[i].Topics = append([]string(nil), q.Topics...)
			}
		}
	}

	if s.Answers != nil {
		copied.Answers = make(map[int]models.AnswerRecord, len(s.Answers))
		for idx, rec := range s.Answers {
			copied.Answers[idx] = cloneAnswer(rec)
		}
	}

	if s.CompletedAt != nil {
		completedAt := *s.CompletedAt
		copied.CompletedAt = &completedAt
	}

	if s.Report != nil {
		copied.Report = cloneReport(s.Report)
	}

	return &copied
}

func cloneAnswer(rec models.AnswerRecord) models.AnswerRecord {
	copied := rec
	if rec.Score != nil {
		score := *rec.Score
		copied.Score = &score
	}
	if rec.GradedAt != nil {
		gradedAt := *rec.GradedAt
		copied.GradedAt = &gradedAt
	}
	return copied
}

func cloneReport(r *models.Report) *models.Report {
	copied := *r
	copied.QuestionScores = make([]models.QuestionScore, len(r.QuestionScores))
	for i, qs := range r.QuestionScores {
		copied.QuestionScores[i] = qs
		if qs.Score != nil {
			score := *qs.Score
			copied.QuestionScores[i].Score = &score
		}
	}
	if r.Unanswered != nil {
		copied.Unanswered = append([]int(nil), r.Unanswered...)
	}
	return &copied
}
