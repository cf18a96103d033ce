package store

import (
	"context"
	"errors"
	"time"

	"github.com/chensoul/interview-guide/internal/models"
)

// ErrNotFound is returned when no session exists for the given id.
var ErrNotFound = errors.New("session not found")

// SessionStore persists interview sessions. A session row is one unit of
// storage: Put replaces the whole aggregate, so callers must serialize
// writes to the same session themselves.
type SessionStore interface {
	Get(ctx context.Context, id string) (*models.InterviewSession, error)
	Put(ctx context.Context, session *models.InterviewSession) error
	ListUnfinishedByResume(ctx context.Context, resumeID int64) ([]models.InterviewSession, error)
	ListIdleUnfinished(ctx context.Context, cutoff time.Time) ([]models.InterviewSession, error)
}
