package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/chensoul/interview-guide/internal/models"
)

// GormStore keeps sessions in a relational database. The nested question,
// answer and report structures live in JSON columns so one row carries the
// full aggregate.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&models.InterviewSession{}); err != nil {
		return nil, fmt.Errorf("failed to migrate interview sessions: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Get(ctx context.Context, id string) (*models.InterviewSession, error) {
	var session models.InterviewSession
	err := s.db.WithContext(ctx).First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Put inserts the session or replaces every column of the existing row.
func (s *GormStore) Put(ctx context.Context, session *models.InterviewSession) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(session).Error
}

func (s *GormStore) ListUnfinishedByResume(ctx context.Context, resumeID int64) ([]models.InterviewSession, error) {
	sessions := []models.InterviewSession{}
	err := s.db.WithContext(ctx).
		Where("resume_id = ? AND state <> ?", resumeID, models.StateCompleted).
		Order("created_at DESC").
		Find(&sessions).Error
	return sessions, err
}

func (s *GormStore) ListIdleUnfinished(ctx context.Context, cutoff time.Time) ([]models.InterviewSession, error) {
	sessions := []models.InterviewSession{}
	err := s.db.WithContext(ctx).
		Where("state <> ? AND updated_at < ?", models.StateCompleted, cutoff).
		Order("updated_at ASC").
		Find(&sessions).Error
	return sessions, err
}
