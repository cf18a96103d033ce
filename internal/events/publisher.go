package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// InterviewCompletedChannel is the Redis channel downstream consumers
// (resume scoring, notifications) subscribe to.
const InterviewCompletedChannel = "interview_completed"

// InterviewCompletedEvent announces a session reaching COMPLETED.
type InterviewCompletedEvent struct {
	SessionID     string    `json:"sessionId"`
	ResumeID      int64     `json:"resumeId"`
	QuestionCount int       `json:"questionCount"`
	Answered      int       `json:"answered"`
	OverallScore  *float64  `json:"overallScore,omitempty"`
	CompletedAt   time.Time `json:"completedAt"`
}

// Publisher emits lifecycle events. Publishing is fire-and-forget from the
// session's point of view: completion never fails because an event did.
type Publisher interface {
	PublishInterviewCompleted(ctx context.Context, event InterviewCompletedEvent) error
}

// RedisPublisher broadcasts events over a Redis channel.
type RedisPublisher struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewRedisPublisher(rdb *redis.Client, logger *zap.Logger) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, logger: logger}
}

func (p *RedisPublisher) PublishInterviewCompleted(ctx context.Context, event InterviewCompletedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := p.rdb.Publish(ctx, InterviewCompletedChannel, data).Err(); err != nil {
		p.logger.Warn("failed to publish interview completed event",
			zap.String("session_id", event.SessionID),
			zap.Error(err))
		return err
	}
	return nil
}
