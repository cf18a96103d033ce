package models

import "time"

// SessionState is the lifecycle state of an interview session.
// Transitions only move forward: CREATED -> IN_PROGRESS -> COMPLETED.
type SessionState string

const (
	StateCreated    SessionState = "CREATED"
	StateInProgress SessionState = "IN_PROGRESS"
	StateCompleted  SessionState = "COMPLETED"
)

// Question is one entry in a session's fixed, ordered question sequence.
type Question struct {
	Index      int      `json:"index"`
	Prompt     string   `json:"prompt"`
	Topics     []string `json:"topics,omitempty"`
	Difficulty string   `json:"difficulty,omitempty"`
}

// AnswerRecord is the stored outcome for one question. A record without
// GradedAt is a draft saved via save-answer; a graded record with a nil
// Score is a degraded record written after the grading budget ran out.
type AnswerRecord struct {
	AnswerText        string     `json:"answerText"`
	RawGraderResponse string     `json:"rawGraderResponse,omitempty"`
	Score             *float64   `json:"score,omitempty"`
	Feedback          string     `json:"feedback,omitempty"`
	Attempts          int        `json:"attempts"`
	GradedAt          *time.Time `json:"gradedAt,omitempty"`
}

// Graded reports whether the record went through grading, successfully or not.
func (r AnswerRecord) Graded() bool {
	return r.GradedAt != nil
}

// Degraded reports whether grading finished without a usable score.
func (r AnswerRecord) Degraded() bool {
	return r.GradedAt != nil && r.Score == nil
}

// InterviewSession is the aggregate persisted per interview. Questions,
// Answers and Report are stored as JSON columns so the row stays a single
// unit of storage.
type InterviewSession struct {
	ID          string               `gorm:"primaryKey" json:"id"`
	ResumeID    int64                `gorm:"index;not null" json:"resumeId"`
	Questions   []Question           `gorm:"serializer:json" json:"questions"`
	Pointer     int                  `gorm:"not null;default:0" json:"pointer"`
	Answers     map[int]AnswerRecord `gorm:"serializer:json" json:"answers"`
	State       SessionState         `gorm:"index;not null" json:"state"`
	Report      *Report              `gorm:"serializer:json" json:"report,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
	CompletedAt *time.Time           `json:"completedAt,omitempty"`
}

// AnswerAt returns the record for a question index, tolerating a nil map.
func (s *InterviewSession) AnswerAt(idx int) (AnswerRecord, bool) {
	if s.Answers == nil {
		return AnswerRecord{}, false
	}
	rec, ok := s.Answers[idx]
	return rec, ok
}

// NextUngraded returns the smallest index >= from without a graded record,
// or the question count when every remaining question is graded.
func (s *InterviewSession) NextUngraded(from int) int {
	idx := from
	for idx < len(s.Questions) {
		if rec, ok := s.AnswerAt(idx); !ok || !rec.Graded() {
			return idx
		}
		idx++
	}
	return len(s.Questions)
}

// Exhausted reports whether the pointer has moved past the last question.
func (s *InterviewSession) Exhausted() bool {
	return s.Pointer >= len(s.Questions)
}

// GradedCount returns how many questions carry a graded record.
func (s *InterviewSession) GradedCount() int {
	n := 0
	for _, rec := range s.Answers {
		if rec.Graded() {
			n++
		}
	}
	return n
}
