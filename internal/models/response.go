package models

import "time"

// uniform error responses
type ErrorResponse struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Details []ValidationErrorDetail `json:"details,omitempty"`
}

// single field validation error
type ValidationErrorDetail struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// implements the error interface so Validate() can return it directly
func (e *ErrorResponse) Error() string {
	return e.Message
}

// SessionResponse is the session summary returned by the session endpoints.
// Question prompts are served one at a time through the question endpoint.
type SessionResponse struct {
	ID            string       `json:"id"`
	ResumeID      int64        `json:"resumeId"`
	State         SessionState `json:"state"`
	Pointer       int          `json:"pointer"`
	QuestionCount int          `json:"questionCount"`
	Answered      int          `json:"answered"`
	CreatedAt     time.Time    `json:"createdAt"`
	CompletedAt   *time.Time   `json:"completedAt,omitempty"`
}

// NewSessionResponse projects a stored session into its API summary.
func NewSessionResponse(s *InterviewSession) SessionResponse {
	return SessionResponse{
		ID:            s.ID,
		ResumeID:      s.ResumeID,
		State:         s.State,
		Pointer:       s.Pointer,
		QuestionCount: len(s.Questions),
		Answered:      s.GradedCount(),
		CreatedAt:     s.CreatedAt,
		CompletedAt:   s.CompletedAt,
	}
}

// QuestionResponse carries the question currently pointed at.
type QuestionResponse struct {
	SessionID string       `json:"sessionId"`
	State     SessionState `json:"state"`
	Question  Question     `json:"question"`
	Remaining int          `json:"remaining"`
}

// SubmitAnswerResponse reports the grading outcome for one answer. Degraded
// is true when the grader output never became usable and the answer was
// recorded without a score.
type SubmitAnswerResponse struct {
	SessionID     string   `json:"sessionId"`
	QuestionIndex int      `json:"questionIndex"`
	Score         *float64 `json:"score,omitempty"`
	Feedback      string   `json:"feedback,omitempty"`
	Degraded      bool     `json:"degraded"`
	Attempts      int      `json:"attempts"`
	Pointer       int      `json:"pointer"`
	Finished      bool     `json:"finished"`
}

// StatusResponse acknowledges writes that return no payload.
type StatusResponse struct {
	Status string `json:"status"`
}

// QuestionDetail pairs a question with whatever record exists for it.
type QuestionDetail struct {
	Question Question      `json:"question"`
	Answer   *AnswerRecord `json:"answer,omitempty"`
}

// InterviewDetail is the read-only projection joining session, answers and
// report. It backs both the detail endpoint and the export renderer.
type InterviewDetail struct {
	Session SessionResponse  `json:"session"`
	Items   []QuestionDetail `json:"items"`
	Report  *Report          `json:"report,omitempty"`
}
