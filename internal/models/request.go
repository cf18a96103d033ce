package models

import (
	"strconv"
	"strings"
)

type CreateSessionRequest struct {
	ResumeID      int64    `json:"resumeId"`
	QuestionCount int      `json:"questionCount"`
	Topics        []string `json:"topics,omitempty"`
	Difficulty    string   `json:"difficulty,omitempty"`
}

// implements the Validator interface
func (r *CreateSessionRequest) Validate() error {
	if r.ResumeID <= 0 {
		return &ErrorResponse{
			Code:    "missing_resume_id",
			Message: "resumeId must be a positive integer",
		}
	}

	if r.QuestionCount <= 0 {
		return &ErrorResponse{
			Code:    "missing_question_count",
			Message: "questionCount must be at least 1",
		}
	}

	if r.QuestionCount > MaxQuestionCount {
		return &ErrorResponse{
			Code:    "question_count_too_large",
			Message: "questionCount must not exceed " + strconv.Itoa(MaxQuestionCount),
		}
	}

	r.Difficulty = strings.ToLower(strings.TrimSpace(r.Difficulty))
	if r.Difficulty != "" && !ValidDifficulties[r.Difficulty] {
		return &ErrorResponse{
			Code:    "invalid_difficulty",
			Message: "Difficulty must be one of: " + strings.Join(ValidDifficultiesList(), ", "),
		}
	}

	return nil
}

type SubmitAnswerRequest struct {
	SessionID     string `json:"sessionId"`
	QuestionIndex int    `json:"questionIndex"`
	AnswerText    string `json:"answerText"`
}

// implements the Validator interface
func (r *SubmitAnswerRequest) Validate() error {
	if r.SessionID == "" {
		return &ErrorResponse{
			Code:    "missing_session_id",
			Message: "sessionId field is required",
		}
	}

	if r.QuestionIndex < 0 {
		return &ErrorResponse{
			Code:    "invalid_question_index",
			Message: "questionIndex must not be negative",
		}
	}

	if strings.TrimSpace(r.AnswerText) == "" {
		return &ErrorResponse{
			Code:    "missing_answer_text",
			Message: "answerText field is required",
		}
	}

	if len(r.AnswerText) > MaxAnswerLength {
		return &ErrorResponse{
			Code:    "answer_too_long",
			Message: "answerText must not exceed " + strconv.Itoa(MaxAnswerLength) + " characters",
		}
	}

	return nil
}

// SaveAnswerRequest stores a draft without grading, so empty text is allowed
// and clears a previous draft.
type SaveAnswerRequest struct {
	SessionID     string `json:"sessionId"`
	QuestionIndex int    `json:"questionIndex"`
	AnswerText    string `json:"answerText"`
}

// implements the Validator interface
func (r *SaveAnswerRequest) Validate() error {
	if r.SessionID == "" {
		return &ErrorResponse{
			Code:    "missing_session_id",
			Message: "sessionId field is required",
		}
	}

	if r.QuestionIndex < 0 {
		return &ErrorResponse{
			Code:    "invalid_question_index",
			Message: "questionIndex must not be negative",
		}
	}

	if len(r.AnswerText) > MaxAnswerLength {
		return &ErrorResponse{
			Code:    "answer_too_long",
			Message: "answerText must not exceed " + strconv.Itoa(MaxAnswerLength) + " characters",
		}
	}

	return nil
}
