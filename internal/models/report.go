package models

import "time"

// QuestionScore is a per-question line in the aggregated report.
type QuestionScore struct {
	Index    int      `json:"index"`
	Prompt   string   `json:"prompt"`
	Score    *float64 `json:"score,omitempty"`
	Answered bool     `json:"answered"`
	Degraded bool     `json:"degraded"`
}

// Report is the cached aggregation over a session's graded answers.
// It is rebuilt from the records whenever an answer write invalidates it,
// so the same records always produce the same report.
type Report struct {
	SessionID      string          `json:"sessionId"`
	QuestionScores []QuestionScore `json:"questionScores"`
	OverallScore   float64         `json:"overallScore"`
	Summary        string          `json:"summary"`
	// Unanswered flags every index that contributed no score to the
	// overall: questions never submitted and degraded records alike.
	Unanswered  []int     `json:"unanswered"`
	GeneratedAt time.Time `json:"generatedAt"`
}
