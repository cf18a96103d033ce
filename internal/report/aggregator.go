package report

import (
	"fmt"
	"math"
	"time"

	"github.com/chensoul/interview-guide/internal/models"
)

// ScoreStrategy folds the available per-question scores into one overall
// score. Strategies must be pure so cached reports stay reproducible.
type ScoreStrategy interface {
	Name() string
	Overall(scores []float64) float64
}

// MeanStrategy averages all available scores. It is the default.
type MeanStrategy struct{}

func (MeanStrategy) Name() string { return "mean" }

func (MeanStrategy) Overall(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}

// Build aggregates a session's graded answers into a report. Apart from the
// generation timestamp the output is a pure function of the session data:
// degraded records are excluded from the overall score, and every index
// that contributed nothing to it lands in the flag list.
func Build(s *models.InterviewSession, strategy ScoreStrategy) (*models.Report, error) {
	if strategy == nil {
		strategy = MeanStrategy{}
	}

	questionScores := make([]models.QuestionScore, 0, len(s.Questions))
	scores := []float64{}
	flagged := []int{}
	unanswered := 0
	degraded := 0
	bestIdx, worstIdx := -1, -1

	for _, q := range s.Questions {
		qs := models.QuestionScore{Index: q.Index, Prompt: q.Prompt}
		rec, ok := s.AnswerAt(q.Index)
		switch {
		case !ok || !rec.Graded():
			// Drafts count as unanswered until they are submitted.
			flagged = append(flagged, q.Index)
			unanswered++
		case rec.Score != nil:
			qs.Answered = true
			score := *rec.Score
			qs.Score = &score
			if bestIdx < 0 || score > *questionScores[bestIdx].Score {
				bestIdx = len(questionScores)
			}
			if worstIdx < 0 || score < *questionScores[worstIdx].Score {
				worstIdx = len(questionScores)
			}
			scores = append(scores, score)
		default:
			qs.Answered = true
			qs.Degraded = true
			flagged = append(flagged, q.Index)
			degraded++
		}
		questionScores = append(questionScores, qs)
	}

	if len(scores) == 0 {
		return nil, models.NewError(models.KindInsufficientData, "no scored answers to aggregate")
	}

	overall := math.Round(strategy.Overall(scores)*10) / 10

	summary := summarize(overall, len(scores), degraded, unanswered, len(s.Questions))
	if len(scores) >= 2 && bestIdx != worstIdx {
		summary += fmt.Sprintf(" Strongest answer: question %d (%.1f); weakest: question %d (%.1f).",
			questionScores[bestIdx].Index, *questionScores[bestIdx].Score,
			questionScores[worstIdx].Index, *questionScores[worstIdx].Score)
	}

	return &models.Report{
		SessionID:      s.ID,
		QuestionScores: questionScores,
		OverallScore:   overall,
		Summary:        summary,
		Unanswered:     flagged,
		GeneratedAt:    time.Now().UTC(),
	}, nil
}

func summarize(overall float64, scored, degraded, unanswered, total int) string {
	band := "needs significant work"
	switch {
	case overall >= 85:
		band = "strong"
	case overall >= 70:
		band = "solid"
	case overall >= 50:
		band = "developing"
	}

	summary := fmt.Sprintf("Scored %d of %d questions for an overall %.1f (%s).", scored, total, overall, band)
	if unanswered > 0 {
		summary += fmt.Sprintf(" %d question(s) were left unanswered.", unanswered)
	}
	if degraded > 0 {
		summary += fmt.Sprintf(" %d answer(s) could not be auto-graded and were excluded from the average.", degraded)
	}
	return summary
}
