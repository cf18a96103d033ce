package grading

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/chensoul/interview-guide/internal/models"
)

const (
	// ScoreMin and ScoreMax bound what the grader may award.
	ScoreMin = 0.0
	ScoreMax = 100.0
)

// GradeResult is the structured verdict recovered from grader output.
type GradeResult struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

var trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

// ParseStrict accepts only a complete, well-formed JSON object whose score
// is numeric and in range. Code fences, trailing prose, missing or
// non-numeric scores and out-of-range values all count as parse failures
// and push the pipeline to the next repair stage.
func ParseStrict(raw string) (*GradeResult, error) {
	var payload struct {
		Score    *float64 `json:"score"`
		Feedback string   `json:"feedback"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("not a grading object: %w", err)
	}
	if payload.Score == nil {
		return nil, errors.New("score field missing or non-numeric")
	}
	if *payload.Score < ScoreMin || *payload.Score > ScoreMax {
		return nil, fmt.Errorf("score %v out of range", *payload.Score)
	}
	return &GradeResult{Score: *payload.Score, Feedback: payload.Feedback}, nil
}

// RepairSyntax applies local, deterministic repairs to raw grader output:
// it strips markdown code fences, cuts the text down to the outermost JSON
// object, discards trailing prose, closes unterminated strings and braces
// and removes trailing commas. It never fails; the result simply gets
// re-parsed.
func RepairSyntax(raw string) string {
	text := strings.TrimSpace(raw)

	// Keep whatever sits between the first fence pair, or everything
	// after a lone opening fence.
	if idx := strings.Index(text, "```"); idx >= 0 {
		rest := text[idx+3:]
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 && !strings.ContainsAny(rest[:nl], "{}") {
			// Drop the language tag on the fence line.
			rest = rest[nl+1:]
		}
		if end := strings.Index(rest, "```"); end >= 0 {
			rest = rest[:end]
		}
		text = strings.TrimSpace(rest)
	}

	start := strings.IndexByte(text, '{')
	if start < 0 {
		return text
	}
	text = text[start:]

	// Scan for the matching close of the outermost object, honoring
	// strings and escapes, and cut away anything after it.
	depth, inString, escaped := 0, false, false
scan:
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				text = text[:i+1]
				break scan
			}
		}
	}

	if depth > 0 {
		if inString {
			text += `"`
		}
		text += strings.Repeat("}", depth)
	}

	return trailingCommaRe.ReplaceAllString(text, "$1")
}

// Normalize runs the local stages over raw grader output. The returned
// attempts value counts pipeline stages consumed: 1 for a strict parse, 2
// when syntactic repair recovered the object. When both fail the caller
// owns the one remote repair round that may follow.
func Normalize(raw string) (*GradeResult, int, error) {
	if result, err := ParseStrict(raw); err == nil {
		return result, 1, nil
	}

	if result, err := ParseStrict(RepairSyntax(raw)); err == nil {
		return result, 2, nil
	}

	return nil, 2, models.NewError(models.KindMalformedGradingOutput, "grader output is not a valid grading object")
}
