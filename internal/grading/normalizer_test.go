package grading

import (
	"strings"
	"testing"

	"github.com/chensoul/interview-guide/internal/models"
)

func TestParseStrict(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		score    float64
		feedback string
		wantErr  bool
	}{
		{
			name:     "clean object",
			raw:      `{"score": 85, "feedback": "good coverage of tradeoffs"}`,
			score:    85,
			feedback: "good coverage of tradeoffs",
		},
		{
			name:  "fractional score",
			raw:   `{"score": 72.5, "feedback": "solid"}`,
			score: 72.5,
		},
		{
			name:  "boundary low",
			raw:   `{"score": 0, "feedback": "no answer"}`,
			score: 0,
		},
		{
			name:  "boundary high",
			raw:   `{"score": 100, "feedback": "flawless"}`,
			score: 100,
		},
		{
			name:    "code fence",
			raw:     "```json\n{\"score\": 85, \"feedback\": \"good\"}\n```",
			wantErr: true,
		},
		{
			name:    "leading prose",
			raw:     `Here is the grade: {"score": 85, "feedback": "good"}`,
			wantErr: true,
		},
		{
			name:    "missing score",
			raw:     `{"feedback": "good"}`,
			wantErr: true,
		},
		{
			name:    "string score",
			raw:     `{"score": "85", "feedback": "good"}`,
			wantErr: true,
		},
		{
			name:    "score above range",
			raw:     `{"score": 150, "feedback": "great"}`,
			wantErr: true,
		},
		{
			name:    "negative score",
			raw:     `{"score": -3, "feedback": "poor"}`,
			wantErr: true,
		},
		{
			name:    "empty input",
			raw:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseStrict(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseStrict(%q) succeeded, want error", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStrict(%q) failed: %v", tt.raw, err)
			}
			if result.Score != tt.score {
				t.Errorf("score = %v, want %v", result.Score, tt.score)
			}
			if tt.feedback != "" && result.Feedback != tt.feedback {
				t.Errorf("feedback = %q, want %q", result.Feedback, tt.feedback)
			}
		})
	}
}

func TestRepairSyntax(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "tagged code fence",
			raw:  "```json\n{\"score\": 85, \"feedback\": \"good\"}\n```",
			want: `{"score": 85, "feedback": "good"}`,
		},
		{
			name: "bare code fence",
			raw:  "```\n{\"score\": 85, \"feedback\": \"good\"}\n```",
			want: `{"score": 85, "feedback": "good"}`,
		},
		{
			name: "unclosed fence",
			raw:  "```json\n{\"score\": 85, \"feedback\": \"good\"}",
			want: `{"score": 85, "feedback": "good"}`,
		},
		{
			name: "leading prose",
			raw:  `Sure, here is the grade: {"score": 85, "feedback": "good"}`,
			want: `{"score": 85, "feedback": "good"}`,
		},
		{
			name: "trailing prose",
			raw:  `{"score": 85, "feedback": "good"} Let me know if you need anything else.`,
			want: `{"score": 85, "feedback": "good"}`,
		},
		{
			name: "missing closing brace",
			raw:  `{"score": 85, "feedback": "good"`,
			want: `{"score": 85, "feedback": "good"}`,
		},
		{
			name: "unterminated string",
			raw:  `{"score": 85, "feedback": "good`,
			want: `{"score": 85, "feedback": "good"}`,
		},
		{
			name: "trailing comma",
			raw:  `{"score": 85, "feedback": "good",}`,
			want: `{"score": 85, "feedback": "good"}`,
		},
		{
			name: "braces inside feedback string",
			raw:  `{"score": 85, "feedback": "wrap it in {} and use \"quotes\""} trailing`,
			want: `{"score": 85, "feedback": "wrap it in {} and use \"quotes\""}`,
		},
		{
			name: "no object at all",
			raw:  "I cannot grade this answer.",
			want: "I cannot grade this answer.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RepairSyntax(tt.raw); got != tt.want {
				t.Errorf("RepairSyntax(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeAttemptCounts(t *testing.T) {
	result, attempts, err := Normalize(`{"score": 91, "feedback": "strong"}`)
	if err != nil {
		t.Fatalf("Normalize failed on clean input: %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
	if result.Score != 91 {
		t.Errorf("score = %v, want 91", result.Score)
	}

	result, attempts, err = Normalize("```json\n{\"score\": 64, \"feedback\": \"partial\"}\n``` hope that helps")
	if err != nil {
		t.Fatalf("Normalize failed on fenced input: %v", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
	if result.Score != 64 {
		t.Errorf("score = %v, want 64", result.Score)
	}
}

func TestNormalizeUnrepairable(t *testing.T) {
	for _, raw := range []string{
		"the answer was decent overall",
		`{"score": 150, "feedback": "out of range stays out of range"}`,
		`{"score": "high", "feedback": "non-numeric"}`,
	} {
		result, attempts, err := Normalize(raw)
		if err == nil {
			t.Fatalf("Normalize(%q) succeeded with %+v, want error", raw, result)
		}
		if attempts != 2 {
			t.Errorf("Normalize(%q) attempts = %d, want 2", raw, attempts)
		}
		if !models.IsKind(err, models.KindMalformedGradingOutput) {
			t.Errorf("Normalize(%q) error kind = %v, want malformed grading output", raw, models.KindOf(err))
		}
	}
}

func TestRepairSyntaxThenParse(t *testing.T) {
	// The two stages compose: everything locally repairable must come out
	// of RepairSyntax in a shape ParseStrict accepts.
	raws := []string{
		"```json\n{\"score\": 40, \"feedback\": \"thin on detail\"}\n```",
		`Grade follows. {"score": 40, "feedback": "thin on detail",}`,
		`{"score": 40, "feedback": "thin on detail`,
	}
	for _, raw := range raws {
		result, err := ParseStrict(RepairSyntax(raw))
		if err != nil {
			t.Fatalf("repairing %q: %v", raw, err)
		}
		if result.Score != 40 {
			t.Errorf("repairing %q: score = %v, want 40", raw, result.Score)
		}
		if !strings.HasPrefix(result.Feedback, "thin on detail") {
			t.Errorf("repairing %q: feedback = %q", raw, result.Feedback)
		}
	}
}
