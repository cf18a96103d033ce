package questions

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chensoul/interview-guide/internal/models"
)

// Options narrows which bank entries a source may pick from.
type Options struct {
	Topics     []string
	Difficulty string
}

// Source supplies the ordered question sequence fixed at session creation.
type Source interface {
	Questions(ctx context.Context, count int, opts Options) ([]models.Question, error)
}

// embedded default bank used when no external question store is configured
//
//go:embed bank.yaml
var bankYAML []byte

type bankEntry struct {
	Prompt     string   `yaml:"prompt"`
	Topics     []string `yaml:"topics"`
	Difficulty string   `yaml:"difficulty"`
}

// StaticSource serves questions from the embedded YAML bank in file order,
// so the same request always yields the same sequence.
type StaticSource struct {
	entries []bankEntry
}

func NewStaticSource() (*StaticSource, error) {
	var bank struct {
		Questions []bankEntry `yaml:"questions"`
	}
	if err := yaml.Unmarshal(bankYAML, &bank); err != nil {
		return nil, fmt.Errorf("failed to parse embedded question bank: %w", err)
	}
	if len(bank.Questions) == 0 {
		return nil, errors.New("embedded question bank is empty")
	}
	return &StaticSource{entries: bank.Questions}, nil
}

func (s *StaticSource) Questions(ctx context.Context, count int, opts Options) ([]models.Question, error) {
	matched := []bankEntry{}
	rest := []bankEntry{}
	for _, e := range s.entries {
		if matches(e, opts) {
			matched = append(matched, e)
		} else {
			rest = append(rest, e)
		}
	}

	// Top up from the unmatched entries when the filter is narrower than
	// the requested count.
	pool := append(matched, rest...)
	if count > len(pool) {
		count = len(pool)
	}

	questions := make([]models.Question, count)
	for i := 0; i < count; i++ {
		questions[i] = models.Question{
			Index:      i,
			Prompt:     pool[i].Prompt,
			Topics:     pool[i].Topics,
			Difficulty: pool[i].Difficulty,
		}
	}
	return questions, nil
}

func matches(e bankEntry, opts Options) bool {
	if opts.Difficulty != "" && !strings.EqualFold(e.Difficulty, opts.Difficulty) {
		return false
	}
	if len(opts.Topics) == 0 {
		return true
	}
	for _, want := range opts.Topics {
		for _, have := range e.Topics {
			if strings.EqualFold(want, have) {
				return true
			}
		}
	}
	return false
}
