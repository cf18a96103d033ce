package models

// contains all valid question difficulties (in lowercase)
var ValidDifficulties = map[string]bool{
	"easy":   true,
	"medium": true,
	"hard":   true,
}

func ValidDifficultiesList() []string {
	return []string{"easy", "medium", "hard"}
}

const (
	// MaxQuestionCount caps how many questions one session may hold.
	MaxQuestionCount = 20

	// MaxAnswerLength caps submitted answer text so grader prompts stay bounded.
	MaxAnswerLength = 16000
)
