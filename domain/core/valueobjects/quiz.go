package valueobjects

import (
	"encoding/json"
	"fmt"
	"strings"
)

// QuizQuestion is one multiple-choice question. Correct indexes Options.
type QuizQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Correct     int      `json:"correct"`
	Explanation string   `json:"explanation"`
}

// Quiz is the structured payload stored in Content.QuizData
type Quiz struct {
	Questions []QuizQuestion `json:"questions"`
}

// ParseQuiz decodes and validates quiz JSON
func ParseQuiz(data string) (Quiz, error) {
	var q Quiz
	if err := json.Unmarshal([]byte(data), &q); err != nil {
		return Quiz{}, fmt.Errorf("invalid quiz data: %w", err)
	}
	if err := q.Validate(); err != nil {
		return Quiz{}, err
	}
	return q, nil
}

// Validate checks every question has text, two or more options, and a correct index in range
func (q Quiz) Validate() error {
	if len(q.Questions) == 0 {
		return fmt.Errorf("quiz has no questions")
	}
	for i, qq := range q.Questions {
		if strings.TrimSpace(qq.Question) == "" {
			return fmt.Errorf("question %d has no text", i+1)
		}
		if len(qq.Options) < 2 {
			return fmt.Errorf("question %d needs at least two options", i+1)
		}
		if qq.Correct < 0 || qq.Correct >= len(qq.Options) {
			return fmt.Errorf("question %d: correct index %d out of range", i+1, qq.Correct)
		}
	}
	return nil
}

// Score counts the answers that match. Missing answers count as wrong.
func (q Quiz) Score(answers []int) int {
	score := 0
	for i, qq := range q.Questions {
		if i < len(answers) && answers[i] == qq.Correct {
			score++
		}
	}
	return score
}
