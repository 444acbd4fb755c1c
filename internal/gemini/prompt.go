package gemini

import "fmt"

// Difficulty labels a requested quiz difficulty.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

const (
	// MinQuestions and MaxQuestions bound the question count of one quiz.
	MinQuestions = 5
	MaxQuestions = 15
	// DefaultQuestions is used when the caller supplies no count.
	DefaultQuestions = 10
)

// SystemPrompt is the fixed system instruction for quiz generation.
const SystemPrompt = `You are an assistant that generates high-quality multiple-choice quiz questions based strictly on the provided source content.`

const userPromptTemplate = `Generate %d %s difficulty multiple-choice questions based on the content below.

Content:
"""
%s
"""

Return ONLY valid JSON with this exact shape:
{
  "title": string,
  "questions": [
    {
      "question": string,
      "options": [string, string, string, string],
      "answer": string
    }
  ]
}
The "answer" value must be copied verbatim from one of the "options" entries.`

// ParseDifficulty maps a raw difficulty string to one of the supported
// labels; anything unrecognized silently falls back to medium.
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s)
	}
	return DifficultyMedium
}

// ClampQuestionCount clamps n to [MinQuestions, MaxQuestions]. Deciding
// what an absent count means is the caller's job; any explicit number,
// zero included, lands on a bound.
func ClampQuestionCount(n int) int {
	if n < MinQuestions {
		return MinQuestions
	}
	if n > MaxQuestions {
		return MaxQuestions
	}
	return n
}

// BuildPrompt renders the system and user instructions for one
// generation call. The source text is embedded verbatim. Purely a
// string-template function: no randomness, no state.
func BuildPrompt(text string, numQuestions int, difficulty Difficulty) (system, user string) {
	return SystemPrompt, fmt.Sprintf(userPromptTemplate, numQuestions, difficulty, text)
}
