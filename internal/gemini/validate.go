package gemini

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"quizcraft/internal/models"
)

// ErrEmptyModelResponse is returned when the provider produced no text.
var ErrEmptyModelResponse = errors.New("empty response from model")

// FailureReason tags why a model response was rejected.
type FailureReason string

const (
	ReasonMalformedOutput     FailureReason = "MalformedModelOutput"
	ReasonInvalidShape        FailureReason = "InvalidShape"
	ReasonMissingQuestions    FailureReason = "MissingQuestions"
	ReasonEmptyQuestions      FailureReason = "EmptyQuestions"
	ReasonIncompleteQuestion  FailureReason = "IncompleteQuestion"
	ReasonAnswerNotInOptions  FailureReason = "AnswerNotInOptions"
)

// ValidationError describes a structurally invalid model response.
// Index is the position of the offending question, or -1 when the
// failure is not tied to one question.
type ValidationError struct {
	Reason FailureReason
	Index  int
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonMalformedOutput:
		return "model returned output that is not valid JSON"
	case ReasonInvalidShape:
		return "model returned JSON that is not an object"
	case ReasonMissingQuestions:
		return "model response is missing a questions list"
	case ReasonEmptyQuestions:
		return "model response contains no questions"
	case ReasonIncompleteQuestion:
		return fmt.Sprintf("question %d is incomplete (needs text, at least 2 options, and an answer)", e.Index+1)
	case ReasonAnswerNotInOptions:
		return fmt.Sprintf("question %d has an answer that does not match any option", e.Index+1)
	}
	return string(e.Reason)
}

var (
	fencePattern  = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")
	objectPattern = regexp.MustCompile(`(?s)\{.*\}`)
)

// ParseQuizResponse cleans a raw model response, parses it as JSON, and
// structurally validates it into a QuizDraft. Validation runs in a fixed
// order so each rejection carries a single distinct reason.
func ParseQuizResponse(raw string) (*models.QuizDraft, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, ErrEmptyModelResponse
	}

	// The model is instructed to answer with bare JSON but sometimes
	// wraps it in a markdown code fence anyway.
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		text = m[1]
	}

	var top any
	if err := json.Unmarshal([]byte(text), &top); err != nil {
		// Best effort: reparse the first top-level {...} span.
		span := objectPattern.FindString(text)
		if span == "" || json.Unmarshal([]byte(span), &top) != nil {
			return nil, &ValidationError{Reason: ReasonMalformedOutput, Index: -1}
		}
	}

	obj, ok := top.(map[string]any)
	if !ok || obj == nil {
		return nil, &ValidationError{Reason: ReasonInvalidShape, Index: -1}
	}

	rawQuestions, ok := obj["questions"]
	if !ok {
		return nil, &ValidationError{Reason: ReasonMissingQuestions, Index: -1}
	}
	list, ok := rawQuestions.([]any)
	if !ok {
		return nil, &ValidationError{Reason: ReasonMissingQuestions, Index: -1}
	}
	if len(list) == 0 {
		return nil, &ValidationError{Reason: ReasonEmptyQuestions, Index: -1}
	}

	draft := &models.QuizDraft{Title: "Generated Quiz"}
	if title, ok := obj["title"].(string); ok && strings.TrimSpace(title) != "" {
		draft.Title = strings.TrimSpace(title)
	}

	for i, entry := range list {
		q, err := validateQuestion(entry, i)
		if err != nil {
			return nil, err
		}
		draft.Questions = append(draft.Questions, *q)
	}
	return draft, nil
}

func validateQuestion(entry any, index int) (*models.DraftQuestion, error) {
	m, ok := entry.(map[string]any)
	if !ok {
		return nil, &ValidationError{Reason: ReasonIncompleteQuestion, Index: index}
	}

	text, _ := m["question"].(string)
	answer, _ := m["answer"].(string)
	rawOptions, _ := m["options"].([]any)

	var options []string
	for _, o := range rawOptions {
		s, ok := o.(string)
		if !ok {
			return nil, &ValidationError{Reason: ReasonIncompleteQuestion, Index: index}
		}
		options = append(options, s)
	}

	if strings.TrimSpace(text) == "" || len(options) < 2 || answer == "" {
		return nil, &ValidationError{Reason: ReasonIncompleteQuestion, Index: index}
	}

	// The answer must be copied verbatim from the options: bit-exact
	// string match, not an index.
	found := false
	for _, o := range options {
		if o == answer {
			found = true
			break
		}
	}
	if !found {
		return nil, &ValidationError{Reason: ReasonAnswerNotInOptions, Index: index}
	}

	return &models.DraftQuestion{Question: text, Options: options, Answer: answer}, nil
}
