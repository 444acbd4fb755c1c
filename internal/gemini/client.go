package gemini

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"

	"quizcraft/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ModelName is the Gemini model used for quiz generation.
const ModelName = "gemini-2.0-flash"

// ErrMissingAPIKey is surfaced per request rather than at startup, so a
// misconfigured deployment still serves everything that does not need
// the model.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY environment variable not set")

// Client wraps the Gemini client. Generation is a single synchronous
// attempt per request: no retries, no backoff.
type Client struct {
	apiKey string

	mu     sync.Mutex
	client *genai.Client
}

// NewClient creates a new Gemini client. The API key is read here but
// only enforced on first use.
func NewClient() *Client {
	return &Client{apiKey: os.Getenv("GEMINI_API_KEY")}
}

// Close closes the underlying client if one was ever created.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		c.client.Close()
	}
}

func (c *Client) model(ctx context.Context) (*genai.GenerativeModel, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		client, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		c.client = client
	}

	model := c.client.GenerativeModel(ModelName)
	model.ResponseMIMEType = "application/json"
	// Low temperature biases toward deterministic output.
	model.SetTemperature(0.2)
	model.SetTopK(40)
	model.SetTopP(0.95)
	return model, nil
}

// GenerateQuiz builds the prompt for the given normalized text, issues
// one generation call, and validates the response into a QuizDraft.
func (c *Client) GenerateQuiz(ctx context.Context, text string, numQuestions int, difficulty Difficulty) (*models.QuizDraft, error) {
	model, err := c.model(ctx)
	if err != nil {
		return nil, err
	}

	system, user := BuildPrompt(text, numQuestions, difficulty)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}

	resp, err := model.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, ErrEmptyModelResponse
	}

	// Concatenate all text parts of the first candidate.
	jsonText := ""
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			jsonText += string(t)
		}
	}

	draft, err := ParseQuizResponse(jsonText)
	if err != nil {
		log.Printf("WARN: rejected model output: %v", err)
		return nil, err
	}

	log.Printf("INFO: model produced quiz '%s' with %d questions", draft.Title, len(draft.Questions))
	return draft, nil
}
