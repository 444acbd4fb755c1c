package handlers

import (
	"context"
	"log"
	"net/http"

	"quizcraft/internal/db"
	"quizcraft/internal/gemini"
	"quizcraft/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// QuizGenerator produces a validated quiz draft from normalized text.
// Satisfied by *gemini.Client; tests inject a fake.
type QuizGenerator interface {
	GenerateQuiz(ctx context.Context, text string, numQuestions int, difficulty gemini.Difficulty) (*models.QuizDraft, error)
}

// Handler contains the API handlers' dependencies. All clients are
// constructed in main and injected; there are no package-level singletons.
type Handler struct {
	Store     db.Store
	Generator QuizGenerator
}

// NewHandler creates a new Handler.
func NewHandler(store db.Store, generator QuizGenerator) *Handler {
	return &Handler{Store: store, Generator: generator}
}

// userID returns the identity stamped by the auth middleware. The gate
// is the only place authentication happens; a missing value here is a
// routing bug, not a client error.
func userID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("userID")
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}

// abortError logs the failure and ends the request with a plain error
// payload, the shape the quiz endpoints use.
func (h *Handler) abortError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		log.Printf("ERROR: %s: %v (path: %s)", message, err, c.Request.URL.Path)
	} else {
		log.Printf("WARN: %s (path: %s)", message, c.Request.URL.Path)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// abortEnvelope is abortError for the notes endpoints, which answer with
// the {success, error, message} envelope.
func (h *Handler) abortEnvelope(c *gin.Context, status int, errMsg, message string, err error) {
	if err != nil {
		log.Printf("ERROR: %s: %v (path: %s)", errMsg, err, c.Request.URL.Path)
	}
	c.AbortWithStatusJSON(status, models.APIResponse{
		Success: false,
		Error:   errMsg,
		Message: message,
	})
}

func mustUser(c *gin.Context, h *Handler) (uuid.UUID, bool) {
	id, ok := userID(c)
	if !ok {
		h.abortError(c, http.StatusInternalServerError, "user identity missing from request context", nil)
		return uuid.Nil, false
	}
	return id, true
}
