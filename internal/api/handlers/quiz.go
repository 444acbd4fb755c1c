package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"quizcraft/internal/db"
	"quizcraft/internal/extract"
	"quizcraft/internal/gemini"
	"quizcraft/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxMultipartMemory bounds in-memory buffering of multipart parts.
const maxMultipartMemory = 8 << 20

// generationOptions are the query/form parameters of a generation request.
type generationOptions struct {
	NumQuestions int
	Difficulty   gemini.Difficulty
}

func parseGenerationOptions(numQuestionsRaw, difficultyRaw string) generationOptions {
	// An absent or unparseable count means the default; an explicit
	// number, zero included, is clamped to the bounds.
	n := gemini.DefaultQuestions
	if numQuestionsRaw != "" {
		if parsed, err := strconv.Atoi(numQuestionsRaw); err == nil {
			n = parsed
		}
	}
	return generationOptions{
		NumQuestions: gemini.ClampQuestionCount(n),
		Difficulty:   gemini.ParseDifficulty(difficultyRaw),
	}
}

// HandleGenerateQuiz runs the full pipeline: input → normalization →
// prompt → model call → validation → persistence.
func (h *Handler) HandleGenerateQuiz(c *gin.Context) {
	// 1. Identity comes from the auth gate.
	ownerID, ok := mustUser(c, h)
	if !ok {
		return
	}

	opts := parseGenerationOptions(c.Query("numQuestions"), c.Query("difficulty"))

	// 2. Read the source text: multipart text/file fields, or a raw body.
	text, sourceType, ok := h.readGenerationInput(c)
	if !ok {
		return
	}

	// 3-5. Normalize, generate, persist.
	quiz, ok := h.generateAndPersist(c, ownerID, text, sourceType, opts)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, generationResponse(quiz))
}

// readGenerationInput collects the caller's text and optional file into
// one raw string. On failure it has already written the error response.
func (h *Handler) readGenerationInput(c *gin.Context) (string, models.SourceType, bool) {
	contentType := c.ContentType()
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		// Read one byte past the ceiling so an over-limit body is
		// detectable without buffering all of it.
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, extract.MaxUploadBytes+1))
		if err != nil {
			h.abortError(c, http.StatusBadRequest, "failed to read request body", err)
			return "", "", false
		}
		if int64(len(body)) > extract.MaxUploadBytes {
			h.abortError(c, http.StatusBadRequest, extract.ErrTooLarge.Error(), nil)
			return "", "", false
		}
		return string(body), models.SourceText, true
	}

	if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
		h.abortError(c, http.StatusBadRequest, "failed to parse multipart form", err)
		return "", "", false
	}

	text := c.Request.FormValue("text")

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		// No file part: plain text submission.
		return text, models.SourceText, true
	}
	defer file.Close()

	extracted, ok := h.extractUpload(c, file, header.Size, header.Header.Get("Content-Type"), header.Filename)
	if !ok {
		return "", "", false
	}

	combined := strings.TrimSpace(text + "\n" + extracted)
	return combined, models.SourceFile, true
}

// extractUpload enforces the size ceiling before reading a byte, then
// extracts text from the upload. On failure it has already responded.
func (h *Handler) extractUpload(c *gin.Context, file io.Reader, size int64, declaredType, filename string) (string, bool) {
	if size > extract.MaxUploadBytes {
		h.abortError(c, http.StatusBadRequest, extract.ErrTooLarge.Error(), nil)
		return "", false
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.abortError(c, http.StatusInternalServerError, "failed to read uploaded file", err)
		return "", false
	}

	raw, err := extract.FromUpload(data, declaredType, filename)
	if err != nil {
		// Everything the extractor reports is the caller's problem:
		// wrong type, oversized payload, or an unreadable PDF.
		h.abortError(c, http.StatusBadRequest, err.Error(), nil)
		return "", false
	}
	return raw, true
}

// generateAndPersist is the shared back half of the pipeline, used by
// both /generate-quiz and /upload. On failure it has already responded.
func (h *Handler) generateAndPersist(c *gin.Context, ownerID uuid.UUID, text string, sourceType models.SourceType, opts generationOptions) (*models.Quiz, bool) {
	ctx := c.Request.Context()

	if strings.TrimSpace(text) == "" {
		h.abortError(c, http.StatusBadRequest, "No input provided", nil)
		return nil, false
	}

	normalized, err := extract.Normalize(text)
	if err != nil {
		h.abortError(c, http.StatusBadRequest, err.Error(), nil)
		return nil, false
	}

	// Make sure the owner row exists before we hang a quiz off it.
	email := c.GetString("userEmail")
	if _, err := h.Store.GetOrCreateUser(ctx, ownerID, email); err != nil {
		h.abortError(c, http.StatusInternalServerError, "failed to store quiz", err)
		return nil, false
	}

	log.Printf("INFO: generating quiz for user %s (%d questions, %s, %d chars)",
		ownerID, opts.NumQuestions, opts.Difficulty, len(normalized))

	draft, err := h.Generator.GenerateQuiz(ctx, normalized, opts.NumQuestions, opts.Difficulty)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, gemini.ErrMissingAPIKey) {
			status = http.StatusInternalServerError
		}
		h.abortError(c, status, "quiz generation failed: "+err.Error(), err)
		return nil, false
	}

	quiz, err := h.Store.CreateQuiz(ctx, db.CreateQuizParams{
		OwnerID:    ownerID,
		Title:      draft.Title,
		SourceType: sourceType,
		Questions:  draft.Questions,
	})
	if err != nil {
		h.abortError(c, http.StatusInternalServerError, "failed to store quiz", err)
		return nil, false
	}

	log.Printf("INFO: created quiz %s ('%s', %d questions) for user %s",
		quiz.ID, quiz.Title, len(quiz.Questions), ownerID)
	return quiz, true
}

func generationResponse(quiz *models.Quiz) gin.H {
	return gin.H{
		"id":         quiz.ID,
		"title":      quiz.Title,
		"questions":  quiz.Questions,
		"sourceType": quiz.SourceType,
		"createdAt":  quiz.CreatedAt,
	}
}

// HandleListQuizzes returns summaries of the caller's quizzes.
func (h *Handler) HandleListQuizzes(c *gin.Context) {
	ownerID, ok := mustUser(c, h)
	if !ok {
		return
	}

	quizzes, err := h.Store.ListQuizzesByOwner(c.Request.Context(), ownerID)
	if err != nil {
		h.abortError(c, http.StatusInternalServerError, "failed to list quizzes", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quizzes": quizzes})
}

// fetchOwnedQuiz loads a quiz from the :quizId parameter and checks the
// caller owns it. On failure it has already responded.
func (h *Handler) fetchOwnedQuiz(c *gin.Context, ownerID uuid.UUID) (*models.Quiz, bool) {
	quizID, err := uuid.Parse(c.Param("quizId"))
	if err != nil {
		h.abortError(c, http.StatusBadRequest, "invalid quiz ID", err)
		return nil, false
	}

	quiz, err := h.Store.GetQuiz(c.Request.Context(), quizID)
	if errors.Is(err, db.ErrNotFound) {
		h.abortError(c, http.StatusNotFound, "Quiz not found", nil)
		return nil, false
	}
	if err != nil {
		h.abortError(c, http.StatusInternalServerError, "failed to get quiz", err)
		return nil, false
	}

	if quiz.OwnerID != ownerID {
		h.abortError(c, http.StatusForbidden, "you do not have permission to access this quiz", nil)
		return nil, false
	}
	return quiz, true
}

// HandleGetQuiz returns one quiz with its questions. The owner always
// sees it; anyone else only if it is public.
func (h *Handler) HandleGetQuiz(c *gin.Context) {
	ownerID, ok := mustUser(c, h)
	if !ok {
		return
	}

	quizID, err := uuid.Parse(c.Param("quizId"))
	if err != nil {
		h.abortError(c, http.StatusBadRequest, "invalid quiz ID", err)
		return
	}

	quiz, err := h.Store.GetQuiz(c.Request.Context(), quizID)
	if errors.Is(err, db.ErrNotFound) {
		h.abortError(c, http.StatusNotFound, "Quiz not found", nil)
		return
	}
	if err != nil {
		h.abortError(c, http.StatusInternalServerError, "failed to get quiz", err)
		return
	}

	if quiz.OwnerID != ownerID && !quiz.IsPublic {
		h.abortError(c, http.StatusForbidden, "you do not have permission to access this quiz", nil)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

// UpdateQuizRequest edits a quiz's title and/or public flag.
type UpdateQuizRequest struct {
	Title    *string `json:"title"`
	IsPublic *bool   `json:"is_public"`
}

// HandleUpdateQuiz applies a title edit or visibility toggle.
func (h *Handler) HandleUpdateQuiz(c *gin.Context) {
	ownerID, ok := mustUser(c, h)
	if !ok {
		return
	}

	var req UpdateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.abortError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Title == nil && req.IsPublic == nil {
		h.abortError(c, http.StatusBadRequest, "title or is_public is required for update", nil)
		return
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		h.abortError(c, http.StatusBadRequest, "title cannot be empty", nil)
		return
	}

	quiz, ok := h.fetchOwnedQuiz(c, ownerID)
	if !ok {
		return
	}

	updated, err := h.Store.UpdateQuiz(c.Request.Context(), db.UpdateQuizParams{
		ID:       quiz.ID,
		Title:    req.Title,
		IsPublic: req.IsPublic,
	})
	if err != nil {
		h.abortError(c, http.StatusInternalServerError, "failed to update quiz", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// HandleDeleteQuiz deletes one of the caller's quizzes.
func (h *Handler) HandleDeleteQuiz(c *gin.Context) {
	ownerID, ok := mustUser(c, h)
	if !ok {
		return
	}

	quiz, ok := h.fetchOwnedQuiz(c, ownerID)
	if !ok {
		return
	}

	if err := h.Store.DeleteQuiz(c.Request.Context(), quiz.ID); err != nil {
		h.abortError(c, http.StatusInternalServerError, "failed to delete quiz", err)
		return
	}

	log.Printf("INFO: deleted quiz %s for user %s", quiz.ID, ownerID)
	c.Status(http.StatusNoContent)
}

// HandleShareQuiz mints a fresh share token for a quiz and marks it
// public. Re-sharing rotates the token.
func (h *Handler) HandleShareQuiz(c *gin.Context) {
	ownerID, ok := mustUser(c, h)
	if !ok {
		return
	}

	quiz, ok := h.fetchOwnedQuiz(c, ownerID)
	if !ok {
		return
	}

	tokenBytes := make([]byte, 16)
	if _, err := rand.Read(tokenBytes); err != nil {
		h.abortError(c, http.StatusInternalServerError, "failed to generate share token", err)
		return
	}
	token := base64.RawURLEncoding.EncodeToString(tokenBytes)

	if err := h.Store.SetQuizShareToken(c.Request.Context(), quiz.ID, token); err != nil {
		h.abortError(c, http.StatusInternalServerError, "failed to store share token", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": quiz.ID, "shareToken": token})
}

// HandleGetSharedQuiz serves a public quiz by share token. This is the
// one endpoint outside the auth gate.
func (h *Handler) HandleGetSharedQuiz(c *gin.Context) {
	token := c.Param("token")

	quiz, err := h.Store.GetQuizByShareToken(c.Request.Context(), token)
	if errors.Is(err, db.ErrNotFound) {
		h.abortError(c, http.StatusNotFound, "Quiz not found", nil)
		return
	}
	if err != nil {
		h.abortError(c, http.StatusInternalServerError, "failed to get quiz", err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}
