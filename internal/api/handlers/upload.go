package handlers

import (
	"io"
	"net/http"
	"unicode/utf8"

	"quizcraft/internal/extract"
	"quizcraft/internal/models"

	"github.com/gin-gonic/gin"
)

// HandleParsePDF extracts text from an uploaded PDF without generating
// anything. The frontend uses it to preview file contents. Responses,
// including failures, carry the success-flagged envelope.
func (h *Handler) HandleParsePDF(c *gin.Context) {
	if _, ok := mustUser(c, h); !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.abortEnvelope(c, http.StatusBadRequest, "no file provided", "", err)
		return
	}
	defer file.Close()

	declaredType := header.Header.Get("Content-Type")
	if !extract.IsPDF(declaredType, header.Filename) {
		h.abortEnvelope(c, http.StatusBadRequest, "Invalid file type. Only PDF files are supported.", "", nil)
		return
	}

	if header.Size > extract.MaxUploadBytes {
		h.abortEnvelope(c, http.StatusBadRequest, extract.ErrTooLarge.Error(), "", nil)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.abortEnvelope(c, http.StatusInternalServerError, "failed to read uploaded file", "", err)
		return
	}

	raw, err := extract.FromUpload(data, declaredType, header.Filename)
	if err != nil {
		h.abortEnvelope(c, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	text, err := extract.Normalize(raw)
	if err != nil {
		h.abortEnvelope(c, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"text":       text,
		"fileName":   header.Filename,
		"fileSize":   header.Size,
		"textLength": utf8.RuneCountInString(text),
	})
}

// HandleUpload accepts a file and runs the whole generation pipeline on
// it in one request. No blob is kept; only the extracted text survives.
func (h *Handler) HandleUpload(c *gin.Context) {
	ownerID, ok := mustUser(c, h)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.abortError(c, http.StatusBadRequest, "no file provided", err)
		return
	}
	defer file.Close()

	opts := parseGenerationOptions(
		c.Request.FormValue("numQuestions"),
		c.Request.FormValue("difficulty"),
	)

	raw, ok := h.extractUpload(c, file, header.Size, header.Header.Get("Content-Type"), header.Filename)
	if !ok {
		return
	}

	quiz, ok := h.generateAndPersist(c, ownerID, raw, models.SourceFile, opts)
	if !ok {
		return
	}

	resp := generationResponse(quiz)
	resp["fileName"] = header.Filename
	resp["bytes"] = header.Size
	c.JSON(http.StatusOK, resp)
}
