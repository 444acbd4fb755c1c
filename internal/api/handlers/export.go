package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"quizcraft/internal/db"
	"quizcraft/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HandleExportQuiz serializes a quiz for download. The owner can always
// export; others only when the quiz is public. Formats: json (default),
// csv, txt.
func (h *Handler) HandleExportQuiz(c *gin.Context) {
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

	format := strings.ToLower(c.DefaultQuery("format", "json"))
	filename := exportFilename(quiz.Title, format)

	switch format {
	case "json":
		c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(filename))
		c.JSON(http.StatusOK, quiz)
	case "csv":
		c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(filename))
		c.Header("Content-Type", "text/csv; charset=utf-8")
		if err := writeQuizCSV(c.Writer, quiz); err != nil {
			// Headers are gone by now; all we can do is record it.
			log.Printf("WARN: failed to write csv export for quiz %s: %v", quiz.ID, err)
		}
	case "txt":
		c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(filename))
		c.String(http.StatusOK, quizAsText(quiz))
	default:
		h.abortError(c, http.StatusBadRequest, "unsupported export format: "+format, nil)
	}
}

func exportFilename(title, format string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		case r == ' ', r == '-', r == '_':
			return '-'
		}
		return -1
	}, title)
	if slug == "" {
		slug = "quiz"
	}
	return slug + "." + format
}

func writeQuizCSV(w io.Writer, quiz *models.Quiz) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"position", "question", "options", "answer"}); err != nil {
		return err
	}
	for _, q := range quiz.Questions {
		record := []string{
			strconv.Itoa(q.Position),
			q.Text,
			strings.Join(q.Options, "|"),
			q.Answer,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func quizAsText(quiz *models.Quiz) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", quiz.Title)
	for i, q := range quiz.Questions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q.Text)
		for j, opt := range q.Options {
			fmt.Fprintf(&b, "   %c) %s\n", 'A'+j, opt)
		}
		fmt.Fprintf(&b, "   Answer: %s\n\n", q.Answer)
	}
	return b.String()
}
