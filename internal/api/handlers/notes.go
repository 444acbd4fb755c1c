package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"quizcraft/internal/db"
	"quizcraft/internal/models"
	"quizcraft/internal/usage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// noteLimitMessage is what free users see once they hit the cap.
const noteLimitMessage = "Note limit reached. Upgrade to Pro for unlimited notes."

// HandleListNotes returns the caller's notes, newest first, with the
// count and plan limit so the frontend can render quota state.
func (h *Handler) HandleListNotes(c *gin.Context) {
	ownerID, ok := mustUser(c, h)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	notes, err := h.Store.ListNotesByOwner(ctx, ownerID)
	if err != nil {
		h.abortEnvelope(c, http.StatusInternalServerError, "failed to list notes", "", err)
		return
	}

	check, err := usage.CheckNotes(ctx, h.Store, ownerID)
	if err != nil {
		h.abortEnvelope(c, http.StatusInternalServerError, "failed to check usage", "", err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data: models.NotesList{
			Notes: notes,
			Count: int64(len(notes)),
			Limit: check.Limit,
		},
	})
}

// CreateNoteRequest is the body of POST /api/notes.
type CreateNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// HandleCreateNote creates a note after the plan quota check. The check
// is advisory: two racing requests may both pass, which we accept.
func (h *Handler) HandleCreateNote(c *gin.Context) {
	ownerID, ok := mustUser(c, h)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var req CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.abortEnvelope(c, http.StatusBadRequest, "invalid request body", "", err)
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		h.abortEnvelope(c, http.StatusBadRequest, "title is required", "", nil)
		return
	}

	if _, err := h.Store.GetOrCreateUser(ctx, ownerID, c.GetString("userEmail")); err != nil {
		h.abortEnvelope(c, http.StatusInternalServerError, "failed to create note", "", err)
		return
	}

	check, err := usage.CheckNotes(ctx, h.Store, ownerID)
	if err != nil {
		h.abortEnvelope(c, http.StatusInternalServerError, "failed to check usage", "", err)
		return
	}
	if !check.CanCreate {
		h.abortEnvelope(c, http.StatusForbidden, "note limit reached", noteLimitMessage, nil)
		return
	}

	note, err := h.Store.CreateNote(ctx, ownerID, req.Title, req.Content)
	if err != nil {
		h.abortEnvelope(c, http.StatusInternalServerError, "failed to create note", "", err)
		return
	}

	log.Printf("INFO: created note %s for user %s", note.ID, ownerID)
	c.JSON(http.StatusCreated, models.APIResponse{Success: true, Data: note})
}

// UpdateNoteRequest edits a note's title and/or content.
type UpdateNoteRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// fetchOwnedNote loads the note named by the ?id= query parameter and
// checks ownership. On failure it has already responded.
func (h *Handler) fetchOwnedNote(c *gin.Context, ownerID uuid.UUID) (*models.Note, bool) {
	noteID, err := uuid.Parse(c.Query("id"))
	if err != nil {
		h.abortEnvelope(c, http.StatusBadRequest, "invalid note ID", "", err)
		return nil, false
	}

	note, err := h.Store.GetNote(c.Request.Context(), noteID)
	if errors.Is(err, db.ErrNotFound) {
		h.abortEnvelope(c, http.StatusNotFound, "note not found", "", nil)
		return nil, false
	}
	if err != nil {
		h.abortEnvelope(c, http.StatusInternalServerError, "failed to get note", "", err)
		return nil, false
	}

	if note.OwnerID != ownerID {
		h.abortEnvelope(c, http.StatusForbidden, "you do not have permission to access this note", "", nil)
		return nil, false
	}
	return note, true
}

// HandleUpdateNote applies a partial edit to one of the caller's notes.
func (h *Handler) HandleUpdateNote(c *gin.Context) {
	ownerID, ok := mustUser(c, h)
	if !ok {
		return
	}

	var req UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.abortEnvelope(c, http.StatusBadRequest, "invalid request body", "", err)
		return
	}
	if req.Title == nil && req.Content == nil {
		h.abortEnvelope(c, http.StatusBadRequest, "title or content is required for update", "", nil)
		return
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		h.abortEnvelope(c, http.StatusBadRequest, "title cannot be empty", "", nil)
		return
	}

	note, ok := h.fetchOwnedNote(c, ownerID)
	if !ok {
		return
	}

	updated, err := h.Store.UpdateNote(c.Request.Context(), db.UpdateNoteParams{
		ID:      note.ID,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		h.abortEnvelope(c, http.StatusInternalServerError, "failed to update note", "", err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{Success: true, Data: updated})
}

// HandleDeleteNote deletes one of the caller's notes.
func (h *Handler) HandleDeleteNote(c *gin.Context) {
	ownerID, ok := mustUser(c, h)
	if !ok {
		return
	}

	note, ok := h.fetchOwnedNote(c, ownerID)
	if !ok {
		return
	}

	if err := h.Store.DeleteNote(c.Request.Context(), note.ID); err != nil {
		h.abortEnvelope(c, http.StatusInternalServerError, "failed to delete note", "", err)
		return
	}

	log.Printf("INFO: deleted note %s for user %s", note.ID, ownerID)
	c.JSON(http.StatusOK, models.APIResponse{Success: true, Message: "note deleted"})
}

// HandleGetUsage reports the caller's plan and note quota state.
func (h *Handler) HandleGetUsage(c *gin.Context) {
	ownerID, ok := mustUser(c, h)
	if !ok {
		return
	}

	check, err := usage.CheckNotes(c.Request.Context(), h.Store, ownerID)
	if err != nil {
		h.abortEnvelope(c, http.StatusInternalServerError, "failed to check usage", "", err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{Success: true, Data: check})
}
