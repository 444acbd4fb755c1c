package db

import (
	"context"
	"errors"
	"fmt"

	"quizcraft/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UpdateNoteParams updates a note's title and/or content. Nil fields are
// left unchanged.
type UpdateNoteParams struct {
	ID      uuid.UUID
	Title   *string
	Content *string
}

const createNoteQuery = `
INSERT INTO notes (owner_id, title, content)
VALUES ($1, $2, $3)
RETURNING id, owner_id, title, content, created_at, updated_at`

// CreateNote inserts one note. The quota check happens in the usage
// limiter before this is called; the insert itself is unconditional.
func (db *DB) CreateNote(ctx context.Context, ownerID uuid.UUID, title, content string) (*models.Note, error) {
	var note models.Note
	err := db.Pool.QueryRow(ctx, createNoteQuery, ownerID, title, content).
		Scan(&note.ID, &note.OwnerID, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	return &note, nil
}

const getNoteQuery = `
SELECT id, owner_id, title, content, created_at, updated_at
FROM notes WHERE id = $1`

// GetNote fetches one note by ID.
func (db *DB) GetNote(ctx context.Context, id uuid.UUID) (*models.Note, error) {
	var note models.Note
	err := db.Pool.QueryRow(ctx, getNoteQuery, id).
		Scan(&note.ID, &note.OwnerID, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note %s: %w", id, err)
	}
	return &note, nil
}

const listNotesQuery = `
SELECT id, owner_id, title, content, created_at, updated_at
FROM notes WHERE owner_id = $1 ORDER BY created_at DESC`

// ListNotesByOwner returns all notes owned by a user, newest first.
func (db *DB) ListNotesByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Note, error) {
	rows, err := db.Pool.Query(ctx, listNotesQuery, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes for user %s: %w", ownerID, err)
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		var note models.Note
		if err := rows.Scan(&note.ID, &note.OwnerID, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note row: %w", err)
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

// CountNotesByOwner counts a user's notes for the usage limiter.
func (db *DB) CountNotesByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := db.Pool.QueryRow(ctx, `SELECT count(*) FROM notes WHERE owner_id = $1`, ownerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count notes for user %s: %w", ownerID, err)
	}
	return count, nil
}

const updateNoteQuery = `
UPDATE notes
SET title = COALESCE($2, title), content = COALESCE($3, content), updated_at = now()
WHERE id = $1
RETURNING id, owner_id, title, content, created_at, updated_at`

// UpdateNote applies a partial update and returns the fresh row.
func (db *DB) UpdateNote(ctx context.Context, params UpdateNoteParams) (*models.Note, error) {
	var note models.Note
	err := db.Pool.QueryRow(ctx, updateNoteQuery, params.ID, params.Title, params.Content).
		Scan(&note.ID, &note.OwnerID, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update note %s: %w", params.ID, err)
	}
	return &note, nil
}

// DeleteNote removes one note.
func (db *DB) DeleteNote(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete note %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
