package db

import (
	"context"
	"errors"
	"fmt"

	"quizcraft/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// CreateQuizParams carries everything needed to persist one generated quiz.
type CreateQuizParams struct {
	OwnerID    uuid.UUID
	Title      string
	SourceType models.SourceType
	Questions  []models.DraftQuestion
}

// UpdateQuizParams updates a quiz's title and/or visibility. Nil fields
// are left unchanged.
type UpdateQuizParams struct {
	ID       uuid.UUID
	Title    *string
	IsPublic *bool
}

const createQuizQuery = `
INSERT INTO quizzes (owner_id, title, source_type)
VALUES ($1, $2, $3)
RETURNING id, owner_id, title, source_type, is_public, created_at`

const createQuestionQuery = `
INSERT INTO questions (quiz_id, position, question_text, correct_answer, options)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`

// CreateQuiz writes the quiz row and its question rows in one
// transaction: either the whole quiz is recorded or nothing is.
func (db *DB) CreateQuiz(ctx context.Context, params CreateQuizParams) (*models.Quiz, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // no-op once Commit succeeds

	var quiz models.Quiz
	err = tx.QueryRow(ctx, createQuizQuery, params.OwnerID, params.Title, params.SourceType).
		Scan(&quiz.ID, &quiz.OwnerID, &quiz.Title, &quiz.SourceType, &quiz.IsPublic, &quiz.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create quiz record: %w", err)
	}

	for i, q := range params.Questions {
		question := models.Question{
			QuizID:   quiz.ID,
			Position: i,
			Text:     q.Question,
			Options:  q.Options,
			Answer:   q.Answer,
		}
		err = tx.QueryRow(ctx, createQuestionQuery, quiz.ID, i, q.Question, q.Answer, q.Options).
			Scan(&question.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to create question %d for quiz %s: %w", i, quiz.ID, err)
		}
		quiz.Questions = append(quiz.Questions, question)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit quiz %s: %w", quiz.ID, err)
	}
	return &quiz, nil
}

const getQuizQuery = `
SELECT id, owner_id, title, source_type, is_public, share_token, created_at
FROM quizzes WHERE id = $1`

// GetQuiz fetches a quiz and its ordered questions.
func (db *DB) GetQuiz(ctx context.Context, id uuid.UUID) (*models.Quiz, error) {
	return db.getQuizRow(ctx, getQuizQuery, id)
}

const getQuizByShareTokenQuery = `
SELECT id, owner_id, title, source_type, is_public, share_token, created_at
FROM quizzes WHERE share_token = $1 AND is_public`

// GetQuizByShareToken fetches a public quiz by its opaque share token.
func (db *DB) GetQuizByShareToken(ctx context.Context, token string) (*models.Quiz, error) {
	return db.getQuizRow(ctx, getQuizByShareTokenQuery, token)
}

func (db *DB) getQuizRow(ctx context.Context, query string, arg any) (*models.Quiz, error) {
	var quiz models.Quiz
	var shareToken pgtype.Text
	err := db.Pool.QueryRow(ctx, query, arg).
		Scan(&quiz.ID, &quiz.OwnerID, &quiz.Title, &quiz.SourceType, &quiz.IsPublic, &shareToken, &quiz.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	if shareToken.Valid {
		quiz.ShareToken = &shareToken.String
	}

	questions, err := db.listQuestions(ctx, quiz.ID)
	if err != nil {
		return nil, err
	}
	quiz.Questions = questions
	return &quiz, nil
}

const listQuestionsQuery = `
SELECT id, quiz_id, position, question_text, correct_answer, options
FROM questions WHERE quiz_id = $1 ORDER BY position`

func (db *DB) listQuestions(ctx context.Context, quizID uuid.UUID) ([]models.Question, error) {
	rows, err := db.Pool.Query(ctx, listQuestionsQuery, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions for quiz %s: %w", quizID, err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.QuizID, &q.Position, &q.Text, &q.Answer, &q.Options); err != nil {
			return nil, fmt.Errorf("failed to scan question row: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

const listQuizzesByOwnerQuery = `
SELECT q.id, q.title, q.source_type, q.is_public, q.created_at,
       (SELECT count(*) FROM questions WHERE quiz_id = q.id) AS question_count
FROM quizzes q WHERE q.owner_id = $1
ORDER BY q.created_at DESC`

// ListQuizzesByOwner returns summaries of all quizzes a user created.
func (db *DB) ListQuizzesByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.QuizSummary, error) {
	rows, err := db.Pool.Query(ctx, listQuizzesByOwnerQuery, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes for user %s: %w", ownerID, err)
	}
	defer rows.Close()

	summaries := []models.QuizSummary{}
	for rows.Next() {
		var s models.QuizSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.SourceType, &s.IsPublic, &s.CreatedAt, &s.QuestionCount); err != nil {
			return nil, fmt.Errorf("failed to scan quiz summary row: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

const updateQuizQuery = `
UPDATE quizzes
SET title = COALESCE($2, title), is_public = COALESCE($3, is_public)
WHERE id = $1`

// UpdateQuiz applies a title edit and/or visibility toggle.
func (db *DB) UpdateQuiz(ctx context.Context, params UpdateQuizParams) (*models.Quiz, error) {
	tag, err := db.Pool.Exec(ctx, updateQuizQuery, params.ID, params.Title, params.IsPublic)
	if err != nil {
		return nil, fmt.Errorf("failed to update quiz %s: %w", params.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return db.GetQuiz(ctx, params.ID)
}

// SetQuizShareToken stores a freshly minted share token and marks the
// quiz public so the token actually grants access.
func (db *DB) SetQuizShareToken(ctx context.Context, id uuid.UUID, token string) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE quizzes SET share_token = $2, is_public = TRUE WHERE id = $1`, id, token)
	if err != nil {
		return fmt.Errorf("failed to set share token on quiz %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteQuiz removes a quiz; question rows go with it via cascade.
func (db *DB) DeleteQuiz(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete quiz %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
