package db

import (
	"context"
	"errors"
	"fmt"
	"os"

	"quizcraft/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the persistence interface the handlers depend on. The pgx
// implementation below is the only production one; tests inject fakes.
type Store interface {
	// Users
	GetOrCreateUser(ctx context.Context, id uuid.UUID, email string) (*models.User, error)
	GetUserPlan(ctx context.Context, id uuid.UUID) (models.PlanTier, error)

	// Quizzes
	CreateQuiz(ctx context.Context, params CreateQuizParams) (*models.Quiz, error)
	GetQuiz(ctx context.Context, id uuid.UUID) (*models.Quiz, error)
	GetQuizByShareToken(ctx context.Context, token string) (*models.Quiz, error)
	ListQuizzesByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.QuizSummary, error)
	UpdateQuiz(ctx context.Context, params UpdateQuizParams) (*models.Quiz, error)
	SetQuizShareToken(ctx context.Context, id uuid.UUID, token string) error
	DeleteQuiz(ctx context.Context, id uuid.UUID) error

	// Notes
	CreateNote(ctx context.Context, ownerID uuid.UUID, title, content string) (*models.Note, error)
	GetNote(ctx context.Context, id uuid.UUID) (*models.Note, error)
	ListNotesByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Note, error)
	CountNotesByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
	UpdateNote(ctx context.Context, params UpdateNoteParams) (*models.Note, error)
	DeleteNote(ctx context.Context, id uuid.UUID) error
}

// DB holds the database connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

var _ Store = (*DB)(nil)

// NewDB creates a new DB instance from the DATABASE_URL environment variable.
func NewDB(ctx context.Context) (*DB, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close closes the database connection pool.
func (db *DB) Close() {
	db.Pool.Close()
}
