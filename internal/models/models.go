package models

import (
	"time"

	"github.com/google/uuid"
)

// PlanTier is a user's subscription tier, governing quota ceilings.
type PlanTier string

const (
	PlanFree PlanTier = "free"
	PlanPro  PlanTier = "pro"
)

// SourceType records where the content of a quiz came from.
type SourceType string

const (
	SourceText SourceType = "text"
	SourceFile SourceType = "file"
)

// User is an authenticated principal resolved from a bearer token.
// Identities are created by the external auth provider; rows here only
// carry the subscription plan.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Plan      PlanTier  `json:"subscription_plan"`
	CreatedAt time.Time `json:"created_at"`
}

// Quiz is a persisted quiz owned by one user.
type Quiz struct {
	ID         uuid.UUID  `json:"id"`
	OwnerID    uuid.UUID  `json:"user_id"`
	Title      string     `json:"title"`
	Questions  []Question `json:"questions,omitempty"`
	SourceType SourceType `json:"source_type"`
	IsPublic   bool       `json:"is_public"`
	ShareToken *string    `json:"share_token,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// QuizSummary is a quiz row without its questions, for list views.
type QuizSummary struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	SourceType    SourceType `json:"source_type"`
	IsPublic      bool       `json:"is_public"`
	QuestionCount int        `json:"question_count"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Question is one persisted question belonging to a quiz.
type Question struct {
	ID       uuid.UUID `json:"id"`
	QuizID   uuid.UUID `json:"quiz_id,omitempty"`
	Position int       `json:"position"`
	Text     string    `json:"question"`
	Options  []string  `json:"options"`
	Answer   string    `json:"answer"`
}

// QuizDraft is the in-memory, not-yet-persisted result of quiz generation.
type QuizDraft struct {
	Title     string          `json:"title"`
	Questions []DraftQuestion `json:"questions"`
}

// DraftQuestion mirrors the JSON shape requested from the model: the
// answer must match one of the options verbatim.
type DraftQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// Note is a persisted note owned by one user, subject to a per-plan
// count ceiling.
type Note struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// APIResponse is the envelope used by the notes endpoints.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// NotesList is the payload for listing notes, including usage info.
type NotesList struct {
	Notes []Note `json:"notes"`
	Count int64  `json:"count"`
	Limit int64  `json:"limit"`
}
