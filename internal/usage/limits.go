package usage

import (
	"context"
	"fmt"

	"quizcraft/internal/models"

	"github.com/google/uuid"
)

// FreeNotesLimit is the note ceiling on the free plan. Pro is unbounded.
const FreeNotesLimit = 10

// Unlimited is the limit value reported for plans without a ceiling.
const Unlimited int64 = -1

// Counter is the slice of the store the limiter needs.
type Counter interface {
	GetUserPlan(ctx context.Context, id uuid.UUID) (models.PlanTier, error)
	CountNotesByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

// Result reports whether a creation is permitted, plus the numbers for
// caller-facing messaging.
type Result struct {
	CanCreate    bool            `json:"canCreate"`
	CurrentCount int64           `json:"currentCount"`
	Limit        int64           `json:"limit"`
	Plan         models.PlanTier `json:"plan"`
}

// CheckNotes looks up a user's plan and note count and decides whether
// another note may be created.
//
// The check is advisory: two concurrent creations can both pass and
// overshoot the ceiling by one. Exact enforcement would need a
// store-level constraint.
func CheckNotes(ctx context.Context, store Counter, userID uuid.UUID) (*Result, error) {
	plan, err := store.GetUserPlan(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up plan: %w", err)
	}

	count, err := store.CountNotesByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count notes: %w", err)
	}

	result := &Result{CurrentCount: count, Plan: plan}
	if plan == models.PlanPro {
		result.Limit = Unlimited
		result.CanCreate = true
		return result, nil
	}
	result.Limit = FreeNotesLimit
	result.CanCreate = count < FreeNotesLimit
	return result, nil
}
