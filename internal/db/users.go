package db

import (
	"context"
	"errors"
	"fmt"

	"quizcraft/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const getOrCreateUserQuery = `
INSERT INTO users (id, email)
VALUES ($1, $2)
ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email
RETURNING id, email, subscription_plan, created_at`

// GetOrCreateUser provisions a row for an identity resolved by the auth
// provider, or refreshes its email if one already exists.
func (db *DB) GetOrCreateUser(ctx context.Context, id uuid.UUID, email string) (*models.User, error) {
	var user models.User
	err := db.Pool.QueryRow(ctx, getOrCreateUserQuery, id, email).
		Scan(&user.ID, &user.Email, &user.Plan, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user %s: %w", id, err)
	}
	return &user, nil
}

// GetUserPlan returns the subscription plan for a user. A user not yet
// provisioned in the store is on the free plan.
func (db *DB) GetUserPlan(ctx context.Context, id uuid.UUID) (models.PlanTier, error) {
	var plan models.PlanTier
	err := db.Pool.QueryRow(ctx, `SELECT subscription_plan FROM users WHERE id = $1`, id).Scan(&plan)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.PlanFree, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get plan for user %s: %w", id, err)
	}
	return plan, nil
}
