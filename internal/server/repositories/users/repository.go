package users

import (
	"context"

	"github.com/parthpl/userbase/internal/server/models"
)

// Repository is the user-record store consumed by the auth workflow.
// Lookups exclude soft-deleted records.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
}
