package repository

import (
	"context"

	"sedcoRecords/models"
)

// UserRepositoryI defines operations on User entities.
type UserRepositoryI interface {
	Create(ctx context.Context, u *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetSettings(ctx context.Context, id int64) (*models.UserSettings, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	UpdateProfile(ctx context.Context, id int64, p models.ProfileUpdate) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
	UpdateRoleByEmail(ctx context.Context, email, role string) error
}

// EntrepreneurRepositoryI defines operations on Entrepreneur entities.
type EntrepreneurRepositoryI interface {
	Create(ctx context.Context, e *models.Entrepreneur) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Entrepreneur, error)
	List(ctx context.Context) ([]models.EntrepreneurSummary, error)
	ListByYear(ctx context.Context, year int) ([]models.Entrepreneur, error)
	Update(ctx context.Context, id int64, e *models.Entrepreneur) error
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*models.DashboardStats, error)
}

// ActivityRepositoryI defines operations on the activity log.
type ActivityRepositoryI interface {
	Create(ctx context.Context, userID *int64, action, description string) (int64, error)
	Recent(ctx context.Context, limit int) ([]RecentActivity, error)
}

var (
	_ UserRepositoryI         = (*UserRepository)(nil)
	_ EntrepreneurRepositoryI = (*EntrepreneurRepository)(nil)
	_ ActivityRepositoryI     = (*ActivityRepository)(nil)
)
