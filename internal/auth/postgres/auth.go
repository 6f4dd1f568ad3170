package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/project-tracker/internal/auth"
	userDatamodel "github.com/frahmantamala/project-tracker/internal/core/datamodel/user"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*auth.Credentials, error) {
	return r.first(ctx, "LOWER(email) = LOWER(?)", email)
}

func (r *Repository) GetByUID(ctx context.Context, uid string) (*auth.Credentials, error) {
	return r.first(ctx, "uid = ?", uid)
}

func (r *Repository) first(ctx context.Context, query string, arg any) (*auth.Credentials, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).
		Select("uid", "email", "password_hash").
		Where(query, arg).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &auth.Credentials{UID: u.UID, Email: u.Email, PasswordHash: u.PasswordHash}, nil
}
