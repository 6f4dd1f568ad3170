package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/frahmantamala/project-tracker/internal"
	userDatamodel "github.com/frahmantamala/project-tracker/internal/core/datamodel/user"
	"github.com/frahmantamala/project-tracker/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetAll(ctx context.Context) ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) first(ctx context.Context, query string, arg interface{}) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Where(query, arg).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*userDatamodel.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) GetByUID(ctx context.Context, uid string) (*userDatamodel.User, error) {
	return r.first(ctx, "uid = ?", uid)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) Create(ctx context.Context, u *userDatamodel.User) error {
	return uniqueViolation(r.db.WithContext(ctx).Create(u).Error)
}

func (r *UserRepository) Update(ctx context.Context, u *userDatamodel.User) error {
	return uniqueViolation(r.db.WithContext(ctx).Save(u).Error)
}

// uniqueViolation maps a unique-key failure on uid or email to the matching
// conflict. Postgres names the constraint; sqlite names the column.
func uniqueViolation(err error) error {
	if err == nil {
		return nil
	}
	var target string
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr) && pgErr.Code == "23505":
		target = pgErr.ConstraintName
	case strings.Contains(err.Error(), "UNIQUE constraint failed"):
		target = err.Error()
	default:
		return err
	}
	switch {
	case strings.Contains(target, "email"):
		return internal.ErrDuplicateEmail.WithCause(err)
	case strings.Contains(target, "uid"):
		return internal.ErrDuplicateUID.WithCause(err)
	}
	return err
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&userDatamodel.User{}, id).Error
}

func (r *UserRepository) TouchLastActive(ctx context.Context, uid string, at time.Time, minInterval time.Duration) error {
	return r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("uid = ? AND (last_active IS NULL OR last_active < ?)", uid, at.Add(-minInterval)).
		UpdateColumn("last_active", at).Error
}
