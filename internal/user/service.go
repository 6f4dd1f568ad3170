package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/project-tracker/internal"
	userDatamodel "github.com/frahmantamala/project-tracker/internal/core/datamodel/user"
	"github.com/frahmantamala/project-tracker/internal/core/events"
	"github.com/frahmantamala/project-tracker/internal/counter"
)

type Repository interface {
	GetAll(ctx context.Context) ([]*userDatamodel.User, error)
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	GetByUID(ctx context.Context, uid string) (*userDatamodel.User, error)
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	// Create and Update report a uid or email taken since the caller last
	// checked as ErrDuplicateUID or ErrDuplicateEmail.
	Create(ctx context.Context, u *userDatamodel.User) error
	Update(ctx context.Context, u *userDatamodel.User) error
	Delete(ctx context.Context, id int64) error
	TouchLastActive(ctx context.Context, uid string, at time.Time, minInterval time.Duration) error
}

type RoleChecker interface {
	Exists(ctx context.Context, name string) (bool, error)
}

// lastActive is written at most once per interval per user.
const lastActiveInterval = time.Minute

type Service struct {
	repo       Repository
	ids        counter.Counter
	roles      RoleChecker
	publisher  events.Publisher
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, ids counter.Counter, roles RoleChecker, publisher events.Publisher, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		ids:        ids,
		roles:      roles,
		publisher:  publisher,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) List(ctx context.Context) ([]*User, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to list users", err)
	}
	out := make([]*User, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get user by id", err)
	}
	if row == nil {
		return nil, internal.ErrUserNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) GetByUID(ctx context.Context, uid string) (*User, error) {
	row, err := s.repo.GetByUID(ctx, uid)
	if err != nil {
		return nil, internal.NewInternalError("failed to get user by uid", err)
	}
	if row == nil {
		return nil, internal.ErrUserNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, req CreateUserRequest) (*User, error) {
	if err := s.checkRole(ctx, req.Role); err != nil {
		return nil, err
	}
	if err := s.checkEmailFree(ctx, req.Email, 0); err != nil {
		return nil, err
	}

	uid := req.UID
	if uid == "" {
		uid = uuid.NewString()
	} else {
		existing, err := s.repo.GetByUID(ctx, uid)
		if err != nil {
			return nil, internal.NewInternalError("failed to check uid", err)
		}
		if existing != nil {
			return nil, internal.ErrDuplicateUID
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	id, err := s.ids.Next(ctx, counter.UserIDs)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to mint user id", "error", err)
		return nil, internal.NewInternalError("failed to allocate user id", err)
	}

	row := &userDatamodel.User{
		ID:           id,
		UID:          uid,
		Name:         req.Name,
		Email:        req.Email,
		Role:         req.Role,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, row); err != nil {
		if isDuplicate(err) {
			s.logger.WarnContext(ctx, "user lost a uniqueness race", "email", req.Email, "error", err)
			return nil, err
		}
		s.logger.ErrorContext(ctx, "failed to create user", "email", req.Email, "error", err)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.logger.InfoContext(ctx, "user created", "user_id", id, "role", req.Role)
	events.Emit(ctx, s.publisher, s.logger, events.EntityUser, events.ActionCreated, id, req.Name)
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, req UpdateUserRequest) (*User, error) {
	row, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, internal.NewInternalError("failed to get user", err)
	}
	if row == nil {
		return nil, internal.ErrUserNotFound
	}

	if req.Role != "" && req.Role != row.Role {
		if err := s.checkRole(ctx, req.Role); err != nil {
			return nil, err
		}
		row.Role = req.Role
	}
	if req.Email != "" && req.Email != row.Email {
		if err := s.checkEmailFree(ctx, req.Email, row.ID); err != nil {
			return nil, err
		}
		row.Email = req.Email
	}
	if req.Name != "" {
		row.Name = req.Name
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
		if err != nil {
			return nil, internal.NewInternalError("failed to hash password", err)
		}
		row.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, row); err != nil {
		if isDuplicate(err) {
			return nil, err
		}
		return nil, internal.NewInternalError("failed to update user", err)
	}

	events.Emit(ctx, s.publisher, s.logger, events.EntityUser, events.ActionUpdated, row.ID, row.Name)
	return FromDataModel(row), nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return internal.NewInternalError("failed to get user", err)
	}
	if row == nil {
		return internal.ErrUserNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return internal.NewInternalError("failed to delete user", err)
	}
	events.Emit(ctx, s.publisher, s.logger, events.EntityUser, events.ActionDeleted, id, row.Name)
	return nil
}

// Touch records activity for uid; failures are logged only.
func (s *Service) Touch(ctx context.Context, uid string) {
	if err := s.repo.TouchLastActive(ctx, uid, time.Now(), lastActiveInterval); err != nil {
		s.logger.WarnContext(ctx, "failed to update last active", "user_id", uid, "error", err)
	}
}

func (s *Service) checkRole(ctx context.Context, name string) error {
	ok, err := s.roles.Exists(ctx, name)
	if err != nil {
		return internal.NewInternalError("failed to check role", err)
	}
	if !ok {
		return internal.NewValidationFieldError("role", fmt.Sprintf("role %q does not exist", name), internal.ErrCodeInvalidRole)
	}
	return nil
}

func (s *Service) checkEmailFree(ctx context.Context, email string, selfID int64) error {
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return internal.NewInternalError("failed to check email", err)
	}
	if existing != nil && existing.ID != selfID {
		return internal.ErrDuplicateEmail
	}
	return nil
}

func isDuplicate(err error) bool {
	return errors.Is(err, internal.ErrDuplicateEmail) || errors.Is(err, internal.ErrDuplicateUID)
}
