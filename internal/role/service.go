package role

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/frahmantamala/project-tracker/internal"
	roleDatamodel "github.com/frahmantamala/project-tracker/internal/core/datamodel/role"
	"github.com/frahmantamala/project-tracker/internal/core/events"
	"github.com/frahmantamala/project-tracker/internal/permission"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*roleDatamodel.Role, error)
	GetByID(ctx context.Context, id int64) (*roleDatamodel.Role, error)
	GetByName(ctx context.Context, name string) (*roleDatamodel.Role, error)
	Create(ctx context.Context, role *roleDatamodel.Role) error
	// Update renames the role's holders along with it.
	Update(ctx context.Context, role *roleDatamodel.Role, previousName string) error
	// Delete fails with internal.ErrRoleInUse while any user holds the role.
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo      RepositoryAPI
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) List(ctx context.Context) ([]*Role, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list roles", "error", err)
		return nil, internal.NewInternalError("failed to list roles", err)
	}
	out := make([]*Role, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Role, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get role", err)
	}
	if row == nil {
		return nil, internal.ErrRoleNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, req RoleRequest) (*Role, error) {
	if err := validatePermissions(req.Permissions); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByName(ctx, req.Name)
	if err != nil {
		return nil, internal.NewInternalError("failed to check role name", err)
	}
	if existing != nil {
		return nil, internal.ErrDuplicateRole
	}

	r := &Role{
		Name:        req.Name,
		Description: req.Description,
		Permissions: dedupe(req.Permissions),
	}
	row := ToDataModel(r)
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.ErrorContext(ctx, "failed to create role", "name", req.Name, "error", err)
		return nil, internal.NewInternalError("failed to create role", err)
	}

	created := FromDataModel(row)
	s.logger.InfoContext(ctx, "role created", "role_id", created.ID, "name", created.Name)
	events.Emit(ctx, s.publisher, s.logger, events.EntityRole, events.ActionCreated, created.ID, created.Name)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, req RoleRequest) (*Role, error) {
	if err := validatePermissions(req.Permissions); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get role", err)
	}
	if row == nil {
		return nil, internal.ErrRoleNotFound
	}

	if req.Name != row.Name {
		clash, err := s.repo.GetByName(ctx, req.Name)
		if err != nil {
			return nil, internal.NewInternalError("failed to check role name", err)
		}
		if clash != nil {
			return nil, internal.ErrDuplicateRole
		}
	}

	previousName := row.Name
	r := FromDataModel(row)
	r.Name = req.Name
	r.Description = req.Description
	r.Permissions = dedupe(req.Permissions)

	updated := ToDataModel(r)
	if err := s.repo.Update(ctx, updated, previousName); err != nil {
		s.logger.ErrorContext(ctx, "failed to update role", "role_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update role", err)
	}

	if previousName != r.Name {
		s.logger.InfoContext(ctx, "role renamed", "role_id", id, "from", previousName, "to", r.Name)
	} else {
		s.logger.InfoContext(ctx, "role updated", "role_id", id)
	}
	events.Emit(ctx, s.publisher, s.logger, events.EntityRole, events.ActionUpdated, id, r.Name)
	return FromDataModel(updated), nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return internal.NewInternalError("failed to get role", err)
	}
	if row == nil {
		return internal.ErrRoleNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, internal.ErrRoleInUse) || errors.Is(err, internal.ErrRoleNotFound) {
			s.logger.InfoContext(ctx, "role delete refused", "role_id", id, "name", row.Name, "reason", err.Error())
			return err
		}
		return internal.NewInternalError("failed to delete role", err)
	}
	s.logger.InfoContext(ctx, "role deleted", "role_id", id)
	events.Emit(ctx, s.publisher, s.logger, events.EntityRole, events.ActionDeleted, id, row.Name)
	return nil
}

// Exists is used by the user service to check role assignments.
func (s *Service) Exists(ctx context.Context, name string) (bool, error) {
	row, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return false, err
	}
	return row != nil, nil
}

func validatePermissions(perms []string) error {
	unknown := permission.Unknown(perms)
	if len(unknown) == 0 {
		return nil
	}
	return internal.NewValidationFieldError("permissions",
		fmt.Sprintf("unknown permission(s): %s", strings.Join(unknown, ", ")),
		internal.ErrCodeUnknownPerm)
}

func dedupe(perms []string) []string {
	seen := make(map[string]bool, len(perms))
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
