package permission

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
)

// RoleStore resolves a user's role and a role's permission list. found=false
// with a nil error means the document does not exist.
type RoleStore interface {
	UserRole(ctx context.Context, uid string) (roleName string, found bool, err error)
	RolePermissions(ctx context.Context, roleName string) (perms []string, found bool, err error)
}

type Evaluator struct {
	store  RoleStore
	logger *slog.Logger
}

func NewEvaluator(store RoleStore, logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{store: store, logger: logger}
}

// Check reports whether the user's role grants action. A missing user or role
// is a plain deny; only lookup failures come back as errors.
func (e *Evaluator) Check(ctx context.Context, action, uid string) (bool, error) {
	if action == "" || uid == "" {
		return false, nil
	}

	roleName, found, err := e.store.UserRole(ctx, uid)
	if err != nil {
		return false, fmt.Errorf("lookup user %s: %w", uid, err)
	}
	if !found {
		e.logger.DebugContext(ctx, "permission check: user not found", "user_id", uid)
		return false, nil
	}

	perms, found, err := e.store.RolePermissions(ctx, roleName)
	if err != nil {
		return false, fmt.Errorf("lookup role %s: %w", roleName, err)
	}
	if !found {
		e.logger.DebugContext(ctx, "permission check: role not found", "user_id", uid, "role", roleName)
		return false, nil
	}

	return slices.Contains(perms, action), nil
}
