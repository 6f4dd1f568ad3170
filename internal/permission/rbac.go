package permission

import (
	"context"
	"net/http"

	"github.com/frahmantamala/project-tracker/internal"
	"github.com/frahmantamala/project-tracker/internal/transport"
)

type Checker interface {
	Check(ctx context.Context, action, uid string) (bool, error)
}

// RBAC gates routes on a single catalog permission for the request identity.
type RBAC struct {
	*transport.BaseHandler
	checker Checker
}

func NewRBAC(base *transport.BaseHandler, checker Checker) *RBAC {
	return &RBAC{BaseHandler: base, checker: checker}
}

func (ra *RBAC) Check(next http.HandlerFunc, action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := internal.UserIDFromContext(r.Context())
		if uid == "" {
			ra.Logger.WarnContext(r.Context(), "authorization check failed: no identity on request", "permission", action)
			ra.HandleServiceError(w, internal.ErrMissingIdentity)
			return
		}

		allowed, err := ra.checker.Check(r.Context(), action, uid)
		if err != nil {
			ra.Logger.ErrorContext(r.Context(), "authorization check failed", "error", err, "user_id", uid, "permission", action)
			ra.WriteError(w, http.StatusInternalServerError, "failed to check permission")
			return
		}

		if !allowed {
			ra.Logger.WarnContext(r.Context(), "access denied: insufficient permissions",
				"user_id", uid,
				"required_permission", action)
			ra.HandleServiceError(w, internal.ErrPermissionDenied)
			return
		}

		next.ServeHTTP(w, r)
	}
}

func (ra *RBAC) Require(action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return ra.Check(next.ServeHTTP, action)
	}
}
