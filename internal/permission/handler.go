package permission

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/frahmantamala/project-tracker/internal"
	"github.com/frahmantamala/project-tracker/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	checker Checker
}

func NewHandler(base *transport.BaseHandler, checker Checker) *Handler {
	return &Handler{BaseHandler: base, checker: checker}
}

// CheckPermission answers whether the caller may perform activityTitle.
func (h *Handler) CheckPermission(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	if r.Body == nil {
		h.HandleServiceError(w, internal.ErrMissingTitle)
		return
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleServiceError(w, internal.ErrInvalidBody)
		return
	}
	if strings.TrimSpace(req.ActivityTitle) == "" {
		h.HandleServiceError(w, internal.ErrMissingTitle)
		return
	}

	uid := internal.UserIDFromContext(r.Context())
	allowed, err := h.checker.Check(r.Context(), req.ActivityTitle, uid)
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "CheckPermission: lookup failed", "error", err, "user_id", uid)
		h.WriteError(w, http.StatusInternalServerError, "failed to check permission")
		return
	}
	if !allowed {
		h.Logger.WarnContext(r.Context(), "permission denied", "user_id", uid, "action", req.ActivityTitle)
		h.HandleServiceError(w, internal.ErrPermissionDenied)
		return
	}

	h.WriteJSON(w, http.StatusOK, CheckResponse{Success: true})
}

func (h *Handler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, CatalogResponse{Permissions: All()})
}
