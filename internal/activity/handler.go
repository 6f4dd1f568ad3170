package activity

import (
	"context"
	"net/http"
	"strconv"

	"github.com/frahmantamala/project-tracker/internal"
	"github.com/frahmantamala/project-tracker/internal/transport"
)

type ServiceAPI interface {
	Record(ctx context.Context, title, description, byUser string) (*Activity, error)
	List(ctx context.Context, limit int) ([]*Activity, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// ListActivity handles GET /activity?limit=n
func (h *Handler) ListActivity(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.HandleServiceError(w, internal.NewValidationFieldError("limit", "limit must be a positive integer", internal.ErrCodeValidationFailed))
			return
		}
		limit = n
	}

	items, err := h.Service.List(r.Context(), limit)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ActivitiesResponse{Activities: items})
}

// CreateActivity handles POST /activity. The author is the caller.
func (h *Handler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.RequireIdentity(w, r)
	if !ok {
		return
	}

	var req ActivityRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	a, err := h.Service.Record(r.Context(), req.Title, req.Description, uid)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, a)
}
