package analytics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/frahmantamala/project-tracker/internal"
	"github.com/frahmantamala/project-tracker/internal/transport"
)

const maxLimit = 50

type ServiceAPI interface {
	Now() time.Time
	Summary(ctx context.Context, sel Selector) (*Summary, error)
	Breakdown(ctx context.Context, sel Selector, dim Dimension, m Metric, limit int) (*Breakdown, error)
	Timeline(ctx context.Context, sel Selector) (*Timeline, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

func (h *Handler) selector(r *http.Request) (Selector, error) {
	q := r.URL.Query()
	return ParseSelector(q.Get("range"), q.Get("quarter"), q.Get("year"), h.Service.Now())
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	sel, err := h.selector(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	out, err := h.Service.Summary(r.Context(), sel)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) Timeline(w http.ResponseWriter, r *http.Request) {
	sel, err := h.selector(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	out, err := h.Service.Timeline(r.Context(), sel)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	h.breakdown(w, r, DimensionCategory, DefaultTopN)
}

func (h *Handler) Platforms(w http.ResponseWriter, r *http.Request) {
	h.breakdown(w, r, DimensionPlatform, DefaultTopN)
}

func (h *Handler) Brands(w http.ResponseWriter, r *http.Request) {
	h.breakdown(w, r, DimensionBrand, DefaultTopN)
}

func (h *Handler) Divisions(w http.ResponseWriter, r *http.Request) {
	h.breakdown(w, r, DimensionDivision, DefaultTopN)
}

// Status returns every status; it is never folded into Others.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	h.breakdown(w, r, DimensionStatus, 0)
}

func (h *Handler) breakdown(w http.ResponseWriter, r *http.Request, dim Dimension, defaultLimit int) {
	sel, err := h.selector(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	m, err := ParseMetric(r.URL.Query().Get("metric"))
	if err != nil {
		h.HandleServiceError(w, internal.NewValidationFieldError("metric", err.Error(), internal.ErrCodeValidationFailed))
		return
	}

	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" && defaultLimit > 0 {
		l, err := strconv.Atoi(raw)
		if err != nil || l < 1 || l > maxLimit {
			h.HandleServiceError(w, internal.NewValidationFieldError("limit",
				"limit must be between 1 and "+strconv.Itoa(maxLimit), internal.ErrCodeValidationFailed))
			return
		}
		limit = l
	}

	out, err := h.Service.Breakdown(r.Context(), sel, dim, m, limit)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, out)
}
