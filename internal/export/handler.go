package export

import (
	"context"
	"net/http"

	"github.com/frahmantamala/project-tracker/internal/transport"
)

type ServiceAPI interface {
	ProjectsCSV(ctx context.Context) (*Document, error)
	ArchiveProjects(ctx context.Context) (*Archive, error)
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

// Download handles GET /projects/export
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Service.ProjectsCSV(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", ContentTypeCSV)
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(doc.Body)); err != nil {
		h.Logger.Error("failed to write csv response", "error", err)
	}
}

// Archive handles POST /projects/export
func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.ArchiveProjects(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, out)
}
