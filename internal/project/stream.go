package project

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/frahmantamala/project-tracker/internal"
)

const streamKeepAlive = 25 * time.Second

// Stream serves the project list as server-sent events: the current list
// first, then a new event whenever the feed publishes a newer snapshot.
// Event ids are snapshot versions.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.HandleServiceError(w, internal.NewInternalError("streaming is not supported", nil))
		return
	}

	ctx := r.Context()
	snaps, err := h.Feed.Subscribe(ctx)
	if err != nil {
		h.HandleServiceError(w, internal.NewInternalError("failed to load projects", err))
		return
	}

	// The server write timeout would otherwise end the stream.
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		h.Logger.DebugContext(ctx, "write deadline left in place for project stream", "error", err)
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	keepAlive := time.NewTicker(streamKeepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case snap, ok := <-snaps:
			if !ok {
				return
			}
			payload, err := json.Marshal(ProjectsResponse{Projects: snap.Projects})
			if err != nil {
				h.Logger.ErrorContext(ctx, "failed to encode project snapshot", "version", snap.Version, "error", err)
				return
			}
			if _, err := fmt.Fprintf(w, "id: %d\nevent: projects\ndata: %s\n\n", snap.Version, payload); err != nil {
				return
			}
			flusher.Flush()
		case <-keepAlive.C:
			if _, err := io.WriteString(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
