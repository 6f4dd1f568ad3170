package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/frahmantamala/project-tracker/internal"
	"github.com/frahmantamala/project-tracker/internal/transport"
	"github.com/frahmantamala/project-tracker/pkg/logger"
)

// HeaderUID carries the caller's uid directly, for clients that do not log in.
const HeaderUID = "Authorization-UID"

type ServiceAPI interface {
	Authenticate(ctx context.Context, req LoginRequest) (AuthTokens, error)
	RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error)
	Identify(ctx context.Context, accessToken string) (string, error)
}

// Toucher records that a user was seen.
type Toucher interface {
	Touch(ctx context.Context, uid string)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Seen    Toucher
}

// NewHandler builds the auth handler. seen may be nil.
func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI, seen Toucher) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
		Seen:        seen,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	tokens, err := h.Service.Authenticate(r.Context(), req)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, tokens)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	tokens, err := h.Service.RefreshTokens(r.Context(), req.RefreshToken)
	if err != nil {
		h.Logger.InfoContext(r.Context(), "token refresh failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, tokens)
}

// Logout only checks the token; tokens are stateless and expire on their own.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		h.HandleServiceError(w, internal.ErrMissingIdentity)
		return
	}
	if _, err := h.Service.Identify(r.Context(), token); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// IdentityMiddleware resolves the caller from a bearer token or the
// Authorization-UID header and stores the uid in the request context.
// Requests without either pass through anonymously; a bad token is a 401.
func (h *Handler) IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var uid string
		if token := h.ExtractTokenFromHeader(r); token != "" {
			resolved, err := h.Service.Identify(ctx, token)
			if err != nil {
				h.Logger.InfoContext(ctx, "rejected bearer token", "error", err)
				h.HandleServiceError(w, err)
				return
			}
			uid = resolved
		} else {
			uid = strings.TrimSpace(r.Header.Get(HeaderUID))
		}

		if uid == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx = internal.ContextWithUserID(ctx, uid)
		ctx = logger.With(ctx, "user_uid", uid)
		if h.Seen != nil {
			h.Seen.Touch(ctx, uid)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
