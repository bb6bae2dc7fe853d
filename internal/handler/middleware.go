package handler

import (
	"context"
	"net/http"
	"strings"

	"ine-ocr-server/internal/domain"
)

const guestHeader = "X-Guest-Id"

// Guest IDs act as the only credential, so they must be random per device
// (a UUIDv4 fits) and long enough not to be guessed.
const (
	minGuestIDLength = 32
	maxGuestIDLength = 128
)

// AuthMiddleware validates Supabase JWT tokens. With guests allowed, a request
// without Authorization may identify itself through X-Guest-Id instead.
type AuthMiddleware struct {
	authService domain.AuthService
	logger      domain.Logger
	allowGuest  bool
}

func NewAuthMiddleware(authService domain.AuthService, logger domain.Logger, allowGuest bool) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		logger:      logger,
		allowGuest:  allowGuest,
	}
}

func (m *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if authHeader == "" {
			if m.allowGuest {
				if guestID := strings.TrimSpace(r.Header.Get(guestHeader)); guestID != "" {
					m.serveGuest(w, r, next, guestID)
					return
				}
			}
			writeError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		// Extract token from "Bearer <token>" format
		parts := strings.Fields(authHeader)
		if len(parts) == 0 || parts[0] != "Bearer" || len(parts) > 2 {
			writeError(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}
		if len(parts) == 1 {
			writeError(w, http.StatusUnauthorized, "Token required")
			return
		}
		token := parts[1]

		user, err := m.authService.ValidateToken(token)
		if err != nil {
			m.logger.Warn("Token validation failed", "path", r.URL.Path, "error", err)
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		ctx = context.WithValue(ctx, tokenContextKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) serveGuest(w http.ResponseWriter, r *http.Request, next http.Handler, guestID string) {
	if len(guestID) < minGuestIDLength || len(guestID) > maxGuestIDLength || strings.ContainsAny(guestID, "/\\ \t") {
		writeError(w, http.StatusUnauthorized, "Invalid guest identity")
		return
	}

	user := &domain.SupabaseUser{ID: "guest:" + guestID, IsGuest: true}
	m.logger.Debug("Guest request", "user_id", user.ID, "path", r.URL.Path)

	ctx := context.WithValue(r.Context(), userContextKey, user)
	next.ServeHTTP(w, r.WithContext(ctx))
}
