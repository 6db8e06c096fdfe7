package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"team-todo-go/internal/config"
	userdomain "team-todo-go/internal/domain/user"
	"team-todo-go/pkg/logger"
)

type contextKey int

const userKey contextKey = iota

// User is the authenticated identity handlers work with.
type User struct {
	ID        uint
	Username  string
	Nickname  string
	Email     string
	AvatarURL string
}

// UserSource resolves bearer tokens to users. Implemented by the user service.
type UserSource interface {
	GetByToken(ctx context.Context, token string) (*userdomain.User, error)
}

// TokenAuth authenticates requests by API token. AUTH_SKIP mode injects a
// mock user for local development.
type TokenAuth struct {
	users    UserSource
	log      logger.Logger
	skipAuth bool
	mockUser User
}

func NewTokenAuth(cfg config.AuthConfig, users UserSource, log logger.Logger) *TokenAuth {
	return &TokenAuth{
		users:    users,
		log:      log,
		skipAuth: cfg.SkipAuth,
		mockUser: User{
			ID:       cfg.MockUserID,
			Username: cfg.MockUsername,
			Email:    cfg.MockEmail,
		},
	}
}

func (a *TokenAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.skipAuth {
			if a.mockUser.ID == 0 {
				writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth mock user id not configured")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), a.mockUser)))
			return
		}

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}

		u, err := a.users.GetByToken(r.Context(), token)
		if err != nil {
			if !errors.Is(err, userdomain.ErrUserNotFound) {
				a.log.InternalError("auth: token lookup failed", err)
				writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
				return
			}
			unauthorized(w)
			return
		}

		ctx := WithUser(r.Context(), User{
			ID:        u.ID,
			Username:  u.Username,
			Nickname:  u.Nickname,
			Email:     u.Email,
			AvatarURL: u.AvatarURL,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(userKey).(User)
	return user, ok
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{"code": code, "message": message},
	})
}
