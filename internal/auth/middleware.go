package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/hanbutik/backend-butik/internal/cart"
	"github.com/hanbutik/backend-butik/internal/common"
	dbgen "github.com/hanbutik/backend-butik/internal/db/gen"
)

var errNoToken = errors.New("auth: token missing")

// RoleSource resolves the caller's role from the users table.
type RoleSource interface {
	GetUserByID(ctx context.Context, id pgtype.UUID) (dbgen.User, error)
}

// Middleware wires authentication context into HTTP handlers.
type Middleware struct {
	Verifier Verifier
	Users    RoleSource
}

// RequireAuth enforces that a valid token is present before executing the next handler.
func (m Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, err := m.authenticateRequest(r)
		if err != nil {
			writeUnauthorized(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin additionally checks the caller's role against the users
// table. The token alone never grants admin access.
func (m Middleware) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := common.UserID(r.Context())
		if !ok || m.Users == nil {
			common.JSONError(w, http.StatusForbidden, common.CodeForbidden, "admin access required", nil)
			return
		}
		uid, err := cart.ToUUID(userID)
		if err != nil {
			common.JSONError(w, http.StatusForbidden, common.CodeForbidden, "admin access required", nil)
			return
		}
		user, err := m.Users.GetUserByID(r.Context(), uid)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				common.JSONError(w, http.StatusForbidden, common.CodeForbidden, "admin access required", nil)
				return
			}
			common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "could not resolve role", nil)
			return
		}
		if user.Role != "admin" {
			common.JSONError(w, http.StatusForbidden, common.CodeForbidden, "admin access required", nil)
			return
		}
		next.ServeHTTP(w, r.WithContext(common.WithRole(r.Context(), user.Role)))
	}))
}

func (m Middleware) authenticateRequest(r *http.Request) (context.Context, error) {
	token := extractToken(r)
	if token == "" {
		return r.Context(), errNoToken
	}
	userID, err := m.Verifier.ParseAccessToken(token)
	if err != nil {
		return r.Context(), err
	}
	return common.WithUserID(r.Context(), userID), nil
}

func extractToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func writeUnauthorized(w http.ResponseWriter, err error) {
	if errors.Is(err, errNoToken) {
		common.JSONError(w, http.StatusUnauthorized, common.CodeUnauthorized, "missing or invalid token", nil)
		return
	}
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusUnauthorized
		}
		common.JSONError(w, status, appErr.Code, appErr.Message, appErr.Details)
		return
	}
	common.JSONError(w, http.StatusUnauthorized, common.CodeUnauthorized, "missing or invalid token", nil)
}
