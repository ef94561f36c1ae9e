package auth

import (
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dcastellanos/gestion_distribuidora/internal/revocation"
	"github.com/dcastellanos/gestion_distribuidora/internal/tokens"
)

const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
	CtxRole   = "role"
	CtxJTI    = "jti"
	CtxExp    = "exp"
)

// Middleware authenticates the Authorization bearer header, rejects revoked
// tokens, and puts the identity claims on the echo context.
func Middleware(secret []byte, revoked *revocation.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
			}
			claims, err := tokens.AccessClaimsFromToken(token, secret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}
			if claims.Subject == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token has no subject")
			}
			if revoked.IsRevoked(c.Request().Context(), claims.ID) {
				return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
			}

			c.Set(CtxUserID, claims.Subject)
			c.Set(CtxEmail, claims.Email)
			c.Set(CtxRole, claims.Role)
			c.Set(CtxJTI, claims.ID)
			if claims.ExpiresAt != nil {
				c.Set(CtxExp, claims.ExpiresAt.Time)
			}

			return next(c)
		}
	}
}

func RequireRole(required ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			if role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing role")
			}
			if !slices.Contains(required, role) {
				return echo.NewHTTPError(http.StatusForbidden, "no tiene permisos suficientes")
			}
			return next(c)
		}
	}
}
