package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/dcastellanos/gestion_distribuidora/internal/events"
	"github.com/dcastellanos/gestion_distribuidora/internal/hash"
	"github.com/dcastellanos/gestion_distribuidora/internal/middleware/auth"
	"github.com/dcastellanos/gestion_distribuidora/internal/models"
	"github.com/dcastellanos/gestion_distribuidora/internal/revocation"
	"github.com/dcastellanos/gestion_distribuidora/internal/tokens"
)

type AuthHandler struct {
	DB        *gorm.DB
	JWTSecret []byte
	Producer  *events.Producer
	Revoked   *revocation.Store
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de petición inválido")
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "credenciales inválidas")
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "credenciales inválidas")
	}

	token, _, err := tokens.SignAccessToken(fmt.Sprint(user.ID), user.Email, user.Role, h.JWTSecret)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "no se pudo crear el token")
	}

	publish(c, h.Producer, fmt.Sprint(user.ID), map[string]any{
		"type":    "user_logged_in",
		"user_id": user.ID,
		"email":   user.Email,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user":  user,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	jti, _ := c.Get(auth.CtxJTI).(string)
	exp, _ := c.Get(auth.CtxExp).(time.Time)

	if jti != "" && !exp.IsZero() {
		if err := h.Revoked.Revoke(c.Request().Context(), jti, exp); err != nil {
			c.Logger().Errorf("revoke error: %v", err)
		}
	}

	userID, _ := c.Get(auth.CtxUserID).(string)
	publish(c, h.Producer, userID, map[string]any{
		"type":    "user_logged_out",
		"user_id": userID,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "sesión cerrada"})
}

func (h *AuthHandler) Me(c echo.Context) error {
	userID, _ := c.Get(auth.CtxUserID).(string)

	var user models.User
	if err := h.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "usuario no encontrado")
	}
	return c.JSON(http.StatusOK, user)
}
