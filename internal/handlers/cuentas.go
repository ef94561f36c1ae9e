package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/dcastellanos/gestion_distribuidora/internal/models"
)

type CuentaHandler struct {
	DB *gorm.DB
}

type cuentaRequest struct {
	Banco  string `json:"banco"`
	Numero string `json:"numero"`
	Tipo   string `json:"tipo"`
	Activa *bool  `json:"activa"`
}

func (h *CuentaHandler) List(c echo.Context) error {
	page, offset, limit := pageParams(c)

	var total int64
	if err := h.DB.Model(&models.CuentaPago{}).Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	var items []models.CuentaPago
	if err := h.DB.Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagedResponse(items, page, limit, total))
}

func (h *CuentaHandler) Create(c echo.Context) error {
	var req cuentaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Banco == "" || req.Numero == "" || req.Tipo == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "banco, número y tipo son obligatorios")
	}

	cuenta := models.CuentaPago{
		Banco:  req.Banco,
		Numero: req.Numero,
		Tipo:   req.Tipo,
		Activa: true,
	}
	if req.Activa != nil {
		cuenta.Activa = *req.Activa
	}
	if err := h.DB.Create(&cuenta).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, cuenta)
}

func (h *CuentaHandler) Update(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id inválido")
	}
	var req cuentaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var cuenta models.CuentaPago
	if err := h.DB.First(&cuenta, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "cuenta no encontrada")
	}

	cuenta.Banco = req.Banco
	cuenta.Numero = req.Numero
	cuenta.Tipo = req.Tipo
	if req.Activa != nil {
		cuenta.Activa = *req.Activa
	}

	if err := h.DB.Save(&cuenta).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, cuenta)
}

func (h *CuentaHandler) Delete(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id inválido")
	}
	if err := h.DB.Delete(&models.CuentaPago{}, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
