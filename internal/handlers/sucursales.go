package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/dcastellanos/gestion_distribuidora/internal/models"
)

type SucursalHandler struct {
	DB *gorm.DB
}

type sucursalRequest struct {
	Nombre    string `json:"nombre"`
	Ciudad    string `json:"ciudad"`
	Direccion string `json:"direccion"`
	Telefono  string `json:"telefono"`
}

func (h *SucursalHandler) List(c echo.Context) error {
	page, offset, limit := pageParams(c)

	var total int64
	if err := h.DB.Model(&models.Sucursal{}).Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	var items []models.Sucursal
	if err := h.DB.Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagedResponse(items, page, limit, total))
}

func (h *SucursalHandler) Create(c echo.Context) error {
	var req sucursalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Nombre == "" || req.Ciudad == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "nombre y ciudad son obligatorios")
	}

	sucursal := models.Sucursal{
		Nombre:    req.Nombre,
		Ciudad:    req.Ciudad,
		Direccion: req.Direccion,
		Telefono:  req.Telefono,
	}
	if err := h.DB.Create(&sucursal).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, sucursal)
}

func (h *SucursalHandler) Update(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id inválido")
	}
	var req sucursalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var sucursal models.Sucursal
	if err := h.DB.First(&sucursal, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "sucursal no encontrada")
	}

	sucursal.Nombre = req.Nombre
	sucursal.Ciudad = req.Ciudad
	sucursal.Direccion = req.Direccion
	sucursal.Telefono = req.Telefono

	if err := h.DB.Save(&sucursal).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, sucursal)
}

func (h *SucursalHandler) Delete(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id inválido")
	}
	if err := h.DB.Delete(&models.Sucursal{}, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
