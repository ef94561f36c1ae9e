package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/dcastellanos/gestion_distribuidora/internal/models"
)

type PoblacionHandler struct {
	DB *gorm.DB
}

type poblacionRequest struct {
	Nombre       string `json:"nombre"`
	Departamento string `json:"departamento"`
	SucursalID   *uint  `json:"sucursal_id"`
}

func (h *PoblacionHandler) List(c echo.Context) error {
	page, offset, limit := pageParams(c)

	q := h.DB.Model(&models.Poblacion{})
	if s := c.QueryParam("sucursal_id"); s != "" {
		q = q.Where("sucursal_id = ?", s)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	var items []models.Poblacion
	if err := q.Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagedResponse(items, page, limit, total))
}

func (h *PoblacionHandler) Create(c echo.Context) error {
	var req poblacionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Nombre == "" || req.Departamento == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "nombre y departamento son obligatorios")
	}

	poblacion := models.Poblacion{
		Nombre:       req.Nombre,
		Departamento: req.Departamento,
		SucursalID:   req.SucursalID,
	}
	if err := h.DB.Create(&poblacion).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, poblacion)
}

func (h *PoblacionHandler) Update(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id inválido")
	}
	var req poblacionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var poblacion models.Poblacion
	if err := h.DB.First(&poblacion, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "población no encontrada")
	}

	poblacion.Nombre = req.Nombre
	poblacion.Departamento = req.Departamento
	poblacion.SucursalID = req.SucursalID

	if err := h.DB.Save(&poblacion).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, poblacion)
}

// Assign parametrizes which sucursal covers the población.
func (h *PoblacionHandler) Assign(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id inválido")
	}
	var req struct {
		SucursalID *uint `json:"sucursal_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var poblacion models.Poblacion
	if err := h.DB.First(&poblacion, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "población no encontrada")
	}

	if req.SucursalID != nil {
		var sucursal models.Sucursal
		if err := h.DB.First(&sucursal, *req.SucursalID).Error; err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "sucursal no encontrada")
		}
	}

	poblacion.SucursalID = req.SucursalID
	if err := h.DB.Save(&poblacion).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, poblacion)
}

func (h *PoblacionHandler) Delete(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id inválido")
	}
	if err := h.DB.Delete(&models.Poblacion{}, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
