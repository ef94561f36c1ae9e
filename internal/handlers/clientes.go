package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/dcastellanos/gestion_distribuidora/internal/events"
	"github.com/dcastellanos/gestion_distribuidora/internal/models"
)

type ClienteHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
}

type clienteRequest struct {
	Nombre      string `json:"nombre"`
	NIT         string `json:"nit"`
	Telefono    string `json:"telefono"`
	Direccion   string `json:"direccion"`
	PoblacionID *uint  `json:"poblacion_id"`
}

func (h *ClienteHandler) List(c echo.Context) error {
	page, offset, limit := pageParams(c)

	var total int64
	if err := h.DB.Model(&models.Cliente{}).Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var items []models.Cliente
	if err := h.DB.Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, pagedResponse(items, page, limit, total))
}

func (h *ClienteHandler) Get(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id inválido")
	}
	var cliente models.Cliente
	if err := h.DB.First(&cliente, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "cliente no encontrado")
	}
	return c.JSON(http.StatusOK, cliente)
}

func (h *ClienteHandler) Create(c echo.Context) error {
	var req clienteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Nombre == "" || req.NIT == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "nombre y nit son obligatorios")
	}

	cliente := models.Cliente{
		Nombre:      req.Nombre,
		NIT:         req.NIT,
		Telefono:    req.Telefono,
		Direccion:   req.Direccion,
		PoblacionID: req.PoblacionID,
	}
	if err := h.DB.Create(&cliente).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	publish(c, h.Producer, fmt.Sprint(cliente.ID), map[string]any{
		"type":       "cliente_creado",
		"cliente_id": cliente.ID,
		"nombre":     cliente.Nombre,
	})

	return c.JSON(http.StatusCreated, cliente)
}

func (h *ClienteHandler) Update(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id inválido")
	}
	var req clienteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var cliente models.Cliente
	if err := h.DB.First(&cliente, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "cliente no encontrado")
	}

	cliente.Nombre = req.Nombre
	cliente.NIT = req.NIT
	cliente.Telefono = req.Telefono
	cliente.Direccion = req.Direccion
	cliente.PoblacionID = req.PoblacionID

	if err := h.DB.Save(&cliente).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	publish(c, h.Producer, fmt.Sprint(cliente.ID), map[string]any{
		"type":       "cliente_actualizado",
		"cliente_id": cliente.ID,
	})

	return c.JSON(http.StatusOK, cliente)
}

func (h *ClienteHandler) Delete(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id inválido")
	}
	if err := h.DB.Delete(&models.Cliente{}, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	publish(c, h.Producer, fmt.Sprint(id), map[string]any{
		"type":       "cliente_eliminado",
		"cliente_id": id,
	})

	return c.NoContent(http.StatusNoContent)
}
