package handlers

import (
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/dcastellanos/gestion_distribuidora/internal/es"
	"github.com/dcastellanos/gestion_distribuidora/internal/service/search"
)

type SearchHandler struct {
	ES *elasticsearch.Client
}

func (h *SearchHandler) Clientes(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "falta el parámetro q")
	}
	page, offset, limit := pageParams(c)

	total, items, err := search.Clientes(c.Request().Context(), h.ES, es.ClientesIndex, query, offset, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, pagedResponse(items, page, limit, total))
}
