package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dcastellanos/gestion_distribuidora/internal/events"
	"github.com/dcastellanos/gestion_distribuidora/internal/util"
)

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func pageParams(c echo.Context) (page, offset, limit int) {
	page = parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit = util.Calculate(page, size)
	return page, offset, limit
}

func pagedResponse(items any, page, limit int, total int64) map[string]any {
	offset := (page - 1) * limit
	return map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	}
}

// publish sends an audit event with a short deadline; failures are logged
// and never fail the request.
func publish(c echo.Context, producer *events.Producer, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := producer.PublishEvent(ctx, key, event); err != nil {
		c.Logger().Errorf("kafka publish error: %v", err)
	}
}
