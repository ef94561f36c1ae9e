package handlers

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/dcastellanos/gestion_distribuidora/internal/events"
	"github.com/dcastellanos/gestion_distribuidora/internal/models"
)

type CarteraHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
}

// roundCentavos snaps a monetary amount to two decimals. Saldos are kept
// rounded so installments in decimal fractions settle at exactly zero.
func roundCentavos(v float64) float64 {
	return math.Round(v*100) / 100
}

type facturaRequest struct {
	ClienteID        uint      `json:"cliente_id"`
	Total            float64   `json:"total"`
	FechaVencimiento time.Time `json:"fecha_vencimiento"`
}

type pagoRequest struct {
	FacturaID uint    `json:"factura_id"`
	CuentaID  uint    `json:"cuenta_id"`
	Monto     float64 `json:"monto"`
}

// ResumenCartera is the dashboard aging summary: outstanding balance grouped
// by days overdue.
type ResumenCartera struct {
	TotalPendiente float64 `json:"total_pendiente"`
	Facturas       int     `json:"facturas"`
	AlDia          float64 `json:"al_dia"`
	Hasta30        float64 `json:"vencida_1_30"`
	Hasta60        float64 `json:"vencida_31_60"`
	Hasta90        float64 `json:"vencida_61_90"`
	Mas90          float64 `json:"vencida_mas_90"`
}

func (h *CarteraHandler) CreateFactura(c echo.Context) error {
	var req facturaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.ClienteID == 0 || req.Total <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "cliente y total son obligatorios")
	}

	var cliente models.Cliente
	if err := h.DB.First(&cliente, req.ClienteID).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cliente no encontrado")
	}

	vencimiento := req.FechaVencimiento
	if vencimiento.IsZero() {
		vencimiento = time.Now().AddDate(0, 0, 30)
	}

	total := roundCentavos(req.Total)
	factura := models.Factura{
		Numero:           "F-" + uuid.NewString()[:8],
		ClienteID:        req.ClienteID,
		Total:            total,
		Saldo:            total,
		Estado:           models.FacturaPendiente,
		FechaEmision:     time.Now(),
		FechaVencimiento: vencimiento,
	}
	if err := h.DB.Create(&factura).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	publish(c, h.Producer, fmt.Sprint(factura.ID), map[string]any{
		"type":       "factura_emitida",
		"factura_id": factura.ID,
		"cliente_id": factura.ClienteID,
		"total":      factura.Total,
	})

	return c.JSON(http.StatusCreated, factura)
}

// Facturas lists pending invoices with outstanding balance, oldest due first.
func (h *CarteraHandler) Facturas(c echo.Context) error {
	page, offset, limit := pageParams(c)

	q := h.DB.Model(&models.Factura{}).Where("estado = ? AND saldo > 0", models.FacturaPendiente)
	if s := c.QueryParam("cliente_id"); s != "" {
		q = q.Where("cliente_id = ?", s)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	var items []models.Factura
	if err := q.Order("fecha_vencimiento ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagedResponse(items, page, limit, total))
}

func (h *CarteraHandler) Resumen(c echo.Context) error {
	var pendientes []models.Factura
	if err := h.DB.Where("estado = ? AND saldo > 0", models.FacturaPendiente).Find(&pendientes).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	now := time.Now()
	var resumen ResumenCartera
	for _, f := range pendientes {
		resumen.TotalPendiente += f.Saldo
		resumen.Facturas++
		dias := int(now.Sub(f.FechaVencimiento).Hours() / 24)
		switch {
		case dias <= 0:
			resumen.AlDia += f.Saldo
		case dias <= 30:
			resumen.Hasta30 += f.Saldo
		case dias <= 60:
			resumen.Hasta60 += f.Saldo
		case dias <= 90:
			resumen.Hasta90 += f.Saldo
		default:
			resumen.Mas90 += f.Saldo
		}
	}
	return c.JSON(http.StatusOK, resumen)
}

// RegistrarPago applies a payment to an invoice inside one transaction:
// the saldo decrement and the pago row commit together or not at all.
func (h *CarteraHandler) RegistrarPago(c echo.Context) error {
	var req pagoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Monto <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "el monto debe ser mayor que cero")
	}

	var pago models.Pago
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var cuenta models.CuentaPago
		if err := tx.First(&cuenta, req.CuentaID).Error; err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "cuenta no encontrada")
		}
		if !cuenta.Activa {
			return echo.NewHTTPError(http.StatusBadRequest, "cuenta inactiva")
		}

		var factura models.Factura
		if err := tx.First(&factura, req.FacturaID).Error; err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "factura no encontrada")
		}
		if factura.Estado != models.FacturaPendiente {
			return echo.NewHTTPError(http.StatusBadRequest, "la factura no admite pagos")
		}
		saldo := roundCentavos(factura.Saldo - req.Monto)
		if saldo < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "el monto excede el saldo de la factura")
		}

		factura.Saldo = saldo
		if saldo == 0 {
			factura.Saldo = 0
			factura.Estado = models.FacturaPagada
		}
		if err := tx.Save(&factura).Error; err != nil {
			return err
		}

		pago = models.Pago{
			Referencia: uuid.NewString(),
			FacturaID:  factura.ID,
			CuentaID:   cuenta.ID,
			Monto:      req.Monto,
			Fecha:      time.Now(),
		}
		return tx.Create(&pago).Error
	})
	if err != nil {
		if he, ok := err.(*echo.HTTPError); ok {
			return he
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	publish(c, h.Producer, fmt.Sprint(pago.FacturaID), map[string]any{
		"type":       "pago_registrado",
		"pago_id":    pago.ID,
		"factura_id": pago.FacturaID,
		"monto":      pago.Monto,
	})

	return c.JSON(http.StatusCreated, pago)
}

// Pagos lists payments, most recent first.
func (h *CarteraHandler) Pagos(c echo.Context) error {
	page, offset, limit := pageParams(c)

	q := h.DB.Model(&models.Pago{})
	if s := c.QueryParam("factura_id"); s != "" {
		q = q.Where("factura_id = ?", s)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	var items []models.Pago
	if err := q.Order("fecha DESC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagedResponse(items, page, limit, total))
}
