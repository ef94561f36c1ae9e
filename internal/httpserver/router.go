package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/dcastellanos/gestion_distribuidora/internal/events"
	"github.com/dcastellanos/gestion_distribuidora/internal/handlers"
	"github.com/dcastellanos/gestion_distribuidora/internal/middleware/auth"
	"github.com/dcastellanos/gestion_distribuidora/internal/revocation"
	"github.com/dcastellanos/gestion_distribuidora/pkg/identity"
)

type Deps struct {
	DB        *gorm.DB
	JWTSecret []byte
	Producer  *events.Producer
	Revoked   *revocation.Store

	SearchHandler *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.Use(echomw.Recover(), echomw.RequestID(), echomw.Logger(), echomw.Secure())

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authHandler := &handlers.AuthHandler{DB: d.DB, JWTSecret: d.JWTSecret, Producer: d.Producer, Revoked: d.Revoked}
	clientes := &handlers.ClienteHandler{DB: d.DB, Producer: d.Producer}
	sucursales := &handlers.SucursalHandler{DB: d.DB}
	poblaciones := &handlers.PoblacionHandler{DB: d.DB}
	cuentas := &handlers.CuentaHandler{DB: d.DB}
	cartera := &handlers.CarteraHandler{DB: d.DB, Producer: d.Producer}

	bearer := auth.Middleware(d.JWTSecret, d.Revoked)
	gerente := auth.RequireRole(identity.RoleGerente)

	e.POST("/auth/login/", authHandler.Login)
	e.POST("/auth/logout/", authHandler.Logout, bearer)
	e.GET("/auth/user/", authHandler.Me, bearer)

	api := e.Group("/api/v1", bearer)

	api.GET("/clientes", clientes.List)
	api.GET("/clientes/:id", clientes.Get)
	api.POST("/clientes", clientes.Create)
	api.PUT("/clientes/:id", clientes.Update)
	api.DELETE("/clientes/:id", clientes.Delete, gerente)
	if d.SearchHandler != nil {
		api.GET("/clientes/search", d.SearchHandler.Clientes)
	}

	api.GET("/sucursales", sucursales.List)
	api.POST("/sucursales", sucursales.Create, gerente)
	api.PUT("/sucursales/:id", sucursales.Update, gerente)
	api.DELETE("/sucursales/:id", sucursales.Delete, gerente)

	api.GET("/poblaciones", poblaciones.List)
	api.POST("/poblaciones", poblaciones.Create, gerente)
	api.PUT("/poblaciones/:id", poblaciones.Update, gerente)
	api.PUT("/poblaciones/:id/sucursal", poblaciones.Assign, gerente)
	api.DELETE("/poblaciones/:id", poblaciones.Delete, gerente)

	api.GET("/cuentas", cuentas.List)
	api.POST("/cuentas", cuentas.Create, gerente)
	api.PUT("/cuentas/:id", cuentas.Update, gerente)
	api.DELETE("/cuentas/:id", cuentas.Delete, gerente)

	api.POST("/facturas", cartera.CreateFactura)
	api.GET("/cartera/facturas", cartera.Facturas)
	api.GET("/cartera/resumen", cartera.Resumen)
	api.GET("/cartera/pagos", cartera.Pagos)
	api.POST("/cartera/pagos", cartera.RegistrarPago)
}
