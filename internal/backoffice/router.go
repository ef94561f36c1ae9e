package backoffice

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/dcastellanos/gestion_distribuidora/pkg/guard"
	"github.com/dcastellanos/gestion_distribuidora/pkg/identity"
	"github.com/dcastellanos/gestion_distribuidora/pkg/session"
	"github.com/dcastellanos/gestion_distribuidora/pkg/tokenstore"
)

type Deps struct {
	Sessions *session.Manager
	Store    *tokenstore.Store
	APIURL   string
}

func Register(e *echo.Echo, d *Deps) error {
	e.Use(echomw.Recover(), echomw.RequestID(), echomw.Logger(), echomw.Secure())

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	g := guard.New(d.Sessions, "/login", "/dashboard")
	views := &Views{Sessions: d.Sessions, LandingPath: g.LandingPath}

	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, g.LandingPath)
	})
	e.GET("/login", views.LoginForm)
	e.POST("/login", views.Login)
	e.POST("/logout", views.Logout)

	e.GET("/dashboard", views.Dashboard, g.Authenticated())
	e.GET("/parametrizacion", views.Parametrizacion, g.Roles(identity.RoleGerente))

	apiProxy, err := newProxy(d.APIURL, d.Store)
	if err != nil {
		return err
	}
	api := e.Group("/api", g.Authenticated())
	api.Any("/*", apiProxy)

	return nil
}
