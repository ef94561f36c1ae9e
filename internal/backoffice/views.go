package backoffice

import (
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dcastellanos/gestion_distribuidora/pkg/identity"
	"github.com/dcastellanos/gestion_distribuidora/pkg/session"
)

var loginTmpl = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html lang="es"><head><meta charset="utf-8"><title>Ingreso</title></head>
<body>
<h1>Gestión Distribuidora</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="/login">
  <input type="hidden" name="next" value="{{.Next}}">
  <label>Correo <input type="email" name="email" required></label>
  <label>Contraseña <input type="password" name="password" required></label>
  <button type="submit">Ingresar</button>
</form>
</body></html>`))

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="es"><head><meta charset="utf-8"><title>Panel</title></head>
<body>
<h1>Bienvenido, {{.User.Nombre}}</h1>
<p>Rol: {{.User.Role}}</p>
<ul>
  <li><a href="/api/v1/cartera/resumen">Resumen de cartera</a></li>
  <li><a href="/api/v1/cartera/facturas">Facturas pendientes</a></li>
  {{if .EsGerente}}<li><a href="/parametrizacion">Parametrización</a></li>{{end}}
</ul>
<form method="post" action="/logout"><button type="submit">Salir</button></form>
</body></html>`))

var parametrizacionTmpl = template.Must(template.New("param").Parse(`<!DOCTYPE html>
<html lang="es"><head><meta charset="utf-8"><title>Parametrización</title></head>
<body>
<h1>Parametrización</h1>
<ul>
  <li><a href="/api/v1/cuentas">Cuentas de pago</a></li>
  <li><a href="/api/v1/sucursales">Sucursales</a></li>
  <li><a href="/api/v1/poblaciones">Poblaciones</a></li>
  <li><a href="/api/v1/clientes">Clientes</a></li>
</ul>
<p><a href="/dashboard">Volver</a></p>
</body></html>`))

type Views struct {
	Sessions    *session.Manager
	LandingPath string
}

func (v *Views) LoginForm(c echo.Context) error {
	if v.Sessions.State().IsAuthenticated {
		return c.Redirect(http.StatusFound, v.LandingPath)
	}
	return v.renderLogin(c, "", c.QueryParam("next"))
}

func (v *Views) Login(c echo.Context) error {
	creds := identity.Credentials{
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
	}

	result := v.Sessions.Login(c.Request().Context(), creds)
	if !result.Success {
		return v.renderLogin(c, result.Error, c.FormValue("next"))
	}

	target := safeNext(c.FormValue("next"), v.LandingPath)
	return c.Redirect(http.StatusFound, target)
}

func (v *Views) Logout(c echo.Context) error {
	v.Sessions.Logout(c.Request().Context())
	return c.Redirect(http.StatusFound, "/login")
}

func (v *Views) Dashboard(c echo.Context) error {
	st := v.Sessions.State()
	var buf strings.Builder
	err := dashboardTmpl.Execute(&buf, map[string]any{
		"User":      st.User,
		"EsGerente": v.Sessions.IsGerente(),
	})
	if err != nil {
		return err
	}
	return c.HTML(http.StatusOK, buf.String())
}

func (v *Views) Parametrizacion(c echo.Context) error {
	var buf strings.Builder
	if err := parametrizacionTmpl.Execute(&buf, nil); err != nil {
		return err
	}
	return c.HTML(http.StatusOK, buf.String())
}

func (v *Views) renderLogin(c echo.Context, errMsg, next string) error {
	var buf strings.Builder
	err := loginTmpl.Execute(&buf, map[string]string{
		"Error": errMsg,
		"Next":  next,
	})
	if err != nil {
		return err
	}
	status := http.StatusOK
	if errMsg != "" {
		status = http.StatusUnauthorized
	}
	return c.HTML(status, buf.String())
}

// safeNext only honors same-site relative paths, so the post-login redirect
// cannot leave the panel.
func safeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return fallback
	}
	if _, err := url.Parse(next); err != nil {
		return fallback
	}
	return next
}
