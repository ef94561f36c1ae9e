package guard

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/dcastellanos/gestion_distribuidora/pkg/session"
)

const loadingPage = `<!DOCTYPE html><html lang="es"><body><p>Cargando…</p></body></html>`

// Guard gates routes on the injected session manager. Unauthenticated
// requests are redirected to LoginPath with the original URL preserved in
// "next"; authenticated requests missing a required role go to LandingPath.
type Guard struct {
	Sessions    *session.Manager
	LoginPath   string
	LandingPath string
}

// Options for a single gated route group. The zero value requires
// authentication; SkipAuth opts a public route out of it.
type Options struct {
	Roles    []string
	SkipAuth bool
}

func New(sessions *session.Manager, loginPath, landingPath string) *Guard {
	if loginPath == "" {
		loginPath = "/login"
	}
	if landingPath == "" {
		landingPath = "/dashboard"
	}
	return &Guard{Sessions: sessions, LoginPath: loginPath, LandingPath: landingPath}
}

// Authenticated gates a route on authentication only.
func (g *Guard) Authenticated() echo.MiddlewareFunc {
	return g.Protect(Options{})
}

// Roles gates a route on authentication plus one of the given roles.
func (g *Guard) Roles(roles ...string) echo.MiddlewareFunc {
	return g.Protect(Options{Roles: roles})
}

func (g *Guard) Protect(opts Options) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			st := g.Sessions.State()

			if st.Loading {
				return c.HTML(http.StatusOK, loadingPage)
			}

			if !opts.SkipAuth && !st.IsAuthenticated {
				target := c.Request().URL.RequestURI()
				return c.Redirect(http.StatusFound, g.LoginPath+"?next="+url.QueryEscape(target))
			}

			if len(opts.Roles) > 0 && !g.Sessions.HasRole(opts.Roles...) {
				return c.Redirect(http.StatusFound, g.LandingPath)
			}

			return next(c)
		}
	}
}
