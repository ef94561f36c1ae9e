package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/dcastellanos/gestion_distribuidora/pkg/authclient"
	"github.com/dcastellanos/gestion_distribuidora/pkg/identity"
	"github.com/dcastellanos/gestion_distribuidora/pkg/tokenstore"
)

func mintToken(t *testing.T, exp time.Time) string {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1", "exp": exp.Unix()})
	signed, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func newManager(t *testing.T, baseURL string) (*Manager, *tokenstore.Store) {
	store, err := tokenstore.New(t.TempDir())
	require.NoError(t, err)
	client := authclient.New(baseURL, store, nil)
	return NewManager(client, nil), store
}

func TestInitialStateIsLoading(t *testing.T) {
	m, _ := newManager(t, "http://localhost:0")
	st := m.State()
	require.True(t, st.Loading)
	require.False(t, st.IsAuthenticated)
}

// Valid cached user and token: bootstrap re-validates against the server
// and ends authenticated.
func TestBootstrapRevalidates(t *testing.T) {
	user := identity.User{ID: 1, Nombre: "Ana", Email: "ana@acme.co", Role: identity.RoleGerente}

	var userCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/user/", r.URL.Path)
		userCalls.Add(1)
		json.NewEncoder(w).Encode(user)
	}))
	defer srv.Close()

	m, store := newManager(t, srv.URL)
	require.NoError(t, store.SetToken(mintToken(t, time.Now().Add(time.Hour))))
	require.NoError(t, store.SaveUser(&user))

	m.Bootstrap(context.Background())

	st := m.State()
	require.False(t, st.Loading)
	require.True(t, st.IsAuthenticated)
	require.Equal(t, &user, st.User)
	require.Equal(t, int32(1), userCalls.Load())

	// a second call is a no-op
	m.Bootstrap(context.Background())
	require.Equal(t, int32(1), userCalls.Load())
}

// Server rejects the cached session: cleared silently, no error surfaces.
func TestBootstrapServerRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	m, store := newManager(t, srv.URL)
	require.NoError(t, store.SetToken(mintToken(t, time.Now().Add(time.Hour))))
	require.NoError(t, store.SaveUser(&identity.User{ID: 1, Role: identity.RoleVendedor}))

	m.Bootstrap(context.Background())

	st := m.State()
	require.False(t, st.Loading)
	require.False(t, st.IsAuthenticated)
	require.Nil(t, st.User)
	require.Empty(t, store.Token())
	require.Nil(t, store.User())
}

// Nothing persisted: bootstrap finishes without touching the server.
func TestBootstrapEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected request to %s", r.URL.Path)
	}))
	defer srv.Close()

	m, _ := newManager(t, srv.URL)
	m.Bootstrap(context.Background())

	st := m.State()
	require.False(t, st.Loading)
	require.False(t, st.IsAuthenticated)
}

// Expired token with a cached user is a stale artifact: cleared proactively.
func TestBootstrapStaleToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected request to %s", r.URL.Path)
	}))
	defer srv.Close()

	m, store := newManager(t, srv.URL)
	require.NoError(t, store.SetToken(mintToken(t, time.Now().Add(-time.Hour))))
	require.NoError(t, store.SaveUser(&identity.User{ID: 1}))

	m.Bootstrap(context.Background())

	require.False(t, m.State().IsAuthenticated)
	require.Empty(t, store.Token())
	require.Nil(t, store.User())
}

func TestLoginEndToEnd(t *testing.T) {
	user := identity.User{ID: 1, Nombre: "Ana", Email: "ana@acme.co", Role: identity.RoleGerente}
	token := mintToken(t, time.Now().Add(time.Hour))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login/":
			json.NewEncoder(w).Encode(map[string]any{"token": token})
		case "/auth/user/":
			json.NewEncoder(w).Encode(user)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	m, store := newManager(t, srv.URL)

	result := m.Login(context.Background(), identity.Credentials{Email: "ana@acme.co", Password: "secreto"})
	require.True(t, result.Success)
	require.Equal(t, &user, result.User)
	require.Empty(t, result.Error)

	st := m.State()
	require.True(t, st.IsAuthenticated)
	require.False(t, st.Loading)
	require.True(t, m.HasRole(identity.RoleGerente))
	require.True(t, m.IsGerente())
	require.False(t, m.IsVendedor())
	require.Equal(t, token, store.Token())
	require.NotNil(t, store.User())
}

func TestLoginFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "credenciales inválidas"})
	}))
	defer srv.Close()

	m, _ := newManager(t, srv.URL)

	result := m.Login(context.Background(), identity.Credentials{Email: "x@x", Password: "bad"})
	require.False(t, result.Success)
	require.Equal(t, "credenciales inválidas", result.Error)

	st := m.State()
	require.False(t, st.IsAuthenticated)
	require.False(t, st.Loading)
}

func TestLogoutClearsState(t *testing.T) {
	user := identity.User{ID: 1, Role: identity.RoleDistribuidor}
	token := mintToken(t, time.Now().Add(time.Hour))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login/":
			json.NewEncoder(w).Encode(map[string]any{"token": token})
		case "/auth/user/":
			json.NewEncoder(w).Encode(user)
		case "/auth/logout/":
			w.WriteHeader(http.StatusBadGateway) // server failure must not matter
		}
	}))
	defer srv.Close()

	m, store := newManager(t, srv.URL)
	require.True(t, m.Login(context.Background(), identity.Credentials{}).Success)

	m.Logout(context.Background())

	st := m.State()
	require.False(t, st.IsAuthenticated)
	require.Nil(t, st.User)
	require.Empty(t, store.Token())
}

func TestHasRole(t *testing.T) {
	m, _ := newManager(t, "http://localhost:0")
	require.False(t, m.HasRole(identity.RoleGerente), "no user loaded")

	m.set(&identity.User{ID: 1, Role: identity.RoleVendedor}, true, false)
	require.True(t, m.HasRole(identity.RoleVendedor))
	require.True(t, m.HasRole(identity.RoleGerente, identity.RoleVendedor))
	require.False(t, m.HasRole(identity.RoleGerente))

	m.set(&identity.User{ID: 2}, true, false)
	require.False(t, m.HasRole(identity.RoleVendedor), "empty role matches nothing")
}

func TestSubscribe(t *testing.T) {
	m, _ := newManager(t, "http://localhost:0")

	var states []State
	unsubscribe := m.Subscribe(func(st State) { states = append(states, st) })

	m.Bootstrap(context.Background())
	require.Len(t, states, 2) // loading, then settled
	require.True(t, states[0].Loading)
	require.False(t, states[1].Loading)

	unsubscribe()
	m.set(nil, false, false)
	require.Len(t, states, 2)
}
