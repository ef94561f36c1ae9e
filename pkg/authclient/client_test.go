package authclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/dcastellanos/gestion_distribuidora/pkg/identity"
	"github.com/dcastellanos/gestion_distribuidora/pkg/tokenstore"
)

func mintToken(t *testing.T, exp time.Time) string {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": exp.Unix(),
	})
	signed, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func newClient(t *testing.T, baseURL string) (*Client, *tokenstore.Store) {
	store, err := tokenstore.New(t.TempDir())
	require.NoError(t, err)
	return New(baseURL, store, nil), store
}

func TestLoginPersistsToken(t *testing.T) {
	token := mintToken(t, time.Now().Add(time.Hour))

	for _, field := range []string{"token", "access_token"} {
		t.Run(field, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/auth/login/", r.URL.Path)
				var creds identity.Credentials
				require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
				require.Equal(t, "ana@acme.co", creds.Email)
				json.NewEncoder(w).Encode(map[string]any{
					field: token,
					"user": map[string]any{
						"id": 1, "nombre": "Ana", "email": "ana@acme.co", "role": "gerente",
					},
				})
			}))
			defer srv.Close()

			client, store := newClient(t, srv.URL)
			user, err := client.Login(context.Background(), identity.Credentials{Email: "ana@acme.co", Password: "secreto"})
			require.NoError(t, err)
			require.NotNil(t, user)
			require.Equal(t, identity.RoleGerente, user.Role)
			require.Equal(t, token, store.Token())
		})
	}
}

func TestLoginErrorMessages(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"message field", `{"message":"usuario bloqueado"}`, "usuario bloqueado"},
		{"detail field", `{"detail":"cuenta desactivada"}`, "cuenta desactivada"},
		{"empty body", `{}`, "credenciales inválidas"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client, store := newClient(t, srv.URL)
			_, err := client.Login(context.Background(), identity.Credentials{})
			var authErr *AuthError
			require.ErrorAs(t, err, &authErr)
			require.Equal(t, tc.want, authErr.Message)
			require.Empty(t, store.Token())
		})
	}
}

func TestLoginResponseWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"user": map[string]any{"id": 1}})
	}))
	defer srv.Close()

	client, _ := newClient(t, srv.URL)
	_, err := client.Login(context.Background(), identity.Credentials{})
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestCurrentUserNoToken(t *testing.T) {
	client, _ := newClient(t, "http://localhost:0")
	_, err := client.CurrentUser(context.Background())
	require.ErrorIs(t, err, ErrNoToken)
}

func TestCurrentUser(t *testing.T) {
	token := mintToken(t, time.Now().Add(time.Hour))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/user/", r.URL.Path)
		require.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{
			"id": 2, "nombre": "Luis", "email": "luis@acme.co", "tipo_usuario": "vendedor",
		})
	}))
	defer srv.Close()

	client, store := newClient(t, srv.URL)
	require.NoError(t, store.SetToken(token))

	user, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	require.Equal(t, identity.RoleVendedor, user.Role)
}

func TestCurrentUserServerFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, store := newClient(t, srv.URL)
	require.NoError(t, store.SetToken(mintToken(t, time.Now().Add(time.Hour))))

	_, err := client.CurrentUser(context.Background())
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestLogoutAlwaysClears(t *testing.T) {
	t.Run("server ok", func(t *testing.T) {
		var called bool
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			require.Equal(t, "/auth/logout/", r.URL.Path)
		}))
		defer srv.Close()

		client, store := newClient(t, srv.URL)
		require.NoError(t, store.SetToken(mintToken(t, time.Now().Add(time.Hour))))
		require.NoError(t, store.SaveUser(&identity.User{ID: 1}))

		require.NoError(t, client.Logout(context.Background()))
		require.True(t, called)
		require.Empty(t, store.Token())
		require.Nil(t, store.User())
	})

	t.Run("server failure still clears", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		client, store := newClient(t, srv.URL)
		require.NoError(t, store.SetToken(mintToken(t, time.Now().Add(time.Hour))))
		require.NoError(t, store.SaveUser(&identity.User{ID: 1}))

		err := client.Logout(context.Background())
		require.Error(t, err)
		require.Empty(t, store.Token())
		require.Nil(t, store.User())
	})

	t.Run("no token skips server", func(t *testing.T) {
		client, store := newClient(t, "http://localhost:0")
		require.NoError(t, client.Logout(context.Background()))
		require.Empty(t, store.Token())
	})
}

func TestIsAuthenticatedTruthTable(t *testing.T) {
	valid := mintToken(t, time.Now().Add(time.Hour))
	expired := mintToken(t, time.Now().Add(-time.Hour))
	user := &identity.User{ID: 1, Role: identity.RoleDistribuidor}

	cases := []struct {
		name  string
		token string
		user  *identity.User
		want  bool
	}{
		{"token+user", valid, user, true},
		{"token only", valid, nil, false},
		{"user only", "", user, false},
		{"expired token+user", expired, user, false},
		{"nothing", "", nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, store := newClient(t, "http://localhost:0")
			if tc.token != "" {
				require.NoError(t, store.SetToken(tc.token))
			}
			if tc.user != nil {
				require.NoError(t, store.SaveUser(tc.user))
			}
			require.Equal(t, tc.want, client.IsAuthenticated())
		})
	}
}
