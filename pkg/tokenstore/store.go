package tokenstore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dcastellanos/gestion_distribuidora/pkg/identity"
)

const (
	tokenFile = "token"
	userFile  = "user.json"
)

// Store persists the bearer token and the cached user record under a fixed
// state directory, so a session survives restarts of the panel.
type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("tokenstore: empty state dir")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

func (s *Store) SetToken(token string) error {
	return os.WriteFile(filepath.Join(s.dir, tokenFile), []byte(token), 0o600)
}

// Token returns the persisted token, or "" when none is stored.
func (s *Store) Token() string {
	data, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if err != nil {
		return ""
	}
	return string(data)
}

// RemoveToken deletes the persisted token. Removing an absent token is not
// an error.
func (s *Store) RemoveToken() error {
	err := os.Remove(filepath.Join(s.dir, tokenFile))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// IsTokenValid decodes the token's payload without verifying the signature
// and checks the exp claim. Malformed tokens, missing claims and past expiry
// all report false; verification is the server's job.
func (s *Store) IsTokenValid() bool {
	token := s.Token()
	if token == "" {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.After(time.Now())
}

func (s *Store) SaveUser(u *identity.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, userFile), data, 0o600)
}

// User returns the cached user record, or nil when absent or unparsable.
func (s *Store) User() *identity.User {
	data, err := os.ReadFile(filepath.Join(s.dir, userFile))
	if err != nil {
		return nil
	}
	var u identity.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil
	}
	return &u
}

// RemoveUser deletes the cached user record; idempotent like RemoveToken.
func (s *Store) RemoveUser() error {
	err := os.Remove(filepath.Join(s.dir, userFile))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
