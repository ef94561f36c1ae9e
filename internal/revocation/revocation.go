package revocation

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// Store keeps revoked token ids until the token would have expired anyway.
// A nil Store (no Redis configured) never revokes anything.
type Store struct {
	client *redis.Client
}

func New(redisURL string) (*Store, error) {
	if redisURL == "" {
		return nil, nil
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &Store{client: client}, nil
}

func (s *Store) Revoke(ctx context.Context, jti string, until time.Time) error {
	if s == nil {
		return nil
	}
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, "revoked:"+jti, "1", ttl).Err()
}

func (s *Store) IsRevoked(ctx context.Context, jti string) bool {
	if s == nil {
		return false
	}
	n, err := s.client.Exists(ctx, "revoked:"+jti).Result()
	return err == nil && n > 0
}

func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.client.Close()
}
