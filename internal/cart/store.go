package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/pukpuklouis/blackliving-backend/pkg/errors"
	"github.com/pukpuklouis/blackliving-backend/pkg/redis"
)

// SessionStore persists carts in Redis keyed by session token. Expiry is
// delegated to the key TTL, which refreshes on every save.
type SessionStore struct {
	redis redis.Store
	ttl   time.Duration
}

// NewSessionStore builds the Redis-backed cart store.
func NewSessionStore(store redis.Store, ttl time.Duration) (*SessionStore, error) {
	if store == nil {
		return nil, fmt.Errorf("redis store required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &SessionStore{redis: store, ttl: ttl}, nil
}

// Load returns the cart for the token, or nil when the session is absent or
// has expired.
func (s *SessionStore) Load(ctx context.Context, token string) (*Cart, error) {
	if token == "" {
		return nil, nil
	}
	raw, err := s.redis.Get(ctx, s.redis.CartKey(token))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart session")
	}

	var c Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode cart session")
	}
	c.Token = token
	return &c, nil
}

// Save writes the cart back and refreshes its TTL.
func (s *SessionStore) Save(ctx context.Context, c *Cart) error {
	if c == nil || c.Token == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart token required")
	}
	payload, err := json.Marshal(c)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart session")
	}
	if err := s.redis.Set(ctx, s.redis.CartKey(c.Token), payload, s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart session")
	}
	return nil
}

// Delete removes the session entirely.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.redis.Del(ctx, s.redis.CartKey(token)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart session")
	}
	return nil
}
