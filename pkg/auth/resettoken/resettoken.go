// Package resettoken keeps single use tokens for password reset.
package resettoken

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is the lifetime of reset tokens.
const DefaultTTL = 24 * time.Hour

// ErrUnknownToken is returned from Take for tokens never put, already taken or expired.
var ErrUnknownToken = errors.New("unknown reset token")

type Store interface {
	// Put associates token with email for ttl.
	Put(ctx context.Context, token string, email string, ttl time.Duration) error

	// Take returns the email of token and forgets the token.
	Take(ctx context.Context, token string) (string, error)
}

// NewToken generates a random token of 32 bytes, encoded in base64url without padding.
func NewToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// KeyPrefix is the prefix of redis keys for reset tokens.
const KeyPrefix = "vettracker:reset:"

type redisStore struct {
	rdb redis.Cmdable
}

// Redis stores tokens in redis, so that any replica can take them.
func Redis(rdb redis.Cmdable) Store {
	return &redisStore{rdb: rdb}
}

func (r *redisStore) Put(ctx context.Context, token string, email string, ttl time.Duration) error {
	return r.rdb.Set(ctx, KeyPrefix+token, email, ttl).Err()
}

func (r *redisStore) Take(ctx context.Context, token string) (string, error) {
	email, err := r.rdb.GetDel(ctx, KeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrUnknownToken
	}
	if err != nil {
		return "", err
	}
	return email, nil
}

type entry struct {
	email   string
	expires time.Time
}

type memoryStore struct {
	m       sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// Memory stores tokens in the process. Tokens are lost on restart.
func Memory() Store {
	return MemoryWithClock(time.Now)
}

func MemoryWithClock(now func() time.Time) Store {
	return &memoryStore{entries: map[string]entry{}, now: now}
}

func (s *memoryStore) Put(_ context.Context, token string, email string, ttl time.Duration) error {
	s.m.Lock()
	defer s.m.Unlock()

	now := s.now()
	for t, e := range s.entries {
		if !now.Before(e.expires) {
			delete(s.entries, t)
		}
	}
	s.entries[token] = entry{email: email, expires: now.Add(ttl)}
	return nil
}

func (s *memoryStore) Take(_ context.Context, token string) (string, error) {
	s.m.Lock()
	defer s.m.Unlock()

	e, ok := s.entries[token]
	if !ok {
		return "", ErrUnknownToken
	}
	delete(s.entries, token)
	if !s.now().Before(e.expires) {
		return "", ErrUnknownToken
	}
	return e.email, nil
}
