package resettoken_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/opst/vettracker/pkg/auth/resettoken"
	"github.com/opst/vettracker/pkg/utils/try"
	"github.com/redis/go-redis/v9"
)

func TestNewToken(t *testing.T) {
	a := try.To(resettoken.NewToken()).OrFatal(t)
	b := try.To(resettoken.NewToken()).OrFatal(t)
	if a == b {
		t.Errorf("tokens should be random: %s", a)
	}
	if len(a) != 43 {
		t.Errorf("unexpected length of token: %d", len(a))
	}
}

func TestRedis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	testee := resettoken.Redis(rdb)

	t.Run("When a token is put, it should be taken only once", func(t *testing.T) {
		if err := testee.Put(ctx, "tok-1", "alice@example.com", time.Hour); err != nil {
			t.Fatal(err)
		}
		if !mr.Exists(resettoken.KeyPrefix + "tok-1") {
			t.Error("token is not stored with the prefix")
		}

		email := try.To(testee.Take(ctx, "tok-1")).OrFatal(t)
		if email != "alice@example.com" {
			t.Errorf("unexpected email: %s", email)
		}
		if _, err := testee.Take(ctx, "tok-1"); !errors.Is(err, resettoken.ErrUnknownToken) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("When a token is expired, it should be unknown", func(t *testing.T) {
		if err := testee.Put(ctx, "tok-2", "alice@example.com", time.Minute); err != nil {
			t.Fatal(err)
		}
		mr.FastForward(2 * time.Minute)
		if _, err := testee.Take(ctx, "tok-2"); !errors.Is(err, resettoken.ErrUnknownToken) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.May, 15, 13, 45, 0, 0, time.UTC)
	testee := resettoken.MemoryWithClock(func() time.Time { return now })

	t.Run("When a token is put, it should be taken only once", func(t *testing.T) {
		if err := testee.Put(ctx, "tok-1", "alice@example.com", time.Hour); err != nil {
			t.Fatal(err)
		}
		email := try.To(testee.Take(ctx, "tok-1")).OrFatal(t)
		if email != "alice@example.com" {
			t.Errorf("unexpected email: %s", email)
		}
		if _, err := testee.Take(ctx, "tok-1"); !errors.Is(err, resettoken.ErrUnknownToken) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("When a token is expired, it should be unknown", func(t *testing.T) {
		if err := testee.Put(ctx, "tok-2", "alice@example.com", time.Minute); err != nil {
			t.Fatal(err)
		}
		now = now.Add(2 * time.Minute)
		if _, err := testee.Take(ctx, "tok-2"); !errors.Is(err, resettoken.ErrUnknownToken) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
