package notification

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// Relay carries envelopes to subscribers. Subscribers may live in other processes.
type Relay interface {
	Publish(ctx context.Context, env Envelope) error

	// Subscribe calls f for each envelope published after Subscribe returns,
	// until ctx is done.
	Subscribe(ctx context.Context, f func(Envelope)) error
}

type localRelay struct {
	m    sync.RWMutex
	next int
	subs map[int]func(Envelope)
}

// Local relays envelopes in the process.
func Local() Relay {
	return &localRelay{subs: map[int]func(Envelope){}}
}

func (r *localRelay) Publish(_ context.Context, env Envelope) error {
	r.m.RLock()
	defer r.m.RUnlock()
	for _, f := range r.subs {
		f(env)
	}
	return nil
}

func (r *localRelay) Subscribe(ctx context.Context, f func(Envelope)) error {
	r.m.Lock()
	id := r.next
	r.next += 1
	r.subs[id] = f
	r.m.Unlock()

	context.AfterFunc(ctx, func() {
		r.m.Lock()
		defer r.m.Unlock()
		delete(r.subs, id)
	})
	return nil
}

// DefaultChannel is the redis channel of envelopes.
const DefaultChannel = "vettracker:notifications"

type redisRelay struct {
	rdb     *redis.Client
	channel string
	logger  echo.Logger
}

// Redis relays envelopes through redis PUBLISH/SUBSCRIBE on channel.
func Redis(rdb *redis.Client, channel string, logger echo.Logger) Relay {
	if channel == "" {
		channel = DefaultChannel
	}
	return &redisRelay{rdb: rdb, channel: channel, logger: logger}
}

func (r *redisRelay) Publish(ctx context.Context, env Envelope) error {
	b, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return r.rdb.Publish(ctx, r.channel, b).Err()
}

func (r *redisRelay) Subscribe(ctx context.Context, f func(Envelope)) error {
	pubsub := r.rdb.Subscribe(ctx, r.channel)
	// wait for confirmation of the subscription.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return err
	}

	ch := pubsub.Channel()
	go func() {
		defer pubsub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var env Envelope
				if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
					r.logger.Warnf("notification: broken envelope on %s: %v", r.channel, err)
					continue
				}
				f(env)
			}
		}
	}()
	return nil
}
