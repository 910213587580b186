package notification_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/opst/vettracker/pkg/domain"
	"github.com/opst/vettracker/pkg/notification"
	"go.uber.org/goleak"
)

// startHub runs a hub until the end of t.
func startHub(t *testing.T) *notification.Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := notification.NewHub(echo.New().Logger)
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		hub.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-stopped
	})
	return hub
}

func receive(t *testing.T, c *notification.Client) (notification.Event, bool) {
	t.Helper()
	select {
	case msg, ok := <-c.Events():
		if !ok {
			return notification.Event{}, false
		}
		var ev notification.Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			t.Fatal(err)
		}
		return ev, true
	case <-time.After(5 * time.Second):
		t.Fatal("timeout")
		return notification.Event{}, false
	}
}

func assertEmpty(t *testing.T, c *notification.Client) {
	t.Helper()
	select {
	case msg := <-c.Events():
		t.Errorf("unexpected message: %s", msg)
	default:
	}
}

// fence waits until the hub processes envelopes sent before.
func fence(t *testing.T, hub *notification.Hub) {
	t.Helper()
	c := notification.NewClient([]string{"fence"}, 1)
	hub.Register(c)
	hub.Send("fence", notification.ErrorEvent("fence"))
	receive(t, c)
	hub.Unregister(c)
}

func TestHub(t *testing.T) {
	defer goleak.VerifyNone(t)

	t.Run("When an event is sent to a group, it should be delivered to its members only", func(t *testing.T) {
		hub := startHub(t)
		vet := notification.NewClient([]string{domain.VeterinarianGroup(2)}, 0)
		admin := notification.NewClient([]string{domain.AdminGroup, domain.OwnerGroup(1)}, 0)
		owner := notification.NewClient([]string{domain.OwnerGroup(3)}, 0)
		for _, c := range []*notification.Client{vet, admin, owner} {
			if !hub.Register(c) {
				t.Fatal("hub is not running")
			}
		}

		hub.Send(domain.OwnerGroup(1), notification.ErrorEvent("to owner 1"))
		if ev, ok := receive(t, admin); !ok || ev.Type != notification.Error {
			t.Errorf("unexpected event: %+v", ev)
		}
		fence(t, hub)
		assertEmpty(t, vet)
		assertEmpty(t, owner)

		hub.Broadcast(notification.StatusEvent(2, true))
		for _, c := range []*notification.Client{vet, admin, owner} {
			ev, ok := receive(t, c)
			if !ok || ev.Type != notification.VeterinarianStatusChanged {
				t.Errorf("unexpected event: %+v", ev)
			}
			var payload notification.StatusPayload
			if err := json.Unmarshal(ev.Payload, &payload); err != nil {
				t.Fatal(err)
			}
			if payload != (notification.StatusPayload{VetId: 2, IsAvailable: true}) {
				t.Errorf("unexpected payload: %+v", payload)
			}
		}
	})

	t.Run("When a client is unregistered, it should be closed", func(t *testing.T) {
		hub := startHub(t)
		c := notification.NewClient([]string{"g"}, 0)
		hub.Register(c)
		hub.Unregister(c)
		if _, ok := receive(t, c); ok {
			t.Error("client is not closed")
		}
		hub.Send("g", notification.ErrorEvent("after unregister"))
		fence(t, hub)
	})

	t.Run("When a client is too slow, it should be dropped", func(t *testing.T) {
		hub := startHub(t)
		slow := notification.NewClient([]string{"g"}, 1)
		hub.Register(slow)

		hub.Send("g", notification.ErrorEvent("first"))
		hub.Send("g", notification.ErrorEvent("second"))
		fence(t, hub)

		if _, ok := receive(t, slow); !ok {
			t.Error("buffered event is lost")
		}
		if _, ok := receive(t, slow); ok {
			t.Error("slow client is not dropped")
		}
	})

	t.Run("When the hub stops, it should close clients and refuse new ones", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		hub := notification.NewHub(echo.New().Logger)
		stopped := make(chan struct{})
		go func() {
			defer close(stopped)
			hub.Run(ctx)
		}()

		c := notification.NewClient([]string{"g"}, 0)
		hub.Register(c)
		cancel()
		<-stopped

		if _, ok := receive(t, c); ok {
			t.Error("client is not closed")
		}
		if hub.Register(notification.NewClient([]string{"g"}, 0)) {
			t.Error("stopped hub accepts clients")
		}
		hub.Send("g", notification.ErrorEvent("after stop")) // should not block
	})
}
