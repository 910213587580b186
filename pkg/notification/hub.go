// Package notification pushes events to users connected with websocket.
//
// Connections join groups (see domain.Principal.Groups) in a Hub.
// Events are published to a Relay, and every Hub piped from the relay delivers them,
// so that events reach users connected to any replica.
package notification

import (
	"context"
	"encoding/json"

	"github.com/labstack/echo/v4"
)

// DefaultBuffer is the number of events queued per client.
const DefaultBuffer = 16

// Client is a member of a hub.
//
// Events for the client are read from Events. The channel is closed when
// the client is unregistered, or dropped because its buffer has been full.
type Client struct {
	groups []string
	send   chan []byte
}

func NewClient(groups []string, buffer int) *Client {
	if buffer < 1 {
		buffer = DefaultBuffer
	}
	return &Client{groups: groups, send: make(chan []byte, buffer)}
}

func (c *Client) Events() <-chan []byte {
	return c.send
}

type Hub struct {
	logger echo.Logger

	clients map[*Client]struct{}
	groups  map[string]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	deliver    chan Envelope
	done       chan struct{}
}

func NewHub(logger echo.Logger) *Hub {
	return &Hub{
		logger:     logger,
		clients:    map[*Client]struct{}{},
		groups:     map[string]map[*Client]struct{}{},
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliver:    make(chan Envelope, 64),
		done:       make(chan struct{}),
	}
}

// Run delivers events until ctx is done.
//
// When it returns, all clients are closed and the hub cannot be used any more.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for c := range h.clients {
			h.remove(c)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			for _, g := range c.groups {
				members, ok := h.groups[g]
				if !ok {
					members = map[*Client]struct{}{}
					h.groups[g] = members
				}
				members[c] = struct{}{}
			}
		case c := <-h.unregister:
			h.remove(c)
		case env := <-h.deliver:
			h.dispatch(env)
		}
	}
}

func (h *Hub) remove(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	for _, g := range c.groups {
		if members, ok := h.groups[g]; ok {
			delete(members, c)
			if len(members) == 0 {
				delete(h.groups, g)
			}
		}
	}
	close(c.send)
}

func (h *Hub) dispatch(env Envelope) {
	msg, err := json.Marshal(env.Event)
	if err != nil {
		h.logger.Errorf("notification: cannot marshal event %s: %v", env.Event.Type, err)
		return
	}

	targets := h.clients
	if env.Group != "" {
		targets = h.groups[env.Group]
	}
	for c := range targets {
		select {
		case c.send <- msg:
		default:
			h.logger.Warnf("notification: client of %v is too slow, dropped", c.groups)
			h.remove(c)
		}
	}
}

// Register adds c to the hub. It returns false when the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes c from the hub and closes its events.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Send delivers ev to the members of group.
func (h *Hub) Send(group string, ev Event) {
	h.post(Envelope{Group: group, Event: ev})
}

// Broadcast delivers ev to all clients.
func (h *Hub) Broadcast(ev Event) {
	h.post(Envelope{Event: ev})
}

func (h *Hub) post(env Envelope) {
	select {
	case h.deliver <- env:
	case <-h.done:
	}
}

// Pipe delivers envelopes from relay to the hub until ctx is done.
func Pipe(ctx context.Context, relay Relay, hub *Hub) error {
	return relay.Subscribe(ctx, hub.post)
}
