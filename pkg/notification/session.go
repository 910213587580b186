package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/opst/vettracker/pkg/domain"
)

// Sender publishes events to groups.
type Sender interface {
	Send(ctx context.Context, group string, ev Event) error
}

var _ Sender = &Notifier{}

type SessionConfig struct {
	// WriteWait is the time allowed to write a message.
	WriteWait time.Duration

	// PongWait is the time allowed to read the next pong from the client.
	PongWait time.Duration

	// PingPeriod should be less than PongWait.
	PingPeriod time.Duration

	MaxMessageSize int64

	// Buffer is the number of events queued for the client.
	Buffer int
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     54 * time.Second,
		MaxMessageSize: 4096,
		Buffer:         DefaultBuffer,
	}
}

func NewUpgrader(checkOrigin func(r *http.Request) bool) *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin,
	}
}

// Inbound is a message from clients.
type Inbound struct {
	Type    string `json:"type"`
	To      Party  `json:"to"`
	Message string `json:"message"`
}

// ChatAllowed tells whether from can chat with to.
//
// Chats are between an owner and a veterinarian.
func ChatAllowed(from domain.Recipient, to domain.Recipient) bool {
	if to.UserId <= 0 {
		return false
	}
	switch from.Role {
	case domain.RoleOwner:
		return to.Role == domain.RoleVeterinarian
	case domain.RoleVeterinarian:
		return to.Role == domain.RoleOwner
	default:
		return false
	}
}

type session struct {
	conn      *websocket.Conn
	principal domain.Principal
	client    *Client
	replies   chan []byte
	sender    Sender
	logger    echo.Logger
	config    SessionConfig
}

// Serve runs a websocket session of principal on conn until the connection or ctx ends.
//
// The client joins the groups of principal in hub.
// Chat messages from the client are sent through sender.
func Serve(
	ctx context.Context, conn *websocket.Conn, hub *Hub, sender Sender,
	principal domain.Principal, logger echo.Logger, config SessionConfig,
) {
	s := &session{
		conn:      conn,
		principal: principal,
		client:    NewClient(principal.Groups(), config.Buffer),
		replies:   make(chan []byte, 4),
		sender:    sender,
		logger:    logger,
		config:    config,
	}
	if !hub.Register(s.client) {
		conn.Close()
		return
	}
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	written := make(chan struct{})
	go func() {
		defer close(written)
		s.writePump()
	}()

	s.readPump(ctx)
	hub.Unregister(s.client)
	<-written
}

func (s *session) reply(ev Event) {
	b, err := json.Marshal(ev)
	if err != nil {
		return
	}
	select {
	case s.replies <- b:
	default:
	}
}

func (s *session) readPump(ctx context.Context) {
	s.conn.SetReadLimit(s.config.MaxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(s.config.PongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.config.PongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debugf("websocket of %s:%d is closed: %v", s.principal.Role, s.principal.UserId, err)
			}
			return
		}

		var in Inbound
		if err := json.Unmarshal(data, &in); err != nil {
			s.reply(ErrorEvent("malformed message"))
			continue
		}
		switch in.Type {
		case "chat":
			to := domain.Recipient{Role: in.To.Role, UserId: in.To.UserId}
			if !ChatAllowed(s.principal.Recipient(), to) {
				s.reply(ErrorEvent("chat is allowed only between owners and veterinarians"))
				continue
			}
			if err := s.sender.Send(ctx, to.Group(), ChatEvent(s.principal, in.Message)); err != nil {
				s.logger.Warnf("chat from %s:%d is not sent: %v", s.principal.Role, s.principal.UserId, err)
				s.reply(ErrorEvent("message is not sent"))
			}
		default:
			s.reply(ErrorEvent("unknown message type: " + in.Type))
		}
	}
}

func (s *session) writePump() {
	ticker := time.NewTicker(s.config.PingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	write := func(messageType int, data []byte) error {
		s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteWait))
		return s.conn.WriteMessage(messageType, data)
	}

	for {
		select {
		case msg, ok := <-s.client.Events():
			if !ok {
				write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := write(websocket.TextMessage, msg); err != nil {
				return
			}
		case msg := <-s.replies:
			if err := write(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
