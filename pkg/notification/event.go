package notification

import (
	"encoding/json"

	"github.com/opst/vettracker/pkg/domain"
)

type EventType string

const (
	ReceiveNotification       EventType = "ReceiveNotification"
	ReceiveChatMessage        EventType = "ReceiveChatMessage"
	VeterinarianStatusChanged EventType = "VeterinarianStatusChanged"
	Error                     EventType = "Error"
)

// Event is a message pushed to websocket clients.
type Event struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func newEvent(typ EventType, payload any) Event {
	b, err := json.Marshal(payload)
	if err != nil {
		// payloads are structs defined below.
		panic(err)
	}
	return Event{Type: typ, Payload: b}
}

type NotificationPayload struct {
	Id      int                     `json:"id,omitempty"`
	Message string                  `json:"message"`
	Kind    domain.NotificationKind `json:"kind"`
}

func NotificationEvent(n domain.Notification) Event {
	return newEvent(ReceiveNotification, NotificationPayload{Id: n.Id, Message: n.Message, Kind: n.Kind})
}

type Party struct {
	Role   domain.Role `json:"role"`
	UserId int         `json:"userId"`
	Name   string      `json:"name,omitempty"`
}

type ChatPayload struct {
	From    Party  `json:"from"`
	Message string `json:"message"`
}

func ChatEvent(from domain.Principal, message string) Event {
	r := from.Recipient()
	return newEvent(ReceiveChatMessage, ChatPayload{
		From:    Party{Role: r.Role, UserId: r.UserId, Name: from.Name},
		Message: message,
	})
}

type StatusPayload struct {
	VetId       int  `json:"vetId"`
	IsAvailable bool `json:"isAvailable"`
}

func StatusEvent(vetId int, available bool) Event {
	return newEvent(VeterinarianStatusChanged, StatusPayload{VetId: vetId, IsAvailable: available})
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func ErrorEvent(message string) Event {
	return newEvent(Error, ErrorPayload{Message: message})
}

// Envelope is an event with its destination.
//
// Empty Group means all connected clients.
type Envelope struct {
	Group string `json:"group,omitempty"`
	Event Event  `json:"event"`
}
