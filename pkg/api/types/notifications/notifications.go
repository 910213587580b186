package notifications

import (
	"time"

	"github.com/opst/vettracker/pkg/domain"
)

type Notification struct {
	Id        int       `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

func Compose(n domain.Notification) Notification {
	return Notification{
		Id:        n.Id,
		Kind:      string(n.Kind),
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

// MarkRead is the request to mark notifications as read. Empty Ids means all.
type MarkRead struct {
	Ids []int `json:"ids"`
}

type Marked struct {
	Marked int `json:"marked"`
}
