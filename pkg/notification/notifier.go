package notification

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/opst/vettracker/pkg/domain"
	kdbnotif "github.com/opst/vettracker/pkg/domain/notification/db"
	xe "github.com/opst/vettracker/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Notifier persists notifications and pushes them to their recipients.
type Notifier struct {
	db     kdbnotif.NotificationInterface
	relay  Relay
	logger echo.Logger
	sent   *prometheus.CounterVec
}

// NewNotifier creates a notifier. sent may be nil.
func NewNotifier(db kdbnotif.NotificationInterface, relay Relay, logger echo.Logger, sent *prometheus.CounterVec) *Notifier {
	return &Notifier{db: db, relay: relay, logger: logger, sent: sent}
}

// Notify stores a notification for the recipient and publishes it to the group of the recipient.
//
// Errors on publishing are logged, not returned, since the notification is already stored.
func (n *Notifier) Notify(ctx context.Context, recipient domain.Recipient, kind domain.NotificationKind, message string) (domain.Notification, error) {
	added, err := n.db.Add(ctx, domain.Notification{Recipient: recipient, Kind: kind, Message: message})
	if err != nil {
		return domain.Notification{}, xe.Wrap(err)
	}
	if n.sent != nil {
		n.sent.WithLabelValues(string(kind)).Inc()
	}

	if err := n.relay.Publish(ctx, Envelope{Group: recipient.Group(), Event: NotificationEvent(added)}); err != nil {
		n.logger.Warnf("notification #%d to %s is stored but not pushed: %v", added.Id, recipient.Group(), err)
	}
	return added, nil
}

// Broadcast publishes ev to all connected clients. It is not stored.
func (n *Notifier) Broadcast(ctx context.Context, ev Event) {
	if err := n.relay.Publish(ctx, Envelope{Event: ev}); err != nil {
		n.logger.Warnf("%s is not broadcasted: %v", ev.Type, err)
	}
}

// Send publishes ev to group. It is not stored.
func (n *Notifier) Send(ctx context.Context, group string, ev Event) error {
	return n.relay.Publish(ctx, Envelope{Group: group, Event: ev})
}
