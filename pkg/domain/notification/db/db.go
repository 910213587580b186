package db

import (
	"context"

	"github.com/opst/vettracker/pkg/domain"
)

type NotificationInterface interface {
	// Add stores a notification and returns it with Id and CreatedAt.
	Add(ctx context.Context, n domain.Notification) (domain.Notification, error)

	// List notifications to the recipient, newest first.
	//
	// limit <= 0 means no limit.
	List(ctx context.Context, recipient domain.Recipient, unreadOnly bool, limit int) ([]domain.Notification, error)

	// MarkRead marks notifications as read and returns how many have been changed.
	//
	// When ids is empty, all notifications to the recipient are marked.
	// Notifications to others are never changed.
	MarkRead(ctx context.Context, recipient domain.Recipient, ids []int) (int, error)
}
