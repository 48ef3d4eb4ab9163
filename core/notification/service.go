package notification

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("notification not found")

type (
	Repository interface {
		CreateNotification(ctx context.Context, notif Notification) (Notification, error)
		// QueryUserNotifications returns the user's notifications, newest first.
		QueryUserNotifications(ctx context.Context, userID string) ([]Notification, error)
		// MarkNotificationRead flips the read flag; ErrNotFound when the row
		// does not exist or belongs to another user.
		MarkNotificationRead(ctx context.Context, id, userID string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Notify appends a notification for the given user. Emission after a state
// transition is best-effort, not transactional with it.
func (svc *Service) Notify(ctx context.Context, userID, title, message, typ string) (Notification, error) {
	notif := Notification{
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      typ,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateNotification(ctx, notif)
}

func (svc *Service) QueryByUser(ctx context.Context, userID string) ([]Notification, error) {
	return svc.repo.QueryUserNotifications(ctx, userID)
}

func (svc *Service) MarkRead(ctx context.Context, id, userID string) error {
	return svc.repo.MarkNotificationRead(ctx, id, userID)
}
