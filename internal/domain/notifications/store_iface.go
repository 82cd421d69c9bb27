package notifications

import "context"

type StoreAPI interface {
	CreateNotification(ctx context.Context, n Notification) (Notification, error)
	ListNotifications(ctx context.Context, accountID string, limit, offset int) ([]Notification, error)
	CountUnread(ctx context.Context, accountID string) (int, error)
	MarkRead(ctx context.Context, accountID, notificationID string) (bool, error)
	MarkAllRead(ctx context.Context, accountID string) (int64, error)
	DeleteNotification(ctx context.Context, accountID, notificationID string) (bool, error)
}
