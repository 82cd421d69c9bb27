package notifications

import (
	"context"
	"log/slog"
)

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// Publisher pushes an event to the account's private realtime room. The hub
// implements it; delivery is fire-and-forget.
type Publisher interface {
	Publish(accountID, event string, payload any)
}

// Service persists notifications and fans them out. Only the database write
// can fail a Notify call; email and realtime publish are side effects that
// log and move on.
type Service struct {
	store     StoreAPI
	Mailer    Mailer
	Publisher Publisher
	From      string
}

func New(store StoreAPI, mailer Mailer, publisher Publisher, from string) *Service {
	return &Service{store: store, Mailer: mailer, Publisher: publisher, From: from}
}

// Notify writes the notification, then pushes it to the recipient's room and
// optionally mails it.
func (s *Service) Notify(ctx context.Context, n Notification, email string) (Notification, error) {
	created, err := s.store.CreateNotification(ctx, n)
	if err != nil {
		return Notification{}, err
	}

	if s.Publisher != nil {
		s.Publisher.Publish(created.AccountID, EventNotification, created)
	}

	if s.Mailer != nil && email != "" {
		if err := s.Mailer.Send(ctx, s.From, email, created.Title, created.Message); err != nil {
			slog.Warn("notification email send failed", "accountId", created.AccountID, "err", err)
		}
	}
	return created, nil
}

func (s *Service) List(ctx context.Context, accountID string, limit, offset int) ([]Notification, int, error) {
	items, err := s.store.ListNotifications(ctx, accountID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	unread, err := s.store.CountUnread(ctx, accountID)
	if err != nil {
		return nil, 0, err
	}
	return items, unread, nil
}

func (s *Service) MarkRead(ctx context.Context, accountID, notificationID string) (bool, error) {
	return s.store.MarkRead(ctx, accountID, notificationID)
}

func (s *Service) MarkAllRead(ctx context.Context, accountID string) (int64, error) {
	return s.store.MarkAllRead(ctx, accountID)
}

func (s *Service) Delete(ctx context.Context, accountID, notificationID string) (bool, error) {
	return s.store.DeleteNotification(ctx, accountID, notificationID)
}
