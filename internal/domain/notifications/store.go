package notifications

import (
	"context"
	"encoding/json"

	"staffhub/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateNotification(ctx context.Context, n Notification) (Notification, error) {
	metadata, err := json.Marshal(n.Metadata)
	if err != nil {
		return Notification{}, err
	}
	err = s.DB.QueryRow(ctx, `
    INSERT INTO notifications (account_id, type, title, message, metadata)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id, created_at
  `, n.AccountID, n.Type, n.Title, n.Message, metadata).Scan(&n.ID, &n.CreatedAt)
	return n, err
}

func (s *Store) ListNotifications(ctx context.Context, accountID string, limit, offset int) ([]Notification, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, account_id, type, title, message, metadata, read_at, created_at
    FROM notifications
    WHERE account_id = $1
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3
  `, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		var metadata []byte
		if err := rows.Scan(&n.ID, &n.AccountID, &n.Type, &n.Title, &n.Message, &metadata, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &n.Metadata); err != nil {
				return nil, err
			}
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) CountUnread(ctx context.Context, accountID string) (int, error) {
	var total int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM notifications WHERE account_id = $1 AND read_at IS NULL
  `, accountID).Scan(&total)
	return total, err
}

func (s *Store) MarkRead(ctx context.Context, accountID, notificationID string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE notifications SET read_at = now()
    WHERE account_id = $1 AND id = $2 AND read_at IS NULL
  `, accountID, notificationID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) MarkAllRead(ctx context.Context, accountID string) (int64, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE notifications SET read_at = now()
    WHERE account_id = $1 AND read_at IS NULL
  `, accountID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Store) DeleteNotification(ctx context.Context, accountID, notificationID string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM notifications WHERE account_id = $1 AND id = $2
  `, accountID, notificationID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
