package auth

import (
	"context"
	"time"
)

// StoreAPI is what the credential service needs from persistence. The
// concrete Store implements it; tests substitute a fake.
type StoreAPI interface {
	CreateAccount(ctx context.Context, account Account) (string, error)
	AccountByID(ctx context.Context, id string) (Account, error)
	AccountByEmail(ctx context.Context, email string) (Account, error)
	AccountByEmployeeID(ctx context.Context, employeeID string) (Account, error)
	ElevatedAccounts(ctx context.Context) ([]Account, error)
	AccountByVerifyToken(ctx context.Context, token string) (Account, error)
	AccountByResetHash(ctx context.Context, hash string, now time.Time) (Account, error)
	FindCollision(ctx context.Context, email, employeeID string) (emailTaken, employeeIDTaken bool, err error)
	MarkVerified(ctx context.Context, accountID string) error
	SetRefreshHash(ctx context.Context, accountID, hash string) error
	UpdateLastLogin(ctx context.Context, accountID string, at time.Time) error
	SetResetToken(ctx context.Context, accountID, hash string, expires time.Time) error
	UpdatePassword(ctx context.Context, accountID, passwordHash string) error
	SetMFASecret(ctx context.Context, accountID string, secretEnc []byte) error
	SetMFAEnabled(ctx context.Context, accountID string, enabled bool) error
}
