package auth

import (
	"context"
	"time"

	"staffhub/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const accountColumns = `
    id, email, employee_id, role, verified, mfa_enabled, last_login, created_at,
    password_hash, COALESCE(verify_token, ''), COALESCE(reset_token_hash, ''),
    reset_expires, mfa_secret_enc, COALESCE(refresh_hash, '')`

func (s *Store) scanAccount(row interface{ Scan(dest ...any) error }) (Account, error) {
	var out Account
	err := row.Scan(
		&out.ID, &out.Email, &out.EmployeeID, &out.Role, &out.Verified,
		&out.MFAEnabled, &out.LastLogin, &out.CreatedAt,
		&out.PasswordHash, &out.VerifyToken, &out.ResetHash,
		&out.ResetExpires, &out.MFASecretEnc, &out.RefreshHash,
	)
	return out, err
}

func (s *Store) CreateAccount(ctx context.Context, account Account) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO accounts (email, employee_id, password_hash, role, verified, verify_token)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, account.Email, account.EmployeeID, account.PasswordHash, account.Role, account.Verified, nullIfEmpty(account.VerifyToken)).Scan(&id)
	return id, err
}

func (s *Store) AccountByID(ctx context.Context, id string) (Account, error) {
	return s.scanAccount(s.DB.QueryRow(ctx, `
    SELECT`+accountColumns+`
    FROM accounts
    WHERE id = $1
  `, id))
}

func (s *Store) AccountByEmail(ctx context.Context, email string) (Account, error) {
	return s.scanAccount(s.DB.QueryRow(ctx, `
    SELECT`+accountColumns+`
    FROM accounts
    WHERE email = $1
  `, email))
}

func (s *Store) AccountByEmployeeID(ctx context.Context, employeeID string) (Account, error) {
	return s.scanAccount(s.DB.QueryRow(ctx, `
    SELECT`+accountColumns+`
    FROM accounts
    WHERE employee_id = $1
  `, employeeID))
}

// ElevatedAccounts lists admin and hr accounts. Workflow notifications
// fan out to these.
func (s *Store) ElevatedAccounts(ctx context.Context) ([]Account, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+accountColumns+`
    FROM accounts
    WHERE role IN ($1, $2)
  `, RoleAdmin, RoleHR)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Account
	for rows.Next() {
		account, err := s.scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, account)
	}
	return out, rows.Err()
}

func (s *Store) AccountByVerifyToken(ctx context.Context, token string) (Account, error) {
	return s.scanAccount(s.DB.QueryRow(ctx, `
    SELECT`+accountColumns+`
    FROM accounts
    WHERE verify_token = $1
  `, token))
}

func (s *Store) AccountByResetHash(ctx context.Context, hash string, now time.Time) (Account, error) {
	return s.scanAccount(s.DB.QueryRow(ctx, `
    SELECT`+accountColumns+`
    FROM accounts
    WHERE reset_token_hash = $1 AND reset_expires > $2
  `, hash, now))
}

// FindCollision reports which unique signup fields are already taken, so the
// signup error can name the colliding one.
func (s *Store) FindCollision(ctx context.Context, email, employeeID string) (emailTaken, employeeIDTaken bool, err error) {
	err = s.DB.QueryRow(ctx, `
    SELECT
      EXISTS (SELECT 1 FROM accounts WHERE email = $1),
      EXISTS (SELECT 1 FROM accounts WHERE employee_id = $2)
  `, email, employeeID).Scan(&emailTaken, &employeeIDTaken)
	return emailTaken, employeeIDTaken, err
}

func (s *Store) MarkVerified(ctx context.Context, accountID string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE accounts SET verified = true, verify_token = NULL WHERE id = $1
  `, accountID)
	return err
}

func (s *Store) SetRefreshHash(ctx context.Context, accountID, hash string) error {
	_, err := s.DB.Exec(ctx, "UPDATE accounts SET refresh_hash = $1 WHERE id = $2", nullIfEmpty(hash), accountID)
	return err
}

func (s *Store) UpdateLastLogin(ctx context.Context, accountID string, at time.Time) error {
	_, err := s.DB.Exec(ctx, "UPDATE accounts SET last_login = $1 WHERE id = $2", at, accountID)
	return err
}

func (s *Store) SetResetToken(ctx context.Context, accountID, hash string, expires time.Time) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE accounts SET reset_token_hash = $1, reset_expires = $2 WHERE id = $3
  `, hash, expires, accountID)
	return err
}

// UpdatePassword sets a new hash, consumes any reset token, and revokes the
// active refresh session in one statement.
func (s *Store) UpdatePassword(ctx context.Context, accountID, passwordHash string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE accounts
    SET password_hash = $1, reset_token_hash = NULL, reset_expires = NULL, refresh_hash = NULL
    WHERE id = $2
  `, passwordHash, accountID)
	return err
}

func (s *Store) SetMFASecret(ctx context.Context, accountID string, secretEnc []byte) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE accounts SET mfa_secret_enc = $1, mfa_enabled = false WHERE id = $2
  `, secretEnc, accountID)
	return err
}

func (s *Store) SetMFAEnabled(ctx context.Context, accountID string, enabled bool) error {
	_, err := s.DB.Exec(ctx, "UPDATE accounts SET mfa_enabled = $1 WHERE id = $2", enabled, accountID)
	return err
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
