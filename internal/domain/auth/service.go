package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"staffhub/internal/platform/crypto"
	"staffhub/internal/platform/querier"
)

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// Service owns the credential lifecycle: signup, verification, sign-in,
// refresh rotation, and password reset. Outbound mail is best-effort; a send
// failure is logged and never rolls back the preceding write.
type Service struct {
	Store    StoreAPI
	Tokens   *TokenService
	Mailer   Mailer
	Crypto   *crypto.Service
	From     string
	BaseURL  string
	ResetTTL time.Duration

	now func() time.Time
}

func NewService(store StoreAPI, tokens *TokenService, mailer Mailer, cryptoSvc *crypto.Service, from, baseURL string, resetTTL time.Duration) *Service {
	return &Service{
		Store:    store,
		Tokens:   tokens,
		Mailer:   mailer,
		Crypto:   cryptoSvc,
		From:     from,
		BaseURL:  strings.TrimRight(baseURL, "/"),
		ResetTTL: resetTTL,
		now:      time.Now,
	}
}

type SignupInput struct {
	Email      string
	EmployeeID string
	Password   string
	Role       Role
}

func (s *Service) Signup(ctx context.Context, input SignupInput) (Account, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	employeeID := strings.TrimSpace(input.EmployeeID)

	emailTaken, employeeIDTaken, err := s.Store.FindCollision(ctx, email, employeeID)
	if err != nil {
		return Account{}, err
	}
	if emailTaken {
		return Account{}, ErrEmailTaken
	}
	if employeeIDTaken {
		return Account{}, ErrEmployeeIDTaken
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return Account{}, err
	}
	verifyToken, err := GenerateToken()
	if err != nil {
		return Account{}, err
	}

	role := input.Role
	if role == "" {
		role = RoleEmployee
	}

	account := Account{
		Email:        email,
		EmployeeID:   employeeID,
		PasswordHash: hash,
		Role:         role,
		Verified:     false,
		VerifyToken:  verifyToken,
	}
	id, err := s.Store.CreateAccount(ctx, account)
	if err != nil {
		// The existence check above races with concurrent signups; the unique
		// indexes are the source of truth.
		if querier.IsUniqueViolation(err) {
			return Account{}, ErrEmailTaken
		}
		return Account{}, err
	}
	account.ID = id

	s.sendMail(ctx, email, "Verify your StaffHub account",
		fmt.Sprintf("Welcome to StaffHub. Verify your email:\r\n\r\n%s/verify-email?token=%s", s.BaseURL, verifyToken))

	return account.Sanitized(), nil
}

func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrInvalidVerifyToken
	}
	account, err := s.Store.AccountByVerifyToken(ctx, token)
	if err != nil {
		if querier.IsNotFound(err) {
			return ErrInvalidVerifyToken
		}
		return err
	}
	return s.Store.MarkVerified(ctx, account.ID)
}

func (s *Service) SignIn(ctx context.Context, email, password, mfaCode string) (TokenPair, Account, error) {
	account, err := s.Store.AccountByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if querier.IsNotFound(err) {
			// Same error as a wrong password so responses never reveal
			// whether the email exists.
			return TokenPair{}, Account{}, ErrInvalidCredentials
		}
		return TokenPair{}, Account{}, err
	}
	if err := CheckPassword(account.PasswordHash, password); err != nil {
		return TokenPair{}, Account{}, ErrInvalidCredentials
	}
	if !account.Verified {
		return TokenPair{}, Account{}, ErrUnverified
	}
	if account.MFAEnabled {
		if err := s.checkMFACode(account, mfaCode); err != nil {
			return TokenPair{}, Account{}, err
		}
	}

	pair, err := s.issuePair(ctx, account)
	if err != nil {
		return TokenPair{}, Account{}, err
	}
	if err := s.Store.UpdateLastLogin(ctx, account.ID, s.now()); err != nil {
		slog.Warn("update last login failed", "accountId", account.ID, "err", err)
	}
	return pair, account.Sanitized(), nil
}

// Refresh rotates the session: the presented refresh token must match the
// stored hash, and a new pair replaces it.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.Tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	account, err := s.Store.AccountByID(ctx, claims.AccountID)
	if err != nil {
		if querier.IsNotFound(err) {
			return TokenPair{}, ErrTokenInvalid
		}
		return TokenPair{}, err
	}
	if account.RefreshHash == "" || account.RefreshHash != HashToken(refreshToken) {
		return TokenPair{}, ErrTokenInvalid
	}
	return s.issuePair(ctx, account)
}

func (s *Service) SignOut(ctx context.Context, accountID string) error {
	return s.Store.SetRefreshHash(ctx, accountID, "")
}

// ForgotPassword always succeeds from the caller's point of view; whether
// the email exists must not be observable.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	account, err := s.Store.AccountByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if querier.IsNotFound(err) {
			return nil
		}
		return err
	}

	token, err := GenerateToken()
	if err != nil {
		return err
	}
	expires := s.now().Add(s.ResetTTL)
	if err := s.Store.SetResetToken(ctx, account.ID, HashToken(token), expires); err != nil {
		return err
	}

	s.sendMail(ctx, account.Email, "Reset your StaffHub password",
		fmt.Sprintf("A password reset was requested for your account. The link expires in %s.\r\n\r\n%s/reset-password?token=%s",
			s.ResetTTL, s.BaseURL, token))
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	account, err := s.Store.AccountByResetHash(ctx, HashToken(token), s.now())
	if err != nil {
		if querier.IsNotFound(err) {
			return ErrInvalidResetToken
		}
		return err
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.Store.UpdatePassword(ctx, account.ID, hash)
}

func (s *Service) AccountByID(ctx context.Context, id string) (Account, error) {
	return s.Store.AccountByID(ctx, id)
}

func (s *Service) IdentityFor(account Account) Identity {
	return Identity{
		AccountID:  account.ID,
		EmployeeID: account.EmployeeID,
		Email:      account.Email,
		Role:       account.Role,
	}
}

func (s *Service) issuePair(ctx context.Context, account Account) (TokenPair, error) {
	access, err := s.Tokens.IssueAccess(s.IdentityFor(account))
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.Tokens.IssueRefresh(account.ID)
	if err != nil {
		return TokenPair{}, err
	}
	// Overwriting the stored hash revokes whatever refresh token was active
	// before; one session per account.
	if err := s.Store.SetRefreshHash(ctx, account.ID, HashToken(refresh)); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Service) sendMail(ctx context.Context, to, subject, body string) {
	if s.Mailer == nil {
		return
	}
	if err := s.Mailer.Send(ctx, s.From, to, subject, body); err != nil {
		slog.Warn("auth email send failed", "to", to, "subject", subject, "err", err)
	}
}
