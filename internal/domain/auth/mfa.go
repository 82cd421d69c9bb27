package auth

import (
	"context"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"staffhub/internal/platform/querier"
)

// MFASetup generates a fresh TOTP secret, stores it encrypted, and returns
// the secret plus provisioning URL for the client's authenticator app. MFA
// stays disabled until the first code is confirmed via MFAEnable.
func (s *Service) MFASetup(ctx context.Context, accountID string) (secret, otpauthURL string, err error) {
	account, err := s.Store.AccountByID(ctx, accountID)
	if err != nil {
		return "", "", err
	}
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "StaffHub",
		AccountName: account.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
	})
	if err != nil {
		return "", "", err
	}
	encrypted, err := s.Crypto.EncryptString(key.Secret())
	if err != nil {
		return "", "", err
	}
	if err := s.Store.SetMFASecret(ctx, accountID, encrypted); err != nil {
		return "", "", err
	}
	return key.Secret(), key.URL(), nil
}

func (s *Service) MFAEnable(ctx context.Context, accountID, code string) error {
	if err := s.validateStoredCode(ctx, accountID, code); err != nil {
		return err
	}
	return s.Store.SetMFAEnabled(ctx, accountID, true)
}

func (s *Service) MFADisable(ctx context.Context, accountID, code string) error {
	if err := s.validateStoredCode(ctx, accountID, code); err != nil {
		return err
	}
	return s.Store.SetMFAEnabled(ctx, accountID, false)
}

func (s *Service) validateStoredCode(ctx context.Context, accountID, code string) error {
	account, err := s.Store.AccountByID(ctx, accountID)
	if err != nil {
		if querier.IsNotFound(err) {
			return ErrMFAInvalid
		}
		return err
	}
	return s.checkMFACode(account, code)
}

func (s *Service) checkMFACode(account Account, code string) error {
	if code == "" {
		return ErrMFARequired
	}
	secret, err := s.Crypto.DecryptString(account.MFASecretEnc)
	if err != nil {
		return ErrMFAInvalid
	}
	if secret == "" || !totp.Validate(code, secret) {
		return ErrMFAInvalid
	}
	return nil
}
