package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService mints and verifies the two token classes. Access and refresh
// tokens are signed with distinct secrets so one class cannot be replayed as
// the other. The service itself is stateless; revocation works through the
// refresh-token hash stored on the Account.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

type AccessClaims struct {
	AccountID  string `json:"uid"`
	Role       string `json:"role"`
	Email      string `json:"email"`
	EmployeeID string `json:"eid"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	AccountID string `json:"uid"`
	jwt.RegisteredClaims
}

func (t *TokenService) RefreshTTL() time.Duration {
	return t.refreshTTL
}

func (t *TokenService) IssueAccess(identity Identity) (string, error) {
	claims := AccessClaims{
		AccountID:        identity.AccountID,
		Role:             identity.Role.String(),
		Email:            identity.Email,
		EmployeeID:       identity.EmployeeID,
		RegisteredClaims: registeredClaims(t.accessTTL),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.accessSecret)
}

func (t *TokenService) IssueRefresh(accountID string) (string, error) {
	claims := RefreshClaims{
		AccountID:        accountID,
		RegisteredClaims: registeredClaims(t.refreshTTL),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.refreshSecret)
}

func (t *TokenService) VerifyAccess(token string) (AccessClaims, error) {
	var claims AccessClaims
	if err := t.parse(token, &claims, t.accessSecret); err != nil {
		return AccessClaims{}, err
	}
	return claims, nil
}

func (t *TokenService) VerifyRefresh(token string) (RefreshClaims, error) {
	var claims RefreshClaims
	if err := t.parse(token, &claims, t.refreshSecret); err != nil {
		return RefreshClaims{}, err
	}
	return claims, nil
}

func (t *TokenService) parse(token string, claims jwt.Claims, secret []byte) error {
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrTokenInvalid
	}
	if !parsed.Valid {
		return ErrTokenInvalid
	}
	return nil
}

func registeredClaims(ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
}

// HashToken hashes opaque tokens (refresh, password reset) before storage so
// a database leak does not expose usable credentials.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// GenerateToken returns a random opaque token for verification and
// password-reset links.
func GenerateToken() (string, error) {
	buff := make([]byte, 32)
	if _, err := rand.Read(buff); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buff), nil
}
