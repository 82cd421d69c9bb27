package auth

import "time"

// Account is the login identity record. Secret-bearing fields never leave
// this package in API responses; handlers receive Sanitized copies.
type Account struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	EmployeeID   string     `json:"employeeId"`
	Role         Role       `json:"role"`
	Verified     bool       `json:"verified"`
	MFAEnabled   bool       `json:"mfaEnabled"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	PasswordHash string     `json:"-"`
	VerifyToken  string     `json:"-"`
	ResetHash    string     `json:"-"`
	ResetExpires *time.Time `json:"-"`
	MFASecretEnc []byte     `json:"-"`
	RefreshHash  string     `json:"-"`
}

// Sanitized strips everything secret-bearing before an Account is returned
// to a client.
func (a Account) Sanitized() Account {
	a.PasswordHash = ""
	a.VerifyToken = ""
	a.ResetHash = ""
	a.ResetExpires = nil
	a.MFASecretEnc = nil
	a.RefreshHash = ""
	return a
}

// Identity is the reduced per-request identity attached by the auth
// middleware. It carries no secrets and is immutable once in context.
type Identity struct {
	AccountID  string `json:"accountId"`
	EmployeeID string `json:"employeeId"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
}

// TokenPair is the result of a successful sign-in or refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
