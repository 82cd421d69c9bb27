package authhandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"staffhub/internal/domain/auth"
	"staffhub/internal/transport/http/api"
	"staffhub/internal/transport/http/middleware"
	"staffhub/internal/transport/http/shared"
)

type Handler struct {
	Service *auth.Service
}

func NewHandler(service *auth.Service) *Handler {
	return &Handler{Service: service}
}

// RegisterPublicRoutes registers the endpoints reachable without a token.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/auth/signup", h.handleSignup)
	r.Get("/auth/verify-email", h.handleVerifyEmail)
	r.Post("/auth/signin", h.handleSignIn)
	r.Post("/auth/refresh", h.handleRefresh)
	r.Post("/auth/forgot-password", h.handleForgotPassword)
	r.Post("/auth/reset-password", h.handleResetPassword)
}

func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/auth/logout", h.handleLogout)
	r.Get("/auth/me", h.handleMe)
	r.Post("/auth/mfa/setup", h.handleMFASetup)
	r.Post("/auth/mfa/enable", h.handleMFAEnable)
	r.Post("/auth/mfa/disable", h.handleMFADisable)
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload struct {
		Email      string `json:"email"`
		EmployeeID string `json:"employeeId"`
		Password   string `json:"password"`
		Role       string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("email", payload.Email, "email is required")
	v.Required("employeeId", payload.EmployeeID, "employee id is required")
	if len(payload.Password) < 8 {
		v.Add("password", "must be at least 8 characters")
	}
	role := auth.RoleEmployee
	if payload.Role != "" {
		parsed, err := auth.ParseRole(payload.Role)
		if err != nil {
			v.Add("role", "must be one of admin, hr, employee")
		} else {
			role = parsed
		}
	}
	if v.Reject(w, reqID) {
		return
	}

	account, err := h.Service.Signup(r.Context(), auth.SignupInput{
		Email:      payload.Email,
		EmployeeID: payload.EmployeeID,
		Password:   payload.Password,
		Role:       role,
	})
	switch {
	case errors.Is(err, auth.ErrEmailTaken):
		api.Fail(w, http.StatusBadRequest, "Email already registered", reqID)
		return
	case errors.Is(err, auth.ErrEmployeeIDTaken):
		api.Fail(w, http.StatusBadRequest, "Employee ID already exists", reqID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "signup failed", reqID)
		return
	}

	api.Success(w, http.StatusCreated, reqID, map[string]any{
		"message": "account created, verification email sent",
		"account": account.Sanitized(),
	})
}

func (h *Handler) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	token := r.URL.Query().Get("token")
	if token == "" {
		api.Fail(w, http.StatusBadRequest, "verification token is required", reqID)
		return
	}
	if err := h.Service.VerifyEmail(r.Context(), token); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid or expired verification token", reqID)
		return
	}
	api.Message(w, http.StatusOK, reqID, "email verified")
}

func (h *Handler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		MFACode  string `json:"mfaCode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid request payload", reqID)
		return
	}

	pair, account, err := h.Service.SignIn(r.Context(), payload.Email, payload.Password, payload.MFACode)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		api.Fail(w, http.StatusUnauthorized, "invalid email or password", reqID)
		return
	case errors.Is(err, auth.ErrUnverified):
		api.Fail(w, http.StatusForbidden, "email not verified", reqID)
		return
	case errors.Is(err, auth.ErrMFARequired):
		api.Fail(w, http.StatusUnauthorized, "mfa code required", reqID)
		return
	case errors.Is(err, auth.ErrMFAInvalid):
		api.Fail(w, http.StatusUnauthorized, "invalid mfa code", reqID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "sign in failed", reqID)
		return
	}

	api.Success(w, http.StatusOK, reqID, map[string]any{
		"tokens":  pair,
		"account": account.Sanitized(),
	})
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.RefreshToken == "" {
		api.Fail(w, http.StatusBadRequest, "refresh token is required", reqID)
		return
	}

	pair, err := h.Service.Refresh(r.Context(), payload.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			api.Fail(w, http.StatusUnauthorized, "token expired", reqID)
			return
		}
		api.Fail(w, http.StatusUnauthorized, "invalid token", reqID)
		return
	}
	api.Success(w, http.StatusOK, reqID, map[string]any{"tokens": pair})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "authentication required", reqID)
		return
	}
	if err := h.Service.SignOut(r.Context(), identity.AccountID); err != nil {
		api.Fail(w, http.StatusInternalServerError, "logout failed", reqID)
		return
	}
	api.Message(w, http.StatusOK, reqID, "signed out")
}

func (h *Handler) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Email == "" {
		api.Fail(w, http.StatusBadRequest, "email is required", reqID)
		return
	}
	if err := h.Service.ForgotPassword(r.Context(), payload.Email); err != nil {
		api.Fail(w, http.StatusInternalServerError, "password reset failed", reqID)
		return
	}
	// Identical response whether or not the email exists.
	api.Message(w, http.StatusOK, reqID, "if the email is registered, a reset link has been sent")
}

func (h *Handler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid request payload", reqID)
		return
	}
	v := shared.NewValidator()
	v.Required("token", payload.Token, "reset token is required")
	if len(payload.Password) < 8 {
		v.Add("password", "must be at least 8 characters")
	}
	if v.Reject(w, reqID) {
		return
	}

	if err := h.Service.ResetPassword(r.Context(), payload.Token, payload.Password); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid or expired reset token", reqID)
		return
	}
	api.Message(w, http.StatusOK, reqID, "password updated")
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "authentication required", reqID)
		return
	}
	account, err := h.Service.AccountByID(r.Context(), identity.AccountID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "account lookup failed", reqID)
		return
	}
	api.Success(w, http.StatusOK, reqID, map[string]any{"account": account.Sanitized()})
}

func (h *Handler) handleMFASetup(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "authentication required", reqID)
		return
	}
	secret, otpauthURL, err := h.Service.MFASetup(r.Context(), identity.AccountID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "mfa setup failed", reqID)
		return
	}
	api.Success(w, http.StatusOK, reqID, map[string]any{
		"secret":     secret,
		"otpauthUrl": otpauthURL,
	})
}

func (h *Handler) handleMFAEnable(w http.ResponseWriter, r *http.Request) {
	h.handleMFAToggle(w, r, true)
}

func (h *Handler) handleMFADisable(w http.ResponseWriter, r *http.Request) {
	h.handleMFAToggle(w, r, false)
}

func (h *Handler) handleMFAToggle(w http.ResponseWriter, r *http.Request, enable bool) {
	reqID := middleware.GetRequestID(r.Context())
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "authentication required", reqID)
		return
	}

	var payload struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Code == "" {
		api.Fail(w, http.StatusBadRequest, "mfa code is required", reqID)
		return
	}

	var err error
	if enable {
		err = h.Service.MFAEnable(r.Context(), identity.AccountID, payload.Code)
	} else {
		err = h.Service.MFADisable(r.Context(), identity.AccountID, payload.Code)
	}
	if err != nil {
		if errors.Is(err, auth.ErrMFAInvalid) {
			api.Fail(w, http.StatusBadRequest, "invalid mfa code", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "mfa update failed", reqID)
		return
	}
	if enable {
		api.Message(w, http.StatusOK, reqID, "mfa enabled")
		return
	}
	api.Message(w, http.StatusOK, reqID, "mfa disabled")
}
