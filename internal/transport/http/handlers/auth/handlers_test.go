package authhandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"staffhub/internal/domain/auth"
	"staffhub/internal/platform/crypto"
)

// collisionStore fakes only the persistence the signup path touches.
type collisionStore struct {
	auth.StoreAPI
	emailTaken      bool
	employeeIDTaken bool
}

func (s collisionStore) FindCollision(context.Context, string, string) (bool, bool, error) {
	return s.emailTaken, s.employeeIDTaken, nil
}

func (s collisionStore) CreateAccount(context.Context, auth.Account) (string, error) {
	return "acc-1", nil
}

type noopMailer struct{}

func (noopMailer) Send(context.Context, string, string, string, string) error { return nil }

func signupRouter(store auth.StoreAPI) *chi.Mux {
	tokens := auth.NewTokenService("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	cryptoSvc, _ := crypto.New("")
	svc := auth.NewService(store, tokens, noopMailer{}, cryptoSvc, "no-reply@example.com", "http://localhost:8080", time.Hour)

	router := chi.NewRouter()
	NewHandler(svc).RegisterPublicRoutes(router)
	return router
}

func postSignup(t *testing.T, router http.Handler, email, employeeID string) *httptest.ResponseRecorder {
	t.Helper()
	body := `{"email":"` + email + `","employeeId":"` + employeeID + `","password":"secret-pass"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeFailure(t *testing.T, rec *httptest.ResponseRecorder) (bool, string) {
	t.Helper()
	var payload struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decoding response failed: %v", err)
	}
	return payload.Success, payload.Message
}

func TestSignupSucceeds(t *testing.T) {
	router := signupRouter(collisionStore{})

	rec := postSignup(t, router, "a@b.com", "EMP1")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSignupDuplicateEmailIsBadRequest(t *testing.T) {
	router := signupRouter(collisionStore{emailTaken: true})

	rec := postSignup(t, router, "a@b.com", "EMP2")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	success, message := decodeFailure(t, rec)
	if success {
		t.Fatal("expected success=false")
	}
	if message != "Email already registered" {
		t.Fatalf("unexpected message %q", message)
	}
}

func TestSignupDuplicateEmployeeIDIsBadRequest(t *testing.T) {
	router := signupRouter(collisionStore{employeeIDTaken: true})

	rec := postSignup(t, router, "c@d.com", "EMP1")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	success, message := decodeFailure(t, rec)
	if success {
		t.Fatal("expected success=false")
	}
	if message != "Employee ID already exists" {
		t.Fatalf("unexpected message %q", message)
	}
}
