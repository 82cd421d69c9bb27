package profilehandler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"

	"staffhub/internal/domain/auth"
	"staffhub/internal/domain/employee"
	"staffhub/internal/platform/crypto"
	"staffhub/internal/transport/http/middleware"
)

func TestCreateDuplicateProfileIsBadRequest(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	profileInsertArgs := make([]interface{}, 19)
	for i := range profileInsertArgs {
		profileInsertArgs[i] = pgxmock.AnyArg()
	}
	mock.ExpectQuery(`INSERT INTO profiles`).
		WithArgs(profileInsertArgs...).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	cryptoSvc, _ := crypto.New("")
	handler := NewHandler(employee.NewStore(mock, cryptoSvc), nil)

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := middleware.WithIdentity(r.Context(), auth.Identity{AccountID: "acc-1", Role: auth.RoleHR})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	handler.RegisterRoutes(router)

	body := `{"employeeId":"EMP-001","firstName":"Jo","lastName":"Adams","email":"jo@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/profiles", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "profile already exists for employee") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
