package db

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"

	"staffhub/internal/platform/config"
)

func seedConfig() config.Config {
	return config.Config{SeedAdminEmail: "Admin@Example.com", SeedAdminPassword: "bootstrap-pass"}
}

func TestSeedSkipsWhenAdminExists(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id FROM accounts WHERE email`).
		WithArgs("admin@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("acc-1"))

	if err := Seed(context.Background(), mock, seedConfig()); err != nil {
		t.Fatalf("Seed returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSeedCreatesMissingAdmin(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id FROM accounts WHERE email`).
		WithArgs("admin@example.com").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectExec(`INSERT INTO accounts`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := Seed(context.Background(), mock, seedConfig()); err != nil {
		t.Fatalf("Seed returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSeedPropagatesLookupFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	lookupErr := errors.New("connection reset")
	mock.ExpectQuery(`SELECT id FROM accounts WHERE email`).
		WithArgs("admin@example.com").
		WillReturnError(lookupErr)

	err = Seed(context.Background(), mock, seedConfig())
	if err == nil || !strings.Contains(err.Error(), "connection reset") {
		t.Fatalf("expected lookup failure to propagate, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSeedNoopWithoutConfig(t *testing.T) {
	if err := Seed(context.Background(), nil, config.Config{}); err != nil {
		t.Fatalf("Seed without seed config should be a no-op, got %v", err)
	}
}
