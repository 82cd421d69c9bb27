package payroll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

var recordRowColumns = []string{
	"id", "employee_id", "month", "year", "basic", "hra", "allowances",
	"deductions", "net", "notes", "created_at", "updated_at",
}

func TestStoreCreateRecord(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	store := &Store{DB: mock}
	now := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO payroll_records`).
		WithArgs("EMP-001", 3, 2026, 30000.0, 12000.0, 5000.0, 2000.0, 45000.0, "").
		WillReturnRows(pgxmock.NewRows(recordRowColumns).
			AddRow("rec-1", "EMP-001", 3, 2026, 30000.0, 12000.0, 5000.0, 2000.0, 45000.0, "", now, now))

	created, err := store.CreateRecord(context.Background(), Record{
		EmployeeID: "EMP-001",
		Month:      3,
		Year:       2026,
		Basic:      30000,
		HRA:        12000,
		Allowances: 5000,
		Deductions: 2000,
		Net:        45000,
	})
	if err != nil {
		t.Fatalf("CreateRecord returned error: %v", err)
	}
	if created.ID != "rec-1" || created.Net != 45000 {
		t.Fatalf("unexpected record %+v", created)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStoreCreateRecordDuplicatePeriod(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	store := &Store{DB: mock}

	mock.ExpectQuery(`INSERT INTO payroll_records`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err = store.CreateRecord(context.Background(), Record{EmployeeID: "EMP-001", Month: 3, Year: 2026})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestStoreRecordByIDNotFound(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	store := &Store{DB: mock}

	mock.ExpectQuery(`(?s)SELECT .+ FROM payroll_records WHERE id`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err = store.RecordByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreDeleteRecordNotFound(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	store := &Store{DB: mock}

	mock.ExpectExec(`DELETE FROM payroll_records`).
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := store.DeleteRecord(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreListForEmployee(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	store := &Store{DB: mock}
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM payroll_records WHERE employee_id`).
		WithArgs("EMP-001").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))

	mock.ExpectQuery(`(?s)SELECT .+ FROM payroll_records\s+WHERE employee_id`).
		WithArgs("EMP-001", 20, 0).
		WillReturnRows(pgxmock.NewRows(recordRowColumns).
			AddRow("rec-2", "EMP-001", 4, 2026, 30000.0, 12000.0, 5000.0, 2000.0, 45000.0, "", now, now).
			AddRow("rec-1", "EMP-001", 3, 2026, 30000.0, 12000.0, 5000.0, 2000.0, 45000.0, "", now, now))

	records, total, err := store.ListForEmployee(context.Background(), "EMP-001", 20, 0)
	if err != nil {
		t.Fatalf("ListForEmployee returned error: %v", err)
	}
	if total != 2 || len(records) != 2 {
		t.Fatalf("expected 2 records, got total=%d len=%d", total, len(records))
	}
	if records[0].Month != 4 {
		t.Fatalf("expected newest period first, got month %d", records[0].Month)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
