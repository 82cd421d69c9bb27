package attendance

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

const recordColumns = `
    id, employee_id, day, check_in, check_out, total_minutes, status, created_at, updated_at`

func scanRecord(row interface{ Scan(dest ...any) error }) (Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.EmployeeID, &rec.Day, &rec.CheckIn, &rec.CheckOut,
		&rec.TotalMinutes, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt)
	return rec, err
}

func (s *Store) RecordForDay(ctx context.Context, employeeID string, day time.Time) (Record, error) {
	return scanRecord(s.DB.QueryRow(ctx, `
    SELECT`+recordColumns+`
    FROM attendance_records
    WHERE employee_id = $1 AND day = $2
  `, employeeID, day))
}

// UpsertCheckIn creates the day's record or moves its check-in stamp; the
// unique (employee_id, day) index guarantees a single row either way.
func (s *Store) UpsertCheckIn(ctx context.Context, employeeID string, day, at time.Time) (Record, error) {
	return scanRecord(s.DB.QueryRow(ctx, `
    INSERT INTO attendance_records (employee_id, day, check_in, status)
    VALUES ($1,$2,$3,$4)
    ON CONFLICT (employee_id, day) DO UPDATE
      SET check_in = EXCLUDED.check_in, updated_at = now()
    RETURNING`+recordColumns+`
  `, employeeID, day, at, StatusPresent))
}

func (s *Store) SetCheckOut(ctx context.Context, recordID string, at time.Time, totalMinutes int, status string) (Record, error) {
	return scanRecord(s.DB.QueryRow(ctx, `
    UPDATE attendance_records
    SET check_out = $1, total_minutes = $2, status = $3, updated_at = now()
    WHERE id = $4
    RETURNING`+recordColumns+`
  `, at, totalMinutes, status, recordID))
}

// Override applies an admin correction to a single day.
func (s *Store) Override(ctx context.Context, employeeID string, day time.Time, checkIn, checkOut *time.Time, totalMinutes int, status string) (Record, error) {
	return scanRecord(s.DB.QueryRow(ctx, `
    INSERT INTO attendance_records (employee_id, day, check_in, check_out, total_minutes, status)
    VALUES ($1,$2,$3,$4,$5,$6)
    ON CONFLICT (employee_id, day) DO UPDATE
      SET check_in = EXCLUDED.check_in, check_out = EXCLUDED.check_out,
          total_minutes = EXCLUDED.total_minutes, status = EXCLUDED.status, updated_at = now()
    RETURNING`+recordColumns+`
  `, employeeID, day, checkIn, checkOut, totalMinutes, status))
}

type ListResult struct {
	Records []Record
	Total   int
}

func (s *Store) ListForEmployee(ctx context.Context, employeeID string, from, to time.Time, limit, offset int) (ListResult, error) {
	var total int
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM attendance_records
    WHERE employee_id = $1 AND day >= $2 AND day <= $3
  `, employeeID, from, to).Scan(&total); err != nil {
		return ListResult{}, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT`+recordColumns+`
    FROM attendance_records
    WHERE employee_id = $1 AND day >= $2 AND day <= $3
    ORDER BY day DESC
    LIMIT $4 OFFSET $5
  `, employeeID, from, to, limit, offset)
	if err != nil {
		return ListResult{}, err
	}
	defer rows.Close()

	result := ListResult{Total: total}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return ListResult{}, err
		}
		result.Records = append(result.Records, rec)
	}
	return result, rows.Err()
}

func (s *Store) ListAll(ctx context.Context, from, to time.Time, limit, offset int) (ListResult, error) {
	var total int
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM attendance_records WHERE day >= $1 AND day <= $2
  `, from, to).Scan(&total); err != nil {
		return ListResult{}, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT`+recordColumns+`
    FROM attendance_records
    WHERE day >= $1 AND day <= $2
    ORDER BY day DESC, employee_id
    LIMIT $3 OFFSET $4
  `, from, to, limit, offset)
	if err != nil {
		return ListResult{}, err
	}
	defer rows.Close()

	result := ListResult{Total: total}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return ListResult{}, err
		}
		result.Records = append(result.Records, rec)
	}
	return result, rows.Err()
}
