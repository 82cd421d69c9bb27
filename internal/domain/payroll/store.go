package payroll

import (
	"context"
	"fmt"

	"staffhub/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

const recordColumns = `id, employee_id, month, year, basic, hra, allowances,
	deductions, net, COALESCE(notes, ''), created_at, updated_at`

func scanRecord(row interface{ Scan(dest ...any) error }) (Record, error) {
	var r Record
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.Month, &r.Year, &r.Basic, &r.HRA, &r.Allowances,
		&r.Deductions, &r.Net, &r.Notes, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

func (s *Store) CreateRecord(ctx context.Context, rec Record) (Record, error) {
	row := s.DB.QueryRow(ctx, `
		INSERT INTO payroll_records (employee_id, month, year, basic, hra, allowances, deductions, net, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''))
		RETURNING `+recordColumns,
		rec.EmployeeID, rec.Month, rec.Year, rec.Basic, rec.HRA,
		rec.Allowances, rec.Deductions, rec.Net, rec.Notes,
	)
	created, err := scanRecord(row)
	if err != nil {
		if querier.IsUniqueViolation(err) {
			return Record{}, ErrDuplicate
		}
		return Record{}, fmt.Errorf("insert payroll record: %w", err)
	}
	return created, nil
}

func (s *Store) RecordByID(ctx context.Context, id string) (Record, error) {
	rec, err := scanRecord(s.DB.QueryRow(ctx,
		`SELECT `+recordColumns+` FROM payroll_records WHERE id = $1`, id))
	if err != nil {
		if querier.IsNotFound(err) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("select payroll record: %w", err)
	}
	return rec, nil
}

func (s *Store) UpdateRecord(ctx context.Context, rec Record) (Record, error) {
	row := s.DB.QueryRow(ctx, `
		UPDATE payroll_records
		SET basic = $2, hra = $3, allowances = $4, deductions = $5, net = $6,
		    notes = NULLIF($7, ''), updated_at = NOW()
		WHERE id = $1
		RETURNING `+recordColumns,
		rec.ID, rec.Basic, rec.HRA, rec.Allowances, rec.Deductions, rec.Net, rec.Notes,
	)
	updated, err := scanRecord(row)
	if err != nil {
		if querier.IsNotFound(err) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("update payroll record: %w", err)
	}
	return updated, nil
}

func (s *Store) DeleteRecord(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM payroll_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete payroll record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListForEmployee(ctx context.Context, employeeID string, limit, offset int) ([]Record, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM payroll_records WHERE employee_id = $1`, employeeID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count payroll records: %w", err)
	}

	rows, err := s.DB.Query(ctx, `
		SELECT `+recordColumns+` FROM payroll_records
		WHERE employee_id = $1
		ORDER BY year DESC, month DESC
		LIMIT $2 OFFSET $3`,
		employeeID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list payroll records: %w", err)
	}
	defer rows.Close()
	return collect(rows, total)
}

func (s *Store) ListAll(ctx context.Context, month, year, limit, offset int) ([]Record, int, error) {
	where := ""
	args := []any{}
	if month > 0 && year > 0 {
		where = "WHERE month = $1 AND year = $2"
		args = append(args, month, year)
	} else if year > 0 {
		where = "WHERE year = $1"
		args = append(args, year)
	}

	var total int
	if err := s.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM payroll_records `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count payroll records: %w", err)
	}

	args = append(args, limit, offset)
	rows, err := s.DB.Query(ctx, fmt.Sprintf(`
		SELECT `+recordColumns+` FROM payroll_records %s
		ORDER BY year DESC, month DESC, employee_id
		LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list payroll records: %w", err)
	}
	defer rows.Close()
	return collect(rows, total)
}

func collect(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}, total int) ([]Record, int, error) {
	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan payroll record: %w", err)
		}
		out = append(out, rec)
	}
	return out, total, rows.Err()
}
