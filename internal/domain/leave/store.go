package leave

import (
	"context"
	"fmt"

	"staffhub/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

const requestColumns = `id, employee_id, leave_type, start_date, end_date, remarks,
	status, COALESCE(approver_id, ''), COALESCE(approver_comment, ''),
	deduction_amount, COALESCE(deduction_reason, ''), created_at, updated_at`

func scanRequest(row interface{ Scan(dest ...any) error }) (Request, error) {
	var r Request
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.Type, &r.StartDate, &r.EndDate, &r.Remarks,
		&r.Status, &r.ApproverID, &r.ApproverComment,
		&r.DeductionAmount, &r.DeductionReason, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return Request{}, err
	}
	r.AdminRemarks = r.ApproverComment
	return r, nil
}

func (s *Store) CreateRequest(ctx context.Context, req Request) (Request, error) {
	row := s.DB.QueryRow(ctx, `
		INSERT INTO leave_requests (employee_id, leave_type, start_date, end_date, remarks, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+requestColumns,
		req.EmployeeID, req.Type, req.StartDate, req.EndDate, req.Remarks, StatusPending,
	)
	created, err := scanRequest(row)
	if err != nil {
		return Request{}, fmt.Errorf("insert leave request: %w", err)
	}
	return created, nil
}

func (s *Store) RequestByID(ctx context.Context, id string) (Request, error) {
	row := s.DB.QueryRow(ctx, `SELECT `+requestColumns+` FROM leave_requests WHERE id = $1`, id)
	req, err := scanRequest(row)
	if err != nil {
		if querier.IsNotFound(err) {
			return Request{}, ErrNotFound
		}
		return Request{}, fmt.Errorf("select leave request: %w", err)
	}
	return req, nil
}

func (s *Store) ListByEmployee(ctx context.Context, employeeID string, limit, offset int) ([]Request, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM leave_requests WHERE employee_id = $1`, employeeID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leave requests: %w", err)
	}

	rows, err := s.DB.Query(ctx, `
		SELECT `+requestColumns+` FROM leave_requests
		WHERE employee_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		employeeID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list leave requests: %w", err)
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan leave request: %w", err)
		}
		out = append(out, req)
	}
	return out, total, rows.Err()
}

func (s *Store) ListAll(ctx context.Context, status string, limit, offset int) ([]Request, int, error) {
	where := ""
	args := []any{}
	if status != "" {
		where = "WHERE status = $1"
		args = append(args, status)
	}

	var total int
	if err := s.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM leave_requests `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leave requests: %w", err)
	}

	args = append(args, limit, offset)
	rows, err := s.DB.Query(ctx, fmt.Sprintf(`
		SELECT `+requestColumns+` FROM leave_requests %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list leave requests: %w", err)
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan leave request: %w", err)
		}
		out = append(out, req)
	}
	return out, total, rows.Err()
}

// ApprovedInYear returns every approved request whose start date falls in
// the given calendar year. Balance computation keys usage off start date.
func (s *Store) ApprovedInYear(ctx context.Context, employeeID string, year int) ([]Request, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT `+requestColumns+` FROM leave_requests
		WHERE employee_id = $1
		  AND status = $2
		  AND EXTRACT(YEAR FROM start_date) = $3
		ORDER BY start_date`,
		employeeID, StatusApproved, year,
	)
	if err != nil {
		return nil, fmt.Errorf("list approved leave: %w", err)
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan leave request: %w", err)
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (s *Store) UpdateDecision(ctx context.Context, id, status, approverID, comment string, deduction *float64, deductionReason string) (Request, error) {
	row := s.DB.QueryRow(ctx, `
		UPDATE leave_requests
		SET status = $2, approver_id = $3, approver_comment = $4,
		    deduction_amount = $5, deduction_reason = NULLIF($6, ''),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING `+requestColumns,
		id, status, approverID, comment, deduction, deductionReason,
	)
	updated, err := scanRequest(row)
	if err != nil {
		if querier.IsNotFound(err) {
			return Request{}, ErrNotFound
		}
		return Request{}, fmt.Errorf("update leave request: %w", err)
	}
	return updated, nil
}

func (s *Store) AppendHistory(ctx context.Context, requestID, action, actorID, comment string) error {
	_, err := s.DB.Exec(ctx, `
		INSERT INTO leave_events (request_id, action, actor_id, comment)
		VALUES ($1, $2, $3, $4)`,
		requestID, action, actorID, comment,
	)
	if err != nil {
		return fmt.Errorf("insert leave event: %w", err)
	}
	return nil
}

func (s *Store) HistoryFor(ctx context.Context, requestID string) ([]HistoryEvent, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT action, actor_id, COALESCE(comment, ''), created_at
		FROM leave_events
		WHERE request_id = $1
		ORDER BY created_at`,
		requestID,
	)
	if err != nil {
		return nil, fmt.Errorf("list leave events: %w", err)
	}
	defer rows.Close()

	var out []HistoryEvent
	for rows.Next() {
		var ev HistoryEvent
		if err := rows.Scan(&ev.Action, &ev.ActorID, &ev.Comment, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan leave event: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (s *Store) AllowanceFor(ctx context.Context, employeeID string, year int) (Allowance, error) {
	var a Allowance
	err := s.DB.QueryRow(ctx, `
		SELECT employee_id, year, sick, casual, annual, maternity, paternity
		FROM leave_allowances
		WHERE employee_id = $1 AND year = $2`,
		employeeID, year,
	).Scan(&a.EmployeeID, &a.Year, &a.Sick, &a.Casual, &a.Annual, &a.Maternity, &a.Paternity)
	if err != nil {
		if querier.IsNotFound(err) {
			return Allowance{}, ErrNotFound
		}
		return Allowance{}, fmt.Errorf("select leave allowance: %w", err)
	}
	return a, nil
}

// SaveAllowance upserts the per-type quota for an employee's year.
func (s *Store) SaveAllowance(ctx context.Context, a Allowance) (Allowance, error) {
	err := s.DB.QueryRow(ctx, `
		INSERT INTO leave_allowances (employee_id, year, sick, casual, annual, maternity, paternity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (employee_id, year) DO UPDATE
		SET sick = EXCLUDED.sick, casual = EXCLUDED.casual, annual = EXCLUDED.annual,
		    maternity = EXCLUDED.maternity, paternity = EXCLUDED.paternity
		RETURNING employee_id, year, sick, casual, annual, maternity, paternity`,
		a.EmployeeID, a.Year, a.Sick, a.Casual, a.Annual, a.Maternity, a.Paternity,
	).Scan(&a.EmployeeID, &a.Year, &a.Sick, &a.Casual, &a.Annual, &a.Maternity, &a.Paternity)
	if err != nil {
		return Allowance{}, fmt.Errorf("upsert leave allowance: %w", err)
	}
	return a, nil
}
