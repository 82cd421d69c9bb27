package leave

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"
)

// SalarySource yields the monthly basic salary used to price unpaid leave.
// The second return is false when no salary is on file.
type SalarySource interface {
	BasicSalary(ctx context.Context, employeeID string) (float64, bool, error)
}

type Service struct {
	Store  StoreAPI
	Salary SalarySource

	now func() time.Time
}

func NewService(store StoreAPI, salary SalarySource) *Service {
	return &Service{Store: store, Salary: salary, now: time.Now}
}

// Apply files a new pending request and records the initial history event.
func (s *Service) Apply(ctx context.Context, employeeID, leaveType string, start, end time.Time, remarks string) (Request, error) {
	if !ValidType(leaveType) {
		return Request{}, ErrInvalidType
	}
	if _, err := DaySpan(start, end); err != nil {
		return Request{}, err
	}

	created, err := s.Store.CreateRequest(ctx, Request{
		EmployeeID: employeeID,
		Type:       leaveType,
		StartDate:  start,
		EndDate:    end,
		Remarks:    remarks,
	})
	if err != nil {
		return Request{}, err
	}
	if err := s.Store.AppendHistory(ctx, created.ID, "applied", employeeID, remarks); err != nil {
		slog.Warn("leave history append failed", "requestId", created.ID, "error", err)
	}
	return created, nil
}

// Decide moves a pending request to approved or rejected. Requests already
// decided stay as they are; re-deciding fails with ErrInvalidState. Approval
// beyond the remaining allowance attaches an unpaid-leave deduction when a
// salary is on file.
func (s *Service) Decide(ctx context.Context, requestID, approverID string, approve bool, comment string) (Request, error) {
	req, err := s.Store.RequestByID(ctx, requestID)
	if err != nil {
		return Request{}, err
	}
	if req.Status != StatusPending {
		return Request{}, ErrInvalidState
	}

	status := StatusRejected
	var deduction *float64
	deductionReason := ""
	if approve {
		status = StatusApproved
		deduction, deductionReason = s.unpaidDeduction(ctx, req)
	}

	updated, err := s.Store.UpdateDecision(ctx, requestID, status, approverID, comment, deduction, deductionReason)
	if err != nil {
		return Request{}, err
	}
	if err := s.Store.AppendHistory(ctx, requestID, status, approverID, comment); err != nil {
		slog.Warn("leave history append failed", "requestId", requestID, "error", err)
	}
	return updated, nil
}

// unpaidDeduction prices the days this approval pushes past the remaining
// allowance at one thirtieth of basic per day. A missing salary record or a
// lookup failure leaves the approval undeducted.
func (s *Service) unpaidDeduction(ctx context.Context, req Request) (*float64, string) {
	if s.Salary == nil {
		return nil, ""
	}
	balance, err := s.BalanceFor(ctx, req.EmployeeID, req.StartDate.Year())
	if err != nil {
		slog.Warn("leave balance lookup failed", "employeeId", req.EmployeeID, "error", err)
		return nil, ""
	}
	days, err := DaySpan(req.StartDate, req.EndDate)
	if err != nil {
		return nil, ""
	}
	over := int(math.Ceil(days)) - balance.Remaining[req.Type]
	if over <= 0 {
		return nil, ""
	}

	basic, ok, err := s.Salary.BasicSalary(ctx, req.EmployeeID)
	if err != nil {
		slog.Warn("salary lookup failed", "employeeId", req.EmployeeID, "error", err)
		return nil, ""
	}
	if !ok || basic <= 0 {
		return nil, ""
	}
	amount := math.Round(float64(over)*basic/30*100) / 100
	return &amount, "unpaid leave beyond annual allowance"
}

// BalanceFor computes the per-type balance for one employee's year,
// establishing the default allowance on first access.
func (s *Service) BalanceFor(ctx context.Context, employeeID string, year int) (Balance, error) {
	if year == 0 {
		year = s.now().UTC().Year()
	}
	allowance, err := s.Store.AllowanceFor(ctx, employeeID, year)
	if errors.Is(err, ErrNotFound) {
		allowance, err = s.Store.SaveAllowance(ctx, DefaultAllowance(employeeID, year))
	}
	if err != nil {
		return Balance{}, err
	}

	approved, err := s.Store.ApprovedInYear(ctx, employeeID, year)
	if err != nil {
		return Balance{}, err
	}
	return ComputeBalance(allowance, UsedDays(approved)), nil
}

// SetAllowance overrides an employee's quota for the given year.
func (s *Service) SetAllowance(ctx context.Context, a Allowance) (Allowance, error) {
	if a.Year == 0 {
		a.Year = s.now().UTC().Year()
	}
	return s.Store.SaveAllowance(ctx, a)
}

// RequestWithHistory loads a request and attaches its transition log.
func (s *Service) RequestWithHistory(ctx context.Context, id string) (Request, error) {
	req, err := s.Store.RequestByID(ctx, id)
	if err != nil {
		return Request{}, err
	}
	history, err := s.Store.HistoryFor(ctx, id)
	if err != nil {
		return Request{}, err
	}
	req.History = history
	return req, nil
}
