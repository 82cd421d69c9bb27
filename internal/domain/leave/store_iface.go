package leave

import "context"

type StoreAPI interface {
	CreateRequest(ctx context.Context, req Request) (Request, error)
	RequestByID(ctx context.Context, id string) (Request, error)
	ListByEmployee(ctx context.Context, employeeID string, limit, offset int) ([]Request, int, error)
	ListAll(ctx context.Context, status string, limit, offset int) ([]Request, int, error)
	ApprovedInYear(ctx context.Context, employeeID string, year int) ([]Request, error)
	UpdateDecision(ctx context.Context, id, status, approverID, comment string, deduction *float64, deductionReason string) (Request, error)
	AppendHistory(ctx context.Context, requestID, action, actorID, comment string) error
	HistoryFor(ctx context.Context, requestID string) ([]HistoryEvent, error)
	AllowanceFor(ctx context.Context, employeeID string, year int) (Allowance, error)
	SaveAllowance(ctx context.Context, a Allowance) (Allowance, error)
}

var _ StoreAPI = (*Store)(nil)
