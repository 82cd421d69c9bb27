package payroll

import "context"

type StoreAPI interface {
	CreateRecord(ctx context.Context, rec Record) (Record, error)
	RecordByID(ctx context.Context, id string) (Record, error)
	UpdateRecord(ctx context.Context, rec Record) (Record, error)
	DeleteRecord(ctx context.Context, id string) error
	ListForEmployee(ctx context.Context, employeeID string, limit, offset int) ([]Record, int, error)
	ListAll(ctx context.Context, month, year, limit, offset int) ([]Record, int, error)
}

var _ StoreAPI = (*Store)(nil)
