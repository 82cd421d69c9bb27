package payroll

import (
	"context"
	"errors"
	"log/slog"

	"staffhub/internal/domain/employee"
)

// ProfileSource is the slice of the employee store bulk generation needs.
type ProfileSource interface {
	AllEmployeeIDs(ctx context.Context) ([]string, error)
	ProfileByEmployeeID(ctx context.Context, employeeID string) (employee.Profile, error)
}

type Service struct {
	Store    StoreAPI
	Profiles ProfileSource
}

// Create inserts a payroll record for one employee and period. Net is
// derived from the components; any client-supplied net is ignored.
func (s *Service) Create(ctx context.Context, rec Record) (Record, error) {
	if !ValidPeriod(rec.Month, rec.Year) {
		return Record{}, ErrInvalidPeriod
	}
	rec.Net = Net(rec.Basic, rec.HRA, rec.Allowances, rec.Deductions)
	return s.Store.CreateRecord(ctx, rec)
}

// Update rewrites the salary components of an existing record, re-deriving
// net. Period and employee are immutable after creation.
func (s *Service) Update(ctx context.Context, rec Record) (Record, error) {
	rec.Net = Net(rec.Basic, rec.HRA, rec.Allowances, rec.Deductions)
	return s.Store.UpdateRecord(ctx, rec)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.Store.DeleteRecord(ctx, id)
}

func (s *Service) Record(ctx context.Context, id string) (Record, error) {
	return s.Store.RecordByID(ctx, id)
}

func (s *Service) List(ctx context.Context, month, year, limit, offset int) ([]Record, int, error) {
	return s.Store.ListAll(ctx, month, year, limit, offset)
}

func (s *Service) History(ctx context.Context, employeeID string, limit, offset int) ([]Record, int, error) {
	return s.Store.ListForEmployee(ctx, employeeID, limit, offset)
}

// Generate creates a record for every employee with a salary structure for
// the given period. Running it twice is safe: employees that already have a
// record for the period are counted as existing and left untouched.
func (s *Service) Generate(ctx context.Context, month, year int) (BulkResult, error) {
	if !ValidPeriod(month, year) {
		return BulkResult{}, ErrInvalidPeriod
	}
	ids, err := s.Profiles.AllEmployeeIDs(ctx)
	if err != nil {
		return BulkResult{}, err
	}

	result := BulkResult{Month: month, Year: year}
	for _, id := range ids {
		profile, err := s.Profiles.ProfileByEmployeeID(ctx, id)
		if err != nil {
			slog.Warn("payroll generation skipping employee", "employeeId", id, "error", err)
			continue
		}
		if profile.Salary == nil || profile.Salary.Basic <= 0 {
			result.NoSalary++
			continue
		}

		_, err = s.Store.CreateRecord(ctx, Record{
			EmployeeID: id,
			Month:      month,
			Year:       year,
			Basic:      profile.Salary.Basic,
			HRA:        profile.Salary.HRA,
			Allowances: profile.Salary.Allowances,
			Deductions: profile.Salary.Deductions,
			Net:        Net(profile.Salary.Basic, profile.Salary.HRA, profile.Salary.Allowances, profile.Salary.Deductions),
		})
		switch {
		case errors.Is(err, ErrDuplicate):
			result.Existing++
		case err != nil:
			return result, err
		default:
			result.Generated++
		}
	}
	return result, nil
}
