package payroll

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"staffhub/internal/domain/employee"
)

type fakeStore struct {
	records map[string]Record // keyed employeeID/month/year
	nextID  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[string]Record{}}
}

func periodKey(employeeID string, month, year int) string {
	return fmt.Sprintf("%s/%d/%d", employeeID, month, year)
}

func (f *fakeStore) CreateRecord(_ context.Context, rec Record) (Record, error) {
	key := periodKey(rec.EmployeeID, rec.Month, rec.Year)
	if _, exists := f.records[key]; exists {
		return Record{}, ErrDuplicate
	}
	f.nextID++
	rec.ID = fmt.Sprintf("pay-%d", f.nextID)
	f.records[key] = rec
	return rec, nil
}

func (f *fakeStore) RecordByID(_ context.Context, id string) (Record, error) {
	for _, rec := range f.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return Record{}, ErrNotFound
}

func (f *fakeStore) UpdateRecord(_ context.Context, rec Record) (Record, error) {
	for key, existing := range f.records {
		if existing.ID == rec.ID {
			rec.EmployeeID = existing.EmployeeID
			rec.Month = existing.Month
			rec.Year = existing.Year
			f.records[key] = rec
			return rec, nil
		}
	}
	return Record{}, ErrNotFound
}

func (f *fakeStore) DeleteRecord(_ context.Context, id string) error {
	for key, rec := range f.records {
		if rec.ID == id {
			delete(f.records, key)
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeStore) ListForEmployee(_ context.Context, employeeID string, _, _ int) ([]Record, int, error) {
	var out []Record
	for _, rec := range f.records {
		if rec.EmployeeID == employeeID {
			out = append(out, rec)
		}
	}
	return out, len(out), nil
}

func (f *fakeStore) ListAll(_ context.Context, month, year, _, _ int) ([]Record, int, error) {
	var out []Record
	for _, rec := range f.records {
		if (month == 0 || rec.Month == month) && (year == 0 || rec.Year == year) {
			out = append(out, rec)
		}
	}
	return out, len(out), nil
}

type fakeProfiles struct {
	profiles map[string]employee.Profile
}

func (f fakeProfiles) AllEmployeeIDs(context.Context) ([]string, error) {
	ids := make([]string, 0, len(f.profiles))
	for id := range f.profiles {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f fakeProfiles) ProfileByEmployeeID(_ context.Context, employeeID string) (employee.Profile, error) {
	p, ok := f.profiles[employeeID]
	if !ok {
		return employee.Profile{}, errors.New("no profile")
	}
	return p, nil
}

func salaried(employeeID string, basic float64) employee.Profile {
	return employee.Profile{
		EmployeeID: employeeID,
		Salary:     &employee.SalaryStructure{Basic: basic, HRA: basic * 0.4, Allowances: 2000, Deductions: 1500},
	}
}

func TestCreateDerivesNet(t *testing.T) {
	svc := &Service{Store: newFakeStore()}
	rec, err := svc.Create(context.Background(), Record{
		EmployeeID: "emp-1", Month: 8, Year: 2026,
		Basic: 30000, HRA: 12000, Allowances: 5000, Deductions: 3000,
		Net: 999999, // client-supplied, must be ignored
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Net != 44000 {
		t.Fatalf("net = %v, want 44000 derived from components", rec.Net)
	}
}

func TestCreateRejectsInvalidPeriod(t *testing.T) {
	svc := &Service{Store: newFakeStore()}
	_, err := svc.Create(context.Background(), Record{EmployeeID: "emp-1", Month: 13, Year: 2026})
	if !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("err = %v, want ErrInvalidPeriod", err)
	}
}

func TestCreateDuplicatePeriodFails(t *testing.T) {
	svc := &Service{Store: newFakeStore()}
	base := Record{EmployeeID: "emp-1", Month: 8, Year: 2026, Basic: 30000}
	if _, err := svc.Create(context.Background(), base); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(context.Background(), base); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
}

func TestUpdateRederivesNet(t *testing.T) {
	svc := &Service{Store: newFakeStore()}
	rec, err := svc.Create(context.Background(), Record{EmployeeID: "emp-1", Month: 8, Year: 2026, Basic: 30000})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	rec.Deductions = 5000
	rec.Net = 1
	updated, err := svc.Update(context.Background(), rec)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Net != 25000 {
		t.Fatalf("net = %v, want 25000 after deduction change", updated.Net)
	}
}

func TestGenerateCoversSalariedEmployees(t *testing.T) {
	store := newFakeStore()
	svc := &Service{
		Store: store,
		Profiles: fakeProfiles{profiles: map[string]employee.Profile{
			"emp-1": salaried("emp-1", 30000),
			"emp-2": salaried("emp-2", 45000),
			"emp-3": {EmployeeID: "emp-3"}, // no salary structure
		}},
	}

	result, err := svc.Generate(context.Background(), 8, 2026)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Generated != 2 || result.Existing != 0 || result.NoSalary != 1 {
		t.Fatalf("result = %+v, want 2 generated, 1 without salary", result)
	}
	rec := store.records[periodKey("emp-1", 8, 2026)]
	if rec.Net != Net(30000, 12000, 2000, 1500) {
		t.Fatalf("generated net = %v, want derived from salary structure", rec.Net)
	}
}

func TestGenerateIsIdempotent(t *testing.T) {
	svc := &Service{
		Store: newFakeStore(),
		Profiles: fakeProfiles{profiles: map[string]employee.Profile{
			"emp-1": salaried("emp-1", 30000),
			"emp-2": salaried("emp-2", 45000),
		}},
	}

	if _, err := svc.Generate(context.Background(), 8, 2026); err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	second, err := svc.Generate(context.Background(), 8, 2026)
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	if second.Generated != 0 || second.Existing != 2 {
		t.Fatalf("second run = %+v, want everything existing", second)
	}
}
