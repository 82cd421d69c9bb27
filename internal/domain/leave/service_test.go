package leave

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type fakeStore struct {
	requests   map[string]Request
	allowances map[string]Allowance
	history    map[string][]HistoryEvent
	nextID     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		requests:   map[string]Request{},
		allowances: map[string]Allowance{},
		history:    map[string][]HistoryEvent{},
	}
}

func allowanceKey(employeeID string, year int) string {
	return fmt.Sprintf("%s/%d", employeeID, year)
}

func (f *fakeStore) CreateRequest(_ context.Context, req Request) (Request, error) {
	f.nextID++
	req.ID = fmt.Sprintf("req-%d", f.nextID)
	req.Status = StatusPending
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	f.requests[req.ID] = req
	return req, nil
}

func (f *fakeStore) RequestByID(_ context.Context, id string) (Request, error) {
	req, ok := f.requests[id]
	if !ok {
		return Request{}, ErrNotFound
	}
	return req, nil
}

func (f *fakeStore) ListByEmployee(_ context.Context, employeeID string, _, _ int) ([]Request, int, error) {
	var out []Request
	for _, r := range f.requests {
		if r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	return out, len(out), nil
}

func (f *fakeStore) ListAll(_ context.Context, status string, _, _ int) ([]Request, int, error) {
	var out []Request
	for _, r := range f.requests {
		if status == "" || r.Status == status {
			out = append(out, r)
		}
	}
	return out, len(out), nil
}

func (f *fakeStore) ApprovedInYear(_ context.Context, employeeID string, year int) ([]Request, error) {
	var out []Request
	for _, r := range f.requests {
		if r.EmployeeID == employeeID && r.Status == StatusApproved && r.StartDate.Year() == year {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateDecision(_ context.Context, id, status, approverID, comment string, deduction *float64, deductionReason string) (Request, error) {
	req, ok := f.requests[id]
	if !ok {
		return Request{}, ErrNotFound
	}
	req.Status = status
	req.ApproverID = approverID
	req.ApproverComment = comment
	req.AdminRemarks = comment
	req.DeductionAmount = deduction
	req.DeductionReason = deductionReason
	req.UpdatedAt = time.Now()
	f.requests[id] = req
	return req, nil
}

func (f *fakeStore) AppendHistory(_ context.Context, requestID, action, actorID, comment string) error {
	f.history[requestID] = append(f.history[requestID], HistoryEvent{
		Action: action, ActorID: actorID, Comment: comment, CreatedAt: time.Now(),
	})
	return nil
}

func (f *fakeStore) HistoryFor(_ context.Context, requestID string) ([]HistoryEvent, error) {
	return f.history[requestID], nil
}

func (f *fakeStore) AllowanceFor(_ context.Context, employeeID string, year int) (Allowance, error) {
	a, ok := f.allowances[allowanceKey(employeeID, year)]
	if !ok {
		return Allowance{}, ErrNotFound
	}
	return a, nil
}

func (f *fakeStore) SaveAllowance(_ context.Context, a Allowance) (Allowance, error) {
	f.allowances[allowanceKey(a.EmployeeID, a.Year)] = a
	return a, nil
}

type fakeSalary struct {
	basic float64
	ok    bool
}

func (f fakeSalary) BasicSalary(context.Context, string) (float64, bool, error) {
	return f.basic, f.ok, nil
}

func apply(t *testing.T, svc *Service, employeeID, leaveType string, start, end time.Time) Request {
	t.Helper()
	req, err := svc.Apply(context.Background(), employeeID, leaveType, start, end, "")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	return req
}

func TestApplyRejectsUnknownType(t *testing.T) {
	svc := NewService(newFakeStore(), nil)
	_, err := svc.Apply(context.Background(), "emp-1", "sabbatical", day(2026, 3, 1), day(2026, 3, 2), "")
	if !errors.Is(err, ErrInvalidType) {
		t.Fatalf("err = %v, want ErrInvalidType", err)
	}
}

func TestApplyRecordsHistory(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)
	req := apply(t, svc, "emp-1", TypeCasual, day(2026, 3, 1), day(2026, 3, 2))
	events := store.history[req.ID]
	if len(events) != 1 || events[0].Action != "applied" || events[0].ActorID != "emp-1" {
		t.Fatalf("history = %+v, want one applied event by emp-1", events)
	}
}

func TestDecideApprovesPendingRequest(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)
	req := apply(t, svc, "emp-1", TypeSick, day(2026, 3, 1), day(2026, 3, 3))

	updated, err := svc.Decide(context.Background(), req.ID, "hr-1", true, "feel better")
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if updated.Status != StatusApproved || updated.ApproverID != "hr-1" {
		t.Fatalf("request = %+v, want approved by hr-1", updated)
	}
	events := store.history[req.ID]
	if len(events) != 2 || events[1].Action != StatusApproved {
		t.Fatalf("history = %+v, want applied then approved", events)
	}
}

func TestDecideRefusesDecidedRequest(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)
	req := apply(t, svc, "emp-1", TypeSick, day(2026, 3, 1), day(2026, 3, 3))

	if _, err := svc.Decide(context.Background(), req.ID, "hr-1", false, "denied"); err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if _, err := svc.Decide(context.Background(), req.ID, "hr-2", true, "changed my mind"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
	if got := store.requests[req.ID].Status; got != StatusRejected {
		t.Fatalf("status = %q, the first decision must stand", got)
	}
}

func TestBalanceEstablishesDefaultAllowance(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	b, err := svc.BalanceFor(context.Background(), "emp-1", 2026)
	if err != nil {
		t.Fatalf("BalanceFor: %v", err)
	}
	if b.Remaining[TypeSick] != 12 || b.Remaining[TypeAnnual] != 21 {
		t.Fatalf("remaining = %+v, want untouched defaults", b.Remaining)
	}
	if _, ok := store.allowances[allowanceKey("emp-1", 2026)]; !ok {
		t.Fatal("default allowance was not persisted")
	}
}

func TestBalanceCountsOnlyApprovedLeave(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	first := apply(t, svc, "emp-1", TypeSick, day(2026, 1, 5), day(2026, 1, 9)) // 5 days
	if _, err := svc.Decide(context.Background(), first.ID, "hr-1", true, ""); err != nil {
		t.Fatalf("Decide: %v", err)
	}
	apply(t, svc, "emp-1", TypeSick, day(2026, 2, 1), day(2026, 2, 10)) // pending, 10 days

	b, err := svc.BalanceFor(context.Background(), "emp-1", 2026)
	if err != nil {
		t.Fatalf("BalanceFor: %v", err)
	}
	if b.Used[TypeSick] != 5 || b.Remaining[TypeSick] != 7 {
		t.Fatalf("sick used/remaining = %v/%d, want 5/7", b.Used[TypeSick], b.Remaining[TypeSick])
	}
}

func TestOverconsumedBalanceClampsAtZero(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	for _, span := range [][2]time.Time{
		{day(2026, 1, 5), day(2026, 1, 9)},  // 5 days
		{day(2026, 2, 1), day(2026, 2, 10)}, // 10 days
	} {
		req := apply(t, svc, "emp-1", TypeSick, span[0], span[1])
		if _, err := svc.Decide(context.Background(), req.ID, "hr-1", true, ""); err != nil {
			t.Fatalf("Decide: %v", err)
		}
	}

	b, err := svc.BalanceFor(context.Background(), "emp-1", 2026)
	if err != nil {
		t.Fatalf("BalanceFor: %v", err)
	}
	if b.Used[TypeSick] != 15 {
		t.Fatalf("used sick = %v, want 15", b.Used[TypeSick])
	}
	if b.Remaining[TypeSick] != 0 {
		t.Fatalf("remaining sick = %d, want clamped to 0", b.Remaining[TypeSick])
	}
}

func TestApprovalBeyondAllowanceAttachesDeduction(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, fakeSalary{basic: 30000, ok: true})

	burn := apply(t, svc, "emp-1", TypeCasual, day(2026, 1, 1), day(2026, 1, 10)) // 10 of 12
	if _, err := svc.Decide(context.Background(), burn.ID, "hr-1", true, ""); err != nil {
		t.Fatalf("Decide: %v", err)
	}

	over := apply(t, svc, "emp-1", TypeCasual, day(2026, 2, 1), day(2026, 2, 5)) // 5 days, 2 remaining
	updated, err := svc.Decide(context.Background(), over.ID, "hr-1", true, "")
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if updated.DeductionAmount == nil {
		t.Fatal("expected a deduction for 3 unpaid days")
	}
	if *updated.DeductionAmount != 3000 { // 3 days at 30000/30
		t.Fatalf("deduction = %v, want 3000", *updated.DeductionAmount)
	}
	if updated.DeductionReason == "" {
		t.Fatal("deduction reason missing")
	}
}

func TestApprovalWithinAllowanceHasNoDeduction(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, fakeSalary{basic: 30000, ok: true})

	req := apply(t, svc, "emp-1", TypeCasual, day(2026, 2, 1), day(2026, 2, 3))
	updated, err := svc.Decide(context.Background(), req.ID, "hr-1", true, "")
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if updated.DeductionAmount != nil {
		t.Fatalf("deduction = %v, want none within allowance", *updated.DeductionAmount)
	}
}
