package attendance

import (
	"context"
	"errors"
	"time"

	"staffhub/internal/platform/querier"
)

var (
	ErrNotCheckedIn      = errors.New("not checked in")
	ErrAlreadyCheckedOut = errors.New("already checked out")
)

type StoreAPI interface {
	RecordForDay(ctx context.Context, employeeID string, day time.Time) (Record, error)
	UpsertCheckIn(ctx context.Context, employeeID string, day, at time.Time) (Record, error)
	SetCheckOut(ctx context.Context, recordID string, at time.Time, totalMinutes int, status string) (Record, error)
	Override(ctx context.Context, employeeID string, day time.Time, checkIn, checkOut *time.Time, totalMinutes int, status string) (Record, error)
	ListForEmployee(ctx context.Context, employeeID string, from, to time.Time, limit, offset int) (ListResult, error)
	ListAll(ctx context.Context, from, to time.Time, limit, offset int) (ListResult, error)
}

type Service struct {
	Store StoreAPI

	now func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store, now: time.Now}
}

// CheckIn opens (or re-stamps) today's record. A day that already has a
// check-out is closed and cannot be re-opened by the employee.
func (s *Service) CheckIn(ctx context.Context, employeeID string) (Record, error) {
	at := s.now().UTC()
	day := DayOf(at)

	existing, err := s.Store.RecordForDay(ctx, employeeID, day)
	switch {
	case err == nil:
		if existing.CheckOut != nil {
			return Record{}, ErrAlreadyCheckedOut
		}
	case querier.IsNotFound(err):
		// First check-in of the day.
	default:
		return Record{}, err
	}

	return s.Store.UpsertCheckIn(ctx, employeeID, day, at)
}

func (s *Service) CheckOut(ctx context.Context, employeeID string) (Record, error) {
	at := s.now().UTC()
	day := DayOf(at)

	existing, err := s.Store.RecordForDay(ctx, employeeID, day)
	if err != nil {
		if querier.IsNotFound(err) {
			return Record{}, ErrNotCheckedIn
		}
		return Record{}, err
	}
	if existing.CheckIn == nil {
		return Record{}, ErrNotCheckedIn
	}
	if existing.CheckOut != nil {
		return Record{}, ErrAlreadyCheckedOut
	}

	minutes, err := TotalMinutes(*existing.CheckIn, at)
	if err != nil {
		return Record{}, err
	}
	return s.Store.SetCheckOut(ctx, existing.ID, at, minutes, StatusForMinutes(minutes))
}

// Override lets an elevated actor correct a day: stamps and status are taken
// as given, total minutes are always re-derived from the stamps.
func (s *Service) Override(ctx context.Context, employeeID string, day time.Time, checkIn, checkOut *time.Time, status string) (Record, error) {
	minutes := 0
	if checkIn != nil && checkOut != nil {
		var err error
		minutes, err = TotalMinutes(*checkIn, *checkOut)
		if err != nil {
			return Record{}, err
		}
	}
	return s.Store.Override(ctx, employeeID, DayOf(day), checkIn, checkOut, minutes, status)
}

func (s *Service) HistoryForEmployee(ctx context.Context, employeeID string, from, to time.Time, limit, offset int) (ListResult, error) {
	return s.Store.ListForEmployee(ctx, employeeID, from, to, limit, offset)
}

func (s *Service) History(ctx context.Context, from, to time.Time, limit, offset int) (ListResult, error) {
	return s.Store.ListAll(ctx, from, to, limit, offset)
}
