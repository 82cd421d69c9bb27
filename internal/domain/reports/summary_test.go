package reports

import (
	"testing"
	"time"

	"staffhub/internal/domain/attendance"
	"staffhub/internal/domain/leave"
	"staffhub/internal/domain/payroll"
)

func TestSummarizeAttendance(t *testing.T) {
	s := SummarizeAttendance([]attendance.Record{
		{Status: attendance.StatusPresent, TotalMinutes: 480},
		{Status: attendance.StatusPresent, TotalMinutes: 500},
		{Status: attendance.StatusHalfDay, TotalMinutes: 200},
		{Status: attendance.StatusAbsent},
	})
	if s.Records != 4 || s.ByStatus[attendance.StatusPresent] != 2 {
		t.Fatalf("summary = %+v", s)
	}
	if s.TotalMinutes != 1180 || s.AvgMinutes != 295 {
		t.Fatalf("minutes = %d avg %d, want 1180/295", s.TotalMinutes, s.AvgMinutes)
	}
}

func TestSummarizeLeaveCountsOnlyApprovedDays(t *testing.T) {
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	s := SummarizeLeave([]leave.Request{
		{Type: leave.TypeSick, Status: leave.StatusApproved, StartDate: start, EndDate: start.AddDate(0, 0, 2)},
		{Type: leave.TypeSick, Status: leave.StatusPending, StartDate: start, EndDate: start.AddDate(0, 0, 9)},
		{Type: leave.TypeCasual, Status: leave.StatusRejected, StartDate: start, EndDate: start},
	})
	if s.Requests != 3 || s.ByStatus[leave.StatusPending] != 1 {
		t.Fatalf("summary = %+v", s)
	}
	if s.ApprovedDays[leave.TypeSick] != 3 {
		t.Fatalf("approved sick days = %v, want 3", s.ApprovedDays[leave.TypeSick])
	}
	if s.ApprovedDays[leave.TypeCasual] != 0 {
		t.Fatalf("rejected leave must not count: %v", s.ApprovedDays[leave.TypeCasual])
	}
}

func TestSummarizePayroll(t *testing.T) {
	s := SummarizePayroll([]payroll.Record{
		{Net: 44000, Deductions: 3000},
		{Net: 51000.50, Deductions: 4500.25},
	})
	if s.Records != 2 || s.TotalNet != 95000.50 || s.TotalDeductions != 7500.25 {
		t.Fatalf("summary = %+v", s)
	}
}
