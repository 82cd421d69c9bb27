package reports

import (
	"math"

	"staffhub/internal/domain/attendance"
	"staffhub/internal/domain/leave"
	"staffhub/internal/domain/payroll"
)

type AttendanceSummary struct {
	Records      int            `json:"records"`
	ByStatus     map[string]int `json:"byStatus"`
	TotalMinutes int            `json:"totalMinutes"`
	AvgMinutes   int            `json:"avgMinutes"`
}

func SummarizeAttendance(records []attendance.Record) AttendanceSummary {
	s := AttendanceSummary{ByStatus: map[string]int{}}
	for _, rec := range records {
		s.Records++
		s.ByStatus[rec.Status]++
		s.TotalMinutes += rec.TotalMinutes
	}
	if s.Records > 0 {
		s.AvgMinutes = s.TotalMinutes / s.Records
	}
	return s
}

type LeaveSummary struct {
	Requests     int                `json:"requests"`
	ByStatus     map[string]int     `json:"byStatus"`
	ApprovedDays map[string]float64 `json:"approvedDays"`
}

func SummarizeLeave(requests []leave.Request) LeaveSummary {
	s := LeaveSummary{ByStatus: map[string]int{}, ApprovedDays: map[string]float64{}}
	for _, req := range requests {
		s.Requests++
		s.ByStatus[req.Status]++
		if req.Status != leave.StatusApproved {
			continue
		}
		if days, err := leave.DaySpan(req.StartDate, req.EndDate); err == nil {
			s.ApprovedDays[req.Type] += days
		}
	}
	return s
}

type PayrollSummary struct {
	Records         int     `json:"records"`
	TotalNet        float64 `json:"totalNet"`
	TotalDeductions float64 `json:"totalDeductions"`
}

func SummarizePayroll(records []payroll.Record) PayrollSummary {
	var s PayrollSummary
	for _, rec := range records {
		s.Records++
		s.TotalNet += rec.Net
		s.TotalDeductions += rec.Deductions
	}
	s.TotalNet = math.Round(s.TotalNet*100) / 100
	s.TotalDeductions = math.Round(s.TotalDeductions*100) / 100
	return s
}
