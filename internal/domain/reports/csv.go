package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"staffhub/internal/domain/attendance"
	"staffhub/internal/domain/employee"
	"staffhub/internal/domain/leave"
	"staffhub/internal/domain/payroll"
)

const dateLayout = "2006-01-02"

// WriteAttendanceCSV streams attendance rows as CSV. encoding/csv handles
// quoting, so free-text fields are safe to include.
func WriteAttendanceCSV(w io.Writer, records []attendance.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"employee_id", "day", "check_in", "check_out", "total_minutes", "status"}); err != nil {
		return err
	}
	for _, rec := range records {
		checkIn, checkOut := "", ""
		if rec.CheckIn != nil {
			checkIn = rec.CheckIn.UTC().Format("15:04:05")
		}
		if rec.CheckOut != nil {
			checkOut = rec.CheckOut.UTC().Format("15:04:05")
		}
		row := []string{
			rec.EmployeeID,
			rec.Day.Format(dateLayout),
			checkIn,
			checkOut,
			strconv.Itoa(rec.TotalMinutes),
			rec.Status,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteLeaveCSV(w io.Writer, requests []leave.Request) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "employee_id", "leave_type", "start_date", "end_date", "days", "status", "approver_id", "remarks"}); err != nil {
		return err
	}
	for _, req := range requests {
		days, err := leave.DaySpan(req.StartDate, req.EndDate)
		if err != nil {
			days = 0
		}
		row := []string{
			req.ID,
			req.EmployeeID,
			req.Type,
			req.StartDate.Format(dateLayout),
			req.EndDate.Format(dateLayout),
			strconv.FormatFloat(days, 'f', -1, 64),
			req.Status,
			req.ApproverID,
			req.Remarks,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WritePayrollCSV(w io.Writer, records []payroll.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"employee_id", "month", "year", "basic", "hra", "allowances", "deductions", "net"}); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			rec.EmployeeID,
			strconv.Itoa(rec.Month),
			strconv.Itoa(rec.Year),
			money(rec.Basic),
			money(rec.HRA),
			money(rec.Allowances),
			money(rec.Deductions),
			money(rec.Net),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteEmployeesCSV(w io.Writer, profiles []employee.Profile) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"employee_id", "first_name", "last_name", "email", "department", "title", "start_date"}); err != nil {
		return err
	}
	for _, p := range profiles {
		start := ""
		if p.Job.StartDate != nil {
			start = p.Job.StartDate.Format(dateLayout)
		}
		row := []string{
			p.EmployeeID,
			p.FirstName,
			p.LastName,
			p.Email,
			p.Job.Department,
			p.Job.Title,
			start,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
