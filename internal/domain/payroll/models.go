package payroll

import (
	"errors"
	"time"
)

type Record struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	Month      int       `json:"month"`
	Year       int       `json:"year"`
	Basic      float64   `json:"basic"`
	HRA        float64   `json:"hra"`
	Allowances float64   `json:"allowances"`
	Deductions float64   `json:"deductions"`
	Net        float64   `json:"netSalary"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// BulkResult reports a generation run. Employees that already had a record
// for the period count as existing, not failures.
type BulkResult struct {
	Month     int `json:"month"`
	Year      int `json:"year"`
	Generated int `json:"generated"`
	Existing  int `json:"existing"`
	NoSalary  int `json:"noSalary"`
}

var (
	ErrDuplicate     = errors.New("payroll: record already exists for period")
	ErrNotFound      = errors.New("payroll: record not found")
	ErrInvalidPeriod = errors.New("payroll: invalid month or year")
)
