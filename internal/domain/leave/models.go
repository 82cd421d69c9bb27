package leave

import "time"

const (
	TypeSick      = "sick"
	TypeCasual    = "casual"
	TypeAnnual    = "annual"
	TypeMaternity = "maternity"
	TypePaternity = "paternity"
)

// Types lists every leave type in a stable order; balance responses include
// all of them even when unused.
func Types() []string {
	return []string{TypeSick, TypeCasual, TypeAnnual, TypeMaternity, TypePaternity}
}

func ValidType(leaveType string) bool {
	switch leaveType {
	case TypeSick, TypeCasual, TypeAnnual, TypeMaternity, TypePaternity:
		return true
	}
	return false
}

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// HistoryEvent is one entry of a request's append-only transition log.
type HistoryEvent struct {
	Action    string    `json:"action"`
	ActorID   string    `json:"actorId"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Request struct {
	ID              string         `json:"id"`
	EmployeeID      string         `json:"employeeId"`
	Type            string         `json:"leaveType"`
	StartDate       time.Time      `json:"startDate"`
	EndDate         time.Time      `json:"endDate"`
	Remarks         string         `json:"remarks,omitempty"`
	Status          string         `json:"status"`
	ApproverID      string         `json:"approverId,omitempty"`
	ApproverComment string         `json:"approverComment,omitempty"`
	// AdminRemarks mirrors ApproverComment; older clients still read it.
	AdminRemarks    string         `json:"adminRemarks,omitempty"`
	DeductionAmount *float64       `json:"deductionAmount,omitempty"`
	DeductionReason string         `json:"deductionReason,omitempty"`
	History         []HistoryEvent `json:"history,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// Allowance is the annual per-type day quota, tagged with the year it was
// established for.
type Allowance struct {
	EmployeeID string `json:"employeeId"`
	Year       int    `json:"year"`
	Sick       int    `json:"sick"`
	Casual     int    `json:"casual"`
	Annual     int    `json:"annual"`
	Maternity  int    `json:"maternity"`
	Paternity  int    `json:"paternity"`
}

// DefaultAllowance is the schedule applied on first access.
func DefaultAllowance(employeeID string, year int) Allowance {
	return Allowance{
		EmployeeID: employeeID,
		Year:       year,
		Sick:       12,
		Casual:     12,
		Annual:     21,
		Maternity:  180,
		Paternity:  15,
	}
}

func (a Allowance) ByType() map[string]int {
	return map[string]int{
		TypeSick:      a.Sick,
		TypeCasual:    a.Casual,
		TypeAnnual:    a.Annual,
		TypeMaternity: a.Maternity,
		TypePaternity: a.Paternity,
	}
}

// Balance is the per-type allowance, raw used-day totals, and remaining days
// for one employee's current year.
type Balance struct {
	EmployeeID string             `json:"employeeId"`
	Year       int                `json:"year"`
	Allowance  map[string]int     `json:"allowance"`
	Used       map[string]float64 `json:"used"`
	Remaining  map[string]int     `json:"remaining"`
}
