package employee

import "time"

type JobDetails struct {
	Title          string     `json:"title"`
	Department     string     `json:"department"`
	StartDate      *time.Time `json:"startDate,omitempty"`
	EmploymentType string     `json:"employmentType"`
}

type SalaryStructure struct {
	Basic      float64 `json:"basic"`
	HRA        float64 `json:"hra"`
	Allowances float64 `json:"allowances"`
	Deductions float64 `json:"deductions"`
	// BankAccount is AES-encrypted at rest.
	BankAccount string `json:"bankAccount,omitempty"`
}

type EmergencyContact struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Relation string `json:"relation"`
}

type Document struct {
	ID         string    `json:"id"`
	FileName   string    `json:"fileName"`
	URL        string    `json:"url"`
	UploadedBy string    `json:"uploadedBy,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Profile is the one-per-account employee record, linked to the Account by
// the shared employee id.
type Profile struct {
	ID         string           `json:"id"`
	AccountID  string           `json:"accountId"`
	EmployeeID string           `json:"employeeId"`
	FirstName  string           `json:"firstName"`
	LastName   string           `json:"lastName"`
	Email      string           `json:"email"`
	Phone      string           `json:"phone"`
	Address    string           `json:"address"`
	Job        JobDetails       `json:"jobDetails"`
	Salary     *SalaryStructure `json:"salaryStructure,omitempty"`
	Emergency  EmergencyContact `json:"emergencyContact"`
	Documents  []Document       `json:"documents,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}
