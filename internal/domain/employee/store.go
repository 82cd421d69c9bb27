package employee

import (
	"context"

	"staffhub/internal/platform/crypto"
	"staffhub/internal/platform/querier"
)

type Store struct {
	DB     querier.Querier
	Crypto *crypto.Service
}

func NewStore(db querier.Querier, cryptoSvc *crypto.Service) *Store {
	return &Store{DB: db, Crypto: cryptoSvc}
}

const profileColumns = `
    p.id, p.account_id, p.employee_id, p.first_name, p.last_name, p.email,
    COALESCE(p.phone, ''), COALESCE(p.address, ''),
    COALESCE(p.job_title, ''), COALESCE(p.department, ''), p.start_date, COALESCE(p.employment_type, ''),
    p.salary_basic, p.salary_hra, p.salary_allowances, p.salary_deductions, p.bank_account_enc,
    COALESCE(p.emergency_name, ''), COALESCE(p.emergency_phone, ''), COALESCE(p.emergency_relation, ''),
    p.created_at, p.updated_at`

func (s *Store) scanProfile(row interface{ Scan(dest ...any) error }) (Profile, error) {
	var p Profile
	var salary SalaryStructure
	var bankEnc []byte
	err := row.Scan(
		&p.ID, &p.AccountID, &p.EmployeeID, &p.FirstName, &p.LastName, &p.Email,
		&p.Phone, &p.Address,
		&p.Job.Title, &p.Job.Department, &p.Job.StartDate, &p.Job.EmploymentType,
		&salary.Basic, &salary.HRA, &salary.Allowances, &salary.Deductions, &bankEnc,
		&p.Emergency.Name, &p.Emergency.Phone, &p.Emergency.Relation,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return Profile{}, err
	}
	if len(bankEnc) > 0 && s.Crypto != nil {
		plain, err := s.Crypto.DecryptString(bankEnc)
		if err != nil {
			return Profile{}, err
		}
		salary.BankAccount = plain
	}
	p.Salary = &salary
	return p, nil
}

func (s *Store) encryptBank(account string) ([]byte, error) {
	if account == "" || s.Crypto == nil {
		return nil, nil
	}
	return s.Crypto.EncryptString(account)
}

func (s *Store) CreateProfile(ctx context.Context, p Profile) (string, error) {
	salary := p.Salary
	if salary == nil {
		salary = &SalaryStructure{}
	}
	bankEnc, err := s.encryptBank(salary.BankAccount)
	if err != nil {
		return "", err
	}
	var id string
	err = s.DB.QueryRow(ctx, `
    INSERT INTO profiles (
      account_id, employee_id, first_name, last_name, email, phone, address,
      job_title, department, start_date, employment_type,
      salary_basic, salary_hra, salary_allowances, salary_deductions, bank_account_enc,
      emergency_name, emergency_phone, emergency_relation
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
    RETURNING id
  `, p.AccountID, p.EmployeeID, p.FirstName, p.LastName, p.Email, p.Phone, p.Address,
		p.Job.Title, p.Job.Department, p.Job.StartDate, p.Job.EmploymentType,
		salary.Basic, salary.HRA, salary.Allowances, salary.Deductions, bankEnc,
		p.Emergency.Name, p.Emergency.Phone, p.Emergency.Relation).Scan(&id)
	return id, err
}

func (s *Store) ProfileByEmployeeID(ctx context.Context, employeeID string) (Profile, error) {
	return s.scanProfile(s.DB.QueryRow(ctx, `
    SELECT`+profileColumns+`
    FROM profiles p
    WHERE p.employee_id = $1
  `, employeeID))
}

func (s *Store) ProfileByID(ctx context.Context, id string) (Profile, error) {
	return s.scanProfile(s.DB.QueryRow(ctx, `
    SELECT`+profileColumns+`
    FROM profiles p
    WHERE p.id = $1
  `, id))
}

type ListResult struct {
	Profiles []Profile
	Total    int
}

func (s *Store) ListProfiles(ctx context.Context, search string, limit, offset int) (ListResult, error) {
	pattern := "%" + search + "%"
	var total int
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM profiles p
    WHERE $1 = '%%' OR p.first_name ILIKE $1 OR p.last_name ILIKE $1 OR p.employee_id ILIKE $1 OR p.department ILIKE $1
  `, pattern).Scan(&total); err != nil {
		return ListResult{}, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT`+profileColumns+`
    FROM profiles p
    WHERE $1 = '%%' OR p.first_name ILIKE $1 OR p.last_name ILIKE $1 OR p.employee_id ILIKE $1 OR p.department ILIKE $1
    ORDER BY p.last_name, p.first_name
    LIMIT $2 OFFSET $3
  `, pattern, limit, offset)
	if err != nil {
		return ListResult{}, err
	}
	defer rows.Close()

	result := ListResult{Total: total}
	for rows.Next() {
		p, err := s.scanProfile(rows)
		if err != nil {
			return ListResult{}, err
		}
		result.Profiles = append(result.Profiles, p)
	}
	return result, rows.Err()
}

// UpdateContact covers the fields an employee may edit on their own profile.
func (s *Store) UpdateContact(ctx context.Context, employeeID string, p Profile) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE profiles
    SET first_name = $1, last_name = $2, phone = $3, address = $4,
        emergency_name = $5, emergency_phone = $6, emergency_relation = $7,
        updated_at = now()
    WHERE employee_id = $8
  `, p.FirstName, p.LastName, p.Phone, p.Address,
		p.Emergency.Name, p.Emergency.Phone, p.Emergency.Relation, employeeID)
	return err
}

// UpdateProfile is the elevated update: job details and salary structure
// included.
func (s *Store) UpdateProfile(ctx context.Context, employeeID string, p Profile) error {
	salary := p.Salary
	if salary == nil {
		salary = &SalaryStructure{}
	}
	bankEnc, err := s.encryptBank(salary.BankAccount)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, `
    UPDATE profiles
    SET first_name = $1, last_name = $2, phone = $3, address = $4,
        job_title = $5, department = $6, start_date = $7, employment_type = $8,
        salary_basic = $9, salary_hra = $10, salary_allowances = $11, salary_deductions = $12,
        bank_account_enc = COALESCE($13, bank_account_enc),
        emergency_name = $14, emergency_phone = $15, emergency_relation = $16,
        updated_at = now()
    WHERE employee_id = $17
  `, p.FirstName, p.LastName, p.Phone, p.Address,
		p.Job.Title, p.Job.Department, p.Job.StartDate, p.Job.EmploymentType,
		salary.Basic, salary.HRA, salary.Allowances, salary.Deductions, bankEnc,
		p.Emergency.Name, p.Emergency.Phone, p.Emergency.Relation, employeeID)
	return err
}

func (s *Store) AddDocument(ctx context.Context, employeeID string, doc Document) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO profile_documents (employee_id, file_name, url, uploaded_by)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, employeeID, doc.FileName, doc.URL, nullIfEmpty(doc.UploadedBy)).Scan(&id)
	return id, err
}

func (s *Store) ListDocuments(ctx context.Context, employeeID string) ([]Document, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, file_name, url, COALESCE(uploaded_by, ''), created_at
    FROM profile_documents
    WHERE employee_id = $1
    ORDER BY created_at DESC
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.FileName, &doc.URL, &doc.UploadedBy, &doc.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// AllEmployeeIDs returns the employee ids with a profile; bulk payroll
// generation iterates these.
func (s *Store) AllEmployeeIDs(ctx context.Context) ([]string, error) {
	rows, err := s.DB.Query(ctx, "SELECT employee_id FROM profiles ORDER BY employee_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
