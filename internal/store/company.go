package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"jobly/internal/database"
	"jobly/internal/errcode"
	"jobly/internal/sqlbuild"
)

// Company 是公司资源的对外表示。
type Company struct {
	Handle       string  `json:"handle"`
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	NumEmployees *int    `json:"numEmployees"`
	LogoURL      *string `json:"logoUrl"`
}

// CompanyJob is a job as listed inside its company.
type CompanyJob struct {
	ID     int     `json:"id"`
	Title  string  `json:"title"`
	Salary *int    `json:"salary"`
	Equity *string `json:"equity"`
}

// CompanyDetail is a company together with the jobs it owns.
type CompanyDetail struct {
	Company
	Jobs []CompanyJob `json:"jobs"`
}

// NewCompany is the payload of Companies.Create.
type NewCompany struct {
	Handle       string  `json:"handle" binding:"required,min=1,max=25"`
	Name         string  `json:"name" binding:"required,min=1"`
	Description  *string `json:"description"`
	NumEmployees *int    `json:"numEmployees" binding:"omitempty,min=0"`
	LogoURL      *string `json:"logoUrl" binding:"omitempty,url"`
}

// CompanyUpdate is the allow-list of updatable company fields. The handle is
// never updatable.
type CompanyUpdate struct {
	Name         Optional[string] `json:"name"`
	Description  Optional[string] `json:"description"`
	NumEmployees Optional[int]    `json:"numEmployees"`
	LogoURL      Optional[string] `json:"logoUrl"`
}

var companyFieldColumns = map[string]string{
	"numEmployees": "num_employees",
	"logoUrl":      "logo_url",
}

func (u CompanyUpdate) patch() (sqlbuild.Patch, error) {
	var p sqlbuild.Patch
	if u.Name.Set {
		if u.Name.Null || u.Name.Value == "" {
			return nil, errcode.BadRequest("name must not be empty")
		}
		p = p.Set("name", u.Name.arg())
	}
	if u.Description.Set {
		p = p.Set("description", u.Description.arg())
	}
	if u.NumEmployees.Set {
		if !u.NumEmployees.Null && u.NumEmployees.Value < 0 {
			return nil, errcode.BadRequest("numEmployees must not be negative")
		}
		p = p.Set("numEmployees", u.NumEmployees.arg())
	}
	if u.LogoURL.Set {
		p = p.Set("logoUrl", u.LogoURL.arg())
	}
	return p, nil
}

// companyNameConstraint is the name PostgreSQL gives the UNIQUE on companies.name.
const companyNameConstraint = "companies_name_key"

const companyColumns = `handle, name, description, num_employees, logo_url`

func scanCompany(row pgx.Row) (Company, error) {
	var c Company
	err := row.Scan(&c.Handle, &c.Name, &c.Description, &c.NumEmployees, &c.LogoURL)
	return c, err
}

func scanCompanyJob(row pgx.Row) (CompanyJob, error) {
	var j CompanyJob
	err := row.Scan(&j.ID, &j.Title, &j.Salary, &j.Equity)
	return j, err
}

// Companies groups the company queries.
type Companies struct {
	db DBTX
}

func NewCompanies(db DBTX) *Companies {
	return &Companies{db: db}
}

// Create inserts a company. A taken handle or name is a BadRequest naming the
// field that clashed.
func (s *Companies) Create(ctx context.Context, data NewCompany) (Company, error) {
	dup, err := exists(ctx, s.db, `SELECT 1 FROM companies WHERE handle = $1`, data.Handle)
	if err != nil {
		return Company{}, fmt.Errorf("check duplicate company: %w", err)
	}
	if dup {
		return Company{}, errcode.BadRequest("Duplicate company: %s", data.Handle)
	}

	row := s.db.QueryRow(ctx,
		`INSERT INTO companies (handle, name, description, num_employees, logo_url)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+companyColumns,
		data.Handle, data.Name, data.Description, data.NumEmployees, data.LogoURL,
	)
	company, err := scanCompany(row)
	switch {
	case err == nil:
		return company, nil
	case database.IsUniqueViolation(err) && database.ConstraintName(err) == companyNameConstraint:
		return Company{}, errcode.BadRequest("Duplicate company name: %s", data.Name)
	case database.IsUniqueViolation(err):
		return Company{}, errcode.BadRequest("Duplicate company: %s", data.Handle)
	default:
		return Company{}, fmt.Errorf("insert company: %w", err)
	}
}

// FindAll lists companies matching filter, ordered by name.
func (s *Companies) FindAll(ctx context.Context, filter CompanyFilter) ([]Company, error) {
	where, args := sqlbuild.Where(filter.Predicates(), 1)
	rows, err := s.db.Query(ctx,
		`SELECT `+companyColumns+`
		 FROM companies
		 `+where+`
		 ORDER BY name`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return collect(rows, scanCompany)
}

// Get returns a company with its jobs. A company without jobs comes back with
// an empty Jobs slice.
func (s *Companies) Get(ctx context.Context, handle string) (CompanyDetail, error) {
	company, err := scanCompany(s.db.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE handle = $1`,
		handle,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CompanyDetail{}, errcode.NotFound("No company: %s", handle)
		}
		return CompanyDetail{}, fmt.Errorf("get company: %w", err)
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, title, salary, equity::text
		 FROM jobs
		 WHERE company_handle = $1
		 ORDER BY title, id`,
		handle,
	)
	if err != nil {
		return CompanyDetail{}, fmt.Errorf("list company jobs: %w", err)
	}
	jobs, err := collect(rows, scanCompanyJob)
	if err != nil {
		return CompanyDetail{}, err
	}

	return CompanyDetail{Company: company, Jobs: jobs}, nil
}

// Update applies a partial update. Only fields set in data are touched.
func (s *Companies) Update(ctx context.Context, handle string, data CompanyUpdate) (Company, error) {
	p, err := data.patch()
	if err != nil {
		return Company{}, err
	}
	upd, err := sqlbuild.PartialUpdate(p, companyFieldColumns)
	if err != nil {
		return Company{}, err
	}

	query := fmt.Sprintf(
		`UPDATE companies SET %s WHERE handle = $%d RETURNING %s`,
		upd.SetClause, upd.NextIndex(), companyColumns,
	)
	company, err := scanCompany(s.db.QueryRow(ctx, query, append(upd.Values, handle)...))
	switch {
	case err == nil:
		return company, nil
	case errors.Is(err, pgx.ErrNoRows):
		return Company{}, errcode.NotFound("No company: %s", handle)
	case database.IsUniqueViolation(err):
		return Company{}, errcode.BadRequest("Duplicate company name: %s", data.Name.Value)
	default:
		return Company{}, fmt.Errorf("update company: %w", err)
	}
}

// Remove deletes a company together with its jobs and their applications, in
// one transaction.
func (s *Companies) Remove(ctx context.Context, handle string) error {
	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM applications
			 WHERE job_id IN (SELECT id FROM jobs WHERE company_handle = $1)`,
			handle,
		); err != nil {
			return fmt.Errorf("delete company applications: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM jobs WHERE company_handle = $1`, handle); err != nil {
			return fmt.Errorf("delete company jobs: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM companies WHERE handle = $1`, handle)
		if err != nil {
			return fmt.Errorf("delete company: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return errcode.NotFound("No company: %s", handle)
		}
		return nil
	})
}
