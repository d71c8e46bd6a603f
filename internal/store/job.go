package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"jobly/internal/database"
	"jobly/internal/errcode"
	"jobly/internal/sqlbuild"
)

// Job 是职位资源的对外表示。Equity 以十进制字符串表示，例如 "0.5"。
type Job struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	Salary        *int    `json:"salary"`
	Equity        *string `json:"equity"`
	CompanyHandle string  `json:"companyHandle"`
}

// NewJob is the payload of Jobs.Create.
type NewJob struct {
	Title         string  `json:"title" binding:"required,min=1"`
	Salary        *int    `json:"salary" binding:"omitempty,min=0"`
	Equity        *string `json:"equity"`
	CompanyHandle string  `json:"companyHandle" binding:"required,min=1,max=25"`
}

// JobUpdate is the allow-list of updatable job fields. Neither the id nor the
// owning company can change.
type JobUpdate struct {
	Title  Optional[string] `json:"title"`
	Salary Optional[int]    `json:"salary"`
	Equity Optional[string] `json:"equity"`
}

func (u JobUpdate) patch() (sqlbuild.Patch, error) {
	var p sqlbuild.Patch
	if u.Title.Set {
		if u.Title.Null || u.Title.Value == "" {
			return nil, errcode.BadRequest("title must not be empty")
		}
		p = p.Set("title", u.Title.arg())
	}
	if u.Salary.Set {
		if !u.Salary.Null && u.Salary.Value < 0 {
			return nil, errcode.BadRequest("salary must not be negative")
		}
		p = p.Set("salary", u.Salary.arg())
	}
	if u.Equity.Set {
		if !u.Equity.Null {
			if err := checkEquity(u.Equity.Value); err != nil {
				return nil, err
			}
		}
		p = p.Set("equity", u.Equity.arg())
	}
	return p, nil
}

// checkEquity accepts plain decimal strings in [0, 1). Hex, exponent and
// underscore forms that strconv would take are refused, PostgreSQL NUMERIC
// does not parse them.
func checkEquity(s string) error {
	if validate.Var(s, "numeric") != nil {
		return errcode.BadRequest("equity must be a decimal in [0, 1), got %q", s)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !(f >= 0 && f < 1) {
		return errcode.BadRequest("equity must be a decimal in [0, 1), got %q", s)
	}
	return nil
}

const jobColumns = `id, title, salary, equity::text, company_handle`

func scanJob(row pgx.Row) (Job, error) {
	var j Job
	err := row.Scan(&j.ID, &j.Title, &j.Salary, &j.Equity, &j.CompanyHandle)
	return j, err
}

// Jobs groups the job queries.
type Jobs struct {
	db DBTX
}

func NewJobs(db DBTX) *Jobs {
	return &Jobs{db: db}
}

// Create inserts a job. A taken title, an unknown company or an out of range
// equity is a BadRequest.
func (s *Jobs) Create(ctx context.Context, data NewJob) (Job, error) {
	if data.Equity != nil {
		if err := checkEquity(*data.Equity); err != nil {
			return Job{}, err
		}
	}

	dup, err := exists(ctx, s.db, `SELECT 1 FROM jobs WHERE title = $1`, data.Title)
	if err != nil {
		return Job{}, fmt.Errorf("check duplicate job: %w", err)
	}
	if dup {
		return Job{}, errcode.BadRequest("Duplicate job: %s", data.Title)
	}

	job, err := scanJob(s.db.QueryRow(ctx,
		`INSERT INTO jobs (title, salary, equity, company_handle)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+jobColumns,
		data.Title, data.Salary, data.Equity, data.CompanyHandle,
	))
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return Job{}, errcode.BadRequest("No company: %s", data.CompanyHandle)
		}
		if database.IsCheckViolation(err) {
			return Job{}, errcode.BadRequest("Invalid job data: %s", database.ConstraintName(err))
		}
		return Job{}, fmt.Errorf("insert job: %w", err)
	}
	return job, nil
}

// FindAll lists jobs matching filter, ordered by title.
func (s *Jobs) FindAll(ctx context.Context, filter JobFilter) ([]Job, error) {
	where, args := sqlbuild.Where(filter.Predicates(), 1)
	rows, err := s.db.Query(ctx,
		`SELECT `+jobColumns+`
		 FROM jobs
		 `+where+`
		 ORDER BY title, id`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return collect(rows, scanJob)
}

// Get returns a single job.
func (s *Jobs) Get(ctx context.Context, id int) (Job, error) {
	job, err := scanJob(s.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Job{}, errcode.NotFound("No job: %d", id)
		}
		return Job{}, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// Update applies a partial update to a job.
func (s *Jobs) Update(ctx context.Context, id int, data JobUpdate) (Job, error) {
	p, err := data.patch()
	if err != nil {
		return Job{}, err
	}
	upd, err := sqlbuild.PartialUpdate(p, nil)
	if err != nil {
		return Job{}, err
	}

	if data.Title.Set {
		found, err := exists(ctx, s.db, `SELECT 1 FROM jobs WHERE id = $1`, id)
		if err != nil {
			return Job{}, fmt.Errorf("check job: %w", err)
		}
		if !found {
			return Job{}, errcode.NotFound("No job: %d", id)
		}

		dup, err := exists(ctx, s.db, `SELECT 1 FROM jobs WHERE title = $1 AND id <> $2`, data.Title.Value, id)
		if err != nil {
			return Job{}, fmt.Errorf("check duplicate job: %w", err)
		}
		if dup {
			return Job{}, errcode.BadRequest("Duplicate job: %s", data.Title.Value)
		}
	}

	query := fmt.Sprintf(
		`UPDATE jobs SET %s WHERE id = $%d RETURNING %s`,
		upd.SetClause, upd.NextIndex(), jobColumns,
	)
	job, err := scanJob(s.db.QueryRow(ctx, query, append(upd.Values, id)...))
	switch {
	case err == nil:
		return job, nil
	case errors.Is(err, pgx.ErrNoRows):
		return Job{}, errcode.NotFound("No job: %d", id)
	case database.IsCheckViolation(err):
		return Job{}, errcode.BadRequest("Invalid job data: %s", database.ConstraintName(err))
	default:
		return Job{}, fmt.Errorf("update job: %w", err)
	}
}

// Remove deletes a job and the applications made to it.
func (s *Jobs) Remove(ctx context.Context, id int) error {
	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM applications WHERE job_id = $1`, id); err != nil {
			return fmt.Errorf("delete job applications: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete job: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return errcode.NotFound("No job: %d", id)
		}
		return nil
	})
}
