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

// Application states.
const (
	StateInterested = "interested"
	StateApplied    = "applied"
	StateRejected   = "rejected"
	StateAccepted   = "accepted"
)

// ValidState reports whether state is one of the fixed application states.
func ValidState(state string) bool {
	switch state {
	case StateInterested, StateApplied, StateRejected, StateAccepted:
		return true
	}
	return false
}

// User 是用户资源的对外表示，不包含密码。
type User struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"isAdmin"`
}

// Application is a user's relation to one job.
type Application struct {
	JobID int    `json:"jobId"`
	State string `json:"state"`
}

// UserDetail is a user together with their applications.
type UserDetail struct {
	User
	Applications []Application `json:"applications"`
}

// NewUser is the payload of Users.Register. Password is plain text and is
// hashed before it is stored.
type NewUser struct {
	Username  string `json:"username" binding:"required,min=1,max=25"`
	Password  string `json:"password" binding:"required,min=5,max=72"`
	FirstName string `json:"firstName" binding:"required,min=1,max=30"`
	LastName  string `json:"lastName" binding:"required,min=1,max=30"`
	Email     string `json:"email" binding:"required,email,max=60"`
	IsAdmin   bool   `json:"isAdmin"`
}

// UserUpdate is the allow-list of fields a user may change. Neither the
// username nor the admin flag is updatable here.
type UserUpdate struct {
	FirstName Optional[string] `json:"firstName"`
	LastName  Optional[string] `json:"lastName"`
	Email     Optional[string] `json:"email"`
	Password  Optional[string] `json:"password"`
}

var userFieldColumns = map[string]string{
	"firstName": "first_name",
	"lastName":  "last_name",
}

// Validate checks the fields present in u without touching the database.
func (u UserUpdate) Validate() error {
	required := []struct {
		name string
		opt  Optional[string]
		tag  string
	}{
		{"firstName", u.FirstName, "max=30"},
		{"lastName", u.LastName, "max=30"},
		{"email", u.Email, "email,max=60"},
	}
	for _, f := range required {
		if !f.opt.Set {
			continue
		}
		if f.opt.Null || f.opt.Value == "" {
			return errcode.BadRequest("%s must not be empty", f.name)
		}
		if err := validate.Var(f.opt.Value, f.tag); err != nil {
			return errcode.BadRequest("invalid %s: %q", f.name, f.opt.Value)
		}
	}
	if u.Password.Set && (u.Password.Null || len(u.Password.Value) < 5 || len(u.Password.Value) > 72) {
		return errcode.BadRequest("password must be 5 to 72 characters")
	}
	return nil
}

func (s *Users) patch(u UserUpdate) (sqlbuild.Patch, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}

	var p sqlbuild.Patch
	for _, f := range []struct {
		name string
		opt  Optional[string]
	}{
		{"firstName", u.FirstName},
		{"lastName", u.LastName},
		{"email", u.Email},
	} {
		if f.opt.Set {
			p = p.Set(f.name, f.opt.Value)
		}
	}

	if u.Password.Set {
		hashed, err := s.hasher.HashPassword(u.Password.Value)
		if err != nil {
			return nil, err
		}
		p = p.Set("password", hashed)
	}
	return p, nil
}

const userColumns = `username, first_name, last_name, email, is_admin`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.Username, &u.FirstName, &u.LastName, &u.Email, &u.IsAdmin)
	return u, err
}

func scanApplication(row pgx.Row) (Application, error) {
	var a Application
	err := row.Scan(&a.JobID, &a.State)
	return a, err
}

// Users groups the user and application queries.
type Users struct {
	db     DBTX
	hasher PasswordHasher
}

func NewUsers(db DBTX, hasher PasswordHasher) *Users {
	return &Users{db: db, hasher: hasher}
}

// Authenticate checks a username/password pair. Any mismatch is Unauthorized.
func (s *Users) Authenticate(ctx context.Context, username, password string) (User, error) {
	var (
		u    User
		hash string
	)
	err := s.db.QueryRow(ctx,
		`SELECT `+userColumns+`, password FROM users WHERE username = $1`,
		username,
	).Scan(&u.Username, &u.FirstName, &u.LastName, &u.Email, &u.IsAdmin, &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, errcode.Unauthorized()
		}
		return User{}, fmt.Errorf("get user credentials: %w", err)
	}

	if !s.hasher.CheckPasswordHash(password, hash) {
		return User{}, errcode.Unauthorized()
	}
	return u, nil
}

// Register creates a user. A taken username is a BadRequest.
func (s *Users) Register(ctx context.Context, data NewUser) (User, error) {
	dup, err := exists(ctx, s.db, `SELECT 1 FROM users WHERE username = $1`, data.Username)
	if err != nil {
		return User{}, fmt.Errorf("check duplicate user: %w", err)
	}
	if dup {
		return User{}, errcode.BadRequest("Duplicate username: %s", data.Username)
	}

	hashed, err := s.hasher.HashPassword(data.Password)
	if err != nil {
		return User{}, err
	}

	user, err := scanUser(s.db.QueryRow(ctx,
		`INSERT INTO users (username, password, first_name, last_name, email, is_admin)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+userColumns,
		data.Username, hashed, data.FirstName, data.LastName, data.Email, data.IsAdmin,
	))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return User{}, errcode.BadRequest("Duplicate username: %s", data.Username)
		}
		if database.IsCheckViolation(err) {
			return User{}, errcode.BadRequest("Invalid user data: %s", database.ConstraintName(err))
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// FindAll lists every user, ordered by username.
func (s *Users) FindAll(ctx context.Context) ([]User, error) {
	rows, err := s.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return collect(rows, scanUser)
}

// Get returns a user with their applications.
func (s *Users) Get(ctx context.Context, username string) (UserDetail, error) {
	user, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserDetail{}, errcode.NotFound("No user: %s", username)
		}
		return UserDetail{}, fmt.Errorf("get user: %w", err)
	}

	rows, err := s.db.Query(ctx,
		`SELECT job_id, state FROM applications WHERE username = $1 ORDER BY job_id`,
		username,
	)
	if err != nil {
		return UserDetail{}, fmt.Errorf("list user applications: %w", err)
	}
	apps, err := collect(rows, scanApplication)
	if err != nil {
		return UserDetail{}, err
	}

	return UserDetail{User: user, Applications: apps}, nil
}

// Update applies a partial update to a user. A new password is hashed first.
func (s *Users) Update(ctx context.Context, username string, data UserUpdate) (User, error) {
	p, err := s.patch(data)
	if err != nil {
		return User{}, err
	}
	upd, err := sqlbuild.PartialUpdate(p, userFieldColumns)
	if err != nil {
		return User{}, err
	}

	query := fmt.Sprintf(
		`UPDATE users SET %s WHERE username = $%d RETURNING %s`,
		upd.SetClause, upd.NextIndex(), userColumns,
	)
	user, err := scanUser(s.db.QueryRow(ctx, query, append(upd.Values, username)...))
	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return User{}, errcode.NotFound("No user: %s", username)
	case database.IsCheckViolation(err):
		return User{}, errcode.BadRequest("Invalid user data: %s", database.ConstraintName(err))
	default:
		return User{}, fmt.Errorf("update user: %w", err)
	}
}

// Remove deletes a user and their applications.
func (s *Users) Remove(ctx context.Context, username string) error {
	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM applications WHERE username = $1`, username); err != nil {
			return fmt.Errorf("delete user applications: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM users WHERE username = $1`, username)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return errcode.NotFound("No user: %s", username)
		}
		return nil
	})
}

// ApplyToJob records the user's application to a job in the given state.
// Applying again moves the existing application to the new state.
func (s *Users) ApplyToJob(ctx context.Context, username string, jobID int, state string) (Application, error) {
	if !ValidState(state) {
		return Application{}, errcode.BadRequest("Application state not allowed: %s", state)
	}

	found, err := exists(ctx, s.db, `SELECT 1 FROM users WHERE username = $1`, username)
	if err != nil {
		return Application{}, fmt.Errorf("check user: %w", err)
	}
	if !found {
		return Application{}, errcode.NotFound("No user: %s", username)
	}
	found, err = exists(ctx, s.db, `SELECT 1 FROM jobs WHERE id = $1`, jobID)
	if err != nil {
		return Application{}, fmt.Errorf("check job: %w", err)
	}
	if !found {
		return Application{}, errcode.NotFound("No job: %d", jobID)
	}

	app, err := scanApplication(s.db.QueryRow(ctx,
		`INSERT INTO applications (username, job_id, state)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (username, job_id) DO UPDATE SET state = EXCLUDED.state
		 RETURNING job_id, state`,
		username, jobID, state,
	))
	if err != nil {
		// The user or job was removed between the checks and the insert.
		if database.IsForeignKeyViolation(err) {
			return Application{}, errcode.NotFound("No user or job: %s, %d", username, jobID)
		}
		return Application{}, fmt.Errorf("apply to job: %w", err)
	}
	return app, nil
}
