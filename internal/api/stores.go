package api

import (
	"context"

	"jobly/internal/store"
)

// CompanyStore 是公司处理器依赖的模型接口，由 *store.Companies 实现。
type CompanyStore interface {
	Create(ctx context.Context, data store.NewCompany) (store.Company, error)
	FindAll(ctx context.Context, filter store.CompanyFilter) ([]store.Company, error)
	Get(ctx context.Context, handle string) (store.CompanyDetail, error)
	Update(ctx context.Context, handle string, data store.CompanyUpdate) (store.Company, error)
	Remove(ctx context.Context, handle string) error
}

// JobStore is implemented by *store.Jobs.
type JobStore interface {
	Create(ctx context.Context, data store.NewJob) (store.Job, error)
	FindAll(ctx context.Context, filter store.JobFilter) ([]store.Job, error)
	Get(ctx context.Context, id int) (store.Job, error)
	Update(ctx context.Context, id int, data store.JobUpdate) (store.Job, error)
	Remove(ctx context.Context, id int) error
}

// UserStore is implemented by *store.Users.
type UserStore interface {
	Authenticate(ctx context.Context, username, password string) (store.User, error)
	Register(ctx context.Context, data store.NewUser) (store.User, error)
	FindAll(ctx context.Context) ([]store.User, error)
	Get(ctx context.Context, username string) (store.UserDetail, error)
	Update(ctx context.Context, username string, data store.UserUpdate) (store.User, error)
	Remove(ctx context.Context, username string) error
	ApplyToJob(ctx context.Context, username string, jobID int, state string) (store.Application, error)
}

// Stores 汇总路由需要的三个模型。
type Stores struct {
	Companies CompanyStore
	Jobs      JobStore
	Users     UserStore
}

// StoresFrom adapts a *store.Store.
func StoresFrom(s *store.Store) Stores {
	return Stores{Companies: s.Companies, Jobs: s.Jobs, Users: s.Users}
}

// TokenIssuer 签发访问令牌，由 *auth.AuthService 实现。
type TokenIssuer interface {
	IssueToken(username string, isAdmin bool) (string, error)
}
