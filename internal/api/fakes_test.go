package api

import (
	"context"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"jobly/internal/errcode"
	"jobly/internal/store"
)

// failing 非 nil 时所有方法直接返回它，用于模拟数据库故障。
type failing struct{ err error }

type fakeCompanies struct {
	failing
	companies  map[string]store.Company
	lastFilter store.CompanyFilter
}

func newFakeCompanies(cs ...store.Company) *fakeCompanies {
	f := &fakeCompanies{companies: map[string]store.Company{}}
	for _, c := range cs {
		f.companies[c.Handle] = c
	}
	return f
}

func (f *fakeCompanies) Create(_ context.Context, data store.NewCompany) (store.Company, error) {
	if f.err != nil {
		return store.Company{}, f.err
	}
	if _, ok := f.companies[data.Handle]; ok {
		return store.Company{}, errcode.BadRequest("Duplicate company: %s", data.Handle)
	}
	c := store.Company{
		Handle:       data.Handle,
		Name:         data.Name,
		Description:  data.Description,
		NumEmployees: data.NumEmployees,
		LogoURL:      data.LogoURL,
	}
	f.companies[c.Handle] = c
	return c, nil
}

func (f *fakeCompanies) FindAll(_ context.Context, filter store.CompanyFilter) ([]store.Company, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastFilter = filter
	out := []store.Company{}
	for _, c := range f.companies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCompanies) Get(_ context.Context, handle string) (store.CompanyDetail, error) {
	if f.err != nil {
		return store.CompanyDetail{}, f.err
	}
	c, ok := f.companies[handle]
	if !ok {
		return store.CompanyDetail{}, errcode.NotFound("No company: %s", handle)
	}
	return store.CompanyDetail{Company: c, Jobs: []store.CompanyJob{}}, nil
}

func (f *fakeCompanies) Update(_ context.Context, handle string, data store.CompanyUpdate) (store.Company, error) {
	if f.err != nil {
		return store.Company{}, f.err
	}
	c, ok := f.companies[handle]
	if !ok {
		return store.Company{}, errcode.NotFound("No company: %s", handle)
	}
	if !data.Name.Set && !data.Description.Set && !data.NumEmployees.Set && !data.LogoURL.Set {
		return store.Company{}, errcode.BadRequest("No data")
	}
	if data.Name.Set {
		c.Name = data.Name.Value
	}
	if data.Description.Set {
		c.Description = nil
		if !data.Description.Null {
			c.Description = &data.Description.Value
		}
	}
	f.companies[handle] = c
	return c, nil
}

func (f *fakeCompanies) Remove(_ context.Context, handle string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.companies[handle]; !ok {
		return errcode.NotFound("No company: %s", handle)
	}
	delete(f.companies, handle)
	return nil
}

type fakeJobs struct {
	failing
	jobs       map[int]store.Job
	nextID     int
	lastFilter store.JobFilter
}

func newFakeJobs(js ...store.Job) *fakeJobs {
	f := &fakeJobs{jobs: map[int]store.Job{}, nextID: 1}
	for _, j := range js {
		f.jobs[j.ID] = j
		if j.ID >= f.nextID {
			f.nextID = j.ID + 1
		}
	}
	return f
}

func (f *fakeJobs) Create(_ context.Context, data store.NewJob) (store.Job, error) {
	if f.err != nil {
		return store.Job{}, f.err
	}
	j := store.Job{ID: f.nextID, Title: data.Title, Salary: data.Salary, Equity: data.Equity, CompanyHandle: data.CompanyHandle}
	f.jobs[j.ID] = j
	f.nextID++
	return j, nil
}

func (f *fakeJobs) FindAll(_ context.Context, filter store.JobFilter) ([]store.Job, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastFilter = filter
	out := []store.Job{}
	for _, j := range f.jobs {
		out = append(out, j)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeJobs) Get(_ context.Context, id int) (store.Job, error) {
	if f.err != nil {
		return store.Job{}, f.err
	}
	j, ok := f.jobs[id]
	if !ok {
		return store.Job{}, errcode.NotFound("No job: %d", id)
	}
	return j, nil
}

func (f *fakeJobs) Update(_ context.Context, id int, data store.JobUpdate) (store.Job, error) {
	if f.err != nil {
		return store.Job{}, f.err
	}
	j, ok := f.jobs[id]
	if !ok {
		return store.Job{}, errcode.NotFound("No job: %d", id)
	}
	if data.Title.Set {
		j.Title = data.Title.Value
	}
	if data.Salary.Set {
		j.Salary = nil
		if !data.Salary.Null {
			j.Salary = &data.Salary.Value
		}
	}
	f.jobs[id] = j
	return j, nil
}

func (f *fakeJobs) Remove(_ context.Context, id int) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.jobs[id]; !ok {
		return errcode.NotFound("No job: %d", id)
	}
	delete(f.jobs, id)
	return nil
}

type fakeUsers struct {
	failing
	users        map[string]store.User
	passwords    map[string]string
	applications map[string][]store.Application
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		users:        map[string]store.User{},
		passwords:    map[string]string{},
		applications: map[string][]store.Application{},
	}
}

func (f *fakeUsers) add(u store.User, password string) {
	f.users[u.Username] = u
	f.passwords[u.Username] = password
}

func (f *fakeUsers) Authenticate(_ context.Context, username, password string) (store.User, error) {
	if f.err != nil {
		return store.User{}, f.err
	}
	u, ok := f.users[username]
	if !ok || f.passwords[username] != password {
		return store.User{}, errcode.Unauthorized()
	}
	return u, nil
}

func (f *fakeUsers) Register(_ context.Context, data store.NewUser) (store.User, error) {
	if f.err != nil {
		return store.User{}, f.err
	}
	if _, ok := f.users[data.Username]; ok {
		return store.User{}, errcode.BadRequest("Duplicate username: %s", data.Username)
	}
	u := store.User{
		Username:  data.Username,
		FirstName: data.FirstName,
		LastName:  data.LastName,
		Email:     data.Email,
		IsAdmin:   data.IsAdmin,
	}
	f.add(u, data.Password)
	return u, nil
}

func (f *fakeUsers) FindAll(context.Context) ([]store.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []store.User{}
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (f *fakeUsers) Get(_ context.Context, username string) (store.UserDetail, error) {
	if f.err != nil {
		return store.UserDetail{}, f.err
	}
	u, ok := f.users[username]
	if !ok {
		return store.UserDetail{}, errcode.NotFound("No user: %s", username)
	}
	apps := f.applications[username]
	if apps == nil {
		apps = []store.Application{}
	}
	return store.UserDetail{User: u, Applications: apps}, nil
}

func (f *fakeUsers) Update(_ context.Context, username string, data store.UserUpdate) (store.User, error) {
	if f.err != nil {
		return store.User{}, f.err
	}
	if err := data.Validate(); err != nil {
		return store.User{}, err
	}
	u, ok := f.users[username]
	if !ok {
		return store.User{}, errcode.NotFound("No user: %s", username)
	}
	if data.FirstName.Set {
		u.FirstName = data.FirstName.Value
	}
	if data.Password.Set {
		f.passwords[username] = data.Password.Value
	}
	f.users[username] = u
	return u, nil
}

func (f *fakeUsers) Remove(_ context.Context, username string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.users[username]; !ok {
		return errcode.NotFound("No user: %s", username)
	}
	delete(f.users, username)
	delete(f.applications, username)
	return nil
}

func (f *fakeUsers) ApplyToJob(_ context.Context, username string, jobID int, state string) (store.Application, error) {
	if f.err != nil {
		return store.Application{}, f.err
	}
	if !store.ValidState(state) {
		return store.Application{}, errcode.BadRequest("Application state not allowed: %s", state)
	}
	if _, ok := f.users[username]; !ok {
		return store.Application{}, errcode.NotFound("No user: %s", username)
	}
	app := store.Application{JobID: jobID, State: state}
	apps := f.applications[username]
	for i := range apps {
		if apps[i].JobID == jobID {
			apps[i].State = state
			return app, nil
		}
	}
	f.applications[username] = append(apps, app)
	return app, nil
}

type fakeRateCounter struct {
	counts  map[string]int64
	expires map[string]time.Duration
	err     error
}

func newFakeRateCounter() *fakeRateCounter {
	return &fakeRateCounter{counts: map[string]int64{}, expires: map[string]time.Duration{}}
}

func (f *fakeRateCounter) Incr(_ context.Context, key string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	f.counts[key]++
	return redis.NewIntResult(f.counts[key], nil)
}

func (f *fakeRateCounter) Expire(_ context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	f.expires[key] = expiration
	return redis.NewBoolResult(true, nil)
}
