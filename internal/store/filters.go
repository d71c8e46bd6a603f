package store

import (
	"net/url"
	"strconv"
	"strings"

	"jobly/internal/errcode"
	"jobly/internal/sqlbuild"
)

// CompanyFilter narrows Companies.FindAll. Nil or zero fields do not filter.
type CompanyFilter struct {
	Name         *string
	MinEmployees *int
	MaxEmployees *int
}

// Predicates lowers the filter in declared order: name, minEmployees, maxEmployees.
func (f CompanyFilter) Predicates() []sqlbuild.Predicate {
	var preds []sqlbuild.Predicate
	if f.Name != nil && *f.Name != "" {
		preds = append(preds, sqlbuild.Predicate{Column: "name", Op: sqlbuild.OpContains, Value: *f.Name})
	}
	if nonZero(f.MinEmployees) {
		preds = append(preds, sqlbuild.Predicate{Column: "num_employees", Op: sqlbuild.OpGTE, Value: *f.MinEmployees})
	}
	if nonZero(f.MaxEmployees) {
		preds = append(preds, sqlbuild.Predicate{Column: "num_employees", Op: sqlbuild.OpLTE, Value: *f.MaxEmployees})
	}
	return preds
}

// ParseCompanyFilter reads name, minEmployees and maxEmployees from a query
// string. Other keys are ignored.
func ParseCompanyFilter(q url.Values) (CompanyFilter, error) {
	var f CompanyFilter
	var err error

	if name := strings.TrimSpace(q.Get("name")); name != "" {
		f.Name = &name
	}
	if f.MinEmployees, err = parseCount(q, "minEmployees"); err != nil {
		return CompanyFilter{}, err
	}
	if f.MaxEmployees, err = parseCount(q, "maxEmployees"); err != nil {
		return CompanyFilter{}, err
	}
	if nonZero(f.MinEmployees) && nonZero(f.MaxEmployees) && *f.MinEmployees > *f.MaxEmployees {
		return CompanyFilter{}, errcode.BadRequest("minEmployees cannot be greater than maxEmployees")
	}
	return f, nil
}

// JobFilter narrows Jobs.FindAll.
type JobFilter struct {
	Title     *string
	MinSalary *int
	HasEquity bool
}

// Predicates lowers the filter in declared order: title, minSalary, hasEquity.
func (f JobFilter) Predicates() []sqlbuild.Predicate {
	var preds []sqlbuild.Predicate
	if f.Title != nil && *f.Title != "" {
		preds = append(preds, sqlbuild.Predicate{Column: "title", Op: sqlbuild.OpContains, Value: *f.Title})
	}
	if nonZero(f.MinSalary) {
		preds = append(preds, sqlbuild.Predicate{Column: "salary", Op: sqlbuild.OpGTE, Value: *f.MinSalary})
	}
	if f.HasEquity {
		preds = append(preds, sqlbuild.Predicate{Column: "equity", Op: sqlbuild.OpPositive})
	}
	return preds
}

// ParseJobFilter reads title, minSalary and hasEquity from a query string.
func ParseJobFilter(q url.Values) (JobFilter, error) {
	var f JobFilter
	var err error

	if title := strings.TrimSpace(q.Get("title")); title != "" {
		f.Title = &title
	}
	if f.MinSalary, err = parseCount(q, "minSalary"); err != nil {
		return JobFilter{}, err
	}
	if raw := strings.TrimSpace(q.Get("hasEquity")); raw != "" {
		f.HasEquity, err = strconv.ParseBool(raw)
		if err != nil {
			return JobFilter{}, errcode.BadRequest("hasEquity must be true or false, got %q", raw)
		}
	}
	return f, nil
}

// nonZero reports whether a numeric filter takes part in the query. Zero counts as
// absent, so minSalary=0 still matches jobs without a salary.
func nonZero(n *int) bool {
	return n != nil && *n != 0
}

// parseCount parses a non-negative integer filter; an empty value is absent.
func parseCount(q url.Values, key string) (*int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errcode.BadRequest("%s must be an integer, got %q", key, raw)
	}
	if n < 0 {
		return nil, errcode.BadRequest("%s must not be negative", key)
	}
	return &n, nil
}
