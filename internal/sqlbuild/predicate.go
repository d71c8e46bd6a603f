// Package sqlbuild assembles the dynamic parts of SQL statements: WHERE fragments
// from sparse filter criteria and SET lists from partial updates. Every value it
// is given ends up as a bound parameter.
package sqlbuild

import (
	"strconv"
	"strings"
)

// Op is the comparison a Predicate lowers to.
type Op int

const (
	OpGTE      Op = iota // column >= value
	OpLTE                // column <= value
	OpContains           // case-insensitive substring match
	OpPositive           // column > 0, takes no value
)

// Predicate is one independent boolean condition on a column.
type Predicate struct {
	Column string
	Op     Op
	Value  any
}

// Where renders preds as "WHERE p1 AND p2 ...", numbering placeholders from
// firstIndex. No predicates renders to an empty clause, which matches every row.
func Where(preds []Predicate, firstIndex int) (string, []any) {
	if len(preds) == 0 {
		return "", nil
	}

	idx := firstIndex
	parts := make([]string, 0, len(preds))
	args := make([]any, 0, len(preds))
	for _, p := range preds {
		switch p.Op {
		case OpPositive:
			parts = append(parts, p.Column+" > 0")
			continue
		case OpContains:
			parts = append(parts, p.Column+" ILIKE "+placeholder(idx))
			args = append(args, "%"+escapeLike(toText(p.Value))+"%")
		case OpGTE:
			parts = append(parts, p.Column+" >= "+placeholder(idx))
			args = append(args, p.Value)
		case OpLTE:
			parts = append(parts, p.Column+" <= "+placeholder(idx))
			args = append(args, p.Value)
		}
		idx++
	}

	return "WHERE " + strings.Join(parts, " AND "), args
}

func placeholder(idx int) string {
	return "$" + strconv.Itoa(idx)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike 转义 LIKE 通配符，使用户输入只按字面匹配。
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func toText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case *string:
		if t == nil {
			return ""
		}
		return *t
	default:
		return ""
	}
}
