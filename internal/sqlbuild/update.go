package sqlbuild

import (
	"strconv"
	"strings"

	"jobly/internal/errcode"
)

// Field is a single assignment in a Patch. A nil Value clears the column.
type Field struct {
	Name  string
	Value any
}

// Patch is a sparse update payload. Order is significant: it fixes both the
// SET list and the value sequence.
type Patch []Field

// Set appends an assignment and returns the extended patch.
func (p Patch) Set(name string, value any) Patch {
	return append(p, Field{Name: name, Value: value})
}

// Update is a rendered SET list with its positional values. SetClause's $i
// refers to Values[i-1].
type Update struct {
	SetClause string
	Values    []any
}

// NextIndex is the first placeholder index free for the row selector.
func (u Update) NextIndex() int {
	return len(u.Values) + 1
}

// PartialUpdate renders p as `"col1"=$1, "col2"=$2, ...`. columns renames
// external field names to storage columns; names absent from it are used as-is.
func PartialUpdate(p Patch, columns map[string]string) (Update, error) {
	if len(p) == 0 {
		return Update{}, errcode.BadRequest("No data")
	}

	cols := make([]string, len(p))
	values := make([]any, len(p))
	for i, f := range p {
		col, ok := columns[f.Name]
		if !ok {
			col = f.Name
		}
		cols[i] = `"` + col + `"=$` + strconv.Itoa(i+1)
		values[i] = f.Value
	}

	return Update{
		SetClause: strings.Join(cols, ", "),
		Values:    values,
	}, nil
}
