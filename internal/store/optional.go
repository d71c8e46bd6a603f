package store

import "encoding/json"

// Optional is a field of a partial update. It tells apart a key that was not
// sent, a key sent as null, and a key sent with a value.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Null returns an Optional that clears the column.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// arg is the value bound for the column: nil for an explicit null.
func (o Optional[T]) arg() any {
	if o.Null {
		return nil
	}
	return o.Value
}
