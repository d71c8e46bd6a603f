package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	unique := fmt.Errorf("insert company: %w", &pgconn.PgError{Code: "23505"})
	fk := fmt.Errorf("insert job: %w", &pgconn.PgError{Code: "23503"})
	check := &pgconn.PgError{Code: "23514"}

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsForeignKeyViolation(unique))

	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsUniqueViolation(fk))

	assert.True(t, IsCheckViolation(check))

	assert.False(t, IsUniqueViolation(errors.New("23505")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestConstraintName(t *testing.T) {
	err := fmt.Errorf("insert company: %w", &pgconn.PgError{Code: "23505", ConstraintName: "companies_name_key"})
	assert.Equal(t, "companies_name_key", ConstraintName(err))
	assert.Equal(t, "", ConstraintName(errors.New("plain")))
}
