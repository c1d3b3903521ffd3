package invoice

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation = "23505"
	// NumberConstraint is the unique index on (user_id, number) in schema.sql.
	NumberConstraint = "invoices_user_id_number_key"
)

// GuardDuplicate turns a violation of NumberConstraint into a KindConflict
// error on field, "number" when field is empty. Any other error, including a
// violation of another unique constraint, is returned as is.
func GuardDuplicate(err error, field string) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation || pgErr.ConstraintName != NumberConstraint {
		return err
	}

	if field == "" {
		field = "number"
	}

	return conflict(field, "an invoice with this number already exists")
}
