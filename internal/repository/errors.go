package repository

import (
	"errors"
	"fmt"

	"catalog_service/internal/domain"

	"github.com/lib/pq"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

// translatePqError maps constraint violations to domain errors. Other errors
// are returned unchanged.
func translatePqError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case pqUniqueViolation:
		return fmt.Errorf("%w (%s)", domain.ErrConflict, pqErr.Constraint)
	case pqForeignKeyViolation:
		return fmt.Errorf("%w: referenced row does not exist (%s)", domain.ErrInvalidInput, pqErr.Constraint)
	case pqCheckViolation:
		return fmt.Errorf("%w: constraint violation (%s)", domain.ErrInvalidInput, pqErr.Constraint)
	}
	return err
}
