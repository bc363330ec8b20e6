package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Códigos de error PostgreSQL que el gateway traduce a su convención de
// rechazo (nil/false) en lugar de propagar como error.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isRejection indica si el error es una violación de constraint que el
// contrato del gateway reporta como escritura rechazada, no como fallo.
func isRejection(err error) bool {
	switch pgErrCode(err) {
	case codeUniqueViolation, codeForeignKeyViolation, codeCheckViolation:
		return true
	}
	return false
}
