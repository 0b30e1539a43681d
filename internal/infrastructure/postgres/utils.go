package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

// mapError traduce errores de PostgreSQL/pgx a la taxonomía del dominio.
// op identifica la operación en el mensaje.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s: %w", domain.ErrConflict, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23503": // foreign_key_violation
			return fmt.Errorf("%w: %s: %w", domain.ErrConflict, op, err)
		case pgErr.Code == "23514", // check_violation
			strings.HasPrefix(pgErr.Code, "22"): // data_exception, ej. 22003 numeric_value_out_of_range
			return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, op, err)
		case pgErr.Code == "40001", // serialization_failure
			pgErr.Code == "40P01", // deadlock_detected
			pgErr.Code == "57014", // query_canceled
			pgErr.Code == "53300", // too_many_connections
			strings.HasPrefix(pgErr.Code, "08"):
			return fmt.Errorf("%w: %s: %w", domain.ErrTransient, op, err)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	var connErr *pgconn.ConnectError
	if pgconn.Timeout(err) || pgconn.SafeToRetry(err) || errors.As(err, &connErr) ||
		errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %w", domain.ErrTransient, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
