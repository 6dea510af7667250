package implementation

import (
	"errors"
	"fmt"

	"ai-coach-be/internal/repository/contract"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// translateError maps driver errors onto repository sentinels.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", contract.ErrConflict, pgErr.ConstraintName)
	}
	return err
}
