package repository

import (
	"errors"

	"vialmedia/internal/infra"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// wrapPgErr maps a pgx error onto a repository error kind. Exclusion
// constraint violations (23P01) surface as conflicts: the rentals table
// carries an EXCLUDE constraint that is the authoritative overlap guard.
func wrapPgErr(err error, msg string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return infra.WrapRepoErr(infra.KindNotFound, msg, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return infra.WrapRepoErr(infra.KindDuplicateKey, msg, err)
		case "23503":
			return infra.WrapRepoErr(infra.KindForeignKeyViolated, msg, err)
		case "23P01":
			return infra.WrapRepoErr(infra.KindConflict, msg, err)
		}
	}

	return infra.WrapRepoErr(infra.KindDBFailure, msg, err)
}
