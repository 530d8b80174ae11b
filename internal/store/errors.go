package store

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/bwise1/media_ranker/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pkgerrors "github.com/pkg/errors"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const pgUniqueViolation = "23505"

const takenMsg = "has already been taken"

// uniqueFields maps a Postgres constraint name, or the column list SQLite
// reports, to the input field the violation is reported on.
var uniqueFields = map[string]string{
	"works_category_title_key":    "title",
	"works.category, works.title": "title",
	"users_username_key":          "username",
	"users.username":              "username",
	"users_provider_uid_key":      "uid",
	"users.provider, users.uid":   "uid",
}

// translateUnique turns a unique-constraint violation into a validation
// error on the matching field. Other errors are returned unchanged.
func translateUnique(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		if field, ok := uniqueFields[pgErr.ConstraintName]; ok {
			return model.FieldError(field, takenMsg)
		}
		return err
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) && liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		msg := liteErr.Error()
		for key, field := range uniqueFields {
			if strings.Contains(msg, "UNIQUE constraint failed: "+key) {
				return model.FieldError(field, takenMsg)
			}
		}
	}
	return err
}

// notFound maps a missing row to model.ErrNotFound and wraps anything else.
func notFound(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	return pkgerrors.Wrap(err, what)
}
