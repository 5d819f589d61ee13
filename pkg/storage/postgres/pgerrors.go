package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/coursewise/coursewise/pkg/api"
	"github.com/coursewise/coursewise/pkg/storage"
)

// requiredMessages maps NOT NULL violations by column to the messages the
// API promises for missing fields.
var requiredMessages = map[string]struct {
	field   string
	message string
}{
	"first_name":    {"firstName", api.MsgFirstNameRequired},
	"last_name":     {"lastName", api.MsgLastNameRequired},
	"email_address": {"emailAddress", api.MsgEmailRequired},
	"password_hash": {"password", api.MsgPasswordRequired},
	"title":         {"title", api.MsgTitleRequired},
	"description":   {"description", api.MsgDescRequired},
}

// mapPostgresError maps PostgreSQL-specific errors onto the storage
// package's failure surface. Constraint violations the API can explain to
// a client become ValidationErrors; everything else stays an opaque
// wrapped error so the generic failure handler deals with it.
func mapPostgresError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		if pgErr.ConstraintName == "users_email_address_key" {
			return storage.NewValidationError(storage.KindUnique, "emailAddress", api.MsgEmailTaken)
		}
		if pgErr.ConstraintName == "users_pkey" || pgErr.ConstraintName == "courses_pkey" {
			return storage.ErrConflict
		}
		return fmt.Errorf("unique constraint violation: %s: %w", pgErr.ConstraintName, err)

	case pgerrcode.NotNullViolation:
		if m, ok := requiredMessages[pgErr.ColumnName]; ok {
			return storage.NewValidationError(storage.KindRequired, m.field, m.message)
		}
		return fmt.Errorf("not-null violation on %s: %w", pgErr.ColumnName, err)

	case pgerrcode.ForeignKeyViolation:
		// Course insert referencing a missing owner.
		return fmt.Errorf("%w: %s", storage.ErrNotFound, pgErr.Detail)

	case pgerrcode.CheckViolation:
		return fmt.Errorf("check constraint violation: %s: %w", pgErr.ConstraintName, err)

	case pgerrcode.ConnectionException,
		pgerrcode.ConnectionDoesNotExist,
		pgerrcode.ConnectionFailure,
		pgerrcode.CannotConnectNow,
		pgerrcode.SQLClientUnableToEstablishSQLConnection:
		return fmt.Errorf("database connection error: %w", err)

	case pgerrcode.QueryCanceled:
		return fmt.Errorf("query canceled: %w", err)

	default:
		return fmt.Errorf("postgres error [%s]: %s: %w", pgErr.Code, pgErr.Message, err)
	}
}
