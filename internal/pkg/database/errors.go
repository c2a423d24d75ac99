package database

import (
	"context"
	"errors"

	"github.com/lib/pq"

	"github.com/comiclib/comiclib-api/internal/pkg/logger"
)

// PostgreSQL error codes the repositories map to domain errors
const (
	CodeForeignKeyViolation = "23503"
	CodeUniqueViolation     = "23505"
	CodeCheckViolation      = "23514"
)

// Constraint returns the violated constraint name when err is a *pq.Error
// with the given code.
func Constraint(err error, code string) (string, bool) {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || string(pqErr.Code) != code {
		return "", false
	}
	return pqErr.Constraint, true
}

// LogQueryError logs a failed statement with the PostgreSQL code and
// constraint when available.
func LogQueryError(ctx context.Context, query string, err error) {
	evt := logger.FromContext(ctx).Error().
		Str("request_id", logger.RequestIDFromContext(ctx)).
		Str("query", query).
		Err(err)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		evt = evt.
			Str("pg_code", string(pqErr.Code)).
			Str("pg_constraint", pqErr.Constraint)
	}

	evt.Msg("query failed")
}
