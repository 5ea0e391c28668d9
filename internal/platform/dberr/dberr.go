// Copyright (c) 2026 Cardbase. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// # Unique Constraints
//
// Uniqueness in Cardbase is enforced at the store (unique indexes on email
// and businessnumber), never solely by application pre-checks. This package
// is where SQLSTATE 23505 violations become client-safe 409 responses.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Sy2force/cardbase/internal/platform/apperr"
)

// Constraint names declared in data/migrations. Conflict messages are keyed
// off these so the client learns WHICH uniqueness rule was violated without
// seeing any SQL.
const (
	ConstraintUserEmail          = "account_email_lower_key"
	ConstraintCardBusinessNumber = "card_businessnumber_key"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Unique violation mapping (SQLSTATE 23505)
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) && pgError.Code == pgerrcode.UniqueViolation {
		switch pgError.ConstraintName {
		case ConstraintUserEmail:
			return apperr.Conflict("Email is already registered")
		case ConstraintCardBusinessNumber:
			return apperr.Conflict("Business number is already taken")
		default:
			return apperr.Conflict("Resource already exists")
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(err)
}
