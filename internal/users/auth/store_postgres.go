// Copyright (c) 2026 Cardbase. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// PostgreSQL implementations of the auth repositories.
//
// # Error Mapping
//
// Storage-specific errors (pgx.ErrNoRows, SQLSTATE 23505) are mapped to
// domain-friendly [apperr.AppError] types via [dberr.Wrap] to avoid leaking
// storage implementation details.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Sy2force/cardbase/internal/platform/apperr"
	"github.com/Sy2force/cardbase/internal/platform/dberr"
	"github.com/Sy2force/cardbase/internal/platform/sec"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new user record into the users.account table.

Description: Deep-persists account metadata, ensuring timestamps are initialized
if not provided. The unique index on lower(email) is the authoritative
uniqueness mechanism; violations surface as 409 Conflict.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: Conflict on duplicate email, or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, email, passwordhash, firstname, lastname, phone, role, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)

	return dberr.Wrap(err, "create_user")
}

/*
FindByEmail retrieves a user record by their unique email address.

Description: Case-insensitive lookup matching the unique index on lower(email).

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	const query = `
		SELECT id, email, passwordhash, firstname, lastname, phone, role, createdat, updatedat
		FROM users.account
		WHERE lower(email) = lower($1)`

	user := &User{}
	err := repository.pool.QueryRow(context, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_email_failed: %w", err)
	}

	return user, nil
}

/*
FindByID retrieves a user record by their unique ID.

Description: Primary key resolution for user accounts.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: Not found or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	const query = `
		SELECT id, email, passwordhash, firstname, lastname, phone, role, createdat, updatedat
		FROM users.account
		WHERE id = $1`

	user := &User{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

/*
Update persists changes to a user's mutable profile fields.

Description: Synchronizes the in-memory user state with the database,
refreshing the updatedat timestamp. Email, role, and password hash are
never touched here; they have dedicated operations.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: Update failures
*/
func (repository *PostgresUserRepository) Update(context context.Context, user *User) error {
	const query = `
		UPDATE users.account
		SET firstname = $2, lastname = $3, phone = $4, updatedat = $5
		WHERE id = $1`

	user.UpdatedAt = time.Now()
	commandTag, err := repository.pool.Exec(context, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_failed: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

/*
UpdatePassword updates only the password hash for a specific user.

Parameters:
  - context: context.Context
  - userID: string
  - newHash: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	const query = `
		UPDATE users.account
		SET passwordhash = $2, updatedat = $3
		WHERE id = $1`

	commandTag, err := repository.pool.Exec(context, query, userID, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_password_failed: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

/*
UpdateRole updates only the role for a specific user.

Parameters:
  - context: context.Context
  - userID: string
  - role: sec.Role

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) UpdateRole(context context.Context, userID string, role sec.Role) error {
	const query = `
		UPDATE users.account
		SET role = $2, updatedat = $3
		WHERE id = $1`

	commandTag, err := repository.pool.Exec(context, query, userID, role, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_role_failed: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

/*
Delete permanently removes a user account by ID.

Description: Hard delete. The schema's ON DELETE CASCADE constraints remove
the account's favorite entries, its owned cards, and every favorite entry
referencing those cards in the same statement.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Execution failures
*/
func (repository *PostgresUserRepository) Delete(context context.Context, id string) error {
	const query = "DELETE FROM users.account WHERE id = $1"

	commandTag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_delete_failed: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

/*
List returns a page of accounts ordered by creation time with the total count.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []*User: Page of accounts
  - int: Total account count
  - error: Retrieval failures
*/
func (repository *PostgresUserRepository) List(context context.Context, limit, offset int) ([]*User, int, error) {
	const countQuery = "SELECT count(*) FROM users.account"
	const query = `
		SELECT id, email, passwordhash, firstname, lastname, phone, role, createdat, updatedat
		FROM users.account
		ORDER BY createdat DESC
		LIMIT $1 OFFSET $2`

	var total int
	if err := repository.pool.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_users")
	}

	rows, err := repository.pool.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_users")
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		user := &User{}
		if err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.PasswordHash,
			&user.FirstName,
			&user.LastName,
			&user.Phone,
			&user.Role,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_user")
		}
		users = append(users, user)
	}

	return users, total, nil
}
