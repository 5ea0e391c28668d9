// Copyright (c) 2026 Cardbase. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles user profile management and administrative account control.

It provides functionalities for users to view and update their own identity
data, for admins to enumerate accounts and change roles, and for accounts to
be deleted with full cascade semantics.

# Architecture

  - Domain: This package depends on the auth package for the User entity.
  - Policy: Admin-only operations are gated by the role capability map;
    the never-self rule for role changes is enforced in the service.
*/
package account

import (
	"context"

	"github.com/Sy2force/cardbase/internal/platform/sec"
	"github.com/Sy2force/cardbase/internal/users/auth"
)

// # Repository Contracts

// AccountRepository defines the persistence contract for user accounts.
//
// It is a narrowed view of the auth store: the same Postgres repository
// satisfies both.
type AccountRepository interface {
	/*
		FindByID retrieves a user record by their unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		Update modifies the mutable profile fields of an existing user.

		Parameters:
		  - context: context.Context
		  - user: *auth.User (Hydrated entity with changes)

		Returns:
		  - error: Storage or constraint failures
	*/
	Update(context context.Context, user *auth.User) error

	/*
		UpdateRole replaces the account's role.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - role: sec.Role

		Returns:
		  - error: Execution failures
	*/
	UpdateRole(context context.Context, userID string, role sec.Role) error

	/*
		Delete permanently removes the account and cascades to its favorite
		entries and owned cards.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Execution failures
	*/
	Delete(context context.Context, id string) error

	/*
		List returns a page of accounts with the total count.

		Parameters:
		  - context: context.Context
		  - limit: int
		  - offset: int

		Returns:
		  - []*auth.User: Page of accounts
		  - int: Total count
		  - error: Retrieval errors
	*/
	List(context context.Context, limit, offset int) ([]*auth.User, int, error)
}
