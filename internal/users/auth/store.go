// Copyright (c) 2026 Cardbase. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"

	"github.com/Sy2force/cardbase/internal/platform/sec"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.
		The lookup is case-insensitive: uniqueness is on lower(email).

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new user account to the storage.
		The store's unique constraint on lower(email) is authoritative;
		a violation surfaces as a 409 Conflict.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		Update persists changes to mutable profile fields.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, user *User) error

	/*
		UpdatePassword replaces only the user's password hash.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, userID, newHash string) error

	/*
		UpdateRole replaces only the user's role.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - role: sec.Role

		Returns:
		  - error: Persistence failures
	*/
	UpdateRole(context context.Context, userID string, role sec.Role) error

	/*
		Delete permanently removes the account. Foreign-key cascades remove
		the user's favorite entries, their owned cards, and every favorite
		entry referencing those cards.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, id string) error

	/*
		List returns a page of registered accounts with the total count.

		Parameters:
		  - context: context.Context
		  - limit: int
		  - offset: int

		Returns:
		  - []*User: Page of accounts
		  - int: Total account count
		  - error: Database retrieval failures
	*/
	List(context context.Context, limit, offset int) ([]*User, int, error)
}

// # Volatile Data Access

// ResetTokenRepository defines the contract for storing volatile password reset tokens.
type ResetTokenRepository interface {

	/*
		Set stores a reset token associated with a userID for a limited duration.

		Parameters:
		  - context: context.Context
		  - token: string
		  - userID: string
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Set(context context.Context, token string, userID string, ttl time.Duration) error

	/*
		Get retrieves the userID associated with a given reset token.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - string: UserID
		  - error: Retrieval failures
	*/
	Get(context context.Context, token string) (string, error)

	/*
		Delete removes a reset token after successful use.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, token string) error
}
