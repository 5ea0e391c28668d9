// Copyright (c) 2026 Cardbase. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the user identity and credential management layer.

It defines the core domain entity (User) and the logic for registration,
authentication, and credential lifecycle (change, forgot/reset).

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.

# Security

Tokens are stateless JWTs: logout is a client-side discard plus cookie
clearing, there is no server-side revocation list. A role change therefore
only takes effect when the next token is issued, a staleness window bounded
by the access-token TTL.
*/
package auth

import (
	"time"

	"github.com/Sy2force/cardbase/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Cardbase directory.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Phone        string    `json:"phone,omitempty"`
	Role         sec.Role  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldFirstName       = "first_name"
	FieldLastName        = "last_name"
	FieldPhone           = "phone"
	FieldToken           = "token"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldAccessToken     = "access_token"
	FieldTokenType       = "token_type"
	FieldExpiresIn       = "expires_in"
	FieldUser            = "user"
	FieldMessage         = "message"
)
