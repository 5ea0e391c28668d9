// Copyright (c) 2026 Cardbase. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration a JWT access token remains valid.
	// With no server-side revocation, this is also the maximum staleness
	// window for a role change.
	AccessTokenTTL = 4 * time.Hour

	// ResetTokenTTL is the duration a password reset token remains valid.
	// Short-lived (1 hour) for security.
	ResetTokenTTL = 1 * time.Hour

	// ResetTokenLength is the byte length of the random password reset token.
	ResetTokenLength = 32
)
