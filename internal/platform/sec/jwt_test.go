// Copyright (c) 2026 Cardbase. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sy2force/cardbase/internal/platform/sec"
)

const testIssuer = "cardbase.test"

func newTokenService(t *testing.T, secret string) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService(secret, testIssuer)
	require.NoError(t, err)
	return service
}

/*
TestNewTokenService_EmptySecret verifies that the service refuses to start
without a signing secret.
*/
func TestNewTokenService_EmptySecret(t *testing.T) {
	_, err := sec.NewTokenService("", testIssuer)
	require.Error(t, err)
}

/*
TestTokenService_RoundTrip issues a token and verifies it with the same
secret, checking that identity and role survive the trip.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTokenService(t, "round-trip-secret")

	token, err := service.IssueAccessToken("user-123", sec.RoleBusiness, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, string(sec.RoleBusiness), claims.Role)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, testIssuer, claims.Issuer)
}

/*
TestTokenService_Expired verifies that a token past its TTL is rejected with
the expiry sentinel.
*/
func TestTokenService_Expired(t *testing.T) {
	service := newTokenService(t, "expiry-secret")

	token, err := service.IssueAccessToken("user-123", sec.RoleUser, -time.Minute)
	require.NoError(t, err)

	_, err = service.VerifyToken(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, sec.ErrTokenExpired)
}

/*
TestTokenService_WrongSecret verifies that a token signed by another process
secret fails with the signature sentinel.
*/
func TestTokenService_WrongSecret(t *testing.T) {
	minter := newTokenService(t, "secret-a")
	verifier := newTokenService(t, "secret-b")

	token, err := minter.IssueAccessToken("user-123", sec.RoleUser, time.Hour)
	require.NoError(t, err)

	_, err = verifier.VerifyToken(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, sec.ErrTokenSignature)
}

/*
TestTokenService_Malformed verifies that garbage strings fail with the
malformed sentinel rather than panicking.
*/
func TestTokenService_Malformed(t *testing.T) {
	service := newTokenService(t, "malformed-secret")

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not_a_jwt", "definitely-not-a-token"},
		{"truncated", "eyJhbGciOiJIUzI1NiJ9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.VerifyToken(tt.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, sec.ErrTokenMalformed)
		})
	}
}

/*
TestTokenService_UnknownRoleClaim verifies that a structurally valid token
carrying a role outside the closed set is treated as malformed.
*/
func TestTokenService_UnknownRoleClaim(t *testing.T) {
	service := newTokenService(t, "role-secret")

	token, err := service.IssueAccessToken("user-123", sec.Role("superuser"), time.Hour)
	require.NoError(t, err)

	_, err = service.VerifyToken(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, sec.ErrTokenMalformed)
}
