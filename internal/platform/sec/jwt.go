// Copyright (c) 2026 Cardbase. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via the TokenProvider interface.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// # Verification Failures

// Stable sentinel errors for the three ways token verification can fail.
// The HTTP layer maps each one to its own machine-readable 401 kind.
var (
	// ErrTokenMalformed means the string is not a parseable JWT.
	ErrTokenMalformed = errors.New("sec: token is malformed")

	// ErrTokenSignature means the signature does not match the process secret.
	ErrTokenSignature = errors.New("sec: token signature is invalid")

	// ErrTokenExpired means the token was valid but its expiry has passed.
	ErrTokenExpired = errors.New("sec: token has expired")
)

// AuthClaims represents the payload embedded inside a JWT access token.
//
// # Why custom claims?
//
// By embedding the UserID and Role directly inside the JWT, the
// authentication middleware can reconstruct the active principal WITHOUT
// querying the database on every single API request. The trade-off is that a
// role change only takes effect when the next token is issued; the staleness
// window is bounded by the token TTL.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID string `json:"uid"`
	Role   string `json:"rol"`
}

// TokenService handles generation and verification of JWT tokens using HS256.
//
// # Statelessness
//
// Tokens are self-contained: issuing and verifying touch no store, so the
// guard chain runs without a synchronous lookup per request. The cost is that
// a minted token cannot be revoked before its expiry (logout is client-side).
type TokenService struct {
	secret []byte
	issuer string
}

// NewTokenService creates a new TokenService.
//
// The secret is process-wide and configuration-supplied; it is never
// generated per call.
func NewTokenService(secret, issuer string) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("sec: token secret must not be empty")
	}
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
	}, nil
}

// IssueAccessToken creates a new signed JWT access token for a principal.
//
// # Parameters
//   - userID: The ID of the account (JWT subject).
//   - role: The account's role, baked into the claims at issuance time.
//   - timeToLive: The duration before the token expires.
func (service *TokenService) IssueAccessToken(userID string, role Role, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		UserID: userID,
		Role:   string(role),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyToken checks the signature and validity of a JWT string.
//
// # Failure Modes
//
// Returns [ErrTokenMalformed], [ErrTokenSignature], or [ErrTokenExpired]
// (wrapped) depending on how verification failed. Claims carrying a role
// outside the closed set are treated as malformed.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	})

	if err != nil {
		return nil, classifyVerificationError(err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}

	// Reject claim sets minted with a role outside the closed set.
	if _, err := ParseRole(claims.Role); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}

	return claims, nil
}

// classifyVerificationError maps jwt library errors onto the package's
// stable sentinel errors, keeping the library's detail in the chain.
func classifyVerificationError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrTokenSignature, err)
	default:
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
}
