// Copyright (c) 2026 Cardbase. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth orchestrates the identity and access management (IAM) flows.

It handles everything from user registration and secure password hashing to
stateless JWT issuance and the forgot/reset password lifecycle (volatile
tokens stored in Redis).

Architecture:

  - Service: Orchestrates business logic (Register, Login, password flows).
  - Repository: Abstracted interfaces for Postgres (Users) and Redis (Reset tokens).
  - Security: Bcrypt password hashing and HS256-signed JWTs.
*/
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/Sy2force/cardbase/internal/platform/apperr"
	"github.com/Sy2force/cardbase/internal/platform/sec"
	"github.com/Sy2force/cardbase/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// IssueAccessToken creates a signed JWT string for the given principal.
	//
	// # Parameters
	//   - userID: The ID of the account (JWT subject).
	//   - role: The account's role, baked into the claims at issuance time.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an error if signing fails.
	IssueAccessToken(userID string, role sec.Role, timeToLive time.Duration) (string, error)
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository       UserRepository
	resetTokenRepository ResetTokenRepository
	tokenProvider        TokenProvider
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	resetRepo ResetTokenRepository,
	tokenProv TokenProvider,
) *Service {
	return &Service{
		userRepository:       userRepo,
		resetTokenRepository: resetRepo,
		tokenProvider:        tokenProv,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string

	// IsBusiness requests the business role at signup, granting the
	// right to publish cards. Admin accounts are never self-assigned.
	IsBusiness bool
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Deep-enrollment of a new member, handling password hashing and
initial role assignment. The email pre-check produces a friendly conflict
early; the store's unique index on lower(email) remains authoritative under
concurrent registration.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - error: Conflict (if identity exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// Verify email uniqueness. Return a client-safe Conflict error.
	_, err := service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	role := sec.RoleUser
	if input.IsBusiness {
		role = sec.RoleBusiness
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: hashedPassword,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		Role:         role,
	}

	// Persist the user to the database
	if err := service.userRepository.Create(context, user); err != nil {
		if apperr.IsConflict(err) {
			// Lost the race against a concurrent registration for the same email.
			return nil, apperr.Conflict("Email is already registered")
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// LoginSession represents a successfully issued access credential.
type LoginSession struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *User
}

/*
Login validates user credentials and issues a stateless access token.

Description: Verifies identity via constant-time password comparison and
mints a signed JWT carrying the subject ID and role. No session row is
persisted: the token is self-contained and expires on its own.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready credential
  - error: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	user, err := service.userRepository.FindByEmail(context, input.Email)

	// If (err != nil) the user does not exist. Generic message to prevent enumeration.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Verify password hash using constant-time comparison in bcrypt to prevent timing attacks
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Generate short-lived Access Token with the role baked in
	accessToken, err := service.tokenProvider.IssueAccessToken(user.ID, user.Role, AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return &LoginSession{
		AccessToken: accessToken,
		ExpiresAt:   time.Now().Add(AccessTokenTTL),
		User:        user,
	}, nil
}

// # Password Recovery

/*
RequestPasswordReset initiates the forgot-password flow.

Description: Generates a secure opaque token and saves its digest to Redis.
Delivery of the token (email) is an external collaborator concern.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - string: Opaque reset token ("" when the email is unknown)
  - error: Generation errors
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) (string, error) {
	// Look up user.
	// NOTE: We don't return NOT_FOUND if the email doesn't exist to prevent user enumeration.
	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		return "", nil
	}

	// Generate reset token
	token, err := sec.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		return "", fmt.Errorf("auth_service_generate_reset_token_failed: %w", err)
	}

	// Save the digest to Redis, never the raw token
	if err := service.resetTokenRepository.Set(context, sec.HashToken(token), user.ID, ResetTokenTTL); err != nil {
		return "", fmt.Errorf("auth_service_save_reset_token_failed: %w", err)
	}

	return token, nil
}

/*
ResetPassword completes the forgot-password flow.

Description: Verifies the token digest, hashes the new password, and updates
the account. The token is single-use: its digest is deleted on success.

Parameters:
  - context: context.Context
  - token: string
  - newPassword: string

Returns:
  - error: Validation or update failures
*/
func (service *Service) ResetPassword(context context.Context, token, newPassword string) error {

	// Retrieve the userID associated with the reset token digest from Redis
	tokenHash := sec.HashToken(token)
	userID, err := service.resetTokenRepository.Get(context, tokenHash)
	if err != nil {
		return err
	}

	// Hash the new password securely
	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_password_hash_failed: %w", err)
	}

	// Update the user's password in persistent storage
	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_reset_password_update_failed: %w", err)
	}

	// Delete the used token digest from Redis
	_ = service.resetTokenRepository.Delete(context, tokenHash)

	return nil
}

/*
ChangePassword allows an authenticated user to update their credentials.

Description: Verifies the current password before re-hashing and storing the
new one. Existing access tokens stay valid until expiry (no revocation list).

Parameters:
  - context: context.Context
  - userID: string
  - currentPassword: string
  - newPassword: string

Returns:
  - error: Unauthorized or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID, currentPassword, newPassword string) error {

	// Fetch user by ID
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	// Verify the current password before allowing change
	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	// Hash the brand new password
	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	// Update the database with the new hash
	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	return nil
}
