// Copyright (c) 2026 Cardbase. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sy2force/cardbase/internal/platform/apperr"
	"github.com/Sy2force/cardbase/internal/platform/sec"
	"github.com/Sy2force/cardbase/internal/users/auth"
)

// fakeUserRepository keeps accounts in memory with the same case-insensitive
// email semantics as the Postgres implementation.
type fakeUserRepository struct {
	users map[string]*auth.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[string]*auth.User)}
}

func (repo *fakeUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	user, ok := repo.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return user, nil
}

func (repo *fakeUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range repo.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepository) Create(_ context.Context, user *auth.User) error {
	for _, existing := range repo.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return apperr.Conflict("Email is already registered")
		}
	}
	repo.users[user.ID] = user
	return nil
}

func (repo *fakeUserRepository) Update(_ context.Context, user *auth.User) error {
	if _, ok := repo.users[user.ID]; !ok {
		return apperr.NotFound("User")
	}
	repo.users[user.ID] = user
	return nil
}

func (repo *fakeUserRepository) UpdatePassword(_ context.Context, userID, newHash string) error {
	user, ok := repo.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.PasswordHash = newHash
	return nil
}

func (repo *fakeUserRepository) UpdateRole(_ context.Context, userID string, role sec.Role) error {
	user, ok := repo.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.Role = role
	return nil
}

func (repo *fakeUserRepository) Delete(_ context.Context, id string) error {
	if _, ok := repo.users[id]; !ok {
		return apperr.NotFound("User")
	}
	delete(repo.users, id)
	return nil
}

func (repo *fakeUserRepository) List(_ context.Context, _, _ int) ([]*auth.User, int, error) {
	out := make([]*auth.User, 0, len(repo.users))
	for _, user := range repo.users {
		out = append(out, user)
	}
	return out, len(out), nil
}

// fakeResetTokenRepository mirrors the Redis digest store.
type fakeResetTokenRepository struct {
	digests map[string]string
}

func newFakeResetTokenRepository() *fakeResetTokenRepository {
	return &fakeResetTokenRepository{digests: make(map[string]string)}
}

func (repo *fakeResetTokenRepository) Set(_ context.Context, token, userID string, _ time.Duration) error {
	repo.digests[token] = userID
	return nil
}

func (repo *fakeResetTokenRepository) Get(_ context.Context, token string) (string, error) {
	userID, ok := repo.digests[token]
	if !ok {
		return "", apperr.Unauthorized("Reset token is invalid or expired")
	}
	return userID, nil
}

func (repo *fakeResetTokenRepository) Delete(_ context.Context, token string) error {
	delete(repo.digests, token)
	return nil
}

// fakeTokenProvider mints predictable tokens.
type fakeTokenProvider struct {
	issued int
}

func (provider *fakeTokenProvider) IssueAccessToken(userID string, role sec.Role, _ time.Duration) (string, error) {
	provider.issued++
	return "token-for-" + userID + "-" + string(role), nil
}

func newAuthService(users *fakeUserRepository, resets *fakeResetTokenRepository) *auth.Service {
	return auth.NewService(users, resets, &fakeTokenProvider{})
}

func registerInput() auth.RegisterInput {
	return auth.RegisterInput{
		Email:     "noa@example.com",
		Password:  "correct horse battery staple",
		FirstName: "Noa",
		LastName:  "Levi",
		Phone:     "+972-50-0000000",
	}
}

/*
TestService_Register verifies enrollment: the password is stored hashed, and
the default role is user.
*/
func TestService_Register(t *testing.T) {
	users := newFakeUserRepository()
	service := newAuthService(users, newFakeResetTokenRepository())

	user, err := service.Register(context.Background(), registerInput())
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, sec.RoleUser, user.Role)
	assert.NotEqual(t, "correct horse battery staple", user.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("correct horse battery staple", user.PasswordHash))
}

/*
TestService_Register_BusinessRole verifies that the business flag grants the
business role — and only that role; admin is never self-assigned.
*/
func TestService_Register_BusinessRole(t *testing.T) {
	service := newAuthService(newFakeUserRepository(), newFakeResetTokenRepository())

	input := registerInput()
	input.IsBusiness = true

	user, err := service.Register(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleBusiness, user.Role)
}

/*
TestService_Register_DuplicateEmail verifies the conflict on re-registration,
including case-differing spellings of the same address.
*/
func TestService_Register_DuplicateEmail(t *testing.T) {
	service := newAuthService(newFakeUserRepository(), newFakeResetTokenRepository())

	_, err := service.Register(context.Background(), registerInput())
	require.NoError(t, err)

	duplicate := registerInput()
	duplicate.Email = "NOA@example.com"

	_, err = service.Register(context.Background(), duplicate)
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
}

/*
TestService_Login verifies that valid credentials yield a session with an
access token and the full user attached.
*/
func TestService_Login(t *testing.T) {
	service := newAuthService(newFakeUserRepository(), newFakeResetTokenRepository())

	registered, err := service.Register(context.Background(), registerInput())
	require.NoError(t, err)

	session, err := service.Login(context.Background(), auth.LoginInput{
		Email:    "noa@example.com",
		Password: "correct horse battery staple",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, session.AccessToken)
	assert.Equal(t, registered.ID, session.User.ID)
	assert.WithinDuration(t, time.Now().Add(auth.AccessTokenTTL), session.ExpiresAt, time.Minute)
}

/*
TestService_Login_Failures verifies that unknown emails and wrong passwords
fail with the same generic message, preventing account enumeration.
*/
func TestService_Login_Failures(t *testing.T) {
	service := newAuthService(newFakeUserRepository(), newFakeResetTokenRepository())

	_, err := service.Register(context.Background(), registerInput())
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown_email", "ghost@example.com", "correct horse battery staple"},
		{"wrong_password", "noa@example.com", "guessed-wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Login(context.Background(), auth.LoginInput{Email: tt.email, Password: tt.password})
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "Invalid login credentials", ae.Message)
		})
	}
}

/*
TestService_PasswordResetFlow walks the full forgot/reset cycle: the raw
token is never persisted, the reset replaces the hash, and the token is
single-use.
*/
func TestService_PasswordResetFlow(t *testing.T) {
	users := newFakeUserRepository()
	resets := newFakeResetTokenRepository()
	service := newAuthService(users, resets)

	_, err := service.Register(context.Background(), registerInput())
	require.NoError(t, err)

	token, err := service.RequestPasswordReset(context.Background(), "noa@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// Only the digest is stored.
	_, rawStored := resets.digests[token]
	assert.False(t, rawStored)

	require.NoError(t, service.ResetPassword(context.Background(), token, "brand new passphrase"))

	_, err = service.Login(context.Background(), auth.LoginInput{
		Email:    "noa@example.com",
		Password: "brand new passphrase",
	})
	assert.NoError(t, err)

	// Second use of the same token is rejected.
	err = service.ResetPassword(context.Background(), token, "another passphrase")
	require.Error(t, err)
}

/*
TestService_RequestPasswordReset_UnknownEmail verifies the silent no-op for
unknown addresses.
*/
func TestService_RequestPasswordReset_UnknownEmail(t *testing.T) {
	resets := newFakeResetTokenRepository()
	service := newAuthService(newFakeUserRepository(), resets)

	token, err := service.RequestPasswordReset(context.Background(), "ghost@example.com")
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Empty(t, resets.digests)
}

/*
TestService_ChangePassword verifies the authenticated change path and the
rejection of a wrong current password.
*/
func TestService_ChangePassword(t *testing.T) {
	service := newAuthService(newFakeUserRepository(), newFakeResetTokenRepository())

	user, err := service.Register(context.Background(), registerInput())
	require.NoError(t, err)

	err = service.ChangePassword(context.Background(), user.ID, "guessed-wrong", "new passphrase")
	require.Error(t, err)

	err = service.ChangePassword(context.Background(), user.ID, "correct horse battery staple", "new passphrase")
	require.NoError(t, err)

	_, err = service.Login(context.Background(), auth.LoginInput{
		Email:    "noa@example.com",
		Password: "new passphrase",
	})
	assert.NoError(t, err)
}
