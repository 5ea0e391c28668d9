// Copyright (c) 2026 Cardbase. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Sy2force/cardbase/internal/platform/apperr"
	"github.com/Sy2force/cardbase/internal/platform/sec"
	"github.com/Sy2force/cardbase/internal/users/auth"
)

// # Service Layer

// Service orchestrates business logic for user accounts.
//
// It ensures that profile updates, role changes, and account deletion follow
// established business constraints (admin-only role changes, never-self rule,
// deletion cascades).
type Service struct {
	accountRepository AccountRepository
	logger            *slog.Logger
}

// NewService constructs a new account [Service] with its repository dependency.
func NewService(accountRepo AccountRepository, logger *slog.Logger) *Service {
	return &Service{
		accountRepository: accountRepo,
		logger:            logger,
	}
}

// # Profile Management

/*
GetProfile retrieves the full private identity of a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated user profile
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfileInput defines the mutable subset of user profile fields.
type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
}

/*
UpdateProfile applies a partial set of changes to a user's account metadata.

Description: Fetches the existing user state, overrides provided fields, and
synchronizes the change to persistent storage.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *auth.User: The updated user profile
  - error: Update or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {

	// Load the current state to apply deltas against
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	// Apply delta updates
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}

	// Apply delta updates
	if input.LastName != nil {
		user.LastName = *input.LastName
	}

	// Apply delta updates
	if input.Phone != nil {
		user.Phone = *input.Phone
	}

	// Persist changes
	if err := service.accountRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.Info("user_profile_updated", slog.String("user_id", userID))

	return user, nil
}

// # Administrative Operations

/*
ListUsers returns a page of registered accounts. Admin-only at the router.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []*auth.User: Page of accounts
  - int: Total count
  - error: Retrieval failures
*/
func (service *Service) ListUsers(context context.Context, limit, offset int) ([]*auth.User, int, error) {
	users, total, err := service.accountRepository.List(context, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("account_service_list_failed: %w", err)
	}
	return users, total, nil
}

/*
ChangeRole sets a new role on a target account.

Description: Admin-only operation (gated at the router). A role change is
never self-targeted: an admin cannot demote or re-promote their own account,
which prevents a lone admin from locking the directory out of administration.
The change takes effect on the target's next token issuance.

Parameters:
  - context: context.Context
  - actorID: string (The authenticated admin performing the change)
  - targetID: string
  - role: sec.Role

Returns:
  - *auth.User: The updated target account
  - error: Forbidden (self-target), not found, or storage failures
*/
func (service *Service) ChangeRole(context context.Context, actorID, targetID string, role sec.Role) (*auth.User, error) {

	// Role changes are never self-targeted
	if actorID == targetID {
		return nil, apperr.Forbidden("Role changes cannot target your own account")
	}

	target, err := service.accountRepository.FindByID(context, targetID)
	if err != nil {
		return nil, err
	}

	if err := service.accountRepository.UpdateRole(context, targetID, role); err != nil {
		return nil, fmt.Errorf("account_service_change_role_failed: %w", err)
	}

	service.logger.Info("user_role_changed",
		slog.String("actor_id", actorID),
		slog.String("target_id", targetID),
		slog.String("old_role", string(target.Role)),
		slog.String("new_role", string(role)),
	)

	target.Role = role
	return target, nil
}

/*
DeleteAccount permanently removes a user account.

Description: Allowed for the account owner or an admin (checked here, not at
the router, because the rule is disjunctive). The store cascade removes the
account's favorite entries, its owned cards, and every other user's favorite
entries referencing those cards.

Parameters:
  - context: context.Context
  - actor: *sec.AuthClaims (The authenticated principal)
  - targetID: string

Returns:
  - error: Forbidden, not found, or execution failures
*/
func (service *Service) DeleteAccount(context context.Context, actor *sec.AuthClaims, targetID string) error {

	// Owner-or-admin: the same disjunction the card ownership guard applies.
	if actor.UserID != targetID && !sec.Role(actor.Role).In(sec.RoleAdmin) {
		return apperr.Forbidden("Only the account owner or an admin may delete this account")
	}

	if err := service.accountRepository.Delete(context, targetID); err != nil {
		return err
	}

	service.logger.Warn("user_account_deleted",
		slog.String("actor_id", actor.UserID),
		slog.String("target_id", targetID),
	)

	return nil
}
