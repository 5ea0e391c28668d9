// Copyright (c) 2026 Cardbase. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Sy2force/cardbase/internal/platform/apperr"
	"github.com/Sy2force/cardbase/internal/platform/constants"
)

// RedisResetTokenRepository implements ResetTokenRepository using Redis.
//
// Tokens are stored as SHA-256 digests: a leaked Redis snapshot cannot be
// replayed against the reset endpoint.
type RedisResetTokenRepository struct {
	client *redis.Client
}

// NewResetTokenRepository creates a new Redis-backed ResetTokenRepository.
func NewResetTokenRepository(client *redis.Client) *RedisResetTokenRepository {
	return &RedisResetTokenRepository{client: client}
}

/*
Set stores a reset token digest with its associated userID and TTL.

Parameters:
  - context: context.Context
  - tokenHash: string (SHA-256 digest of the opaque token)
  - userID: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisResetTokenRepository) Set(context context.Context, tokenHash string, userID string, ttl time.Duration) error {

	// Use constants for key prefix
	key := fmt.Sprintf("%s%s", constants.RedisPrefixResetToken, tokenHash)

	// Set the token with TTL
	if err := repository.client.Set(context, key, userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_reset_token_set_failed: %w", err)
	}

	// Return nil on success
	return nil
}

/*
Get retrieves the userID for a given token digest.

Description: Returns apperr.NotFound if the token is absent or expired.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - string: Original UserID
  - error: apperr.NotFound or connectivity errors
*/
func (repository *RedisResetTokenRepository) Get(context context.Context, tokenHash string) (string, error) {

	// Use constants for key prefix
	key := fmt.Sprintf("%s%s", constants.RedisPrefixResetToken, tokenHash)

	// Get the token from Redis
	userID, err := repository.client.Get(context, key).Result()

	// Handle errors
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.Unauthorized("Reset token is invalid or expired")
		}
		return "", fmt.Errorf("redis_reset_token_get_failed: %w", err)
	}

	// Return the userID
	return userID, nil
}

/*
Delete removes the token digest from Redis.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisResetTokenRepository) Delete(context context.Context, tokenHash string) error {

	// Use constants for key prefix
	key := fmt.Sprintf("%s%s", constants.RedisPrefixResetToken, tokenHash)

	// Delete the token from Redis
	if err := repository.client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis_reset_token_delete_failed: %w", err)
	}

	// Return nil on success
	return nil
}
