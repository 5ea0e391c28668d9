// Copyright (c) 2026 Cardbase. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cards

import (
	"context"
	"net/http"

	"github.com/Sy2force/cardbase/internal/platform/apperr"
	"github.com/Sy2force/cardbase/internal/platform/ctxkey"
	requestutil "github.com/Sy2force/cardbase/internal/platform/request"
	"github.com/Sy2force/cardbase/internal/platform/respond"
	"github.com/Sy2force/cardbase/internal/platform/sec"
)

// # Ownership Guard

// OwnershipGuard enforces the owner-or-admin rule on card-scoped routes.
//
// # Ordering
//
// Must be mounted AFTER authentication: it assumes a principal is present
// (anonymous requests are rejected with 401 before the card is ever loaded).
type OwnershipGuard struct {
	cardRepository CardRepository
}

// NewOwnershipGuard constructs a guard backed by the given card repository.
func NewOwnershipGuard(repo CardRepository) *OwnershipGuard {
	return &OwnershipGuard{cardRepository: repo}
}

// RequireOwner loads the card addressed by the {id} path parameter and
// verifies the principal may mutate it.
//
// # Flow
//  1. Resolve the principal from context; missing principal → 401.
//  2. Load the card; missing card → 404 (never load for anonymous callers).
//  3. Admins pass unconditionally.
//  4. Anyone else must be the owner → 403 NOT_OWNER otherwise.
//  5. Attach the loaded card to context so the handler does not re-fetch.
//     The row can still vanish between guard and handler write; handlers
//     treat a zero-rows-affected write as 404, not a crash.
func (guard *OwnershipGuard) RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

		// ── 1. Principal Resolution ───────────────────────────────────────
		claims := requestutil.Claims(request)
		if claims == nil {
			respond.Error(writer, request, apperr.MissingToken())
			return
		}

		// ── 2. Card Resolution ────────────────────────────────────────────
		cardID := requestutil.ID(request, "id")
		card, err := guard.cardRepository.FindByID(request.Context(), cardID)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		// ── 3. Owner-or-Admin Check ───────────────────────────────────────
		if !sec.Role(claims.Role).In(sec.RoleAdmin) && card.OwnerID != claims.UserID {
			respond.Error(writer, request, apperr.NotOwner())
			return
		}

		// ── 4. Context Injection ──────────────────────────────────────────
		ctx := context.WithValue(request.Context(), ctxkey.KeyCard, card)
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// CardFromContext retrieves the card pre-loaded by [OwnershipGuard.RequireOwner].
//
// # Returns
//   - The loaded [*Card], or nil outside a guarded route.
func CardFromContext(ctx context.Context) *Card {
	card, _ := ctx.Value(ctxkey.KeyCard).(*Card)
	return card
}
