// Copyright (c) 2026 Cardbase. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cards_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sy2force/cardbase/internal/cards"
	"github.com/Sy2force/cardbase/internal/platform/ctxutil"
	"github.com/Sy2force/cardbase/internal/platform/sec"
)

// guardedRouter mounts the guard in front of a probe handler that records
// whether the pre-loaded card reached the request context.
func guardedRouter(repo *fakeCardRepository, loaded **cards.Card) http.Handler {
	guard := cards.NewOwnershipGuard(repo)

	router := chi.NewRouter()
	router.With(guard.RequireOwner).Put("/cards/{id}", func(writer http.ResponseWriter, request *http.Request) {
		*loaded = cards.CardFromContext(request.Context())
		writer.WriteHeader(http.StatusOK)
	})
	return router
}

func authenticatedRequest(method, target, userID string, role sec.Role) *http.Request {
	request := httptest.NewRequest(method, target, nil)
	claims := &sec.AuthClaims{UserID: userID, Role: string(role)}
	return request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
}

func seedCard(repo *fakeCardRepository, id, ownerID string) {
	repo.cards[id] = &cards.Card{ID: id, OwnerID: ownerID, Title: "Seeded"}
}

/*
TestOwnershipGuard_Owner verifies that the owner passes and the handler
receives the pre-loaded card without re-fetching.
*/
func TestOwnershipGuard_Owner(t *testing.T) {
	repo := newFakeCardRepository()
	seedCard(repo, "card-1", "owner-1")

	var loaded *cards.Card
	router := guardedRouter(repo, &loaded)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, authenticatedRequest(http.MethodPut, "/cards/card-1", "owner-1", sec.RoleBusiness))

	assert.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, loaded)
	assert.Equal(t, "card-1", loaded.ID)
}

/*
TestOwnershipGuard_AdminBypass verifies that an admin may pass the guard on
a card they do not own.
*/
func TestOwnershipGuard_AdminBypass(t *testing.T) {
	repo := newFakeCardRepository()
	seedCard(repo, "card-1", "owner-1")

	var loaded *cards.Card
	router := guardedRouter(repo, &loaded)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, authenticatedRequest(http.MethodPut, "/cards/card-1", "admin-9", sec.RoleAdmin))

	assert.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, loaded)
}

/*
TestOwnershipGuard_NotOwner verifies that an authenticated non-owner is
rejected with 403 and the handler never runs.
*/
func TestOwnershipGuard_NotOwner(t *testing.T) {
	repo := newFakeCardRepository()
	seedCard(repo, "card-1", "owner-1")

	var loaded *cards.Card
	router := guardedRouter(repo, &loaded)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, authenticatedRequest(http.MethodPut, "/cards/card-1", "intruder-2", sec.RoleBusiness))

	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "NOT_OWNER")
	assert.Nil(t, loaded)
}

/*
TestOwnershipGuard_Anonymous verifies that requests without a principal are
rejected with 401 before the card is ever loaded.
*/
func TestOwnershipGuard_Anonymous(t *testing.T) {
	repo := newFakeCardRepository()
	seedCard(repo, "card-1", "owner-1")

	var loaded *cards.Card
	router := guardedRouter(repo, &loaded)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPut, "/cards/card-1", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Nil(t, loaded)
}

/*
TestOwnershipGuard_MissingCard verifies 404 for unknown cards, even for
admins.
*/
func TestOwnershipGuard_MissingCard(t *testing.T) {
	repo := newFakeCardRepository()

	var loaded *cards.Card
	router := guardedRouter(repo, &loaded)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, authenticatedRequest(http.MethodPut, "/cards/ghost", "admin-9", sec.RoleAdmin))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Nil(t, loaded)
}

/*
TestCardFromContext_Unguarded verifies the nil return outside a guarded
route.
*/
func TestCardFromContext_Unguarded(t *testing.T) {
	assert.Nil(t, cards.CardFromContext(context.Background()))
}
