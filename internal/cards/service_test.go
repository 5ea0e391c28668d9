// Copyright (c) 2026 Cardbase. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cards_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sy2force/cardbase/internal/cards"
	"github.com/Sy2force/cardbase/internal/platform/apperr"
	"github.com/Sy2force/cardbase/pkg/pointer"
)

// fakeCardRepository keeps cards in a map and scripts Create failures so
// tests can simulate losing the business-number uniqueness race.
type fakeCardRepository struct {
	cards map[string]*cards.Card

	// createConflicts makes the first N Create calls fail with 409.
	createConflicts int
	createCalls     int
}

func newFakeCardRepository() *fakeCardRepository {
	return &fakeCardRepository{cards: make(map[string]*cards.Card)}
}

func (repo *fakeCardRepository) FindByID(_ context.Context, id string) (*cards.Card, error) {
	card, ok := repo.cards[id]
	if !ok {
		return nil, apperr.NotFound("Card")
	}
	return card, nil
}

func (repo *fakeCardRepository) ExistsByBusinessNumber(_ context.Context, number int) (bool, error) {
	for _, card := range repo.cards {
		if card.BusinessNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (repo *fakeCardRepository) Create(_ context.Context, card *cards.Card) error {
	repo.createCalls++
	if repo.createCalls <= repo.createConflicts {
		return apperr.Conflict("Business number is already taken")
	}
	repo.cards[card.ID] = card
	return nil
}

func (repo *fakeCardRepository) Update(_ context.Context, card *cards.Card) error {
	if _, ok := repo.cards[card.ID]; !ok {
		return apperr.NotFound("Card")
	}
	repo.cards[card.ID] = card
	return nil
}

func (repo *fakeCardRepository) Delete(_ context.Context, id string) error {
	if _, ok := repo.cards[id]; !ok {
		return apperr.NotFound("Card")
	}
	delete(repo.cards, id)
	return nil
}

func (repo *fakeCardRepository) List(_ context.Context, _ cards.Filter, _, _ int) ([]*cards.Card, int, error) {
	out := make([]*cards.Card, 0, len(repo.cards))
	for _, card := range repo.cards {
		out = append(out, card)
	}
	return out, len(out), nil
}

func (repo *fakeCardRepository) ListByOwner(_ context.Context, ownerID string, _, _ int) ([]*cards.Card, int, error) {
	out := make([]*cards.Card, 0)
	for _, card := range repo.cards {
		if card.OwnerID == ownerID {
			out = append(out, card)
		}
	}
	return out, len(out), nil
}

func (repo *fakeCardRepository) ListFavorites(_ context.Context, _ string, _, _ int) ([]*cards.Card, int, error) {
	return nil, 0, nil
}

// fakeFavoriteRepository mirrors the join table with a membership set.
type fakeFavoriteRepository struct {
	memberships map[[2]string]bool
}

func newFakeFavoriteRepository() *fakeFavoriteRepository {
	return &fakeFavoriteRepository{memberships: make(map[[2]string]bool)}
}

func (repo *fakeFavoriteRepository) Add(_ context.Context, userID, cardID string) (bool, error) {
	key := [2]string{userID, cardID}
	if repo.memberships[key] {
		return false, nil
	}
	repo.memberships[key] = true
	return true, nil
}

func (repo *fakeFavoriteRepository) Remove(_ context.Context, userID, cardID string) (bool, error) {
	key := [2]string{userID, cardID}
	if !repo.memberships[key] {
		return false, nil
	}
	delete(repo.memberships, key)
	return true, nil
}

func (repo *fakeFavoriteRepository) CountForCard(_ context.Context, cardID string) (int, error) {
	count := 0
	for key := range repo.memberships {
		if key[1] == cardID {
			count++
		}
	}
	return count, nil
}

func newCardService(repo *fakeCardRepository, favorites *fakeFavoriteRepository) *cards.Service {
	allocator := cards.NewBusinessNumberAllocator(repo)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return cards.NewService(repo, favorites, allocator, logger)
}

func validInput() cards.CreateCardInput {
	return cards.CreateCardInput{
		Title:       "Brew & Bean Coffee",
		Subtitle:    "Specialty roasts",
		Phone:       "+972-50-1234567",
		Email:       "hello@brewbean.example",
		Country:     "Israel",
		City:        "Tel Aviv",
		Street:      "Dizengoff",
		HouseNumber: 12,
	}
}

/*
TestService_CreateCard verifies the happy path: the card gets an ID, a slug
derived from the title, and a business number inside the public range.
*/
func TestService_CreateCard(t *testing.T) {
	repo := newFakeCardRepository()
	service := newCardService(repo, newFakeFavoriteRepository())

	card, err := service.CreateCard(context.Background(), "owner-1", validInput())
	require.NoError(t, err)

	assert.NotEmpty(t, card.ID)
	assert.Equal(t, "owner-1", card.OwnerID)
	assert.Equal(t, "brew-bean-coffee", card.Slug)
	assert.GreaterOrEqual(t, card.BusinessNumber, cards.BusinessNumberMin)
	assert.LessOrEqual(t, card.BusinessNumber, cards.BusinessNumberMax)
}

/*
TestService_CreateCard_RetriesOnConflict verifies that losing the uniqueness
race at insert time retries allocation-and-insert as a unit, invisibly to
the caller.
*/
func TestService_CreateCard_RetriesOnConflict(t *testing.T) {
	repo := newFakeCardRepository()
	repo.createConflicts = 2
	service := newCardService(repo, newFakeFavoriteRepository())

	card, err := service.CreateCard(context.Background(), "owner-1", validInput())
	require.NoError(t, err)

	assert.Equal(t, 3, repo.createCalls)
	assert.Len(t, repo.cards, 1)
	assert.NotZero(t, card.BusinessNumber)
}

/*
TestService_CreateCard_ConflictBudget verifies that persistent conflicts
surface as allocation exhaustion once the attempt budget is spent.
*/
func TestService_CreateCard_ConflictBudget(t *testing.T) {
	repo := newFakeCardRepository()
	repo.createConflicts = 1000
	service := newCardService(repo, newFakeFavoriteRepository())

	_, err := service.CreateCard(context.Background(), "owner-1", validInput())
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "ALLOCATION_EXHAUSTED", ae.Code)
	assert.Equal(t, 10, repo.createCalls)
}

/*
TestService_CreateCard_DistinctNumbers verifies that sequentially created
cards never share a business number.
*/
func TestService_CreateCard_DistinctNumbers(t *testing.T) {
	repo := newFakeCardRepository()
	service := newCardService(repo, newFakeFavoriteRepository())

	seen := make(map[int]bool)
	for i := 0; i < 20; i++ {
		card, err := service.CreateCard(context.Background(), "owner-1", validInput())
		require.NoError(t, err)
		assert.False(t, seen[card.BusinessNumber], "business number allocated twice")
		seen[card.BusinessNumber] = true
	}
}

/*
TestService_UpdateCard verifies delta application: the slug follows a title
change, untouched fields keep their values, and the owner and business
number never move.
*/
func TestService_UpdateCard(t *testing.T) {
	repo := newFakeCardRepository()
	service := newCardService(repo, newFakeFavoriteRepository())

	card, err := service.CreateCard(context.Background(), "owner-1", validInput())
	require.NoError(t, err)
	originalNumber := card.BusinessNumber

	updated, err := service.UpdateCard(context.Background(), card, cards.UpdateCardInput{
		Title: pointer.To("Roast House"),
		City:  pointer.To("Haifa"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Roast House", updated.Title)
	assert.Equal(t, "roast-house", updated.Slug)
	assert.Equal(t, "Haifa", updated.City)
	assert.Equal(t, "+972-50-1234567", updated.Phone)
	assert.Equal(t, "owner-1", updated.OwnerID)
	assert.Equal(t, originalNumber, updated.BusinessNumber)
}

/*
TestService_ToggleFavorite verifies the toggle pair: first application adds
the membership, the second removes it, restoring the original state.
*/
func TestService_ToggleFavorite(t *testing.T) {
	repo := newFakeCardRepository()
	favorites := newFakeFavoriteRepository()
	service := newCardService(repo, favorites)

	card, err := service.CreateCard(context.Background(), "owner-1", validInput())
	require.NoError(t, err)

	first, err := service.ToggleFavorite(context.Background(), "user-1", card.ID)
	require.NoError(t, err)
	assert.True(t, first.IsFavoriteNow)
	assert.Equal(t, 1, first.NewCount)

	second, err := service.ToggleFavorite(context.Background(), "user-1", card.ID)
	require.NoError(t, err)
	assert.False(t, second.IsFavoriteNow)
	assert.Equal(t, 0, second.NewCount)
}

/*
TestService_ToggleFavorite_UnknownCard verifies that favoriting a
nonexistent card fails with 404 before any membership mutation.
*/
func TestService_ToggleFavorite_UnknownCard(t *testing.T) {
	favorites := newFakeFavoriteRepository()
	service := newCardService(newFakeCardRepository(), favorites)

	_, err := service.ToggleFavorite(context.Background(), "user-1", "ghost-card")
	require.Error(t, err)

	assert.True(t, apperr.IsNotFound(err))
	assert.Empty(t, favorites.memberships)
}

/*
TestService_ToggleFavorite_IndependentUsers verifies that memberships are
scoped per user: one user's toggle never disturbs another's.
*/
func TestService_ToggleFavorite_IndependentUsers(t *testing.T) {
	repo := newFakeCardRepository()
	service := newCardService(repo, newFakeFavoriteRepository())

	card, err := service.CreateCard(context.Background(), "owner-1", validInput())
	require.NoError(t, err)

	_, err = service.ToggleFavorite(context.Background(), "user-1", card.ID)
	require.NoError(t, err)

	status, err := service.ToggleFavorite(context.Background(), "user-2", card.ID)
	require.NoError(t, err)
	assert.True(t, status.IsFavoriteNow)
	assert.Equal(t, 2, status.NewCount)

	status, err = service.ToggleFavorite(context.Background(), "user-1", card.ID)
	require.NoError(t, err)
	assert.False(t, status.IsFavoriteNow)
	assert.Equal(t, 1, status.NewCount)
}

/*
TestService_DeleteCard verifies removal and the 404 on a second delete.
*/
func TestService_DeleteCard(t *testing.T) {
	repo := newFakeCardRepository()
	service := newCardService(repo, newFakeFavoriteRepository())

	card, err := service.CreateCard(context.Background(), "owner-1", validInput())
	require.NoError(t, err)

	require.NoError(t, service.DeleteCard(context.Background(), card.ID))
	assert.Empty(t, repo.cards)

	err = service.DeleteCard(context.Background(), card.ID)
	assert.True(t, apperr.IsNotFound(err))
}
