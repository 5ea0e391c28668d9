// Copyright (c) 2026 Cardbase. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cards

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Sy2force/cardbase/internal/platform/apperr"
	"github.com/Sy2force/cardbase/pkg/slug"
	"github.com/Sy2force/cardbase/pkg/uuid"
)

// # Service Layer

// Service orchestrates business logic for the card directory.
type Service struct {
	cardRepository     CardRepository
	favoriteRepository FavoriteRepository
	allocator          *BusinessNumberAllocator
	logger             *slog.Logger
}

// NewService constructs a new cards [Service] with its dependencies.
func NewService(
	cardRepo CardRepository,
	favoriteRepo FavoriteRepository,
	allocator *BusinessNumberAllocator,
	logger *slog.Logger,
) *Service {
	return &Service{
		cardRepository:     cardRepo,
		favoriteRepository: favoriteRepo,
		allocator:          allocator,
		logger:             logger,
	}
}

// # Discovery

/*
ListCards returns a filtered page of the public directory.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit: int
  - offset: int

Returns:
  - []*Card: Page of cards
  - int: Total matching count
  - error: Retrieval failures
*/
func (service *Service) ListCards(context context.Context, filter Filter, limit, offset int) ([]*Card, int, error) {
	cards, total, err := service.cardRepository.List(context, filter, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("card_service_list_failed: %w", err)
	}
	return cards, total, nil
}

/*
GetCard retrieves a single card by ID.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Card: Hydrated card
  - error: Not found or retrieval failures
*/
func (service *Service) GetCard(context context.Context, id string) (*Card, error) {
	return service.cardRepository.FindByID(context, id)
}

/*
ListOwnCards returns the authenticated owner's cards.

Parameters:
  - context: context.Context
  - ownerID: string
  - limit: int
  - offset: int

Returns:
  - []*Card: Page of cards
  - int: Total count for this owner
  - error: Retrieval failures
*/
func (service *Service) ListOwnCards(context context.Context, ownerID string, limit, offset int) ([]*Card, int, error) {
	cards, total, err := service.cardRepository.ListByOwner(context, ownerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("card_service_list_own_failed: %w", err)
	}
	return cards, total, nil
}

/*
ListFavoriteCards returns the user's favorite set as hydrated cards.

Parameters:
  - context: context.Context
  - userID: string
  - limit: int
  - offset: int

Returns:
  - []*Card: Page of favorited cards
  - int: Total favorite count
  - error: Retrieval failures
*/
func (service *Service) ListFavoriteCards(context context.Context, userID string, limit, offset int) ([]*Card, int, error) {
	cards, total, err := service.cardRepository.ListFavorites(context, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("card_service_list_favorites_failed: %w", err)
	}
	return cards, total, nil
}

// # Publication

// CreateCardInput holds the descriptive fields for a new card.
type CreateCardInput struct {
	Title       string
	Subtitle    string
	Description string
	Phone       string
	Email       string
	Web         string
	ImageURL    string
	ImageAlt    string
	Country     string
	City        string
	Street      string
	HouseNumber int
	Zip         string
}

/*
CreateCard publishes a new card under the given owner.

Description: Allocates a business number and inserts, retrying the pair as a
unit when the insert loses the uniqueness race (409 on businessnumber). The
pre-check makes such conflicts rare; the retry makes them invisible. After
the attempt budget the creation fails with AllocationExhausted and the
caller may retry the whole operation.

Parameters:
  - context: context.Context
  - ownerID: string (Immutable after creation)
  - input: CreateCardInput

Returns:
  - *Card: The created card
  - error: AllocationExhausted, or storage failures
*/
func (service *Service) CreateCard(context context.Context, ownerID string, input CreateCardInput) (*Card, error) {
	card := &Card{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Slug:        slug.From(input.Title),
		Title:       input.Title,
		Subtitle:    input.Subtitle,
		Description: input.Description,
		Phone:       input.Phone,
		Email:       input.Email,
		Web:         input.Web,
		ImageURL:    input.ImageURL,
		ImageAlt:    input.ImageAlt,
		Country:     input.Country,
		City:        input.City,
		Street:      input.Street,
		HouseNumber: input.HouseNumber,
		Zip:         input.Zip,
	}

	// Allocate-and-insert as a unit, bounded by the shared attempt budget.
	for attempt := 0; attempt < maxAllocationAttempts; attempt++ {
		number, err := service.allocator.Allocate(context)
		if err != nil {
			return nil, err
		}
		card.BusinessNumber = number

		err = service.cardRepository.Create(context, card)
		if err == nil {
			service.logger.Info("card_published",
				slog.String("card_id", card.ID),
				slog.String("owner_id", ownerID),
				slog.Int("business_number", card.BusinessNumber),
			)
			return card, nil
		}

		// Lost the uniqueness race to a concurrent insert: draw again.
		if apperr.IsConflict(err) {
			continue
		}

		return nil, fmt.Errorf("card_service_create_failed: %w", err)
	}

	return nil, apperr.AllocationExhausted()
}

// UpdateCardInput defines the mutable subset of card fields. Nil pointers
// leave the current value untouched.
type UpdateCardInput struct {
	Title       *string
	Subtitle    *string
	Description *string
	Phone       *string
	Email       *string
	Web         *string
	ImageURL    *string
	ImageAlt    *string
	Country     *string
	City        *string
	Street      *string
	HouseNumber *int
	Zip         *string
}

/*
UpdateCard applies a partial set of changes to a card.

Description: The card was pre-loaded by the ownership guard; this applies
deltas and persists. OwnerID and BusinessNumber are immutable. The slug
follows the title.

Parameters:
  - context: context.Context
  - card: *Card (The guard-loaded entity)
  - input: UpdateCardInput

Returns:
  - *Card: The updated card
  - error: NotFound when the row vanished mid-request, or storage failures
*/
func (service *Service) UpdateCard(context context.Context, card *Card, input UpdateCardInput) (*Card, error) {

	// Apply delta updates
	if input.Title != nil {
		card.Title = *input.Title
		card.Slug = slug.From(*input.Title)
	}
	if input.Subtitle != nil {
		card.Subtitle = *input.Subtitle
	}
	if input.Description != nil {
		card.Description = *input.Description
	}
	if input.Phone != nil {
		card.Phone = *input.Phone
	}
	if input.Email != nil {
		card.Email = *input.Email
	}
	if input.Web != nil {
		card.Web = *input.Web
	}
	if input.ImageURL != nil {
		card.ImageURL = *input.ImageURL
	}
	if input.ImageAlt != nil {
		card.ImageAlt = *input.ImageAlt
	}
	if input.Country != nil {
		card.Country = *input.Country
	}
	if input.City != nil {
		card.City = *input.City
	}
	if input.Street != nil {
		card.Street = *input.Street
	}
	if input.HouseNumber != nil {
		card.HouseNumber = *input.HouseNumber
	}
	if input.Zip != nil {
		card.Zip = *input.Zip
	}

	// Persist changes. A vanished row is 404, not a crash.
	if err := service.cardRepository.Update(context, card); err != nil {
		return nil, err
	}

	service.logger.Info("card_updated", slog.String("card_id", card.ID))

	return card, nil
}

/*
DeleteCard permanently removes a card from the directory.

Description: The FK cascade on the favorite join table removes the card from
every user's favorite set in the same statement.

Parameters:
  - context: context.Context
  - cardID: string

Returns:
  - error: NotFound or execution failures
*/
func (service *Service) DeleteCard(context context.Context, cardID string) error {
	if err := service.cardRepository.Delete(context, cardID); err != nil {
		return err
	}

	service.logger.Info("card_deleted", slog.String("card_id", cardID))

	return nil
}

// # Favorites

/*
ToggleFavorite flips the card's membership in the user's favorite set.

Description: Membership mutation is a single atomic store primitive
(conditional insert or keyed delete), never fetch-modify-save, which closes
the concurrent double-toggle race. Applying the toggle twice returns the set
to its original membership state.

Parameters:
  - context: context.Context
  - userID: string
  - cardID: string

Returns:
  - *FavoriteStatus: Membership after the toggle plus the new count
  - error: NotFound for an unknown card, or storage failures
*/
func (service *Service) ToggleFavorite(context context.Context, userID, cardID string) (*FavoriteStatus, error) {

	// Reject unknown cards up front so a favorite can never point at nothing.
	if _, err := service.cardRepository.FindByID(context, cardID); err != nil {
		return nil, err
	}

	// Try to add first; a no-op add means the membership existed, so remove.
	added, err := service.favoriteRepository.Add(context, userID, cardID)
	if err != nil {
		return nil, fmt.Errorf("card_service_toggle_add_failed: %w", err)
	}

	isFavoriteNow := true
	if !added {
		if _, err := service.favoriteRepository.Remove(context, userID, cardID); err != nil {
			return nil, fmt.Errorf("card_service_toggle_remove_failed: %w", err)
		}
		isFavoriteNow = false
	}

	count, err := service.favoriteRepository.CountForCard(context, cardID)
	if err != nil {
		return nil, fmt.Errorf("card_service_toggle_count_failed: %w", err)
	}

	return &FavoriteStatus{
		IsFavoriteNow: isFavoriteNow,
		NewCount:      count,
	}, nil
}
