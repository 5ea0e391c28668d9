// Copyright (c) 2026 Cardbase. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cards

import "context"

// # Card Data Access

// CardRepository defines the data access contract for cards.
type CardRepository interface {

	/*
		FindByID returns the card with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Card: Hydrated entity with its favorite count
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByID(context context.Context, id string) (*Card, error)

	/*
		ExistsByBusinessNumber reports whether a card already holds the number.
		Best-effort pre-check for the allocator; the unique constraint on the
		businessnumber column remains authoritative.

		Parameters:
		  - context: context.Context
		  - number: int

		Returns:
		  - bool: true if the number is taken
		  - error: Retrieval failures
	*/
	ExistsByBusinessNumber(context context.Context, number int) (bool, error)

	/*
		Create persists a brand-new card. A unique-constraint violation on
		businessnumber surfaces as a 409 Conflict for the caller to retry
		allocation-and-insert as a unit.

		Parameters:
		  - context: context.Context
		  - card: *Card

		Returns:
		  - error: Conflict or persistence failures
	*/
	Create(context context.Context, card *Card) error

	/*
		Update persists changes to the card's descriptive fields. OwnerID and
		BusinessNumber are never touched.

		Parameters:
		  - context: context.Context
		  - card: *Card

		Returns:
		  - error: apperr.NotFound when the row vanished, or persistence failures
	*/
	Update(context context.Context, card *Card) error

	/*
		Delete permanently removes the card. The favorite join table's
		ON DELETE CASCADE prunes the card from every user's favorite set.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: apperr.NotFound or execution failures
	*/
	Delete(context context.Context, id string) error

	/*
		List returns a filtered page of cards with the total count.

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
	List(context context.Context, filter Filter, limit, offset int) ([]*Card, int, error)

	/*
		ListByOwner returns a page of cards owned by the given account.

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
	ListByOwner(context context.Context, ownerID string, limit, offset int) ([]*Card, int, error)

	/*
		ListFavorites returns a page of cards in the user's favorite set.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - limit: int
		  - offset: int

		Returns:
		  - []*Card: Page of favorited cards
		  - int: Total favorite count for this user
		  - error: Retrieval failures
	*/
	ListFavorites(context context.Context, userID string, limit, offset int) ([]*Card, int, error)
}

// # Favorite Set Access

// FavoriteRepository defines atomic membership operations on a user's
// favorite set.
//
// # Atomicity
//
// Both operations are single-statement store primitives (conditional insert,
// keyed delete), never fetch-modify-save round trips. This closes the lost
// update race when the same user toggles from two sessions concurrently.
type FavoriteRepository interface {

	/*
		Add inserts the (userID, cardID) membership if absent.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - cardID: string

		Returns:
		  - bool: true if the membership was created, false if it already existed
		  - error: Persistence failures
	*/
	Add(context context.Context, userID, cardID string) (bool, error)

	/*
		Remove deletes the (userID, cardID) membership if present.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - cardID: string

		Returns:
		  - bool: true if the membership was removed, false if it was absent
		  - error: Persistence failures
	*/
	Remove(context context.Context, userID, cardID string) (bool, error)

	/*
		CountForCard returns the number of users currently favoriting the card.

		Parameters:
		  - context: context.Context
		  - cardID: string

		Returns:
		  - int: Current favorite count
		  - error: Retrieval failures
	*/
	CountForCard(context context.Context, cardID string) (int, error)
}
