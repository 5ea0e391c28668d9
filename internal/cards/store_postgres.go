// Copyright (c) 2026 Cardbase. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// PostgreSQL implementations of the cards repositories.
package cards

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Sy2force/cardbase/internal/platform/apperr"
	"github.com/Sy2force/cardbase/internal/platform/dberr"
)

// cardColumns is the canonical select list, including the derived favorite count.
const cardColumns = `
	c.id, c.ownerid, c.businessnumber, c.slug,
	c.title, c.subtitle, c.description, c.phone, c.email, c.web,
	c.imageurl, c.imagealt,
	c.country, c.city, c.street, c.housenumber, c.zip,
	(SELECT count(*) FROM cards.favorite f WHERE f.cardid = c.id) AS favoritecount,
	c.createdat, c.updatedat`

// scanCard hydrates a Card from a row using the cardColumns order.
func scanCard(row pgx.Row) (*Card, error) {
	card := &Card{}
	err := row.Scan(
		&card.ID,
		&card.OwnerID,
		&card.BusinessNumber,
		&card.Slug,
		&card.Title,
		&card.Subtitle,
		&card.Description,
		&card.Phone,
		&card.Email,
		&card.Web,
		&card.ImageURL,
		&card.ImageAlt,
		&card.Country,
		&card.City,
		&card.Street,
		&card.HouseNumber,
		&card.Zip,
		&card.FavoriteCount,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	return card, err
}

// # Card Repository

// PostgresCardRepository implements the CardRepository interface using pgx.
type PostgresCardRepository struct {
	pool *pgxpool.Pool
}

// NewCardRepository creates a new PostgreSQL implementation of the CardRepository.
func NewCardRepository(pool *pgxpool.Pool) *PostgresCardRepository {
	return &PostgresCardRepository{pool: pool}
}

/*
FindByID retrieves a card by its unique ID.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *Card: Hydrated card entity with its favorite count
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresCardRepository) FindByID(context context.Context, id string) (*Card, error) {
	query := fmt.Sprintf(`SELECT %s FROM cards.card c WHERE c.id = $1`, cardColumns)

	card, err := scanCard(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Card")
		}
		return nil, fmt.Errorf("postgres_card_repo_find_by_id_failed: %w", err)
	}

	return card, nil
}

/*
ExistsByBusinessNumber reports whether any card holds the given number.

Description: Best-effort pre-check for the allocator. Two concurrent
allocators can both pass this check for the same value; the unique
constraint on businessnumber catches the loser at insert time.

Parameters:
  - context: context.Context
  - number: int

Returns:
  - bool: true if taken
  - error: Execution errors
*/
func (repository *PostgresCardRepository) ExistsByBusinessNumber(context context.Context, number int) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM cards.card WHERE businessnumber = $1)`

	var exists bool
	if err := repository.pool.QueryRow(context, query, number).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_card_repo_exists_by_number_failed: %w", err)
	}

	return exists, nil
}

/*
Create persists a new card record into the cards.card table.

Description: Deep-persists the card, initializing timestamps. A duplicate
businessnumber violates the card_businessnumber_key constraint and surfaces
as 409 Conflict via dberr.

Parameters:
  - context: context.Context
  - card: *Card

Returns:
  - error: Conflict on duplicate business number, or connectivity errors
*/
func (repository *PostgresCardRepository) Create(context context.Context, card *Card) error {
	const query = `
		INSERT INTO cards.card (
			id, ownerid, businessnumber, slug,
			title, subtitle, description, phone, email, web,
			imageurl, imagealt,
			country, city, street, housenumber, zip,
			createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	now := time.Now()
	if card.CreatedAt.IsZero() {
		card.CreatedAt = now
	}
	card.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		card.ID,
		card.OwnerID,
		card.BusinessNumber,
		card.Slug,
		card.Title,
		card.Subtitle,
		card.Description,
		card.Phone,
		card.Email,
		card.Web,
		card.ImageURL,
		card.ImageAlt,
		card.Country,
		card.City,
		card.Street,
		card.HouseNumber,
		card.Zip,
		card.CreatedAt,
		card.UpdatedAt,
	)

	return dberr.Wrap(err, "create_card")
}

/*
Update persists changes to a card's descriptive fields.

Description: OwnerID and BusinessNumber are immutable and never part of the
SET clause. A zero rows-affected result means the card vanished between the
ownership guard and this write; it is reported as NotFound, not a crash.

Parameters:
  - context: context.Context
  - card: *Card

Returns:
  - error: apperr.NotFound or update failures
*/
func (repository *PostgresCardRepository) Update(context context.Context, card *Card) error {
	const query = `
		UPDATE cards.card
		SET slug = $2, title = $3, subtitle = $4, description = $5,
		    phone = $6, email = $7, web = $8, imageurl = $9, imagealt = $10,
		    country = $11, city = $12, street = $13, housenumber = $14, zip = $15,
		    updatedat = $16
		WHERE id = $1`

	card.UpdatedAt = time.Now()
	commandTag, err := repository.pool.Exec(context, query,
		card.ID,
		card.Slug,
		card.Title,
		card.Subtitle,
		card.Description,
		card.Phone,
		card.Email,
		card.Web,
		card.ImageURL,
		card.ImageAlt,
		card.Country,
		card.City,
		card.Street,
		card.HouseNumber,
		card.Zip,
		card.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_card_repo_update_failed: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

/*
Delete permanently removes a card by ID.

Description: The favorite join table declares ON DELETE CASCADE on cardid,
so the same statement prunes the card from every user's favorite set.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound or execution failures
*/
func (repository *PostgresCardRepository) Delete(context context.Context, id string) error {
	const query = "DELETE FROM cards.card WHERE id = $1"

	commandTag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_card_repo_delete_failed: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

/*
List returns a filtered page of cards with the total matching count.

Parameters:
  - context: context.Context
  - filter: Filter (Query matches title/subtitle, case-insensitive)
  - limit: int
  - offset: int

Returns:
  - []*Card: Page of cards, newest first
  - int: Total matching count
  - error: Retrieval failures
*/
func (repository *PostgresCardRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Card, int, error) {
	query := fmt.Sprintf(`SELECT %s FROM cards.card c`, cardColumns)
	countQuery := `SELECT count(*) FROM cards.card c`

	args := []any{}
	countArgs := []any{}

	if filter.Query != "" {
		searchTerm := "%" + filter.Query + "%"
		query += ` WHERE (c.title ILIKE $1 OR c.subtitle ILIKE $1)`
		countQuery += ` WHERE (c.title ILIKE $1 OR c.subtitle ILIKE $1)`
		args = append(args, searchTerm)
		countArgs = append(countArgs, searchTerm)
	}

	query += fmt.Sprintf(" ORDER BY c.createdat DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var total int
	if err := repository.pool.QueryRow(context, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_cards")
	}

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_cards")
	}
	defer rows.Close()

	cards, err := collectCards(rows)
	if err != nil {
		return nil, 0, err
	}

	return cards, total, nil
}

/*
ListByOwner returns a page of cards owned by the given account.

Parameters:
  - context: context.Context
  - ownerID: string
  - limit: int
  - offset: int

Returns:
  - []*Card: Page of cards, newest first
  - int: Total count for this owner
  - error: Retrieval failures
*/
func (repository *PostgresCardRepository) ListByOwner(context context.Context, ownerID string, limit, offset int) ([]*Card, int, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM cards.card c
		WHERE c.ownerid = $1
		ORDER BY c.createdat DESC
		LIMIT $2 OFFSET $3`, cardColumns)
	const countQuery = `SELECT count(*) FROM cards.card WHERE ownerid = $1`

	var total int
	if err := repository.pool.QueryRow(context, countQuery, ownerID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_owner_cards")
	}

	rows, err := repository.pool.Query(context, query, ownerID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_owner_cards")
	}
	defer rows.Close()

	cards, err := collectCards(rows)
	if err != nil {
		return nil, 0, err
	}

	return cards, total, nil
}

/*
ListFavorites returns a page of cards in the user's favorite set.

Description: Joins through cards.favorite, so entries for deleted cards can
never appear (the FK cascade removed them with the card).

Parameters:
  - context: context.Context
  - userID: string
  - limit: int
  - offset: int

Returns:
  - []*Card: Page of favorited cards, most recently favorited first
  - int: Total favorite count for this user
  - error: Retrieval failures
*/
func (repository *PostgresCardRepository) ListFavorites(context context.Context, userID string, limit, offset int) ([]*Card, int, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM cards.card c
		JOIN cards.favorite fav ON fav.cardid = c.id
		WHERE fav.userid = $1
		ORDER BY fav.createdat DESC
		LIMIT $2 OFFSET $3`, cardColumns)
	const countQuery = `SELECT count(*) FROM cards.favorite WHERE userid = $1`

	var total int
	if err := repository.pool.QueryRow(context, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_favorites")
	}

	rows, err := repository.pool.Query(context, query, userID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_favorites")
	}
	defer rows.Close()

	cards, err := collectCards(rows)
	if err != nil {
		return nil, 0, err
	}

	return cards, total, nil
}

// collectCards drains a row set into hydrated Card entities.
func collectCards(rows pgx.Rows) ([]*Card, error) {
	var cards []*Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_card")
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// # Favorite Repository

// PostgresFavoriteRepository implements FavoriteRepository with atomic
// single-statement membership operations.
type PostgresFavoriteRepository struct {
	pool *pgxpool.Pool
}

// NewFavoriteRepository creates a new PostgreSQL implementation of FavoriteRepository.
func NewFavoriteRepository(pool *pgxpool.Pool) *PostgresFavoriteRepository {
	return &PostgresFavoriteRepository{pool: pool}
}

/*
Add inserts the membership if absent.

Description: Conditional insert via ON CONFLICT DO NOTHING against the
composite primary key. Concurrent duplicate adds collapse into one row;
exactly one caller observes true.

Parameters:
  - context: context.Context
  - userID: string
  - cardID: string

Returns:
  - bool: true if the membership was created
  - error: Persistence failures
*/
func (repository *PostgresFavoriteRepository) Add(context context.Context, userID, cardID string) (bool, error) {
	const query = `
		INSERT INTO cards.favorite (userid, cardid, createdat)
		VALUES ($1, $2, $3)
		ON CONFLICT (userid, cardid) DO NOTHING`

	commandTag, err := repository.pool.Exec(context, query, userID, cardID, time.Now())
	if err != nil {
		return false, fmt.Errorf("postgres_favorite_repo_add_failed: %w", err)
	}

	return commandTag.RowsAffected() == 1, nil
}

/*
Remove deletes the membership if present.

Description: Keyed delete against the composite primary key. Concurrent
duplicate removes collapse; exactly one caller observes true.

Parameters:
  - context: context.Context
  - userID: string
  - cardID: string

Returns:
  - bool: true if the membership was removed
  - error: Persistence failures
*/
func (repository *PostgresFavoriteRepository) Remove(context context.Context, userID, cardID string) (bool, error) {
	const query = "DELETE FROM cards.favorite WHERE userid = $1 AND cardid = $2"

	commandTag, err := repository.pool.Exec(context, query, userID, cardID)
	if err != nil {
		return false, fmt.Errorf("postgres_favorite_repo_remove_failed: %w", err)
	}

	return commandTag.RowsAffected() == 1, nil
}

/*
CountForCard returns the current favorite count for a card.

Parameters:
  - context: context.Context
  - cardID: string

Returns:
  - int: Current favorite count
  - error: Retrieval failures
*/
func (repository *PostgresFavoriteRepository) CountForCard(context context.Context, cardID string) (int, error) {
	const query = "SELECT count(*) FROM cards.favorite WHERE cardid = $1"

	var count int
	if err := repository.pool.QueryRow(context, query, cardID).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres_favorite_repo_count_failed: %w", err)
	}

	return count, nil
}
