// Copyright (c) 2026 Cardbase. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cards implements the business-card directory domain.

It defines the Card entity and the logic for publishing, mutating, and
discovering cards, including the two concurrency-sensitive mechanisms of
the system: collision-free business-number allocation and the idempotent
favorite toggle.

# Architecture

  - Entity: Card, owned by exactly one account for its whole lifetime.
  - Ownership: Only the owner or an admin may mutate or delete a card;
    the ownership guard pre-loads the card into the request context.
  - Uniqueness: The business number is unique across the directory. The
    allocator pre-check is best-effort; the store's unique constraint is
    the authoritative mechanism.
*/
package cards

import "time"

// # Domain Entities

// Card represents a published business card in the directory.
//
// OwnerID and BusinessNumber are immutable after creation.
type Card struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`

	// BusinessNumber is the public 6-digit identifier, unique across the
	// directory, in the closed range [100000, 999999].
	BusinessNumber int `json:"business_number"`

	// Slug is a URL-safe identifier derived from the title. Descriptive
	// only; lookups use the UUID.
	Slug string `json:"slug"`

	Title       string `json:"title"`
	Subtitle    string `json:"subtitle,omitempty"`
	Description string `json:"description,omitempty"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Web         string `json:"web,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	ImageAlt    string `json:"image_alt,omitempty"`

	// Address
	Country     string `json:"country"`
	City        string `json:"city"`
	Street      string `json:"street"`
	HouseNumber int    `json:"house_number"`
	Zip         string `json:"zip,omitempty"`

	// FavoriteCount is derived from the favorite join table at read time.
	FavoriteCount int `json:"favorite_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FavoriteStatus is the result of a favorite toggle.
type FavoriteStatus struct {
	// IsFavoriteNow reports membership after the toggle was applied.
	IsFavoriteNow bool `json:"is_favorite_now"`

	// NewCount is the card's favorite count after the toggle.
	NewCount int `json:"new_count"`
}

// Filter narrows card list queries.
type Filter struct {
	// Query matches title and subtitle, case-insensitively.
	Query string
}

// # Field Identifiers

// Global field names for validation in the cards domain.
const (
	FieldTitle       = "title"
	FieldSubtitle    = "subtitle"
	FieldDescription = "description"
	FieldPhone       = "phone"
	FieldEmail       = "email"
	FieldWeb         = "web"
	FieldImageURL    = "image_url"
	FieldImageAlt    = "image_alt"
	FieldCountry     = "country"
	FieldCity        = "city"
	FieldStreet      = "street"
	FieldHouseNumber = "house_number"
	FieldZip         = "zip"
)
