// Copyright (c) 2026 Cardbase. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cards

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Sy2force/cardbase/internal/platform/middleware"
	requestutil "github.com/Sy2force/cardbase/internal/platform/request"
	"github.com/Sy2force/cardbase/internal/platform/respond"
	"github.com/Sy2force/cardbase/internal/platform/sec"
	"github.com/Sy2force/cardbase/internal/platform/validate"
	"github.com/Sy2force/cardbase/pkg/pagination"
)

// Handler implements the HTTP layer for the card directory.
type Handler struct {
	cardService *Service
	guard       *OwnershipGuard
}

// NewHandler constructs a new cards [Handler].
func NewHandler(service *Service, guard *OwnershipGuard) *Handler {
	return &Handler{cardService: service, guard: guard}
}

// Routes returns a [chi.Router] configured with the card domain's endpoints.
//
// Static segments (/mine, /favorites) are registered alongside /{id}; chi
// matches the static route first so neither is shadowed.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public discovery
	router.Get("/", handler.listCards)
	router.Get("/{id}", handler.getCard)

	// Authenticated endpoints
	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)

		protected.Get("/mine", handler.listMine)
		protected.Get("/favorites", handler.listFavorites)

		protected.With(middleware.RequireAction(sec.ActionCardCreate)).
			Post("/", handler.createCard)
		protected.With(middleware.RequireAction(sec.ActionCardFavorite)).
			Patch("/{id}/favorite", handler.toggleFavorite)

		// Mutations gated by the owner-or-admin guard
		protected.Group(func(owned chi.Router) {
			owned.Use(handler.guard.RequireOwner)
			owned.Put("/{id}", handler.updateCard)
			owned.Delete("/{id}", handler.deleteCard)
		})
	})

	return router
}

// # Discovery Endpoints

/*
GET /api/v1/cards.

Description: Lists the public directory with pagination and an optional
case-insensitive search on title and subtitle via the q parameter.

Response:
  - 200: []Card + meta: Paginated directory page
*/
func (handler *Handler) listCards(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	filter := Filter{Query: request.URL.Query().Get("q")}

	cards, total, err := handler.cardService.ListCards(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, cards, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GET /api/v1/cards/{id}.

Description: Retrieves a single card. Public.

Request:
  - id: string (UUID)

Response:
  - 200: Card: Hydrated card with its favorite count
  - 404: ErrNotFound: Card not found
*/
func (handler *Handler) getCard(writer http.ResponseWriter, request *http.Request) {
	card, err := handler.cardService.GetCard(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, card)
}

/*
GET /api/v1/cards/mine.

Description: Lists the authenticated user's own cards.

Response:
  - 200: []Card + meta: Paginated list of owned cards
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) listMine(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	cards, total, err := handler.cardService.ListOwnCards(request.Context(), userID, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, cards, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GET /api/v1/cards/favorites.

Description: Lists the cards in the authenticated user's favorite set, most
recently favorited first.

Response:
  - 200: []Card + meta: Paginated favorites
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) listFavorites(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	cards, total, err := handler.cardService.ListFavoriteCards(request.Context(), userID, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, cards, pagination.NewMeta(params.Page, params.Limit, total))
}

// # Publication Endpoints

// createCardRequest defines the expected JSON payload for card creation.
type createCardRequest struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Web         string `json:"web"`
	ImageURL    string `json:"image_url"`
	ImageAlt    string `json:"image_alt"`
	Country     string `json:"country"`
	City        string `json:"city"`
	Street      string `json:"street"`
	HouseNumber int    `json:"house_number"`
	Zip         string `json:"zip"`
}

/*
POST /api/v1/cards.

Description: Publishes a new card owned by the authenticated user. The
business number is allocated server-side and is never client-supplied.
Requires the business or admin role.

Request:
  - body: createCardRequest

Response:
  - 201: Card: The created card with its allocated business number
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 403: ErrInsufficientRole: Caller holds the user role
  - 409: ErrAllocationExhausted: Number space under contention
*/
func (handler *Handler) createCard(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createCardRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldTitle, input.Title).MaxLen(FieldTitle, input.Title, 200)
	v.MaxLen(FieldSubtitle, input.Subtitle, 200)
	v.MaxLen(FieldDescription, input.Description, 2000)
	v.Required(FieldPhone, input.Phone).MaxLen(FieldPhone, input.Phone, 30)
	v.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)
	if input.Web != "" {
		v.URL(FieldWeb, input.Web)
	}
	if input.ImageURL != "" {
		v.URL(FieldImageURL, input.ImageURL)
	}
	v.MaxLen(FieldImageAlt, input.ImageAlt, 200)
	v.Required(FieldCountry, input.Country).MaxLen(FieldCountry, input.Country, 100)
	v.Required(FieldCity, input.City).MaxLen(FieldCity, input.City, 100)
	v.Required(FieldStreet, input.Street).MaxLen(FieldStreet, input.Street, 200)
	v.Range(FieldHouseNumber, input.HouseNumber, 1, 100000)
	v.MaxLen(FieldZip, input.Zip, 20)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	card, err := handler.cardService.CreateCard(request.Context(), userID, CreateCardInput{
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
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, card)
}

// updateCardRequest defines the expected JSON payload for card updates.
// Absent fields leave the current value untouched.
type updateCardRequest struct {
	Title       *string `json:"title"`
	Subtitle    *string `json:"subtitle"`
	Description *string `json:"description"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	Web         *string `json:"web"`
	ImageURL    *string `json:"image_url"`
	ImageAlt    *string `json:"image_alt"`
	Country     *string `json:"country"`
	City        *string `json:"city"`
	Street      *string `json:"street"`
	HouseNumber *int    `json:"house_number"`
	Zip         *string `json:"zip"`
}

/*
PUT /api/v1/cards/{id}.

Description: Applies partial updates to a card. The ownership guard has
already loaded the card and verified the owner-or-admin rule. Owner and
business number are immutable and not part of the payload.

Request:
  - id: string (UUID)
  - body: updateCardRequest (Partial JSON)

Response:
  - 200: Card: The updated card
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 403: ErrNotOwner: Caller is neither the owner nor an admin
  - 404: ErrNotFound: Card not found
*/
func (handler *Handler) updateCard(writer http.ResponseWriter, request *http.Request) {
	card := CardFromContext(request.Context())

	var input updateCardRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	if input.Title != nil {
		v.Required(FieldTitle, *input.Title).MaxLen(FieldTitle, *input.Title, 200)
	}
	if input.Subtitle != nil {
		v.MaxLen(FieldSubtitle, *input.Subtitle, 200)
	}
	if input.Description != nil {
		v.MaxLen(FieldDescription, *input.Description, 2000)
	}
	if input.Phone != nil {
		v.Required(FieldPhone, *input.Phone).MaxLen(FieldPhone, *input.Phone, 30)
	}
	if input.Email != nil {
		v.Email(FieldEmail, *input.Email)
	}
	if input.Web != nil && *input.Web != "" {
		v.URL(FieldWeb, *input.Web)
	}
	if input.ImageURL != nil && *input.ImageURL != "" {
		v.URL(FieldImageURL, *input.ImageURL)
	}
	if input.ImageAlt != nil {
		v.MaxLen(FieldImageAlt, *input.ImageAlt, 200)
	}
	if input.Country != nil {
		v.Required(FieldCountry, *input.Country).MaxLen(FieldCountry, *input.Country, 100)
	}
	if input.City != nil {
		v.Required(FieldCity, *input.City).MaxLen(FieldCity, *input.City, 100)
	}
	if input.Street != nil {
		v.Required(FieldStreet, *input.Street).MaxLen(FieldStreet, *input.Street, 200)
	}
	if input.HouseNumber != nil {
		v.Range(FieldHouseNumber, *input.HouseNumber, 1, 100000)
	}
	if input.Zip != nil {
		v.MaxLen(FieldZip, *input.Zip, 20)
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.cardService.UpdateCard(request.Context(), card, UpdateCardInput{
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
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

/*
DELETE /api/v1/cards/{id}.

Description: Permanently deletes a card, pruning it from every user's
favorite set in the same operation.

Request:
  - id: string (UUID)

Response:
  - 204: No Content: Card deleted
  - 403: ErrNotOwner: Caller is neither the owner nor an admin
  - 404: ErrNotFound: Card not found
*/
func (handler *Handler) deleteCard(writer http.ResponseWriter, request *http.Request) {
	card := CardFromContext(request.Context())

	if err := handler.cardService.DeleteCard(request.Context(), card.ID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Favorite Endpoints

/*
PATCH /api/v1/cards/{id}/favorite.

Description: Toggles the card's membership in the authenticated user's
favorite set. Any authenticated role may favorite any card, including
their own. Toggling twice restores the original state.

Request:
  - id: string (UUID)

Response:
  - 200: FavoriteStatus: Membership after the toggle plus the new count
  - 401: ErrUnauthorized: Authentication required
  - 404: ErrNotFound: Card not found
*/
func (handler *Handler) toggleFavorite(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	status, err := handler.cardService.ToggleFavorite(request.Context(), userID, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, status)
}
