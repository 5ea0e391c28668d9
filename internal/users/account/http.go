// Copyright (c) 2026 Cardbase. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
HTTP delivery layer for profile management and account administration.

# Security

All endpoints require an authenticated principal. Admin-only endpoints are
additionally gated by the role capability map via RequireAction.
*/
package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Sy2force/cardbase/internal/platform/apperr"
	"github.com/Sy2force/cardbase/internal/platform/middleware"
	requestutil "github.com/Sy2force/cardbase/internal/platform/request"
	"github.com/Sy2force/cardbase/internal/platform/respond"
	"github.com/Sy2force/cardbase/internal/platform/sec"
	"github.com/Sy2force/cardbase/internal/platform/validate"
	"github.com/Sy2force/cardbase/internal/users/auth"
	"github.com/Sy2force/cardbase/pkg/pagination"
)

// Handler implements the HTTP layer for user account management.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the account domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	// Own-account management
	router.Get("/me", handler.getMe)
	router.Patch("/me", handler.updateMe)
	router.Delete("/me", handler.deleteMe)

	// Account resolution (self or admin)
	router.Get("/{id}", handler.getUser)
	router.Delete("/{id}", handler.deleteUser)

	// Administrative endpoints
	router.With(middleware.RequireAction(sec.ActionUserList)).
		Get("/", handler.listUsers)
	router.With(middleware.RequireAction(sec.ActionUserRoleChange)).
		Patch("/{id}/role", handler.changeRole)

	return router
}

// # Own-Account Endpoints

/*
GET /api/v1/users/me.

Description: Retrieves the full private profile of the authenticated user.

Response:
  - 200: User: Fully hydrated user profile
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// updateMeRequest defines the expected JSON payload for profile updates.
type updateMeRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
}

/*
PATCH /api/v1/users/me.

Description: Applies partial updates to the authenticated user's profile.

Request:
  - body: updateMeRequest (Partial JSON)

Response:
  - 200: User: The updated profile
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateMeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	if input.FirstName != nil {
		v.Required(auth.FieldFirstName, *input.FirstName).MaxLen(auth.FieldFirstName, *input.FirstName, 100)
	}
	if input.LastName != nil {
		v.Required(auth.FieldLastName, *input.LastName).MaxLen(auth.FieldLastName, *input.LastName, 100)
	}
	if input.Phone != nil {
		v.MaxLen(auth.FieldPhone, *input.Phone, 30)
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), userID, UpdateProfileInput{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
DELETE /api/v1/users/me.

Description: Permanently deletes the authenticated user's account, cascading
to their favorites and owned cards.

Response:
  - 204: No Content: Account deleted successfully
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) deleteMe(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.DeleteAccount(request.Context(), claims, claims.UserID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Account Resolution Endpoints

/*
GET /api/v1/users/{id}.

Description: Retrieves a specific account. Allowed for the account owner or
an admin; anyone else receives 403.

Request:
  - id: string (UUID)

Response:
  - 200: User: Account data
  - 403: ErrForbidden: Not self and not admin
  - 404: ErrNotFound: User not found
*/
func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	targetID := requestutil.ID(request, "id")
	if claims.UserID != targetID && !sec.Role(claims.Role).In(sec.RoleAdmin) {
		respond.Error(writer, request, apperr.Forbidden("Only the account owner or an admin may view this account"))
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), targetID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
DELETE /api/v1/users/{id}.

Description: Deletes a specific account. The owner-or-admin rule is enforced
in the service.

Request:
  - id: string (UUID)

Response:
  - 204: No Content: Account deleted
  - 403: ErrForbidden: Not self and not admin
  - 404: ErrNotFound: User not found
*/
func (handler *Handler) deleteUser(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	targetID := requestutil.ID(request, "id")
	if err := handler.accountService.DeleteAccount(request.Context(), claims, targetID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Administrative Endpoints

/*
GET /api/v1/users.

Description: Enumerates registered accounts with pagination. Admin only.

Response:
  - 200: []User + meta: Paginated account list
  - 403: ErrInsufficientRole: Caller is not an admin
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	users, total, err := handler.accountService.ListUsers(request.Context(), params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(params.Page, params.Limit, total))
}

// changeRoleRequest defines the expected JSON payload for role changes.
type changeRoleRequest struct {
	Role string `json:"role"`
}

/*
PATCH /api/v1/users/{id}/role.

Description: Sets a new role on the target account. Admin only; never
self-targeted. The change takes effect on the target's next login.

Request:
  - id: string (UUID)
  - body: changeRoleRequest (Role)

Response:
  - 200: User: Updated account
  - 400: Validation: Unknown role string
  - 403: ErrForbidden: Self-targeted change or insufficient role
  - 404: ErrNotFound: Target not found
*/
func (handler *Handler) changeRole(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changeRoleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Closed role set: free-form strings are rejected at the boundary.
	role, err := sec.ParseRole(input.Role)
	if err != nil {
		respond.Error(writer, request, validate.RequiredError("role", "Must be one of: user, business, admin"))
		return
	}

	targetID := requestutil.ID(request, "id")
	user, err := handler.accountService.ChangeRole(request.Context(), claims.UserID, targetID, role)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
