// Copyright (c) 2026 Cardbase. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sy2force/cardbase/internal/platform/constants"
	"github.com/Sy2force/cardbase/internal/platform/ctxutil"
	"github.com/Sy2force/cardbase/internal/platform/middleware"
	"github.com/Sy2force/cardbase/internal/platform/sec"
)

// fakeVerifier resolves tokens from a static map and records which raw
// token string reached it.
type fakeVerifier struct {
	tokens   map[string]*sec.AuthClaims
	lastSeen string
}

func (verifier *fakeVerifier) VerifyToken(tokenStr string) (*sec.AuthClaims, error) {
	verifier.lastSeen = tokenStr
	if claims, ok := verifier.tokens[tokenStr]; ok {
		return claims, nil
	}
	return nil, sec.ErrTokenSignature
}

// probeHandler records the principal visible to the downstream handler.
func probeHandler(seen **sec.AuthClaims) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		*seen = middleware.GetUser(request.Context())
		writer.WriteHeader(http.StatusOK)
	})
}

/*
TestAuthenticate_Header verifies that a valid bearer header yields an
authenticated principal downstream.
*/
func TestAuthenticate_Header(t *testing.T) {
	verifier := &fakeVerifier{tokens: map[string]*sec.AuthClaims{
		"good-token": {UserID: "user-1", Role: string(sec.RoleUser)},
	}}

	var seen *sec.AuthClaims
	handler := middleware.Authenticate(verifier)(probeHandler(&seen))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer good-token")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "user-1", seen.UserID)
}

/*
TestAuthenticate_Cookie verifies the http-only cookie fallback for browser
clients.
*/
func TestAuthenticate_Cookie(t *testing.T) {
	verifier := &fakeVerifier{tokens: map[string]*sec.AuthClaims{
		"cookie-token": {UserID: "user-2", Role: string(sec.RoleUser)},
	}}

	var seen *sec.AuthClaims
	handler := middleware.Authenticate(verifier)(probeHandler(&seen))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(&http.Cookie{Name: constants.AccessTokenCookieName, Value: "cookie-token"})
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "user-2", seen.UserID)
}

/*
TestAuthenticate_HeaderWinsOverCookie verifies the deterministic precedence
rule when both credential sources are present.
*/
func TestAuthenticate_HeaderWinsOverCookie(t *testing.T) {
	verifier := &fakeVerifier{tokens: map[string]*sec.AuthClaims{
		"header-token": {UserID: "header-user", Role: string(sec.RoleUser)},
		"cookie-token": {UserID: "cookie-user", Role: string(sec.RoleUser)},
	}}

	var seen *sec.AuthClaims
	handler := middleware.Authenticate(verifier)(probeHandler(&seen))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer header-token")
	request.AddCookie(&http.Cookie{Name: constants.AccessTokenCookieName, Value: "cookie-token"})
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, "header-token", verifier.lastSeen)
	require.NotNil(t, seen)
	assert.Equal(t, "header-user", seen.UserID)
}

/*
TestAuthenticate_Anonymous verifies that a credential-free request proceeds
as anonymous rather than being rejected.
*/
func TestAuthenticate_Anonymous(t *testing.T) {
	verifier := &fakeVerifier{}

	var seen *sec.AuthClaims
	handler := middleware.Authenticate(verifier)(probeHandler(&seen))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Nil(t, seen)
}

/*
TestAuthenticate_InvalidToken verifies that a present-but-invalid credential
is rejected with 401 instead of degrading to anonymous.
*/
func TestAuthenticate_InvalidToken(t *testing.T) {
	verifier := &fakeVerifier{}

	var seen *sec.AuthClaims
	handler := middleware.Authenticate(verifier)(probeHandler(&seen))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer forged-token")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "TOKEN_INVALID_SIGNATURE")
	assert.Nil(t, seen)
}

/*
TestAuthenticate_MalformedHeader verifies that a broken Authorization header
is an error, not anonymity.
*/
func TestAuthenticate_MalformedHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing_scheme", "just-a-token"},
		{"wrong_scheme", "Basic dXNlcjpwYXNz"},
		{"too_many_parts", "Bearer one two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := &fakeVerifier{}

			var seen *sec.AuthClaims
			handler := middleware.Authenticate(verifier)(probeHandler(&seen))

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.Header.Set("Authorization", tt.header)
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
			assert.Nil(t, seen)
		})
	}
}

/*
TestRequireAuth verifies that protected routes reject anonymous requests and
pass authenticated ones.
*/
func TestRequireAuth(t *testing.T) {
	var seen *sec.AuthClaims
	handler := middleware.RequireAuth(probeHandler(&seen))

	t.Run("anonymous_rejected", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "TOKEN_MISSING")
	})

	t.Run("authenticated_passes", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		claims := &sec.AuthClaims{UserID: "user-1", Role: string(sec.RoleUser)}
		request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}

/*
TestRequireRole exercises the disjunctive role gate: listed roles pass,
everyone else gets 403, and anonymity stays 401.
*/
func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		role     sec.Role
		allowed  []sec.Role
		wantCode int
	}{
		{"member_passes", sec.RoleBusiness, []sec.Role{sec.RoleBusiness, sec.RoleAdmin}, http.StatusOK},
		{"admin_passes", sec.RoleAdmin, []sec.Role{sec.RoleBusiness, sec.RoleAdmin}, http.StatusOK},
		{"outsider_forbidden", sec.RoleUser, []sec.Role{sec.RoleBusiness, sec.RoleAdmin}, http.StatusForbidden},
		{"admin_only_excludes_business", sec.RoleBusiness, []sec.Role{sec.RoleAdmin}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *sec.AuthClaims
			handler := middleware.RequireRole(tt.allowed...)(probeHandler(&seen))

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			claims := &sec.AuthClaims{UserID: "user-1", Role: string(tt.role)}
			request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantCode, recorder.Code)
		})
	}

	t.Run("anonymous_gets_401_not_403", func(t *testing.T) {
		var seen *sec.AuthClaims
		handler := middleware.RequireRole(sec.RoleAdmin)(probeHandler(&seen))

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

/*
TestRequireAction verifies that the capability-map gate composes with the
role gate: publication is open to business, closed to user.
*/
func TestRequireAction(t *testing.T) {
	var seen *sec.AuthClaims
	handler := middleware.RequireAction(sec.ActionCardCreate)(probeHandler(&seen))

	t.Run("business_allowed", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/", nil)
		claims := &sec.AuthClaims{UserID: "user-1", Role: string(sec.RoleBusiness)}
		request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("user_forbidden", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/", nil)
		claims := &sec.AuthClaims{UserID: "user-1", Role: string(sec.RoleUser)}
		request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusForbidden, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "INSUFFICIENT_ROLE")
	})
}
