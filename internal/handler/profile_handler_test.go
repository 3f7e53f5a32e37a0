package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/labstack/echo/v4"
	"github.com/tesouraria/tesouraria-backend/internal/domain"
	"github.com/tesouraria/tesouraria-backend/internal/middleware"
	"github.com/tesouraria/tesouraria-backend/internal/service"
	"github.com/tesouraria/tesouraria-backend/internal/testutil"
)

// Helper to set up auth context with claims and a token issue time
func setupAuthContext(c echo.Context, authID, email, name string, issuedAt time.Time) {
	customClaims := &middleware.CustomClaims{
		Email: email,
		Name:  name,
	}
	claims := &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Subject: authID,
		},
		CustomClaims: customClaims,
	}
	if !issuedAt.IsZero() {
		claims.RegisteredClaims.IssuedAt = issuedAt.Unix()
	}
	ctx := context.WithValue(c.Request().Context(), middleware.ClaimsKey, claims)
	ctx = context.WithValue(ctx, middleware.AuthIDKey, authID)
	c.SetRequest(c.Request().WithContext(ctx))
}

func newProfileHandlerFixture() (*ProfileHandler, *testutil.MockProfileRepository) {
	repo := testutil.NewMockProfileRepository()
	profileService := service.NewProfileService(repo, 5*time.Minute, time.Second)
	return NewProfileHandler(profileService), repo
}

func TestGetProfile_CreatesFromClaims(t *testing.T) {
	e := echo.New()
	handler, _ := newProfileHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, "auth0|member1", "tesoureiro@igreja.org", "João", time.Now())

	if err := handler.GetProfile(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var profile domain.Profile
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if profile.Email != "tesoureiro@igreja.org" {
		t.Errorf("Expected email from claims, got %s", profile.Email)
	}
	if profile.Name == nil || *profile.Name != "João" {
		t.Errorf("Expected name João, got %v", profile.Name)
	}
}

func TestGetProfile_MissingAuth(t *testing.T) {
	e := echo.New()
	handler, _ := newProfileHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// No auth context

	if err := handler.GetProfile(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestChangeEmail_StaleTokenForbidden(t *testing.T) {
	e := echo.New()
	handler, repo := newProfileHandlerFixture()
	_, _ = repo.CreateOrGetByAuthID(context.Background(), "auth0|member1", "old@igreja.org", nil)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/profile/email", strings.NewReader(`{"email":"new@igreja.org"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, "auth0|member1", "old@igreja.org", "", time.Now().Add(-time.Hour))

	if err := handler.ChangeEmail(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected status 403 for stale token, got %d", rec.Code)
	}
}

func TestChangeEmail_FreshTokenSucceeds(t *testing.T) {
	e := echo.New()
	handler, repo := newProfileHandlerFixture()
	_, _ = repo.CreateOrGetByAuthID(context.Background(), "auth0|member1", "old@igreja.org", nil)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/profile/email", strings.NewReader(`{"email":"new@igreja.org"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, "auth0|member1", "old@igreja.org", "", time.Now())

	if err := handler.ChangeEmail(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var profile domain.Profile
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if profile.Email != "new@igreja.org" {
		t.Errorf("Expected updated email, got %s", profile.Email)
	}
}

func TestDeleteAccount_RequiresFreshToken(t *testing.T) {
	e := echo.New()
	handler, repo := newProfileHandlerFixture()
	_, _ = repo.CreateOrGetByAuthID(context.Background(), "auth0|member1", "old@igreja.org", nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/profile", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, "auth0|member1", "old@igreja.org", "", time.Now().Add(-time.Hour))

	if err := handler.DeleteAccount(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", rec.Code)
	}

	// Fresh token deletes
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/profile", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	setupAuthContext(c, "auth0|member1", "old@igreja.org", "", time.Now())

	if err := handler.DeleteAccount(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}
}
