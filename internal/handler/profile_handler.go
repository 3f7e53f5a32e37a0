package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tesouraria/tesouraria-backend/internal/middleware"
	"github.com/tesouraria/tesouraria-backend/internal/service"
)

// ProfileHandler handles profile-related HTTP requests
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GetProfile handles GET /profile. The profile is created from the token
// claims on first access.
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	authID := middleware.GetAuthID(c)
	if authID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var email string
	var name *string
	if claims := middleware.GetCustomClaims(c); claims != nil {
		email = claims.Email
		if claims.Name != "" {
			name = &claims.Name
		}
	}

	profile, err := h.profileService.Profile(c.Request().Context(), authID, email, name)
	if err != nil {
		return MapDomainError(c, err)
	}

	return c.JSON(http.StatusOK, profile)
}

// UpdateProfileRequest represents the update profile request body
type UpdateProfileRequest struct {
	Name  *string `json:"nome,omitempty"`
	Phone *string `json:"telefone,omitempty"`
}

// UpdateProfile handles PUT /profile
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	authID := middleware.GetAuthID(c)
	if authID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	profile, err := h.profileService.UpdateProfile(c.Request().Context(), authID, service.UpdateProfileInput{
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		return MapDomainError(c, err)
	}

	return c.JSON(http.StatusOK, profile)
}

// ChangeEmailRequest represents the change email request body
type ChangeEmailRequest struct {
	Email string `json:"email"`
}

// ChangeEmail handles PUT /profile/email. The session must be fresh; stale
// tokens get a 403 and the client re-authenticates first.
func (h *ProfileHandler) ChangeEmail(c echo.Context) error {
	authID := middleware.GetAuthID(c)
	if authID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req ChangeEmailRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if req.Email == "" {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "email", Message: "Email is required"},
		})
	}

	profile, err := h.profileService.ChangeEmail(c.Request().Context(), authID, req.Email, middleware.GetTokenIssuedAt(c))
	if err != nil {
		return MapDomainError(c, err)
	}

	return c.JSON(http.StatusOK, profile)
}

// DeleteAccount handles DELETE /profile. Soft deletes the profile; requires
// a fresh session like ChangeEmail.
func (h *ProfileHandler) DeleteAccount(c echo.Context) error {
	authID := middleware.GetAuthID(c)
	if authID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	if err := h.profileService.DeleteAccount(c.Request().Context(), authID, middleware.GetTokenIssuedAt(c)); err != nil {
		return MapDomainError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
