package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tesouraria/tesouraria-backend/internal/domain"
)

// ProfileService manages the application-side member record. Sensitive
// operations (email change, account deletion) require the caller's token to
// have been issued recently; stale sessions must re-authenticate first.
type ProfileService struct {
	profileRepo  domain.ProfileRepository
	reauthMaxAge time.Duration
	timeout      time.Duration
}

// NewProfileService creates a new ProfileService
func NewProfileService(profileRepo domain.ProfileRepository, reauthMaxAge, timeout time.Duration) *ProfileService {
	if reauthMaxAge <= 0 {
		reauthMaxAge = 5 * time.Minute
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ProfileService{
		profileRepo:  profileRepo,
		reauthMaxAge: reauthMaxAge,
		timeout:      timeout,
	}
}

// Profile fetches the member's profile, creating it on first login from the
// token's subject and email claims.
func (s *ProfileService) Profile(ctx context.Context, authID, email string, name *string) (*domain.Profile, error) {
	getCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.profileRepo.CreateOrGetByAuthID(getCtx, authID, email, name)
}

// UpdateProfileInput holds the mutable display fields of a profile
type UpdateProfileInput struct {
	Name  *string
	Phone *string
}

// UpdateProfile updates name and phone. Nil fields are left untouched.
func (s *ProfileService) UpdateProfile(ctx context.Context, authID string, input UpdateProfileInput) (*domain.Profile, error) {
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed == "" {
			return nil, domain.ErrNameRequired
		}
		if len(trimmed) > domain.MaxNameLength {
			return nil, domain.ErrNameTooLong
		}
		input.Name = &trimmed
	}

	updateCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.profileRepo.Update(updateCtx, authID, input.Name, input.Phone)
}

// ChangeEmail updates the stored email after checking the session is fresh
// and the address actually changes. tokenIssuedAt comes from the validated
// token's iat claim.
func (s *ProfileService) ChangeEmail(ctx context.Context, authID, newEmail string, tokenIssuedAt time.Time) (*domain.Profile, error) {
	if err := s.requireFreshToken(tokenIssuedAt); err != nil {
		return nil, err
	}

	newEmail = strings.TrimSpace(strings.ToLower(newEmail))
	if _, err := mail.ParseAddress(newEmail); err != nil {
		return nil, domain.ErrInvalidInput
	}

	getCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	current, err := s.profileRepo.GetByAuthID(getCtx, authID)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(current.Email, newEmail) {
		return nil, domain.ErrEmailUnchanged
	}

	updateCtx, cancelUpdate := context.WithTimeout(ctx, s.timeout)
	defer cancelUpdate()
	return s.profileRepo.UpdateEmail(updateCtx, authID, newEmail)
}

// DeleteAccount soft deletes the member's profile. Requires a fresh session
// like ChangeEmail; the ledger entries the member recorded are kept.
func (s *ProfileService) DeleteAccount(ctx context.Context, authID string, tokenIssuedAt time.Time) error {
	if err := s.requireFreshToken(tokenIssuedAt); err != nil {
		return err
	}

	deleteCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.profileRepo.SoftDelete(deleteCtx, authID); err != nil {
		return err
	}

	log.Info().
		Str("auth_id", authID).
		Msg("Account soft deleted")
	return nil
}

func (s *ProfileService) requireFreshToken(issuedAt time.Time) error {
	if issuedAt.IsZero() || time.Since(issuedAt) > s.reauthMaxAge {
		return domain.ErrReauthRequired
	}
	return nil
}
