package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tesouraria/tesouraria-backend/internal/domain"
)

// ProfileRepository implements domain.ProfileRepository using PostgreSQL
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

const profileColumns = `id, auth_id, name, email, phone, created_at, updated_at, deleted_at`

// GetByAuthID retrieves a profile by the auth provider's subject
func (r *ProfileRepository) GetByAuthID(ctx context.Context, authID string) (*domain.Profile, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE auth_id = $1 AND deleted_at IS NULL`,
		authID,
	)
	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// CreateOrGetByAuthID creates a profile on first login or returns the
// existing one.
func (r *ProfileRepository) CreateOrGetByAuthID(ctx context.Context, authID, email string, name *string) (*domain.Profile, error) {
	profile, err := r.GetByAuthID(ctx, authID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, domain.ErrProfileNotFound) {
		return nil, err
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO profiles (auth_id, email, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (auth_id) DO UPDATE SET updated_at = now()
		RETURNING `+profileColumns,
		authID, email, textFromPtr(name),
	)
	return scanProfile(row)
}

// Update changes name and phone of a profile
func (r *ProfileRepository) Update(ctx context.Context, authID string, name, phone *string) (*domain.Profile, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE profiles
		SET name = COALESCE($2, name), phone = COALESCE($3, phone), updated_at = now()
		WHERE auth_id = $1 AND deleted_at IS NULL
		RETURNING `+profileColumns,
		authID, textFromPtr(name), textFromPtr(phone),
	)
	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// UpdateEmail records the new email after the auth provider confirmed it
func (r *ProfileRepository) UpdateEmail(ctx context.Context, authID, email string) (*domain.Profile, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE profiles
		SET email = $2, updated_at = now()
		WHERE auth_id = $1 AND deleted_at IS NULL
		RETURNING `+profileColumns,
		authID, email,
	)
	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// SoftDelete marks the profile deleted; the ledger keeps its history
func (r *ProfileRepository) SoftDelete(ctx context.Context, authID string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE profiles
		SET deleted_at = now(), updated_at = now()
		WHERE auth_id = $1 AND deleted_at IS NULL`,
		authID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var (
		p         domain.Profile
		name      pgtype.Text
		phone     pgtype.Text
		deletedAt pgtype.Timestamptz
	)
	err := row.Scan(&p.ID, &p.AuthID, &name, &p.Email, &phone, &p.CreatedAt, &p.UpdatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}
	p.Name = textOrNil(name)
	p.Phone = textOrNil(phone)
	if deletedAt.Valid {
		t := deletedAt.Time
		p.DeletedAt = &t
	}
	return &p, nil
}
