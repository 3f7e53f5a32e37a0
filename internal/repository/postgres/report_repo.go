package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tesouraria/tesouraria-backend/internal/domain"
)

// ReportRepository implements domain.ReportRepository using PostgreSQL
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

const reportColumns = `id, collection, category_id, subcategory_id, object_key, row_count, uploaded, created_at`

// Create records metadata for a generated report
func (r *ReportRepository) Create(ctx context.Context, report *domain.Report) (*domain.Report, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO reports (collection, category_id, subcategory_id, object_key, row_count, uploaded)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+reportColumns,
		string(report.Collection), report.CategoryID, report.SubcategoryID,
		report.ObjectKey, report.RowCount, report.Uploaded,
	)
	return scanReport(row)
}

// GetByID retrieves one report
func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+reportColumns+`
		FROM reports
		WHERE id = $1`,
		id,
	)
	report, err := scanReport(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReportNotFound
		}
		return nil, err
	}
	return report, nil
}

// List retrieves the most recent reports
func (r *ReportRepository) List(ctx context.Context, limit int) ([]*domain.Report, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+reportColumns+`
		FROM reports
		ORDER BY created_at DESC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []*domain.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

func scanReport(row pgx.Row) (*domain.Report, error) {
	var (
		rep        domain.Report
		collection string
	)
	err := row.Scan(&rep.ID, &collection, &rep.CategoryID, &rep.SubcategoryID,
		&rep.ObjectKey, &rep.RowCount, &rep.Uploaded, &rep.CreatedAt)
	if err != nil {
		return nil, err
	}
	rep.Collection = domain.Collection(collection)
	return &rep, nil
}
