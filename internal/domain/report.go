package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Report records a generated CSV export: where the file went and whether the
// row upload to the spreadsheet service succeeded. The CSV itself lives in
// object storage.
type Report struct {
	ID            uuid.UUID  `json:"id"`
	Collection    Collection `json:"colecao"`
	CategoryID    uuid.UUID  `json:"categoriaId"`
	SubcategoryID uuid.UUID  `json:"subcategoriaId"`
	ObjectKey     string     `json:"objectKey"`
	RowCount      int        `json:"rowCount"`
	Uploaded      bool       `json:"uploaded"`
	CreatedAt     time.Time  `json:"createdAt"`
}

type ReportRepository interface {
	Create(ctx context.Context, report *Report) (*Report, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Report, error)
	List(ctx context.Context, limit int) ([]*Report, error)
}
