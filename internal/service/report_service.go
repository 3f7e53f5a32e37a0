package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tesouraria/tesouraria-backend/internal/domain"
	"github.com/tesouraria/tesouraria-backend/internal/repository/storage"
	"github.com/tesouraria/tesouraria-backend/internal/sheets"
)

// utf8BOM marks the CSV as UTF-8 so spreadsheet applications render the
// accented Portuguese labels correctly.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// csvHeader is the fixed column order of every export.
var csvHeader = []string{"Categoria", "Data", "Mensagem", "Quantia", "Tipo", "Titulo"}

// ReportService builds CSV exports from the ledger, stores them, and pushes
// the rows to the configured spreadsheet service.
type ReportService struct {
	transactionRepo domain.TransactionRepository
	reportRepo      domain.ReportRepository
	store           storage.ReportStore
	appender        sheets.RowAppender
	timeout         time.Duration
}

// NewReportService creates a new ReportService
func NewReportService(
	transactionRepo domain.TransactionRepository,
	reportRepo domain.ReportRepository,
	store storage.ReportStore,
	appender sheets.RowAppender,
	timeout time.Duration,
) *ReportService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ReportService{
		transactionRepo: transactionRepo,
		reportRepo:      reportRepo,
		store:           store,
		appender:        appender,
		timeout:         timeout,
	}
}

// RowsFor converts transactions into report rows. Dates are formatted as
// YYYY-MM-DD and amounts with exactly two decimal places and a dot separator;
// a missing amount renders as "0.00". The sign never appears in the amount
// column, direction is the Tipo column.
func RowsFor(transactions []*domain.Transaction) []sheets.Row {
	rows := make([]sheets.Row, 0, len(transactions))
	for _, txn := range transactions {
		if txn == nil {
			continue
		}
		var message string
		if txn.Message != nil {
			message = *txn.Message
		}
		rows = append(rows, sheets.Row{
			Categoria: txn.CategoryLabel,
			Data:      txn.Date.Format("2006-01-02"),
			Mensagem:  message,
			Quantia:   txn.Amount.StringFixed(2),
			Tipo:      string(txn.Type),
			Titulo:    txn.Title,
		})
	}
	return rows
}

// BuildCSV renders rows into a semicolon-delimited CSV file with a UTF-8 BOM
// and a header line.
func BuildCSV(rows []sheets.Row) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	w.Comma = ';'

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		record := []string{row.Categoria, row.Data, row.Mensagem, row.Quantia, row.Tipo, row.Titulo}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}

	return buf.Bytes(), nil
}

// Export builds the CSV for a subcategory's ledger, saves it to object
// storage and uploads the rows to the spreadsheet service. The spreadsheet
// upload is attempted exactly once; a failure there is recorded on the
// report, not retried, and does not fail the export.
func (s *ReportService) Export(ctx context.Context, collection domain.Collection, categoryID, subcategoryID uuid.UUID) (*domain.Report, error) {
	listCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	transactions, err := s.transactionRepo.ListBySubcategory(listCtx, collection, categoryID, subcategoryID)
	if err != nil {
		return nil, err
	}

	rows := RowsFor(transactions)
	data, err := BuildCSV(rows)
	if err != nil {
		return nil, err
	}

	objectKey := fmt.Sprintf("reports/%s/%s/%s/%s.csv",
		collection, categoryID, subcategoryID, time.Now().UTC().Format("20060102T150405Z"))

	saveCtx, cancelSave := context.WithTimeout(ctx, s.timeout)
	defer cancelSave()
	if _, err := s.store.Save(saveCtx, objectKey, data); err != nil {
		return nil, err
	}

	uploaded := false
	if s.appender != nil {
		appendCtx, cancelAppend := context.WithTimeout(ctx, s.timeout)
		if err := s.appender.AppendRows(appendCtx, rows); err != nil {
			log.Warn().
				Err(err).
				Str("collection", collection.String()).
				Str("subcategory_id", subcategoryID.String()).
				Msg("Spreadsheet upload failed, report kept in storage only")
		} else {
			uploaded = true
		}
		cancelAppend()
	}

	report := &domain.Report{
		Collection:    collection,
		CategoryID:    categoryID,
		SubcategoryID: subcategoryID,
		ObjectKey:     objectKey,
		RowCount:      len(rows),
		Uploaded:      uploaded,
	}

	createCtx, cancelCreate := context.WithTimeout(ctx, s.timeout)
	defer cancelCreate()
	return s.reportRepo.Create(createCtx, report)
}

// DownloadURL returns a presigned URL for a stored report
func (s *ReportService) DownloadURL(ctx context.Context, id uuid.UUID, expiry time.Duration) (string, error) {
	getCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	report, err := s.reportRepo.GetByID(getCtx, id)
	if err != nil {
		return "", err
	}
	return s.store.PresignDownload(ctx, report.ObjectKey, expiry)
}

// Reports lists recent report metadata
func (s *ReportService) Reports(ctx context.Context, limit int) ([]*domain.Report, error) {
	listCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.reportRepo.List(listCtx, limit)
}
