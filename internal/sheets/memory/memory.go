// Package memory is an in-process RowAppender used in tests and local
// development when no spreadsheet service is configured.
package memory

import (
	"context"
	"sync"

	"github.com/tesouraria/tesouraria-backend/internal/sheets"
)

type Store struct {
	mu   sync.Mutex
	rows []sheets.Row

	// FailNext makes the next AppendRows call return this error, for
	// exercising the no-retry failure path.
	FailNext error
}

var _ sheets.RowAppender = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// AppendRows stores the rows.
func (s *Store) AppendRows(_ context.Context, rows []sheets.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailNext != nil {
		err := s.FailNext
		s.FailNext = nil
		return err
	}
	s.rows = append(s.rows, rows...)
	return nil
}

// Rows returns a copy of everything appended so far.
func (s *Store) Rows() []sheets.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]sheets.Row, len(s.rows))
	copy(out, s.rows)
	return out
}
