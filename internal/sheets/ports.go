package sheets

import "context"

// Row is one report line in the shape the spreadsheet service expects.
// All values are pre-formatted strings; formatting (dates, fixed decimals)
// is decided by the report builder, not the uploader.
type Row struct {
	Categoria string `json:"categoria"`
	Data      string `json:"data"`
	Mensagem  string `json:"mensagem"`
	Quantia   string `json:"quantia"`
	Tipo      string `json:"tipo"`
	Titulo    string `json:"titulo"`
}

// RowAppender uploads report rows to a spreadsheet service. Implementations
// do not retry; a failed upload is reported once to the caller.
type RowAppender interface {
	AppendRows(ctx context.Context, rows []Row) error
}
