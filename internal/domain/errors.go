package domain

import "errors"

// Domain errors
var (
	ErrNotFound               = errors.New("resource not found")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidCollection      = errors.New("unknown collection")
	ErrCategoryNotFound       = errors.New("category not found")
	ErrSubcategoryNotFound    = errors.New("subcategory not found")
	ErrProfileNotFound        = errors.New("profile not found")
	ErrReportNotFound         = errors.New("report not found")
	ErrNameRequired           = errors.New("name is required")
	ErrNameTooLong            = errors.New("name exceeds maximum length")
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrTitleRequired          = errors.New("title is required")
	ErrAppendFailed           = errors.New("transaction append failed")
	ErrReauthRequired         = errors.New("recent authentication required")
	ErrEmailUnchanged         = errors.New("new email equals current email")
)

// Validation constants
const (
	MaxNameLength    = 100
	MaxTitleLength   = 200
	MaxMessageLength = 500
)
