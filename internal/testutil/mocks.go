package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tesouraria/tesouraria-backend/internal/domain"
	"github.com/tesouraria/tesouraria-backend/internal/sheets"
	"github.com/tesouraria/tesouraria-backend/internal/websocket"
)

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	mu         sync.Mutex
	Categories map[uuid.UUID]*domain.Category
	// AddToTotalErr makes AddToTotal fail, for exercising stale-total paths
	AddToTotalErr error
	// ListErr makes ListByCollection fail
	ListErr error
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{Categories: make(map[uuid.UUID]*domain.Category)}
}

// Create stores a category
func (m *MockCategoryRepository) Create(_ context.Context, category *domain.Category) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *category
	stored.ID = uuid.New()
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	m.Categories[stored.ID] = &stored
	return &stored, nil
}

// GetByID retrieves a category by ID
func (m *MockCategoryRepository) GetByID(_ context.Context, collection domain.Collection, id uuid.UUID) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if category, ok := m.Categories[id]; ok && category.Collection == collection {
		return category, nil
	}
	return nil, domain.ErrCategoryNotFound
}

// ListByCollection lists the categories of a collection
func (m *MockCategoryRepository) ListByCollection(_ context.Context, collection domain.Collection) ([]*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var out []*domain.Category
	for _, category := range m.Categories {
		if category.Collection == collection {
			out = append(out, category)
		}
	}
	return out, nil
}

// AddToTotal applies delta to the cached total
func (m *MockCategoryRepository) AddToTotal(_ context.Context, collection domain.Collection, id uuid.UUID, delta decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AddToTotalErr != nil {
		return m.AddToTotalErr
	}
	category, ok := m.Categories[id]
	if !ok || category.Collection != collection {
		return domain.ErrCategoryNotFound
	}
	category.Total = category.Total.Add(delta)
	return nil
}

// AddCategory adds a category to the mock repository (helper for tests)
func (m *MockCategoryRepository) AddCategory(category *domain.Category) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	m.Categories[category.ID] = category
}

// MockSubcategoryRepository is a mock implementation of domain.SubcategoryRepository
type MockSubcategoryRepository struct {
	mu            sync.Mutex
	Subcategories map[uuid.UUID]*domain.Subcategory
	AddToTotalErr error
	ListErr       error
	// ListFn, when set, replaces ListByCategory entirely. Lets a test fail
	// the fetch for one collection while the others keep answering.
	ListFn func(collection domain.Collection, categoryID uuid.UUID) ([]*domain.Subcategory, error)
}

// NewMockSubcategoryRepository creates a new MockSubcategoryRepository
func NewMockSubcategoryRepository() *MockSubcategoryRepository {
	return &MockSubcategoryRepository{Subcategories: make(map[uuid.UUID]*domain.Subcategory)}
}

// Create stores a subcategory
func (m *MockSubcategoryRepository) Create(_ context.Context, subcategory *domain.Subcategory) (*domain.Subcategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *subcategory
	stored.ID = uuid.New()
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	m.Subcategories[stored.ID] = &stored
	return &stored, nil
}

// GetByID retrieves a subcategory by its full path
func (m *MockSubcategoryRepository) GetByID(_ context.Context, collection domain.Collection, categoryID, id uuid.UUID) (*domain.Subcategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sub, ok := m.Subcategories[id]; ok && sub.Collection == collection && sub.CategoryID == categoryID {
		return sub, nil
	}
	return nil, domain.ErrSubcategoryNotFound
}

// ListByCategory lists the subcategories of a category
func (m *MockSubcategoryRepository) ListByCategory(_ context.Context, collection domain.Collection, categoryID uuid.UUID) ([]*domain.Subcategory, error) {
	if m.ListFn != nil {
		return m.ListFn(collection, categoryID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var out []*domain.Subcategory
	for _, sub := range m.Subcategories {
		if sub.Collection == collection && sub.CategoryID == categoryID {
			out = append(out, sub)
		}
	}
	return out, nil
}

// AddToTotal applies delta to the cached total
func (m *MockSubcategoryRepository) AddToTotal(_ context.Context, collection domain.Collection, categoryID, id uuid.UUID, delta decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AddToTotalErr != nil {
		return m.AddToTotalErr
	}
	sub, ok := m.Subcategories[id]
	if !ok || sub.Collection != collection || sub.CategoryID != categoryID {
		return domain.ErrSubcategoryNotFound
	}
	sub.Total = sub.Total.Add(delta)
	return nil
}

// AddSubcategory adds a subcategory to the mock repository (helper for tests)
func (m *MockSubcategoryRepository) AddSubcategory(sub *domain.Subcategory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	m.Subcategories[sub.ID] = sub
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	mu           sync.Mutex
	Transactions []*domain.Transaction
	// AppendErr makes Append fail, for exercising the fatal append path
	AppendErr error
	ListErr   error
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{}
}

// Append stores a ledger entry
func (m *MockTransactionRepository) Append(_ context.Context, txn *domain.Transaction) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AppendErr != nil {
		return nil, m.AppendErr
	}
	stored := *txn
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now().UTC()
	m.Transactions = append(m.Transactions, &stored)
	return &stored, nil
}

// ListBySubcategory lists one subcategory's ledger
func (m *MockTransactionRepository) ListBySubcategory(_ context.Context, collection domain.Collection, categoryID, subcategoryID uuid.UUID) ([]*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var out []*domain.Transaction
	for _, txn := range m.Transactions {
		if txn.Collection == collection && txn.CategoryID == categoryID && txn.SubcategoryID == subcategoryID {
			out = append(out, txn)
		}
	}
	return out, nil
}

// ListByCategory lists the ledger of every subcategory under a category
func (m *MockTransactionRepository) ListByCategory(_ context.Context, collection domain.Collection, categoryID uuid.UUID) ([]*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var out []*domain.Transaction
	for _, txn := range m.Transactions {
		if txn.Collection == collection && txn.CategoryID == categoryID {
			out = append(out, txn)
		}
	}
	return out, nil
}

// AddTransaction adds a ledger entry to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(txn *domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	m.Transactions = append(m.Transactions, txn)
}

// MockProfileRepository is a mock implementation of domain.ProfileRepository
type MockProfileRepository struct {
	mu       sync.Mutex
	Profiles map[string]*domain.Profile
}

// NewMockProfileRepository creates a new MockProfileRepository
func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{Profiles: make(map[string]*domain.Profile)}
}

// GetByAuthID retrieves a profile by subject
func (m *MockProfileRepository) GetByAuthID(_ context.Context, authID string) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if profile, ok := m.Profiles[authID]; ok && profile.DeletedAt == nil {
		return profile, nil
	}
	return nil, domain.ErrProfileNotFound
}

// CreateOrGetByAuthID creates or retrieves a profile by subject
func (m *MockProfileRepository) CreateOrGetByAuthID(_ context.Context, authID, email string, name *string) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if profile, ok := m.Profiles[authID]; ok && profile.DeletedAt == nil {
		return profile, nil
	}
	profile := &domain.Profile{
		ID:        uuid.New(),
		AuthID:    authID,
		Email:     email,
		Name:      name,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	m.Profiles[authID] = profile
	return profile, nil
}

// Update updates name and phone
func (m *MockProfileRepository) Update(_ context.Context, authID string, name, phone *string) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	profile, ok := m.Profiles[authID]
	if !ok || profile.DeletedAt != nil {
		return nil, domain.ErrProfileNotFound
	}
	if name != nil {
		profile.Name = name
	}
	if phone != nil {
		profile.Phone = phone
	}
	profile.UpdatedAt = time.Now().UTC()
	return profile, nil
}

// UpdateEmail updates the stored email
func (m *MockProfileRepository) UpdateEmail(_ context.Context, authID, email string) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	profile, ok := m.Profiles[authID]
	if !ok || profile.DeletedAt != nil {
		return nil, domain.ErrProfileNotFound
	}
	profile.Email = email
	profile.UpdatedAt = time.Now().UTC()
	return profile, nil
}

// SoftDelete marks the profile deleted
func (m *MockProfileRepository) SoftDelete(_ context.Context, authID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	profile, ok := m.Profiles[authID]
	if !ok || profile.DeletedAt != nil {
		return domain.ErrProfileNotFound
	}
	now := time.Now().UTC()
	profile.DeletedAt = &now
	return nil
}

// MockReportRepository is a mock implementation of domain.ReportRepository
type MockReportRepository struct {
	mu      sync.Mutex
	Reports map[uuid.UUID]*domain.Report
}

// NewMockReportRepository creates a new MockReportRepository
func NewMockReportRepository() *MockReportRepository {
	return &MockReportRepository{Reports: make(map[uuid.UUID]*domain.Report)}
}

// Create stores a report record
func (m *MockReportRepository) Create(_ context.Context, report *domain.Report) (*domain.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *report
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now().UTC()
	m.Reports[stored.ID] = &stored
	return &stored, nil
}

// GetByID retrieves a report by ID
func (m *MockReportRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if report, ok := m.Reports[id]; ok {
		return report, nil
	}
	return nil, domain.ErrReportNotFound
}

// List lists stored reports
func (m *MockReportRepository) List(_ context.Context, limit int) ([]*domain.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Report, 0, len(m.Reports))
	for _, report := range m.Reports {
		out = append(out, report)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MockReportStore is an in-memory storage.ReportStore
type MockReportStore struct {
	mu      sync.Mutex
	Objects map[string][]byte
	SaveErr error
}

// NewMockReportStore creates a new MockReportStore
func NewMockReportStore() *MockReportStore {
	return &MockReportStore{Objects: make(map[string][]byte)}
}

// Save stores the CSV bytes in memory
func (m *MockReportStore) Save(_ context.Context, objectKey string, csv []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return "", m.SaveErr
	}
	m.Objects[objectKey] = csv
	return objectKey, nil
}

// PresignDownload returns a fake URL for the object
func (m *MockReportStore) PresignDownload(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Objects[objectKey]; !ok {
		return "", fmt.Errorf("object %s not found", objectKey)
	}
	return "https://storage.test/" + objectKey, nil
}

// MockEventPublisher records published events for assertions
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

// PublishedEvent pairs an event with the scope it was published on
type PublishedEvent struct {
	Scope string
	Event websocket.Event
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish records the event
func (m *MockEventPublisher) Publish(scope string, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{Scope: scope, Event: event})
}

// PublishedScopes returns the scopes events were published on, in order
func (m *MockEventPublisher) PublishedScopes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	scopes := make([]string, len(m.Events))
	for i, e := range m.Events {
		scopes[i] = e.Scope
	}
	return scopes
}

// FailingAppender is a sheets.RowAppender that always fails
type FailingAppender struct {
	Err error
}

// AppendRows returns the configured error
func (f *FailingAppender) AppendRows(context.Context, []sheets.Row) error {
	if f.Err != nil {
		return f.Err
	}
	return fmt.Errorf("append failed")
}
