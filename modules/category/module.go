package category

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	domain "github.com/example/taskboard/domain/category"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNameRequired is returned when a category is created without a name.
var ErrNameRequired = errors.New("category name is required")

// CategoryModule provides category storage and lookup services.
type CategoryModule struct {
	db     *gorm.DB
	repo   *Repository
	dbPath string
}

// Compile-time interface checks.
var _ mono.Module = (*CategoryModule)(nil)
var _ mono.ServiceProviderModule = (*CategoryModule)(nil)
var _ mono.HealthCheckableModule = (*CategoryModule)(nil)

// NewModule creates a new CategoryModule persisting to the given SQLite path.
func NewModule(dbPath string) *CategoryModule {
	if dbPath == "" {
		dbPath = "taskboard.db"
	}
	return &CategoryModule{
		dbPath: dbPath,
	}
}

// Name returns the module name.
func (m *CategoryModule) Name() string {
	return "category"
}

// Start initializes the category module.
func (m *CategoryModule) Start(_ context.Context) error {
	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := db.AutoMigrate(&domain.Category{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	m.repo = NewRepository(db)

	log.Printf("[category] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop shuts down the module.
func (m *CategoryModule) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[category] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *CategoryModule) Health(_ context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}

	if err := sqlDB.Ping(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"database": m.dbPath,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *CategoryModule) RegisterServices(container mono.ServiceContainer) error {
	services := map[string]func() error{
		"create": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "create", json.Unmarshal, json.Marshal, m.handleCreate)
		},
		"get": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "get", json.Unmarshal, json.Marshal, m.handleGet)
		},
		"list": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "list", json.Unmarshal, json.Marshal, m.handleList)
		},
		"search": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "search", json.Unmarshal, json.Marshal, m.handleSearch)
		},
		"update": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "update", json.Unmarshal, json.Marshal, m.handleUpdate)
		},
		"delete": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "delete", json.Unmarshal, json.Marshal, m.handleDelete)
		},
	}

	for name, register := range services {
		if err := register(); err != nil {
			return fmt.Errorf("failed to register %s service: %w", name, err)
		}
	}

	log.Printf("[category] Registered services: create, get, list, search, update, delete")
	return nil
}

// handleCreate handles category creation.
func (m *CategoryModule) handleCreate(ctx context.Context, req CreateCategoryRequest, _ *mono.Msg) (CategoryResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return CategoryResponse{}, ErrNameRequired
	}

	c := &domain.Category{
		ID:    uuid.New().String(),
		Name:  req.Name,
		Color: req.Color,
	}
	if err := m.repo.Create(ctx, c); err != nil {
		return CategoryResponse{}, err
	}

	return toCategoryResponse(c), nil
}

// handleGet handles category lookup. Absence is reported via Found=false.
func (m *CategoryModule) handleGet(ctx context.Context, req GetCategoryRequest, _ *mono.Msg) (GetCategoryResponse, error) {
	c, err := m.repo.FindByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return GetCategoryResponse{Found: false}, nil
		}
		return GetCategoryResponse{}, err
	}

	return GetCategoryResponse{
		Found: true,
		ID:    c.ID,
		Name:  c.Name,
		Color: c.Color,
	}, nil
}

// handleList handles paginated category listing.
func (m *CategoryModule) handleList(ctx context.Context, req ListCategoriesRequest, _ *mono.Msg) (ListCategoriesResponse, error) {
	size := req.Size
	if size <= 0 {
		size = 10
	}
	page := req.Page
	if page < 0 {
		page = 0
	}

	categories, total, err := m.repo.FindAll(ctx, page*size, size)
	if err != nil {
		return ListCategoriesResponse{}, err
	}

	resp := ListCategoriesResponse{
		Categories: make([]CategoryResponse, 0, len(categories)),
		Total:      total,
	}
	for i := range categories {
		resp.Categories = append(resp.Categories, toCategoryResponse(&categories[i]))
	}
	return resp, nil
}

// handleSearch handles name-substring search.
func (m *CategoryModule) handleSearch(ctx context.Context, req SearchCategoriesRequest, _ *mono.Msg) (SearchCategoriesResponse, error) {
	categories, err := m.repo.SearchByName(ctx, req.Name)
	if err != nil {
		return SearchCategoriesResponse{}, err
	}

	resp := SearchCategoriesResponse{
		Categories: make([]CategoryResponse, 0, len(categories)),
	}
	for i := range categories {
		resp.Categories = append(resp.Categories, toCategoryResponse(&categories[i]))
	}
	return resp, nil
}

// handleUpdate handles category update.
func (m *CategoryModule) handleUpdate(ctx context.Context, req UpdateCategoryRequest, _ *mono.Msg) (CategoryResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return CategoryResponse{}, ErrNameRequired
	}

	c := &domain.Category{ID: req.ID, Name: req.Name, Color: req.Color}
	if err := m.repo.Update(ctx, c); err != nil {
		return CategoryResponse{}, err
	}

	return toCategoryResponse(c), nil
}

// handleDelete handles category deletion, detaching referencing tasks.
func (m *CategoryModule) handleDelete(ctx context.Context, req DeleteCategoryRequest, _ *mono.Msg) (DeleteCategoryResponse, error) {
	if err := m.repo.Delete(ctx, req.ID); err != nil {
		return DeleteCategoryResponse{}, err
	}
	return DeleteCategoryResponse{Deleted: true}, nil
}

func toCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:    c.ID,
		Name:  c.Name,
		Color: c.Color,
	}
}
