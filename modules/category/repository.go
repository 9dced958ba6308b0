package category

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domain "github.com/example/taskboard/domain/category"
	"github.com/example/taskboard/domain/task"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a category is not found.
var ErrNotFound = errors.New("category not found")

// Repository provides access to category storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new category repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create saves a new category.
func (r *Repository) Create(ctx context.Context, c *domain.Category) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// FindByID retrieves a category by its ID.
func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	var c domain.Category
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return &c, nil
}

// FindAll retrieves categories ordered by ID with offset pagination.
func (r *Repository) FindAll(ctx context.Context, offset, limit int) ([]domain.Category, int64, error) {
	var categories []domain.Category
	var total int64

	if err := r.db.WithContext(ctx).Model(&domain.Category{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}

	query := r.db.WithContext(ctx).Order("id ASC")
	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}
	if err := query.Find(&categories).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list categories: %w", err)
	}

	return categories, total, nil
}

// SearchByName retrieves categories whose name contains the given substring,
// case-insensitively.
func (r *Repository) SearchByName(ctx context.Context, name string) ([]domain.Category, error) {
	var categories []domain.Category
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%").
		Order("id ASC").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search categories: %w", err)
	}
	return categories, nil
}

// Update updates an existing category's name and color.
func (r *Repository) Update(ctx context.Context, c *domain.Category) error {
	result := r.db.WithContext(ctx).Model(&domain.Category{}).Where("id = ?", c.ID).
		Updates(map[string]any{"name": c.Name, "color": c.Color})
	if result.Error != nil {
		return fmt.Errorf("failed to update category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a category. Tasks referencing it are detached, not deleted:
// their category reference is nulled out in the same transaction. This is the
// store-level contract for category removal.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&task.Task{}).Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach tasks: %w", err)
		}

		result := tx.Delete(&domain.Category{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete category: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
