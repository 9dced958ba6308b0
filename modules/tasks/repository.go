package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/example/taskboard/domain/task"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a task does not exist or belongs to another
// owner. The two cases are deliberately indistinguishable so existence never
// leaks across owners.
var ErrNotFound = errors.New("task not found")

// Repository provides owner-scoped access to task storage. Every query
// conjoins the owner predicate in SQL; rows belonging to other owners are
// never loaded into memory.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new task repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create saves a new task.
func (r *Repository) Create(ctx context.Context, t *task.Task) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindByIDAndOwner retrieves a task by ID scoped to its owner.
func (r *Repository) FindByIDAndOwner(ctx context.Context, id, ownerID string) (*task.Task, error) {
	var t task.Task
	err := r.db.WithContext(ctx).
		First(&t, "id = ? AND owner_id = ?", id, ownerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &t, nil
}

// FindByOwner retrieves a page of the owner's tasks matching the filter,
// together with the total count of the filtered set. Ordering is the page's
// sort key with an id tie-break; the due-soon filter forces due date order.
func (r *Repository) FindByOwner(ctx context.Context, ownerID string, f Filter, page PageSpec) ([]task.Task, int64, error) {
	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&task.Task{}).Where("owner_id = ?", ownerID)
		return applyFilter(q, f)
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	sort := page.Sort
	if f.Kind == FilterDueSoon {
		sort = SortByDueDate
	}

	var out []task.Task
	err := scoped().
		Order(sort.orderExpr()).
		Order("id ASC").
		Offset(page.Page * page.Size).
		Limit(page.Size).
		Find(&out).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return out, total, nil
}

// Save persists the full state of an existing task.
func (r *Repository) Save(ctx context.Context, t *task.Task) error {
	if err := r.db.WithContext(ctx).Save(t).Error; err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

// DeleteByIDAndOwner removes a task in a single owner-checked statement.
func (r *Repository) DeleteByIDAndOwner(ctx context.Context, id, ownerID string) error {
	result := r.db.WithContext(ctx).
		Delete(&task.Task{}, "id = ? AND owner_id = ?", id, ownerID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountPendingByOwner counts the owner's uncompleted tasks.
func (r *Repository) CountPendingByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&task.Task{}).
		Where("owner_id = ? AND completed = ?", ownerID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count pending tasks: %w", err)
	}
	return count, nil
}

// applyFilter translates a Filter into SQL predicates.
func applyFilter(q *gorm.DB, f Filter) *gorm.DB {
	switch f.Kind {
	case FilterPending:
		return q.Where("completed = ?", false)
	case FilterCompleted:
		return q.Where("completed = ?", true)
	case FilterByPriority:
		return q.Where("priority = ?", f.Priority)
	case FilterByTitle:
		return q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(f.Title)+"%")
	case FilterByCategory:
		return q.Where("category_id = ?", f.CategoryID)
	case FilterDueSoon:
		// Undated tasks are excluded entirely, not sorted last
		return q.Where("completed = ? AND due_date IS NOT NULL", false)
	default:
		return q
	}
}
