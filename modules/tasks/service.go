package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/example/taskboard/domain/task"
	"github.com/example/taskboard/modules/cache"
	"github.com/example/taskboard/modules/category"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrTitleRequired is returned when a task title is empty or blank.
	ErrTitleRequired = errors.New("title is required")
	// ErrCategoryNotFound is returned when a referenced category does not exist.
	ErrCategoryNotFound = errors.New("category not found")
)

// Service is the ownership-scoped task service. Every operation takes the
// caller's resolved identity as an explicit ownerID parameter; it is never
// read from request payloads. All store queries carry the owner predicate.
type Service struct {
	repo       *Repository
	categories category.CategoryPort
	cache      *cache.Cache
	sfGroup    singleflight.Group
}

// NewService creates a new task service. The cache may be nil, in which case
// pending counts always hit the database.
func NewService(repo *Repository, categories category.CategoryPort, c *cache.Cache) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		cache:      c,
	}
}

// CreateInput carries the caller-supplied fields of a new task. The owner is
// never part of the input; it comes from the resolved identity alone.
type CreateInput struct {
	Title       string
	Description string
	DueDate     *string
	Priority    string
	CategoryID  *string
}

// UpdateInput is a patch over an existing task. Nil fields are left
// unchanged; a pointer to the empty string clears due date or category.
type UpdateInput struct {
	Title       *string
	Description *string
	Completed   *bool
	DueDate     *string
	Priority    *string
	CategoryID  *string
}

// View is the outward task representation: bare owner id plus a flattened,
// nullable category id/name pair instead of nested entities.
type View struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description,omitempty"`
	Completed    bool          `json:"completed"`
	CreatedAt    time.Time     `json:"created_at"`
	DueDate      *string       `json:"due_date"`
	Priority     task.Priority `json:"priority"`
	OwnerID      string        `json:"owner_id"`
	CategoryID   *string       `json:"category_id"`
	CategoryName *string       `json:"category_name"`
}

// Page is an ordered slice of the caller's filtered tasks plus the filtered
// set's total size.
type Page struct {
	Tasks []View `json:"tasks"`
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Size  int    `json:"size"`
}

// Create validates the draft and persists a new task owned by ownerID.
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (*View, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrTitleRequired
	}

	priority, err := task.ParsePriority(in.Priority)
	if err != nil {
		return nil, err
	}

	dueDate, err := parseOptionalDueDate(in.DueDate)
	if err != nil {
		return nil, err
	}

	categoryID, err := s.resolveCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	t := &task.Task{
		ID:          uuid.New().String(),
		Title:       in.Title,
		Description: in.Description,
		Completed:   false,
		CreatedAt:   time.Now(),
		DueDate:     dueDate,
		Priority:    priority,
		OwnerID:     ownerID,
		CategoryID:  categoryID,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.invalidatePendingCount(ctx, ownerID)
	return s.toView(ctx, t, nil), nil
}

// Get returns the task only if it exists and is owned by ownerID.
func (s *Service) Get(ctx context.Context, ownerID, taskID string) (*View, error) {
	t, err := s.repo.FindByIDAndOwner(ctx, taskID, ownerID)
	if err != nil {
		return nil, err
	}
	return s.toView(ctx, t, nil), nil
}

// List returns an ordered page of the owner's tasks matching the filter.
func (s *Service) List(ctx context.Context, ownerID string, f Filter, page PageSpec) (*Page, error) {
	page, err := page.normalize()
	if err != nil {
		return nil, err
	}

	items, total, err := s.repo.FindByOwner(ctx, ownerID, f, page)
	if err != nil {
		return nil, err
	}

	names := map[string]*string{}
	views := make([]View, 0, len(items))
	for i := range items {
		views = append(views, *s.toView(ctx, &items[i], names))
	}

	return &Page{
		Tasks: views,
		Total: total,
		Page:  page.Page,
		Size:  page.Size,
	}, nil
}

// Update applies the patch to an owner-checked task. Owner and identifier
// are never mutated regardless of patch content. Concurrent updates race
// with last-writer-wins; the store has no row versioning.
func (s *Service) Update(ctx context.Context, ownerID, taskID string, in UpdateInput) (*View, error) {
	t, err := s.repo.FindByIDAndOwner(ctx, taskID, ownerID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, ErrTitleRequired
		}
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Completed != nil {
		t.Completed = *in.Completed
	}
	if in.Priority != nil {
		priority, err := task.ParsePriority(*in.Priority)
		if err != nil {
			return nil, err
		}
		t.Priority = priority
	}
	if in.DueDate != nil {
		if *in.DueDate == "" {
			t.DueDate = nil
		} else {
			dueDate, err := task.ParseDueDate(*in.DueDate)
			if err != nil {
				return nil, err
			}
			t.DueDate = &dueDate
		}
	}
	if in.CategoryID != nil {
		if *in.CategoryID == "" {
			t.CategoryID = nil
		} else {
			categoryID, err := s.resolveCategory(ctx, in.CategoryID)
			if err != nil {
				return nil, err
			}
			t.CategoryID = categoryID
		}
	}

	if err := s.repo.Save(ctx, t); err != nil {
		return nil, err
	}

	s.invalidatePendingCount(ctx, ownerID)
	return s.toView(ctx, t, nil), nil
}

// Complete marks the task completed. Completing an already-completed task
// succeeds without change.
func (s *Service) Complete(ctx context.Context, ownerID, taskID string) (*View, error) {
	return s.setCompleted(ctx, ownerID, taskID, true)
}

// Reopen marks the task pending. Reopening a pending task succeeds without
// change.
func (s *Service) Reopen(ctx context.Context, ownerID, taskID string) (*View, error) {
	return s.setCompleted(ctx, ownerID, taskID, false)
}

func (s *Service) setCompleted(ctx context.Context, ownerID, taskID string, completed bool) (*View, error) {
	t, err := s.repo.FindByIDAndOwner(ctx, taskID, ownerID)
	if err != nil {
		return nil, err
	}

	t.Completed = completed
	if err := s.repo.Save(ctx, t); err != nil {
		return nil, err
	}

	s.invalidatePendingCount(ctx, ownerID)
	return s.toView(ctx, t, nil), nil
}

// Delete removes the task. Missing and foreign tasks fail identically.
func (s *Service) Delete(ctx context.Context, ownerID, taskID string) error {
	if err := s.repo.DeleteByIDAndOwner(ctx, taskID, ownerID); err != nil {
		return err
	}
	s.invalidatePendingCount(ctx, ownerID)
	return nil
}

// PendingCount returns the number of the owner's uncompleted tasks,
// cache-aside when a cache is configured. Singleflight collapses concurrent
// misses for the same owner into one database count.
func (s *Service) PendingCount(ctx context.Context, ownerID string) (int64, error) {
	if s.cache == nil {
		return s.repo.CountPendingByOwner(ctx, ownerID)
	}

	key := pendingCountKey(ownerID)

	var cached int64
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		log.Printf("[tasks] Cache error for pending count owner=%s: %v", ownerID, err)
	}
	if found {
		return cached, nil
	}

	val, err, _ := s.sfGroup.Do(key, func() (any, error) {
		count, err := s.repo.CountPendingByOwner(ctx, ownerID)
		if err != nil {
			return int64(0), err
		}
		if err := s.cache.Set(ctx, key, count); err != nil {
			log.Printf("[tasks] Warning: failed to cache pending count owner=%s: %v", ownerID, err)
		}
		return count, nil
	})
	if err != nil {
		return 0, err
	}
	return val.(int64), nil
}

// resolveCategory verifies that a referenced category exists. Absent
// categories fail with ErrCategoryNotFound; a nil or empty reference is
// stored as null.
func (s *Service) resolveCategory(ctx context.Context, id *string) (*string, error) {
	if id == nil || *id == "" {
		return nil, nil
	}

	info, err := s.categories.Get(ctx, *id)
	if err != nil {
		return nil, fmt.Errorf("failed to look up category: %w", err)
	}
	if info == nil {
		return nil, ErrCategoryNotFound
	}
	resolved := info.ID
	return &resolved, nil
}

// toView flattens a task for the outside world. The optional names map
// memoizes category lookups across one listing call.
func (s *Service) toView(ctx context.Context, t *task.Task, names map[string]*string) *View {
	v := &View{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		DueDate:     task.FormatDueDate(t.DueDate),
		Priority:    t.Priority,
		OwnerID:     t.OwnerID,
		CategoryID:  t.CategoryID,
	}

	if t.CategoryID != nil {
		v.CategoryName = s.categoryName(ctx, *t.CategoryID, names)
	}
	return v
}

// categoryName resolves a category's display name, tolerating dangling
// references left by racing deletes.
func (s *Service) categoryName(ctx context.Context, id string, names map[string]*string) *string {
	if names != nil {
		if name, ok := names[id]; ok {
			return name
		}
	}

	var name *string
	info, err := s.categories.Get(ctx, id)
	if err != nil {
		log.Printf("[tasks] Warning: failed to resolve category %s: %v", id, err)
	} else if info != nil {
		name = &info.Name
	}

	if names != nil {
		names[id] = name
	}
	return name
}

func (s *Service) invalidatePendingCount(ctx context.Context, ownerID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, pendingCountKey(ownerID)); err != nil {
		log.Printf("[tasks] Warning: failed to invalidate pending count owner=%s: %v", ownerID, err)
	}
}

func pendingCountKey(ownerID string) string {
	return "pending:" + ownerID
}

func parseOptionalDueDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	parsed, err := task.ParseDueDate(*s)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
