package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/example/taskboard/domain/task"
	"github.com/example/taskboard/modules/cache"
	"github.com/example/taskboard/modules/category"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TasksModule provides the ownership-scoped task services.
type TasksModule struct {
	db         *gorm.DB
	service    *Service
	categories category.CategoryPort
	cache      *cache.Cache
	dbPath     string
}

// Compile-time interface checks.
var _ mono.Module = (*TasksModule)(nil)
var _ mono.ServiceProviderModule = (*TasksModule)(nil)
var _ mono.DependentModule = (*TasksModule)(nil)
var _ mono.HealthCheckableModule = (*TasksModule)(nil)

// NewModule creates a new TasksModule persisting to the given SQLite path.
// The cache is optional; pass nil to disable pending-count caching.
func NewModule(dbPath string, c *cache.Cache) *TasksModule {
	if dbPath == "" {
		dbPath = "taskboard.db"
	}
	return &TasksModule{
		dbPath: dbPath,
		cache:  c,
	}
}

// Name returns the module name.
func (m *TasksModule) Name() string {
	return "tasks"
}

// Dependencies returns the modules this module depends on.
func (m *TasksModule) Dependencies() []string {
	return []string{"category"}
}

// SetDependencyServiceContainer receives service containers of dependencies.
func (m *TasksModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "category" {
		m.categories = category.NewCategoryAdapter(container)
	}
}

// Start initializes the tasks module.
func (m *TasksModule) Start(_ context.Context) error {
	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := db.AutoMigrate(&task.Task{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if m.categories == nil {
		return fmt.Errorf("category dependency not wired")
	}
	m.service = NewService(NewRepository(db), m.categories, m.cache)

	log.Printf("[tasks] Module started (database: %s, cache: %v)", m.dbPath, m.cache != nil)
	return nil
}

// Stop shuts down the module.
func (m *TasksModule) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[tasks] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *TasksModule) Health(ctx context.Context) mono.HealthStatus {
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

	details := map[string]any{
		"database": m.dbPath,
		"cache":    m.cache != nil,
	}
	if m.cache != nil {
		if err := m.cache.Ping(ctx); err != nil {
			details["cache_error"] = err.Error()
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: details,
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *TasksModule) RegisterServices(container mono.ServiceContainer) error {
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
		"update": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "update", json.Unmarshal, json.Marshal, m.handleUpdate)
		},
		"complete": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "complete", json.Unmarshal, json.Marshal, m.handleComplete)
		},
		"reopen": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "reopen", json.Unmarshal, json.Marshal, m.handleReopen)
		},
		"delete": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "delete", json.Unmarshal, json.Marshal, m.handleDelete)
		},
		"pending-count": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "pending-count", json.Unmarshal, json.Marshal, m.handlePendingCount)
		},
	}

	for name, register := range services {
		if err := register(); err != nil {
			return fmt.Errorf("failed to register %s service: %w", name, err)
		}
	}

	log.Printf("[tasks] Registered services: create, get, list, update, complete, reopen, delete, pending-count")
	return nil
}

// handleCreate handles task creation.
func (m *TasksModule) handleCreate(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	v, err := m.service.Create(ctx, req.OwnerID, CreateInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		return TaskResponse{}, err
	}
	return TaskResponse{Task: *v}, nil
}

// handleGet handles owner-checked task lookup.
func (m *TasksModule) handleGet(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	v, err := m.service.Get(ctx, req.OwnerID, req.TaskID)
	if err != nil {
		return TaskResponse{}, err
	}
	return TaskResponse{Task: *v}, nil
}

// handleList handles filtered, sorted, paginated listing.
func (m *TasksModule) handleList(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	sort, err := ParseSortKey(req.Sort)
	if err != nil {
		return ListTasksResponse{}, err
	}

	page, err := m.service.List(ctx, req.OwnerID, req.Filter, PageSpec{
		Page: req.Page,
		Size: req.Size,
		Sort: sort,
	})
	if err != nil {
		return ListTasksResponse{}, err
	}

	return ListTasksResponse{
		Tasks: page.Tasks,
		Total: page.Total,
		Page:  page.Page,
		Size:  page.Size,
	}, nil
}

// handleUpdate handles partial task update.
func (m *TasksModule) handleUpdate(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	v, err := m.service.Update(ctx, req.OwnerID, req.TaskID, UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		return TaskResponse{}, err
	}
	return TaskResponse{Task: *v}, nil
}

// handleComplete handles marking a task completed.
func (m *TasksModule) handleComplete(ctx context.Context, req SetCompletionRequest, _ *mono.Msg) (TaskResponse, error) {
	v, err := m.service.Complete(ctx, req.OwnerID, req.TaskID)
	if err != nil {
		return TaskResponse{}, err
	}
	return TaskResponse{Task: *v}, nil
}

// handleReopen handles marking a task pending again.
func (m *TasksModule) handleReopen(ctx context.Context, req SetCompletionRequest, _ *mono.Msg) (TaskResponse, error) {
	v, err := m.service.Reopen(ctx, req.OwnerID, req.TaskID)
	if err != nil {
		return TaskResponse{}, err
	}
	return TaskResponse{Task: *v}, nil
}

// handleDelete handles owner-checked task deletion.
func (m *TasksModule) handleDelete(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	if err := m.service.Delete(ctx, req.OwnerID, req.TaskID); err != nil {
		return DeleteTaskResponse{}, err
	}
	return DeleteTaskResponse{Deleted: true}, nil
}

// handlePendingCount handles the pending-count request.
func (m *TasksModule) handlePendingCount(ctx context.Context, req PendingCountRequest, _ *mono.Msg) (PendingCountResponse, error) {
	count, err := m.service.PendingCount(ctx, req.OwnerID)
	if err != nil {
		return PendingCountResponse{}, err
	}
	return PendingCountResponse{Count: count}, nil
}
