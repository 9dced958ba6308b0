package api

import (
	"context"
	"fmt"
	"log"

	"github.com/example/taskboard/modules/auth"
	"github.com/example/taskboard/modules/cache"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// APIModule is the HTTP API module.
type APIModule struct {
	app               *fiber.App
	authContainer     mono.ServiceContainer
	categoryContainer mono.ServiceContainer
	tasksContainer    mono.ServiceContainer
	authAdapter       auth.AuthPort
	cache             *cache.Cache
	addr              string
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates a new APIModule listening on addr. The cache is only
// used for the stats endpoint and may be nil.
func NewModule(addr string, c *cache.Cache) *APIModule {
	if addr == "" {
		addr = ":3000"
	}
	return &APIModule{
		addr:  addr,
		cache: c,
	}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"auth", "category", "tasks"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.authContainer = container
		m.authAdapter = auth.NewAuthAdapter(container)
	case "category":
		m.categoryContainer = container
	case "tasks":
		m.tasksContainer = container
	}
}

// Start initializes the Fiber HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	if m.authContainer == nil || m.categoryContainer == nil || m.tasksContainer == nil {
		return fmt.Errorf("module dependencies not set")
	}

	m.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
	})

	m.app.Use(recover.New())
	m.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	m.app.Use(cors.New())

	m.setupRoutes()

	go func() {
		if err := m.app.Listen(m.addr); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	log.Printf("[api] HTTP server started on %s", m.addr)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Println("[api] Shutting down HTTP server...")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"addr": m.addr,
		},
	}
}

// setupRoutes configures all API routes.
func (m *APIModule) setupRoutes() {
	handlers := NewHandlers(m.authContainer, m.categoryContainer, m.tasksContainer, m.authAdapter, m.cache)

	m.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"module": "api",
		})
	})

	v1 := m.app.Group("/api/v1")

	// Public auth routes
	authRoutes := v1.Group("/auth")
	authRoutes.Post("/register", handlers.Register)
	authRoutes.Post("/login", handlers.Login)
	authRoutes.Post("/refresh", handlers.Refresh)

	// Everything below requires a valid access token.
	protected := v1.Group("")
	protected.Use(AuthMiddleware(m.authAdapter))

	protected.Get("/profile", handlers.Profile)
	protected.Get("/cache/stats", handlers.CacheStats)

	// Task routes. Static segments are registered before :id so they are
	// not swallowed by the parameter route.
	taskRoutes := protected.Group("/tasks")
	taskRoutes.Post("/", handlers.CreateTask)
	taskRoutes.Get("/", handlers.ListTasks)
	taskRoutes.Get("/pending/count", handlers.PendingCount)
	taskRoutes.Get("/pending", handlers.ListPendingTasks)
	taskRoutes.Get("/completed", handlers.ListCompletedTasks)
	taskRoutes.Get("/due-soon", handlers.ListDueSoonTasks)
	taskRoutes.Get("/search", handlers.SearchTasks)
	taskRoutes.Get("/priority/:priority", handlers.ListTasksByPriority)
	taskRoutes.Get("/category/:categoryID", handlers.ListTasksByCategory)
	taskRoutes.Get("/:id", handlers.GetTask)
	taskRoutes.Put("/:id", handlers.UpdateTask)
	taskRoutes.Patch("/:id/complete", handlers.CompleteTask)
	taskRoutes.Patch("/:id/reopen", handlers.ReopenTask)
	taskRoutes.Delete("/:id", handlers.DeleteTask)

	// Category routes
	categoryRoutes := protected.Group("/categories")
	categoryRoutes.Post("/", handlers.CreateCategory)
	categoryRoutes.Get("/", handlers.ListCategories)
	categoryRoutes.Get("/search", handlers.SearchCategories)
	categoryRoutes.Get("/:id", handlers.GetCategory)
	categoryRoutes.Put("/:id", handlers.UpdateCategory)
	categoryRoutes.Delete("/:id", handlers.DeleteCategory)
}

// customErrorHandler handles Fiber errors.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}
