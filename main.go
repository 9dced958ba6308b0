package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/example/taskboard/modules/api"
	"github.com/example/taskboard/modules/auth"
	cachepkg "github.com/example/taskboard/modules/cache"
	"github.com/example/taskboard/modules/category"
	"github.com/example/taskboard/modules/tasks"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration from environment
	dbPath := getEnv("DB_PATH", "./taskboard.db")
	httpAddr := getEnv("HTTP_ADDR", ":3000")
	redisAddr := getEnv("REDIS_ADDR", "")
	cacheTTL := getEnvDuration("CACHE_TTL", 5*time.Minute)

	log.Println("=== Taskboard ===")
	log.Printf("Database: %s", dbPath)
	log.Printf("HTTP: %s", httpAddr)

	// Redis is optional. Without it the service runs uncached.
	var taskCache *cachepkg.Cache
	if redisAddr != "" {
		cfg := cachepkg.DefaultConfig()
		cfg.Addr = redisAddr
		cfg.TTL = cacheTTL
		c, err := cachepkg.Connect(context.Background(), cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		taskCache = c
		log.Printf("Cache: %s (ttl %s)", redisAddr, cacheTTL)
	} else {
		log.Println("Cache: disabled (set REDIS_ADDR to enable)")
	}

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Register modules with the framework
	// Order: independent modules first, then dependent modules
	app.Register(auth.NewModule(dbPath))
	app.Register(category.NewModule(dbPath))
	app.Register(tasks.NewModule(dbPath, taskCache)) // Depends on category
	app.Register(api.NewModule(httpAddr, taskCache)) // Depends on auth, category, tasks

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(httpAddr)

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
			"cache": func(ctx context.Context) error {
				if taskCache == nil {
					return nil
				}
				return taskCache.Close()
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(addr string) {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost%s):", addr)
	log.Println("")
	log.Println("  Public Endpoints:")
	log.Println("  POST   /api/v1/auth/register             - Register a new user")
	log.Println("  POST   /api/v1/auth/login                - Login and get tokens")
	log.Println("  POST   /api/v1/auth/refresh              - Refresh access token")
	log.Println("  GET    /health                           - Health check")
	log.Println("")
	log.Println("  Protected Endpoints (require Bearer token):")
	log.Println("  GET    /api/v1/profile                   - Current user profile")
	log.Println("  POST   /api/v1/tasks                     - Create a task")
	log.Println("  GET    /api/v1/tasks                     - List your tasks")
	log.Println("  GET    /api/v1/tasks/pending             - Pending tasks")
	log.Println("  GET    /api/v1/tasks/completed           - Completed tasks")
	log.Println("  GET    /api/v1/tasks/due-soon            - Dated pending tasks by due date")
	log.Println("  GET    /api/v1/tasks/search?q=           - Search tasks by title")
	log.Println("  GET    /api/v1/tasks/priority/:priority  - Tasks by priority")
	log.Println("  GET    /api/v1/tasks/category/:id        - Tasks by category")
	log.Println("  GET    /api/v1/tasks/pending/count       - Pending task count")
	log.Println("  GET    /api/v1/tasks/:id                 - Get a task")
	log.Println("  PUT    /api/v1/tasks/:id                 - Update a task")
	log.Println("  PATCH  /api/v1/tasks/:id/complete        - Mark completed")
	log.Println("  PATCH  /api/v1/tasks/:id/reopen          - Mark pending again")
	log.Println("  DELETE /api/v1/tasks/:id                 - Delete a task")
	log.Println("  POST   /api/v1/categories                - Create a category")
	log.Println("  GET    /api/v1/categories                - List categories")
	log.Println("  GET    /api/v1/categories/search?q=      - Search categories")
	log.Println("  GET    /api/v1/categories/:id            - Get a category")
	log.Println("  PUT    /api/v1/categories/:id            - Update a category")
	log.Println("  DELETE /api/v1/categories/:id            - Delete a category")
	log.Println("  GET    /api/v1/cache/stats               - Cache statistics")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}

// getEnv returns environment variable value or default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration returns environment variable as duration or default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Printf("Warning: invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}
