package category

import (
	"context"
	"errors"
	"testing"

	domain "github.com/example/taskboard/domain/category"
	"github.com/example/taskboard/domain/task"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing. The tasks
// table is migrated too because deletion detaches referencing tasks.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&domain.Category{}, &task.Task{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func seedCategory(t *testing.T, repo *Repository, name, color string) *domain.Category {
	t.Helper()

	c := &domain.Category{
		ID:    uuid.New().String(),
		Name:  name,
		Color: color,
	}
	if err := repo.Create(context.Background(), c); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return c
}

func TestCreateAndFindByID(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	c := seedCategory(t, repo, "Work", "#0000ff")

	found, err := repo.FindByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found.Name != "Work" || found.Color != "#0000ff" {
		t.Errorf("FindByID() = %+v, want Work/#0000ff", found)
	}

	if _, err := repo.FindByID(ctx, uuid.New().String()); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindByID(missing) error = %v, want ErrNotFound", err)
	}
}

func TestFindAll(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	seedCategory(t, repo, "Work", "#0000ff")
	seedCategory(t, repo, "Home", "#00ff00")
	seedCategory(t, repo, "Errands", "#ff0000")

	categories, total, err := repo.FindAll(ctx, 0, 2)
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(categories) != 2 {
		t.Errorf("got %d categories, want 2", len(categories))
	}
}

func TestSearchByName(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	seedCategory(t, repo, "Work", "#0000ff")
	seedCategory(t, repo, "Homework", "#00ff00")
	seedCategory(t, repo, "Errands", "#ff0000")

	got, err := repo.SearchByName(ctx, "WORK")
	if err != nil {
		t.Fatalf("SearchByName() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("SearchByName() matched %d categories, want 2", len(got))
	}
}

func TestUpdate(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	c := seedCategory(t, repo, "Work", "#0000ff")

	c.Name = "Office"
	c.Color = "#123456"
	if err := repo.Update(ctx, c); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	found, err := repo.FindByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found.Name != "Office" || found.Color != "#123456" {
		t.Errorf("FindByID() after update = %+v", found)
	}

	missing := &domain.Category{ID: uuid.New().String(), Name: "Ghost"}
	if err := repo.Update(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update(missing) error = %v, want ErrNotFound", err)
	}
}

func TestDeleteDetachesTasks(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	c := seedCategory(t, repo, "Work", "#0000ff")

	attached := &task.Task{
		ID:         uuid.New().String(),
		Title:      "Write report",
		Priority:   task.DefaultPriority,
		OwnerID:    "alice",
		CategoryID: &c.ID,
	}
	if err := db.Create(attached).Error; err != nil {
		t.Fatalf("failed to seed task: %v", err)
	}

	if err := repo.Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := repo.FindByID(ctx, c.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("category still present after delete: %v", err)
	}

	// The task survives with its category reference nulled out.
	var got task.Task
	if err := db.First(&got, "id = ?", attached.ID).Error; err != nil {
		t.Fatalf("task disappeared with its category: %v", err)
	}
	if got.CategoryID != nil {
		t.Errorf("CategoryID = %v, want nil after category delete", *got.CategoryID)
	}
}

func TestDeleteMissing(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	if err := repo.Delete(context.Background(), uuid.New().String()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(missing) error = %v, want ErrNotFound", err)
	}
}
