package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/example/taskboard/domain/task"
	"github.com/example/taskboard/modules/cache"
	"github.com/example/taskboard/modules/category"
	"github.com/redis/go-redis/v9"
)

// stubCategories implements category.CategoryPort over a fixed set.
type stubCategories struct {
	categories map[string]category.Info
}

func (s *stubCategories) Get(_ context.Context, id string) (*category.Info, error) {
	if info, ok := s.categories[id]; ok {
		return &info, nil
	}
	return nil, nil
}

// newTestService builds a Service over an in-memory database, a stubbed
// category port and no cache.
func newTestService(t *testing.T) *Service {
	t.Helper()

	repo := NewRepository(setupTestDB(t))
	categories := &stubCategories{
		categories: map[string]category.Info{
			"cat-work": {ID: "cat-work", Name: "Work", Color: "#0000ff"},
		},
	}
	return NewService(repo, categories, nil)
}

func newTestServiceWithCache(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })

	c := cache.NewWithClient(client, cache.Config{Prefix: "test:", TTL: time.Minute})
	repo := NewRepository(setupTestDB(t))
	return NewService(repo, &stubCategories{}, c), srv
}

func TestCreateDefaults(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	v, err := svc.Create(ctx, "alice", CreateInput{Title: "Write minutes"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if v.ID == "" {
		t.Error("ID is empty")
	}
	if v.OwnerID != "alice" {
		t.Errorf("OwnerID = %q, want %q", v.OwnerID, "alice")
	}
	if v.Priority != task.PriorityMedium {
		t.Errorf("Priority = %s, want MEDIUM", v.Priority)
	}
	if v.Completed {
		t.Error("new task is completed")
	}
	if v.DueDate != nil {
		t.Errorf("DueDate = %v, want nil", *v.DueDate)
	}
	if v.CategoryID != nil {
		t.Errorf("CategoryID = %v, want nil", *v.CategoryID)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   CreateInput
		wantErr error
	}{
		{"blank title", CreateInput{Title: "   "}, ErrTitleRequired},
		{"empty title", CreateInput{Title: ""}, ErrTitleRequired},
		{"unknown category", CreateInput{Title: "x", CategoryID: strPtr("cat-nope")}, ErrCategoryNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, "alice", tt.input); !errors.Is(err, tt.wantErr) {
				t.Errorf("Create() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := svc.Create(ctx, "alice", CreateInput{Title: "x", Priority: "URGENT"}); err == nil {
		t.Error("Create() accepted an unknown priority")
	}
	if _, err := svc.Create(ctx, "alice", CreateInput{Title: "x", DueDate: strPtr("tomorrow")}); err == nil {
		t.Error("Create() accepted a malformed due date")
	}
}

func TestCreateResolvesCategory(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	v, err := svc.Create(ctx, "alice", CreateInput{
		Title:      "Prepare slides",
		Priority:   "high",
		DueDate:    strPtr("2026-09-15"),
		CategoryID: strPtr("cat-work"),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if v.Priority != task.PriorityHigh {
		t.Errorf("Priority = %s, want HIGH", v.Priority)
	}
	if v.DueDate == nil || *v.DueDate != "2026-09-15" {
		t.Errorf("DueDate = %v, want 2026-09-15", v.DueDate)
	}
	if v.CategoryID == nil || *v.CategoryID != "cat-work" {
		t.Errorf("CategoryID = %v, want cat-work", v.CategoryID)
	}
	if v.CategoryName == nil || *v.CategoryName != "Work" {
		t.Errorf("CategoryName = %v, want Work", v.CategoryName)
	}
}

// Every operation against another owner's task must fail exactly like a
// missing task.
func TestOwnershipIsolation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	v, err := svc.Create(ctx, "alice", CreateInput{Title: "Alice's task"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tests := []struct {
		name string
		op   func() error
	}{
		{"get", func() error { _, err := svc.Get(ctx, "bob", v.ID); return err }},
		{"update", func() error {
			_, err := svc.Update(ctx, "bob", v.ID, UpdateInput{Title: strPtr("hijacked")})
			return err
		}},
		{"complete", func() error { _, err := svc.Complete(ctx, "bob", v.ID); return err }},
		{"reopen", func() error { _, err := svc.Reopen(ctx, "bob", v.ID); return err }},
		{"delete", func() error { return svc.Delete(ctx, "bob", v.ID) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.op(); !errors.Is(err, ErrNotFound) {
				t.Errorf("%s as foreign owner error = %v, want ErrNotFound", tt.name, err)
			}
		})
	}

	// The task is untouched.
	got, err := svc.Get(ctx, "alice", v.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != "Alice's task" || got.Completed {
		t.Errorf("task mutated by foreign operations: %+v", got)
	}
}

func TestListIsScopedToCaller(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "alice", CreateInput{Title: "hers"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Create(ctx, "bob", CreateInput{Title: "his"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	page, err := svc.List(ctx, "alice", Filter{Kind: FilterAll}, PageSpec{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if page.Total != 1 || len(page.Tasks) != 1 {
		t.Fatalf("List() returned %d tasks (total %d), want 1", len(page.Tasks), page.Total)
	}
	if page.Tasks[0].Title != "hers" {
		t.Errorf("Title = %q, want %q", page.Tasks[0].Title, "hers")
	}
	if page.Size != DefaultPageSize {
		t.Errorf("Size = %d, want default %d", page.Size, DefaultPageSize)
	}
}

func TestUpdatePatchesOnlyProvidedFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	v, err := svc.Create(ctx, "alice", CreateInput{
		Title:       "Original",
		Description: "keep me",
		DueDate:     strPtr("2026-09-15"),
		Priority:    "high",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := svc.Update(ctx, "alice", v.ID, UpdateInput{Title: strPtr("Renamed")})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if got.Title != "Renamed" {
		t.Errorf("Title = %q, want %q", got.Title, "Renamed")
	}
	if got.Description != "keep me" {
		t.Errorf("Description = %q, want untouched", got.Description)
	}
	if got.Priority != task.PriorityHigh {
		t.Errorf("Priority = %s, want untouched HIGH", got.Priority)
	}
	if got.DueDate == nil || *got.DueDate != "2026-09-15" {
		t.Errorf("DueDate = %v, want untouched", got.DueDate)
	}
	if got.OwnerID != "alice" {
		t.Errorf("OwnerID = %q, owner must never change", got.OwnerID)
	}

	// Empty-string due date clears the field.
	got, err = svc.Update(ctx, "alice", v.ID, UpdateInput{DueDate: strPtr("")})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.DueDate != nil {
		t.Errorf("DueDate = %v, want cleared", *got.DueDate)
	}

	// Blank title patch is rejected.
	if _, err := svc.Update(ctx, "alice", v.ID, UpdateInput{Title: strPtr("  ")}); !errors.Is(err, ErrTitleRequired) {
		t.Errorf("Update() with blank title error = %v, want ErrTitleRequired", err)
	}
}

func TestCompleteAndReopenAreIdempotent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	v, err := svc.Create(ctx, "alice", CreateInput{Title: "Ship release"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		got, err := svc.Complete(ctx, "alice", v.ID)
		if err != nil {
			t.Fatalf("Complete() attempt %d error = %v", i+1, err)
		}
		if !got.Completed {
			t.Fatalf("Complete() attempt %d left task pending", i+1)
		}
	}

	for i := 0; i < 2; i++ {
		got, err := svc.Reopen(ctx, "alice", v.ID)
		if err != nil {
			t.Fatalf("Reopen() attempt %d error = %v", i+1, err)
		}
		if got.Completed {
			t.Fatalf("Reopen() attempt %d left task completed", i+1)
		}
	}
}

// End-to-end walk over two users: the owner completes a task and it moves
// from the pending listing to the completed one; the other user never sees it.
func TestCompletionMovesTaskAcrossListings(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "alice", CreateInput{
		Title:    "Pay rent",
		Priority: "HIGH",
		DueDate:  strPtr("2026-01-05"),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := svc.Get(ctx, "bob", created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() as bob error = %v, want ErrNotFound", err)
	}

	completed, err := svc.Complete(ctx, "alice", created.ID)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if !completed.Completed {
		t.Fatal("Complete() left task pending")
	}

	pending, err := svc.List(ctx, "alice", Filter{Kind: FilterPending}, PageSpec{Page: 0, Size: 10})
	if err != nil {
		t.Fatalf("List(pending) error = %v", err)
	}
	if pending.Total != 0 || len(pending.Tasks) != 0 {
		t.Errorf("pending listing still holds %d tasks", len(pending.Tasks))
	}

	done, err := svc.List(ctx, "alice", Filter{Kind: FilterCompleted}, PageSpec{Page: 0, Size: 10})
	if err != nil {
		t.Fatalf("List(completed) error = %v", err)
	}
	if done.Total != 1 || len(done.Tasks) != 1 || done.Tasks[0].ID != created.ID {
		t.Errorf("completed listing = %+v, want exactly the completed task", done.Tasks)
	}
}

func TestPendingCountWithoutCache(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "alice", CreateInput{Title: "a"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	v, err := svc.Create(ctx, "alice", CreateInput{Title: "b"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Complete(ctx, "alice", v.ID); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	count, err := svc.PendingCount(ctx, "alice")
	if err != nil {
		t.Fatalf("PendingCount() error = %v", err)
	}
	if count != 1 {
		t.Errorf("PendingCount() = %d, want 1", count)
	}
}

func TestPendingCountCacheInvalidation(t *testing.T) {
	svc, srv := newTestServiceWithCache(t)
	ctx := context.Background()

	v, err := svc.Create(ctx, "alice", CreateInput{Title: "a"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	count, err := svc.PendingCount(ctx, "alice")
	if err != nil {
		t.Fatalf("PendingCount() error = %v", err)
	}
	if count != 1 {
		t.Fatalf("PendingCount() = %d, want 1", count)
	}
	if !srv.Exists("test:pending:alice") {
		t.Fatal("pending count was not cached after a miss")
	}

	// A write by the owner invalidates the cached count.
	if _, err := svc.Complete(ctx, "alice", v.ID); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if srv.Exists("test:pending:alice") {
		t.Fatal("cached pending count survived a write")
	}

	count, err = svc.PendingCount(ctx, "alice")
	if err != nil {
		t.Fatalf("PendingCount() error = %v", err)
	}
	if count != 0 {
		t.Errorf("PendingCount() after complete = %d, want 0", count)
	}
}

func TestPendingCountServesStaleCacheUntilInvalidated(t *testing.T) {
	svc, srv := newTestServiceWithCache(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "alice", CreateInput{Title: "a"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.PendingCount(ctx, "alice"); err != nil {
		t.Fatalf("PendingCount() error = %v", err)
	}

	// Poison the cached value; a cached read must serve it verbatim.
	srv.Set("test:pending:alice", "42")

	count, err := svc.PendingCount(ctx, "alice")
	if err != nil {
		t.Fatalf("PendingCount() error = %v", err)
	}
	if count != 42 {
		t.Errorf("PendingCount() = %d, want cached 42", count)
	}
}
