package category

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// Info is the category view exposed to sibling modules.
type Info struct {
	ID    string
	Name  string
	Color string
}

// CategoryPort defines the lookup interface consumed by sibling modules.
// A nil Info with a nil error means the category does not exist.
type CategoryPort interface {
	Get(ctx context.Context, id string) (*Info, error)
}

// CategoryAdapter implements CategoryPort using the service container.
type CategoryAdapter struct {
	container mono.ServiceContainer
}

// NewCategoryAdapter creates a new CategoryAdapter.
func NewCategoryAdapter(container mono.ServiceContainer) *CategoryAdapter {
	return &CategoryAdapter{
		container: container,
	}
}

// Get retrieves a category by ID. Returns (nil, nil) when absent.
func (a *CategoryAdapter) Get(ctx context.Context, id string) (*Info, error) {
	req := GetCategoryRequest{ID: id}
	var resp GetCategoryResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"get",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("category get request failed: %w", err)
	}

	if !resp.Found {
		return nil, nil
	}

	return &Info{
		ID:    resp.ID,
		Name:  resp.Name,
		Color: resp.Color,
	}, nil
}
