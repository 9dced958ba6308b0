package category

// CreateCategoryRequest represents a category creation request.
type CreateCategoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// UpdateCategoryRequest represents a category update request.
type UpdateCategoryRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// GetCategoryRequest represents a category lookup request.
type GetCategoryRequest struct {
	ID string `json:"id"`
}

// GetCategoryResponse reports whether the category exists along with its
// fields. Absence is a discriminated result, not an error, so callers can
// tell "missing" apart from transport failures.
type GetCategoryResponse struct {
	Found bool   `json:"found"`
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Color string `json:"color,omitempty"`
}

// CategoryResponse represents a single category.
type CategoryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// ListCategoriesRequest represents a paginated list request.
type ListCategoriesRequest struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

// ListCategoriesResponse represents a page of categories.
type ListCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
	Total      int64              `json:"total"`
}

// SearchCategoriesRequest represents a name-substring search request.
type SearchCategoriesRequest struct {
	Name string `json:"name"`
}

// SearchCategoriesResponse represents search results.
type SearchCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

// DeleteCategoryRequest represents a category deletion request.
type DeleteCategoryRequest struct {
	ID string `json:"id"`
}

// DeleteCategoryResponse acknowledges a deletion.
type DeleteCategoryResponse struct {
	Deleted bool `json:"deleted"`
}
