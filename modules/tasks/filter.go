package tasks

import (
	"fmt"

	"github.com/example/taskboard/domain/task"
)

// FilterKind selects which predicate a listing applies over the caller's
// tasks. Exactly one kind is in effect per call.
type FilterKind string

const (
	FilterAll        FilterKind = "all"
	FilterPending    FilterKind = "pending"
	FilterCompleted  FilterKind = "completed"
	FilterByPriority FilterKind = "priority"
	FilterByTitle    FilterKind = "title"
	FilterByCategory FilterKind = "category"
	FilterDueSoon    FilterKind = "due-soon"
)

// Filter is a discriminated listing predicate. The parameter fields are
// consulted only for the kind that needs them.
type Filter struct {
	Kind       FilterKind    `json:"kind"`
	Priority   task.Priority `json:"priority,omitempty"`
	Title      string        `json:"title,omitempty"`
	CategoryID string        `json:"category_id,omitempty"`
}

// SortKey names a column tasks may be ordered by.
type SortKey string

const (
	SortByID        SortKey = "id"
	SortByTitle     SortKey = "title"
	SortByPriority  SortKey = "priority"
	SortByDueDate   SortKey = "due_date"
	SortByCreatedAt SortKey = "created_at"
)

// DefaultSortKey orders by identifier when the caller does not choose.
const DefaultSortKey = SortByID

// ParseSortKey validates a wire sort key. The empty string maps to
// DefaultSortKey.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case "":
		return DefaultSortKey, nil
	case SortByID, SortByTitle, SortByPriority, SortByDueDate, SortByCreatedAt:
		return SortKey(s), nil
	default:
		return "", fmt.Errorf("invalid sort key %q", s)
	}
}

// orderExpr returns the SQL ORDER BY expression for the key. Priority is
// ordered by urgency rank rather than lexically. Every expression gets an
// id tie-break appended by the repository so pagination stays deterministic.
func (k SortKey) orderExpr() string {
	switch k {
	case SortByPriority:
		return "CASE priority WHEN 'HIGH' THEN 0 WHEN 'MEDIUM' THEN 1 ELSE 2 END ASC"
	case SortByDueDate:
		return "due_date ASC"
	case SortByTitle:
		return "title ASC"
	case SortByCreatedAt:
		return "created_at ASC"
	default:
		return "id ASC"
	}
}

// PageSpec is a zero-based page request. An out-of-range page yields an
// empty page, never an error.
type PageSpec struct {
	Page int     `json:"page"`
	Size int     `json:"size"`
	Sort SortKey `json:"sort"`
}

// DefaultPageSize is used when the caller does not specify a size.
const DefaultPageSize = 10

// normalize applies defaults and validates bounds.
func (p PageSpec) normalize() (PageSpec, error) {
	if p.Page < 0 {
		return PageSpec{}, fmt.Errorf("invalid page index %d", p.Page)
	}
	if p.Size < 0 {
		return PageSpec{}, fmt.Errorf("invalid page size %d", p.Size)
	}
	if p.Size == 0 {
		p.Size = DefaultPageSize
	}
	if p.Sort == "" {
		p.Sort = DefaultSortKey
	}
	return p, nil
}
