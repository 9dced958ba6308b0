package task

import (
	"fmt"
	"strings"
	"time"
)

// Priority is the closed set of task priorities.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// DefaultPriority is assigned when a draft does not specify one.
const DefaultPriority = PriorityMedium

// ParsePriority converts a wire value to a Priority. The empty string maps
// to DefaultPriority so drafts may omit the field.
func ParsePriority(s string) (Priority, error) {
	switch Priority(strings.ToUpper(s)) {
	case "":
		return DefaultPriority, nil
	case PriorityLow:
		return PriorityLow, nil
	case PriorityMedium:
		return PriorityMedium, nil
	case PriorityHigh:
		return PriorityHigh, nil
	default:
		return "", fmt.Errorf("invalid priority %q", s)
	}
}

// Rank orders priorities from most to least urgent for sorting.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// Task represents a single to-do item bound to exactly one owner.
type Task struct {
	ID          string `gorm:"primaryKey;type:text"`
	Title       string `gorm:"not null;type:text"`
	Description string `gorm:"type:text"`
	Completed   bool   `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DueDate     *time.Time `gorm:"index"`
	Priority    Priority   `gorm:"not null;type:text;default:MEDIUM"`
	OwnerID     string     `gorm:"index;not null;type:text"`
	CategoryID  *string    `gorm:"index;type:text"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}

// DueDateLayout is the wire format for due dates. Due dates carry no time
// component.
const DueDateLayout = "2006-01-02"

// ParseDueDate parses a wire due date into a UTC-midnight timestamp.
func ParseDueDate(s string) (time.Time, error) {
	t, err := time.Parse(DueDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date %q, want YYYY-MM-DD", s)
	}
	return t.UTC(), nil
}

// FormatDueDate renders a due date in the wire format. Returns nil for a
// task without one.
func FormatDueDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DueDateLayout)
	return &s
}
