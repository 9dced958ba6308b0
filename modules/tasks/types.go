package tasks

// CreateTaskRequest represents a task creation request. OwnerID carries the
// resolved identity of the caller; it is filled in by the HTTP layer from
// validated token claims, never from the client payload.
type CreateTaskRequest struct {
	OwnerID     string  `json:"owner_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DueDate     *string `json:"due_date,omitempty"`
	Priority    string  `json:"priority,omitempty"`
	CategoryID  *string `json:"category_id,omitempty"`
}

// GetTaskRequest represents an owner-checked task lookup.
type GetTaskRequest struct {
	OwnerID string `json:"owner_id"`
	TaskID  string `json:"task_id"`
}

// TaskResponse represents a single task.
type TaskResponse struct {
	Task View `json:"task"`
}

// ListTasksRequest represents a filtered, sorted, paginated listing of the
// owner's tasks.
type ListTasksRequest struct {
	OwnerID string `json:"owner_id"`
	Filter  Filter `json:"filter"`
	Page    int    `json:"page"`
	Size    int    `json:"size"`
	Sort    string `json:"sort,omitempty"`
}

// ListTasksResponse represents one page of the filtered set.
type ListTasksResponse struct {
	Tasks []View `json:"tasks"`
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Size  int    `json:"size"`
}

// UpdateTaskRequest represents a partial update. Nil fields are left
// unchanged; an empty-string DueDate or CategoryID clears the field.
type UpdateTaskRequest struct {
	OwnerID     string  `json:"owner_id"`
	TaskID      string  `json:"task_id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	CategoryID  *string `json:"category_id,omitempty"`
}

// SetCompletionRequest represents a complete or reopen request.
type SetCompletionRequest struct {
	OwnerID string `json:"owner_id"`
	TaskID  string `json:"task_id"`
}

// DeleteTaskRequest represents an owner-checked task deletion.
type DeleteTaskRequest struct {
	OwnerID string `json:"owner_id"`
	TaskID  string `json:"task_id"`
}

// DeleteTaskResponse acknowledges a deletion.
type DeleteTaskResponse struct {
	Deleted bool `json:"deleted"`
}

// PendingCountRequest represents a pending-count request.
type PendingCountRequest struct {
	OwnerID string `json:"owner_id"`
}

// PendingCountResponse represents the owner's number of uncompleted tasks.
type PendingCountResponse struct {
	Count int64 `json:"count"`
}
