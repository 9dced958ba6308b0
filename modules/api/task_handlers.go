package api

import (
	"encoding/json"

	"github.com/example/taskboard/domain/task"
	"github.com/example/taskboard/modules/tasks"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/gofiber/fiber/v2"
)

// CreateTask handles task creation for the authenticated user.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	claims, ok := callerClaims(c)
	if !ok {
		return unauthenticated(c)
	}

	var body CreateTaskBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	req := tasks.CreateTaskRequest{
		OwnerID:     claims.UserID,
		Title:       body.Title,
		Description: body.Description,
		DueDate:     body.DueDate,
		Priority:    body.Priority,
		CategoryID:  body.CategoryID,
	}
	var resp tasks.TaskResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.tasksContainer,
		"create",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return h.handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp.Task)
}

// GetTask returns one of the authenticated user's tasks.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	claims, ok := callerClaims(c)
	if !ok {
		return unauthenticated(c)
	}

	req := tasks.GetTaskRequest{
		OwnerID: claims.UserID,
		TaskID:  c.Params("id"),
	}
	var resp tasks.TaskResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.tasksContainer,
		"get",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return h.handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp.Task)
}

// ListTasks returns the authenticated user's tasks.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	return h.listWithFilter(c, tasks.Filter{Kind: tasks.FilterAll})
}

// ListPendingTasks returns the user's uncompleted tasks.
func (h *Handlers) ListPendingTasks(c *fiber.Ctx) error {
	return h.listWithFilter(c, tasks.Filter{Kind: tasks.FilterPending})
}

// ListCompletedTasks returns the user's completed tasks.
func (h *Handlers) ListCompletedTasks(c *fiber.Ctx) error {
	return h.listWithFilter(c, tasks.Filter{Kind: tasks.FilterCompleted})
}

// ListDueSoonTasks returns the user's dated, uncompleted tasks in due date
// order.
func (h *Handlers) ListDueSoonTasks(c *fiber.Ctx) error {
	return h.listWithFilter(c, tasks.Filter{Kind: tasks.FilterDueSoon})
}

// SearchTasks returns the user's tasks whose title contains the query.
func (h *Handlers) SearchTasks(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		return badRequest(c, "Query parameter q is required")
	}
	return h.listWithFilter(c, tasks.Filter{Kind: tasks.FilterByTitle, Title: q})
}

// ListTasksByPriority returns the user's tasks with the given priority.
func (h *Handlers) ListTasksByPriority(c *fiber.Ctx) error {
	priority, err := task.ParsePriority(c.Params("priority"))
	if err != nil {
		return badRequest(c, "Invalid priority. Use: LOW, MEDIUM or HIGH")
	}
	return h.listWithFilter(c, tasks.Filter{Kind: tasks.FilterByPriority, Priority: priority})
}

// ListTasksByCategory returns the user's tasks in the given category.
func (h *Handlers) ListTasksByCategory(c *fiber.Ctx) error {
	return h.listWithFilter(c, tasks.Filter{
		Kind:       tasks.FilterByCategory,
		CategoryID: c.Params("categoryID"),
	})
}

// listWithFilter runs one filtered listing with the shared paging and
// sorting query parameters.
func (h *Handlers) listWithFilter(c *fiber.Ctx, f tasks.Filter) error {
	claims, ok := callerClaims(c)
	if !ok {
		return unauthenticated(c)
	}

	req := tasks.ListTasksRequest{
		OwnerID: claims.UserID,
		Filter:  f,
		Page:    c.QueryInt("page", 0),
		Size:    c.QueryInt("size", 0),
		Sort:    c.Query("sort"),
	}
	var resp tasks.ListTasksResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.tasksContainer,
		"list",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return h.handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// UpdateTask applies a partial update to one of the user's tasks.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	claims, ok := callerClaims(c)
	if !ok {
		return unauthenticated(c)
	}

	var body UpdateTaskBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	req := tasks.UpdateTaskRequest{
		OwnerID:     claims.UserID,
		TaskID:      c.Params("id"),
		Title:       body.Title,
		Description: body.Description,
		Completed:   body.Completed,
		DueDate:     body.DueDate,
		Priority:    body.Priority,
		CategoryID:  body.CategoryID,
	}
	var resp tasks.TaskResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.tasksContainer,
		"update",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return h.handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp.Task)
}

// CompleteTask marks one of the user's tasks completed.
func (h *Handlers) CompleteTask(c *fiber.Ctx) error {
	return h.setCompletion(c, "complete")
}

// ReopenTask marks one of the user's tasks pending again.
func (h *Handlers) ReopenTask(c *fiber.Ctx) error {
	return h.setCompletion(c, "reopen")
}

func (h *Handlers) setCompletion(c *fiber.Ctx, service string) error {
	claims, ok := callerClaims(c)
	if !ok {
		return unauthenticated(c)
	}

	req := tasks.SetCompletionRequest{
		OwnerID: claims.UserID,
		TaskID:  c.Params("id"),
	}
	var resp tasks.TaskResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.tasksContainer,
		service,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return h.handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp.Task)
}

// DeleteTask removes one of the user's tasks.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	claims, ok := callerClaims(c)
	if !ok {
		return unauthenticated(c)
	}

	req := tasks.DeleteTaskRequest{
		OwnerID: claims.UserID,
		TaskID:  c.Params("id"),
	}
	var resp tasks.DeleteTaskResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.tasksContainer,
		"delete",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return h.handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// PendingCount returns the user's number of uncompleted tasks.
func (h *Handlers) PendingCount(c *fiber.Ctx) error {
	claims, ok := callerClaims(c)
	if !ok {
		return unauthenticated(c)
	}

	req := tasks.PendingCountRequest{OwnerID: claims.UserID}
	var resp tasks.PendingCountResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.tasksContainer,
		"pending-count",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return h.handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(PendingCountResponse{Count: resp.Count})
}
