package api

import (
	"encoding/json"

	"github.com/example/taskboard/modules/category"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/gofiber/fiber/v2"
)

// CreateCategory handles category creation.
func (h *Handlers) CreateCategory(c *fiber.Ctx) error {
	var body CategoryBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	req := category.CreateCategoryRequest{
		Name:  body.Name,
		Color: body.Color,
	}
	var resp category.CategoryResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.categoryContainer,
		"create",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return h.handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetCategory returns a single category.
func (h *Handlers) GetCategory(c *fiber.Ctx) error {
	req := category.GetCategoryRequest{ID: c.Params("id")}
	var resp category.GetCategoryResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.categoryContainer,
		"get",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return h.handleServiceError(c, err)
	}

	if !resp.Found {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "category not found",
		})
	}

	return c.Status(fiber.StatusOK).JSON(category.CategoryResponse{
		ID:    resp.ID,
		Name:  resp.Name,
		Color: resp.Color,
	})
}

// ListCategories returns a page of categories.
func (h *Handlers) ListCategories(c *fiber.Ctx) error {
	req := category.ListCategoriesRequest{
		Page: c.QueryInt("page", 0),
		Size: c.QueryInt("size", 0),
	}
	var resp category.ListCategoriesResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.categoryContainer,
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

// SearchCategories returns categories whose name contains the query.
func (h *Handlers) SearchCategories(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		return badRequest(c, "Query parameter q is required")
	}

	req := category.SearchCategoriesRequest{Name: q}
	var resp category.SearchCategoriesResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.categoryContainer,
		"search",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return h.handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// UpdateCategory updates a category's name and color.
func (h *Handlers) UpdateCategory(c *fiber.Ctx) error {
	var body CategoryBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	req := category.UpdateCategoryRequest{
		ID:    c.Params("id"),
		Name:  body.Name,
		Color: body.Color,
	}
	var resp category.CategoryResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.categoryContainer,
		"update",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return h.handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// DeleteCategory removes a category, detaching any tasks that reference it.
func (h *Handlers) DeleteCategory(c *fiber.Ctx) error {
	req := category.DeleteCategoryRequest{ID: c.Params("id")}
	var resp category.DeleteCategoryResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.categoryContainer,
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
