package handlers

import (
	"net/http"

	"farmmarket/internal/models"
	"farmmarket/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// CategoryHandlers handles category-related HTTP requests
type CategoryHandlers struct {
	categorySvc services.CategoryService
}

func NewCategoryHandlers(categorySvc services.CategoryService) *CategoryHandlers {
	return &CategoryHandlers{categorySvc: categorySvc}
}

// AttributeInput is an attribute supplied inline with a category mutation.
type AttributeInput struct {
	Name       string `json:"name" validate:"required"`
	IsRequired bool   `json:"is_required"`
}

// CreateCategoryRequest represents the category creation payload
type CreateCategoryRequest struct {
	Name       string           `json:"name" validate:"required"`
	ParentID   *uuid.UUID       `json:"parent_id"`
	Attributes []AttributeInput `json:"attributes"`
}

// UpdateCategoryRequest represents the category update payload
type UpdateCategoryRequest struct {
	Name       string           `json:"name" validate:"required"`
	ParentID   *uuid.UUID       `json:"parent_id"`
	IsApproved bool             `json:"is_approved"`
	Attributes []AttributeInput `json:"attributes"`
}

type ListCategoriesRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

func toAttributes(inputs []AttributeInput) []*models.Attribute {
	attributes := make([]*models.Attribute, 0, len(inputs))
	for _, input := range inputs {
		attributes = append(attributes, &models.Attribute{
			Name:       input.Name,
			IsRequired: input.IsRequired,
		})
	}
	return attributes
}

func (h *CategoryHandlers) ListCategories(c echo.Context) error {
	var req ListCategoriesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	if req.Limit <= 0 {
		req.Limit = 10
	}
	if req.Limit > 100 {
		req.Limit = 100
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	categories, err := h.categorySvc.List(c.Request().Context(), req.Limit, req.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"categories": categories,
		"limit":      req.Limit,
		"offset":     req.Offset,
	})
}

func (h *CategoryHandlers) GetCategory(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid category ID")
	}

	category, err := h.categorySvc.GetByID(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	attributes, err := h.categorySvc.ListAttributes(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"category":   category,
		"attributes": attributes,
	})
}

func (h *CategoryHandlers) CreateCategory(c echo.Context) error {
	var req CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	category, err := h.categorySvc.Create(c.Request().Context(), req.Name, req.ParentID, toAttributes(req.Attributes))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":  "Category and attributes created successfully",
		"category": category,
	})
}

func (h *CategoryHandlers) UpdateCategory(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid category ID")
	}
	var req UpdateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	category, err := h.categorySvc.Update(c.Request().Context(), id, req.Name, req.ParentID, req.IsApproved, toAttributes(req.Attributes))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "Category and attributes updated successfully",
		"category": category,
	})
}

func (h *CategoryHandlers) DeleteCategory(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid category ID")
	}

	if err := h.categorySvc.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":     "Category and its attributes deleted successfully",
		"category_id": id,
	})
}

func (h *CategoryHandlers) GetCategoryHierarchy(c echo.Context) error {
	id, err := uuid.Parse(c.Param("categoryId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid category ID")
	}

	node, err := h.categorySvc.GetHierarchy(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, node)
}
