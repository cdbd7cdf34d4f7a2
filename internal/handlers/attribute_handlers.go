package handlers

import (
	"net/http"

	"farmmarket/internal/models"
	"farmmarket/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AttributeHandlers handles standalone attribute maintenance. Creation goes
// through the category endpoints only; attributes never exist outside a
// category transaction.
type AttributeHandlers struct {
	attributeRepo repositories.AttributeRepository
}

func NewAttributeHandlers(attributeRepo repositories.AttributeRepository) *AttributeHandlers {
	return &AttributeHandlers{attributeRepo: attributeRepo}
}

type UpdateAttributeRequest struct {
	Name       string `json:"name" validate:"required"`
	IsRequired bool   `json:"is_required"`
}

func (h *AttributeHandlers) UpdateAttribute(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid attribute ID")
	}
	var req UpdateAttributeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	attribute := &models.Attribute{
		ID:         id,
		Name:       req.Name,
		IsRequired: req.IsRequired,
	}
	if err := h.attributeRepo.Update(c.Request().Context(), attribute); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Attribute updated successfully",
	})
}

func (h *AttributeHandlers) DeleteAttribute(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid attribute ID")
	}

	if err := h.attributeRepo.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Attribute deleted successfully",
		"id":      id,
	})
}
