package handlers

import (
	"net/http"
	"time"

	"farmmarket/internal/models"
	"farmmarket/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ProductHandlers handles product-related HTTP requests
type ProductHandlers struct {
	productSvc services.ProductService
}

func NewProductHandlers(productSvc services.ProductService) *ProductHandlers {
	return &ProductHandlers{productSvc: productSvc}
}

// CreateProductRequest represents the product creation payload
type CreateProductRequest struct {
	Name        string    `json:"name" validate:"required"`
	Price       float64   `json:"price" validate:"required"`
	Description string    `json:"description"`
	UserID      uuid.UUID `json:"user_id" validate:"required"`
	Image       string    `json:"image"`
	CategoryID  uuid.UUID `json:"category_id" validate:"required"`
}

type ListProductsRequest struct {
	CategoryID *uuid.UUID `query:"category_id"`
	Limit      int        `query:"limit"`
	Offset     int        `query:"offset"`
}

func (h *ProductHandlers) ListProducts(c echo.Context) error {
	var req ListProductsRequest
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

	var products []*models.Product
	var err error
	if req.CategoryID != nil {
		products, err = h.productSvc.ListByCategory(c.Request().Context(), *req.CategoryID, req.Limit, req.Offset)
	} else {
		products, err = h.productSvc.List(c.Request().Context(), req.Limit, req.Offset)
	}
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"products": products,
		"limit":    req.Limit,
		"offset":   req.Offset,
	})
}

func (h *ProductHandlers) GetProduct(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid product ID")
	}

	product, err := h.productSvc.GetByID(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandlers) CreateProduct(c echo.Context) error {
	var req CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	product := &models.Product{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		UserID:      req.UserID,
		Image:       req.Image,
		CategoryID:  req.CategoryID,
	}
	result, err := h.productSvc.Create(c.Request().Context(), product)
	if err != nil {
		return httpError(err)
	}

	message := "Product created successfully"
	switch result.Promotion {
	case services.PromotionApplied:
		message = "Product created successfully, user role updated to Farmer"
	case services.PromotionFailed:
		message = "Product created, but failed to update user role to Farmer"
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": message,
		"product": result.Product,
	})
}

func (h *ProductHandlers) UpdateProduct(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid product ID")
	}
	var update models.ProductUpdate
	if err := c.Bind(&update); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	if err := h.productSvc.Update(c.Request().Context(), id, &update); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Product updated successfully",
	})
}

func (h *ProductHandlers) DeleteProduct(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid product ID")
	}

	if err := h.productSvc.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Product deleted successfully",
	})
}

func (h *ProductHandlers) UploadProductImage(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid product ID")
	}

	file, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Image file is required")
	}
	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Could not read image file")
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	if err := h.productSvc.UploadImage(c.Request().Context(), id, file.Filename, src, file.Size, contentType); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Product image uploaded successfully",
	})
}

func (h *ProductHandlers) GetProductImageURL(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid product ID")
	}

	url, err := h.productSvc.GetImageURL(c.Request().Context(), id, time.Hour)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"url": url,
	})
}
