package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/fluxi/inventory-service/internal/database"
	"github.com/fluxi/inventory-service/internal/middleware"
)

// ListProductsRequest represents query parameters for the catalog listing
type ListProductsRequest struct {
	Search string `form:"search"`
	Status string `form:"status" binding:"omitempty,oneof=active inactive"`
	Page   int    `form:"page" binding:"min=0"`
	Limit  int    `form:"limit" binding:"min=0,max=100"`
}

// ListProducts returns a page of the account's catalog
func ListProducts(c *gin.Context) {
	var req ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.Limit == 0 {
		req.Limit = 20
	}

	products, total, err := database.ListProducts(c.Request.Context(), middleware.AccountID(c), database.ProductFilter{
		Search: req.Search,
		Status: req.Status,
		Limit:  req.Limit,
		Offset: (req.Page - 1) * req.Limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"pagination": Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: (total + req.Limit - 1) / req.Limit,
		},
	})
}

// ProductRequest represents the body for creating or updating a product
type ProductRequest struct {
	SKU         string          `json:"sku" binding:"required"`
	Name        string          `json:"name" binding:"required"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	Stock       int             `json:"stock"`
	Status      string          `json:"status" binding:"omitempty,oneof=active inactive"`
}

// CreateProduct adds a catalog product directly, outside the channel
// import flow. The same (account_id, sku) upsert applies, so creating an
// existing SKU overwrites it.
func CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Currency == "" {
		req.Currency = "USD"
	}
	if req.Status == "" {
		req.Status = "active"
	}

	p := &database.Product{
		ID:          database.NewID("prd"),
		AccountID:   middleware.AccountID(c),
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Currency:    req.Currency,
		Stock:       req.Stock,
		Status:      req.Status,
	}
	id, err := database.UpsertProductBySKU(c.Request.Context(), p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}
	p.ID = id

	c.JSON(http.StatusCreated, p)
}

// GetProduct returns one catalog product owned by the authenticated account
func GetProduct(c *gin.Context) {
	p, err := database.GetProduct(c.Request.Context(), c.Param("id"), middleware.AccountID(c))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get product"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpdateProduct edits a catalog product's descriptive fields
func UpdateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Currency == "" {
		req.Currency = "USD"
	}
	if req.Status == "" {
		req.Status = "active"
	}

	p := &database.Product{
		ID:          c.Param("id"),
		AccountID:   middleware.AccountID(c),
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Currency:    req.Currency,
		Stock:       req.Stock,
		Status:      req.Status,
	}
	updated, err := database.UpdateProduct(c.Request.Context(), p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// DeleteProduct removes a catalog product and its channel links
func DeleteProduct(c *gin.Context) {
	deleted, err := database.DeleteProduct(c.Request.Context(), c.Param("id"), middleware.AccountID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
