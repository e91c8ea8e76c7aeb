package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fluxi/inventory-service/internal/database"
	syncsvc "github.com/fluxi/inventory-service/internal/sync"
)

// ListStagingRequest represents query parameters for listing staged products
type ListStagingRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=pending imported skipped error"`
	Search string `form:"search"`
	Page   int    `form:"page" binding:"min=0"`
	Limit  int    `form:"limit" binding:"min=0,max=100"`
}

// ListStagingResponse represents the staged product listing with counts
type ListStagingResponse struct {
	Products   []database.StagedProduct `json:"products"`
	Counts     database.StagingCounts   `json:"counts"`
	Pagination Pagination               `json:"pagination"`
}

// Pagination describes one page of a listing
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// ListStagingProducts returns a filtered page of the channel's staged rows
// along with per-status counts
func ListStagingProducts(c *gin.Context) {
	var req ListStagingRequest
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

	ch := loadChannel(c)
	if ch == nil {
		return
	}

	ctx := c.Request.Context()
	filter := database.StagingFilter{
		Status: req.Status,
		Search: req.Search,
		Limit:  req.Limit,
		Offset: (req.Page - 1) * req.Limit,
	}

	products, total, err := database.ListStagedProducts(ctx, ch.ID, ch.AccountID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list staging products"})
		return
	}

	counts, err := database.GetStagingCounts(ctx, ch.ID, ch.AccountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count staging products"})
		return
	}

	c.JSON(http.StatusOK, ListStagingResponse{
		Products: products,
		Counts:   *counts,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: (total + req.Limit - 1) / req.Limit,
		},
	})
}

// SkipStagingProduct marks one staged row skipped so import-all passes over it
func SkipStagingProduct(c *gin.Context) {
	ch := loadChannel(c)
	if ch == nil {
		return
	}

	skipped, err := syncSvc.SkipStagedProduct(c.Request.Context(), ch, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to skip staging product"})
		return
	}
	if !skipped {
		c.JSON(http.StatusNotFound, gin.H{"error": "Staging product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteStagingRequest selects rows to remove: an explicit id list or every
// row currently marked skipped
type DeleteStagingRequest struct {
	StagingProductIDs []string `json:"staging_product_ids"`
	DeleteAllSkipped  bool     `json:"delete_all_skipped"`
}

// DeleteStagingProducts removes staged rows from the channel's staging table
func DeleteStagingProducts(c *gin.Context) {
	var req DeleteStagingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.DeleteAllSkipped && len(req.StagingProductIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "staging_product_ids or delete_all_skipped is required"})
		return
	}

	ch := loadChannel(c)
	if ch == nil {
		return
	}

	deleted, err := syncSvc.DeleteStagedProducts(c.Request.Context(), ch, syncsvc.DeleteSelection{
		StagingProductIDs: req.StagingProductIDs,
		DeleteAllSkipped:  req.DeleteAllSkipped,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete staging products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "deleted_count": deleted})
}
