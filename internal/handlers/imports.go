package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	syncsvc "github.com/fluxi/inventory-service/internal/sync"
)

// ImportRequest selects staged rows to merge into the catalog: an explicit
// id list or every pending row
type ImportRequest struct {
	StagingProductIDs []string `json:"staging_product_ids"`
	ImportAll         bool     `json:"import_all"`
}

// ImportToInventory merges the selected staged rows into the canonical
// product catalog, keyed by (account_id, sku). Per-row failures mark that
// row errored and are reported in the response errors array.
func ImportToInventory(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.ImportAll && len(req.StagingProductIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "staging_product_ids or import_all is required"})
		return
	}

	ch := loadChannel(c)
	if ch == nil {
		return
	}

	result, err := syncSvc.ImportToInventory(c.Request.Context(), ch, syncsvc.ImportSelection{
		StagingProductIDs: req.StagingProductIDs,
		ImportAll:         req.ImportAll,
	})
	if err != nil {
		log.Error().Err(err).Str("channel_id", ch.ID).Msg("Import to inventory failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import staged products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"imported_count": result.ImportedCount,
		"errors":         result.Errors,
	})
}
