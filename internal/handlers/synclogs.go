package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fluxi/inventory-service/internal/database"
)

// ListSyncLogsRequest represents query parameters for the sync log listing
type ListSyncLogsRequest struct {
	Limit  int `form:"limit" binding:"min=0,max=100"`
	Offset int `form:"offset" binding:"min=0"`
}

// ListSyncLogs returns the channel's sync/import audit trail, newest first
func ListSyncLogs(c *gin.Context) {
	var req ListSyncLogsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Limit == 0 {
		req.Limit = 20
	}

	ch := loadChannel(c)
	if ch == nil {
		return
	}

	logs, err := database.ListSyncLogs(c.Request.Context(), ch.ID, ch.AccountID, req.Limit, req.Offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list sync logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs, "total": len(logs)})
}
