package handlers

import (
	"errors"
	"net/http"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/fluxi/inventory-service/internal/adapters/registry"
	"github.com/fluxi/inventory-service/internal/http/ratelimit"
)

// syncErrorStatus distinguishes upstream platform failures from our own.
// Only errors from the external API map to 502; anything else is a 500.
func syncErrorStatus(err error) int {
	var upstream *ratelimit.UpstreamError
	if errors.As(err, &upstream) {
		return http.StatusBadGateway
	}
	var shopifyErr goshopify.ResponseError
	if errors.As(err, &shopifyErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// SyncChannel triggers a full staging sync for one channel: fetch every
// product page from the external platform and upsert each record into the
// staging table. Upstream fetch failures surface as 502; per-record
// failures come back inside the 2xx body's errors array.
func SyncChannel(c *gin.Context) {
	ch := loadChannel(c)
	if ch == nil {
		return
	}

	if !registry.IsSupported(ch.Platform) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported platform: " + ch.Platform})
		return
	}

	adapter, err := registry.ForChannel(ch, pageSize())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := syncSvc.SyncChannel(c.Request.Context(), ch, adapter)
	if err != nil {
		log.Error().Err(err).Str("channel_id", ch.ID).Str("platform", ch.Platform).Msg("Channel sync failed")
		c.JSON(syncErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_fetched":    result.TotalFetched,
		"new_products":     result.NewProducts,
		"updated_products": result.UpdatedProducts,
		"errors":           result.Errors,
	})
}
