package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SyncRuns counts channel sync runs by platform and outcome
	SyncRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fluxi_channel_sync_runs_total",
		Help: "Channel product sync runs, labeled by platform and outcome.",
	}, []string{"platform", "status"})

	// ImportRuns counts import-to-inventory runs by platform and outcome
	ImportRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fluxi_channel_import_runs_total",
		Help: "Import-to-inventory runs, labeled by platform and outcome.",
	}, []string{"platform", "status"})

	// StagedRecords counts records upserted into staging
	StagedRecords = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fluxi_staged_records_total",
		Help: "External product records upserted into staging.",
	})

	// ImportedProducts counts staged rows promoted into the catalog
	ImportedProducts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fluxi_imported_products_total",
		Help: "Staged rows promoted into the product catalog.",
	})
)

// Handler exposes the prometheus metrics endpoint as a gin handler
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
