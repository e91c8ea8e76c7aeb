package handlers

import (
	"github.com/rs/zerolog/log"

	"github.com/fluxi/inventory-service/config"
	syncsvc "github.com/fluxi/inventory-service/internal/sync"
)

var (
	cfg     *config.Config
	syncSvc *syncsvc.Service
)

// Init wires the handler package to the loaded configuration and the
// database-backed sync service. Must be called before routes are served.
func Init(c *config.Config) {
	cfg = c
	syncSvc = syncsvc.NewService(syncsvc.NewPGStore(), log.With().Str("component", "sync").Logger())
	syncSvc.SetMaxLogErrors(c.Sync.MaxLogErrors)
}

func pageSize() int {
	if cfg != nil && cfg.Sync.PageSize > 0 {
		return cfg.Sync.PageSize
	}
	return 100
}
