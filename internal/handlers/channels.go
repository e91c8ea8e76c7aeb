package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/fluxi/inventory-service/internal/adapters/registry"
	"github.com/fluxi/inventory-service/internal/database"
	"github.com/fluxi/inventory-service/internal/middleware"
)

// CreateChannelRequest represents the body for connecting a new channel
type CreateChannelRequest struct {
	Platform string         `json:"platform" binding:"required"`
	Name     string         `json:"name" binding:"required"`
	Config   map[string]any `json:"config" binding:"required"`
}

// CreateChannel connects a new external channel for the authenticated account
func CreateChannel(c *gin.Context) {
	var req CreateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	platform := strings.ToLower(req.Platform)
	if !registry.IsSupported(platform) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported platform: " + req.Platform})
		return
	}

	configJSON, err := json.Marshal(req.Config)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid config"})
		return
	}

	ch := &database.Channel{
		ID:        database.NewID("ch"),
		AccountID: middleware.AccountID(c),
		Platform:  platform,
		Name:      req.Name,
		Config:    configJSON,
		Status:    "disconnected",
	}
	if err := database.CreateChannel(c.Request.Context(), ch); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create channel"})
		return
	}

	c.JSON(http.StatusCreated, ch)
}

// ListChannels returns the account's configured channels
func ListChannels(c *gin.Context) {
	channels, err := database.ListChannels(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list channels"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"channels": channels, "total": len(channels)})
}

// GetChannel returns one channel owned by the authenticated account
func GetChannel(c *gin.Context) {
	ch, err := database.GetChannel(c.Request.Context(), c.Param("channelId"), middleware.AccountID(c))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Channel not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get channel"})
		return
	}
	c.JSON(http.StatusOK, ch)
}

// DeleteChannel disconnects a channel and its staged rows
func DeleteChannel(c *gin.Context) {
	deleted, err := database.DeleteChannel(c.Request.Context(), c.Param("channelId"), middleware.AccountID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete channel"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Channel not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// loadChannel fetches the channel for the authenticated account or writes
// the appropriate error response and returns nil.
func loadChannel(c *gin.Context) *database.Channel {
	ch, err := database.GetChannel(c.Request.Context(), c.Param("channelId"), middleware.AccountID(c))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Channel not found"})
			return nil
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get channel"})
		return nil
	}
	return ch
}
