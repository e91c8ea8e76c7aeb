package registry

import (
	"fmt"
	"sync"

	"github.com/fluxi/inventory-service/internal/adapters/base"
	"github.com/fluxi/inventory-service/internal/adapters/channels"
	"github.com/fluxi/inventory-service/internal/database"
	httpclient "github.com/fluxi/inventory-service/internal/http"
)

// Factory builds a channel adapter from a channel's opaque config map
type Factory func(config map[string]any, client *httpclient.Client, pageSize int) (base.ChannelAdapter, error)

// Registry maps platform slugs to adapter factories
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// DefaultRegistry is the global registry instance with all built-in
// platforms registered
var DefaultRegistry = NewRegistry()

// NewRegistry creates a registry with the built-in platform factories
func NewRegistry() *Registry {
	r := &Registry{
		factories: make(map[string]Factory),
	}

	r.Register("siigo", func(config map[string]any, client *httpclient.Client, pageSize int) (base.ChannelAdapter, error) {
		return channels.NewSiigoAdapter(config, client, pageSize)
	})
	r.Register("shopify", func(config map[string]any, client *httpclient.Client, pageSize int) (base.ChannelAdapter, error) {
		return channels.NewShopifyAdapter(config, pageSize)
	})
	r.Register("woocommerce", func(config map[string]any, client *httpclient.Client, pageSize int) (base.ChannelAdapter, error) {
		return channels.NewWooCommerceAdapter(config, client, pageSize)
	})

	return r
}

// Register registers a factory for a platform slug
func (r *Registry) Register(platform string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[platform] = factory
}

// IsSupported checks whether a platform has a registered factory
func (r *Registry) IsSupported(platform string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[platform]
	return ok
}

// Platforms returns all registered platform slugs
func (r *Registry) Platforms() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	platforms := make([]string, 0, len(r.factories))
	for p := range r.factories {
		platforms = append(platforms, p)
	}
	return platforms
}

// ForChannel builds an adapter for the given channel using its stored
// platform and config
func (r *Registry) ForChannel(ch *database.Channel, pageSize int) (base.ChannelAdapter, error) {
	r.mu.RLock()
	factory, ok := r.factories[ch.Platform]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("no adapter implementation for platform: %s", ch.Platform)
	}

	adapter, err := factory(database.ChannelConfigMap(ch), httpclient.NewClientDefault(), pageSize)
	if err != nil {
		return nil, fmt.Errorf("building %s adapter: %w", ch.Platform, err)
	}
	return adapter, nil
}

// ForChannel builds an adapter from the default registry
func ForChannel(ch *database.Channel, pageSize int) (base.ChannelAdapter, error) {
	return DefaultRegistry.ForChannel(ch, pageSize)
}

// IsSupported checks the default registry
func IsSupported(platform string) bool {
	return DefaultRegistry.IsSupported(platform)
}
