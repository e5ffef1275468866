package service

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/resell_api/internal/config"
	"github.com/GTDGit/resell_api/internal/models"
	"github.com/GTDGit/resell_api/internal/utils"
)

// PlatformFactory hands out the adapter for a platform id. Adapters are built
// once from the injected config so their rate limiters are shared by every
// caller.
type PlatformFactory struct {
	mu       sync.RWMutex
	adapters map[models.PlatformType]PlatformAdapter
}

// NewPlatformFactory builds the Etsy, Medusa and Aukro adapters from cfg.
// Missing credentials are logged, not fatal.
func NewPlatformFactory(cfg config.PlatformConfig) *PlatformFactory {
	f := &PlatformFactory{adapters: make(map[models.PlatformType]PlatformAdapter)}

	etsy := NewEtsyAdapter(cfg.EtsyAPIKey, cfg.EtsyWebhookSecret)
	medusa := NewMedusaAdapter(cfg.MedusaAPIURL, cfg.MedusaAPIKey, cfg.MedusaWebhookSecret)
	aukro := NewAukroAdapter(cfg.AukroAPIKey, cfg.AukroAPISecret, cfg.AukroWebhookSecret)

	f.RegisterAdapter(etsy)
	f.RegisterAdapter(medusa)
	f.RegisterAdapter(aukro)

	log.Info().
		Bool("etsy", etsy.Configured()).
		Bool("medusa", medusa.Configured()).
		Bool("aukro", aukro.Configured()).
		Msg("Platform adapters registered")
	return f
}

// RegisterAdapter adds or replaces the adapter for adapter.Platform().
func (f *PlatformFactory) RegisterAdapter(adapter PlatformAdapter) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adapters[adapter.Platform()] = adapter
}

// CreateAdapter returns the adapter for platform, matching the id
// case-insensitively. Unknown ids wrap utils.ErrUnsupportedPlatform.
func (f *PlatformFactory) CreateAdapter(platform string) (PlatformAdapter, error) {
	key := models.PlatformType(strings.ToLower(strings.TrimSpace(platform)))

	f.mu.RLock()
	adapter, ok := f.adapters[key]
	f.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", utils.ErrUnsupportedPlatform, platform)
	}
	return adapter, nil
}

// AllAdapters returns every registered adapter ordered by platform id.
func (f *PlatformFactory) AllAdapters() []PlatformAdapter {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]PlatformAdapter, 0, len(f.adapters))
	for _, a := range f.adapters {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Platform() < out[j].Platform() })
	return out
}
