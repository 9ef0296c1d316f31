package scene

import (
	"fmt"
	"log/slog"

	"github.com/saturnino-fabrica-de-software/scenefinder/internal/config"
	"github.com/saturnino-fabrica-de-software/scenefinder/internal/provider"
	"github.com/saturnino-fabrica-de-software/scenefinder/internal/provider/mock"
	"github.com/saturnino-fabrica-de-software/scenefinder/internal/provider/tracemoe"
)

// ProviderType defines supported scene recognition provider types
type ProviderType string

const (
	// ProviderTypeTraceMoe is the trace.moe HTTP API
	ProviderTypeTraceMoe ProviderType = "tracemoe"
	// ProviderTypeMock is the in-memory provider (dev/test, no network)
	ProviderTypeMock ProviderType = "mock"
)

// NewSceneProvider creates a SceneProvider instance based on configuration.
//
// Environment variables:
//   - PROVIDER_TYPE: "tracemoe" or "mock" (default: "tracemoe")
//   - TRACEMOE_API_BASE: trace.moe API URL (default: "https://api.trace.moe")
//   - TRACEMOE_API_KEY: optional key; empty means guest mode
func NewSceneProvider(cfg *config.Config, logger *slog.Logger) (provider.SceneProvider, error) {
	switch ProviderType(cfg.ProviderType) {
	case ProviderTypeTraceMoe, "":
		return createTraceMoeProvider(cfg, logger), nil

	case ProviderTypeMock:
		return mock.New(), nil

	default:
		return nil, fmt.Errorf("unknown provider type: %s (supported: %s, %s)",
			cfg.ProviderType, ProviderTypeTraceMoe, ProviderTypeMock)
	}
}

// createTraceMoeProvider creates a trace.moe client; the session is opened
// lazily on the first request.
func createTraceMoeProvider(cfg *config.Config, logger *slog.Logger) provider.SceneProvider {
	tmConfig := tracemoe.DefaultConfig()
	if cfg.APIBase != "" {
		tmConfig.BaseURL = cfg.APIBase
	}
	tmConfig.APIKey = cfg.APIKey

	client := tracemoe.NewClient(tmConfig, logger.With(slog.String("provider", string(ProviderTypeTraceMoe))))
	if client.Guest() {
		logger.Info("tracemoe running in guest mode")
	}

	return client
}
