package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/saturnino-fabrica-de-software/scenefinder/internal/domain"
)

const (
	MinMaxResults = 1
	MaxMaxResults = 10
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`
	ConfigFile  string `envconfig:"CONFIG_FILE"`

	// Provider
	ProviderType  string `envconfig:"PROVIDER_TYPE" default:"tracemoe"`
	APIBase       string `envconfig:"TRACEMOE_API_BASE" default:"https://api.trace.moe"`
	APIKey        string `envconfig:"TRACEMOE_API_KEY"`
	MaxResults    int    `envconfig:"TRACEMOE_MAX_RESULTS" default:"3"`
	EnablePreview bool   `envconfig:"TRACEMOE_ENABLE_PREVIEW" default:"true"`
	PreviewType   string `envconfig:"TRACEMOE_PREVIEW_TYPE" default:"image"`

	// Chat
	WebhookToken  string   `envconfig:"WEBHOOK_TOKEN"`
	WebhookSecret string   `envconfig:"WEBHOOK_SECRET"`
	AdminIDs      []string `envconfig:"ADMIN_IDS"`
	CommandPrefix string   `envconfig:"COMMAND_PREFIX" default:"/"`
}

// fileConfig mirrors the plugin configuration keys. Pointers tell a key that
// is absent from one that is set to its zero value.
type fileConfig struct {
	APIBase       *string  `yaml:"api_base"`
	APIKey        *string  `yaml:"api_key"`
	MaxResults    *int     `yaml:"max_results"`
	EnablePreview *bool    `yaml:"enable_preview"`
	PreviewType   *string  `yaml:"preview_type"`
	AdminIDs      []string `yaml:"admin_ids"`
	CommandPrefix *string  `yaml:"command_prefix"`
}

// Load reads the configuration. Explicit environment variables win over the
// optional YAML file named by CONFIG_FILE, which wins over defaults.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with path taking the place of CONFIG_FILE when non-empty.
func LoadFile(path string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if path = strings.TrimSpace(path); path != "" {
		cfg.ConfigFile = path
	}

	if cfg.ConfigFile != "" {
		if err := cfg.mergeFile(cfg.ConfigFile); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", cfg.ConfigFile, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}

	if fc.APIBase != nil && !envSet("TRACEMOE_API_BASE") {
		c.APIBase = *fc.APIBase
	}
	if fc.APIKey != nil && !envSet("TRACEMOE_API_KEY") {
		c.APIKey = *fc.APIKey
	}
	if fc.MaxResults != nil && !envSet("TRACEMOE_MAX_RESULTS") {
		c.MaxResults = *fc.MaxResults
	}
	if fc.EnablePreview != nil && !envSet("TRACEMOE_ENABLE_PREVIEW") {
		c.EnablePreview = *fc.EnablePreview
	}
	if fc.PreviewType != nil && !envSet("TRACEMOE_PREVIEW_TYPE") {
		c.PreviewType = *fc.PreviewType
	}
	if fc.AdminIDs != nil && !envSet("ADMIN_IDS") {
		c.AdminIDs = fc.AdminIDs
	}
	if fc.CommandPrefix != nil && !envSet("COMMAND_PREFIX") {
		c.CommandPrefix = *fc.CommandPrefix
	}

	return nil
}

func envSet(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}

func (c *Config) normalize() error {
	c.MaxResults = ClampMaxResults(c.MaxResults)

	c.PreviewType = strings.ToLower(strings.TrimSpace(c.PreviewType))
	if c.PreviewType == "" {
		c.PreviewType = string(domain.PreviewImage)
	}
	if !domain.PreviewKind(c.PreviewType).Valid() {
		return fmt.Errorf("invalid preview type %q (supported: %s, %s)", c.PreviewType, domain.PreviewImage, domain.PreviewVideo)
	}

	if strings.TrimSpace(c.APIBase) == "" {
		return errors.New("api base must not be empty")
	}
	c.APIBase = strings.TrimRight(strings.TrimSpace(c.APIBase), "/")
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.CommandPrefix = strings.TrimSpace(c.CommandPrefix)

	ids := c.AdminIDs[:0]
	for _, id := range c.AdminIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	c.AdminIDs = ids

	return nil
}

// ClampMaxResults forces n into [MinMaxResults, MaxMaxResults].
func ClampMaxResults(n int) int {
	if n < MinMaxResults {
		return MinMaxResults
	}
	if n > MaxMaxResults {
		return MaxMaxResults
	}
	return n
}

func (c *Config) Preview() domain.PreviewKind {
	return domain.PreviewKind(c.PreviewType)
}

func (c *Config) IsAdmin(senderID string) bool {
	for _, id := range c.AdminIDs {
		if id == senderID {
			return true
		}
	}
	return false
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
