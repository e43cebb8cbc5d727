package config

import (
	"fmt"
	"time"
)

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Configuration management (for future SQLite-specific operations)
	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Server   ServerData    `json:"server"`
	Tides    TideFetchData `json:"tides,omitempty"`
	Cache    CacheData     `json:"cache,omitempty"`
	Sections []SectionData `json:"sections,omitempty"`
}

// ServerData holds configuration for the REST server
type ServerData struct {
	ListenAddr  string   `json:"listen_addr,omitempty"`
	HTTPPort    int      `json:"http_port,omitempty"`
	CORSOrigins []string `json:"cors_origins,omitempty"`
}

// TideFetchData holds configuration for the NOAA tide prediction fetcher
type TideFetchData struct {
	BaseURL          string `json:"base_url,omitempty"`
	TimeoutSeconds   int    `json:"timeout_seconds,omitempty"`
	MaxAttempts      int    `json:"max_attempts,omitempty"`
	BaseDelaySeconds int    `json:"base_delay_seconds,omitempty"`
	MaxDelaySeconds  int    `json:"max_delay_seconds,omitempty"`
}

// CacheData holds configuration for the tide curve cache backend
type CacheData struct {
	Backend          string `json:"backend,omitempty"`
	Path             string `json:"path,omitempty"`
	ConnectionString string `json:"connection_string,omitempty"`
}

// SectionData overrides tide station or observer settings for one coast section
type SectionData struct {
	Name      string  `json:"name"`
	Station   string  `json:"station,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	Timezone  string  `json:"timezone,omitempty"`
}

// Validate checks the configuration for values that would prevent the
// service from operating. It is called once at startup; failures are fatal.
func (c *ConfigData) Validate() error {
	if c.Server.HTTPPort < 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range", c.Server.HTTPPort)
	}
	if c.Tides.TimeoutSeconds < 0 {
		return fmt.Errorf("tides.timeout_seconds must not be negative")
	}
	if c.Tides.MaxAttempts < 0 {
		return fmt.Errorf("tides.max_attempts must not be negative")
	}
	if c.Tides.BaseDelaySeconds < 0 || c.Tides.MaxDelaySeconds < 0 {
		return fmt.Errorf("tides retry delays must not be negative")
	}
	switch c.Cache.Backend {
	case "", "memory":
	case "sqlite":
		if c.Cache.Path == "" {
			return fmt.Errorf("cache.path is required for the sqlite cache backend")
		}
	case "timescaledb":
		if c.Cache.ConnectionString == "" {
			return fmt.Errorf("cache.connection_string is required for the timescaledb cache backend")
		}
	default:
		return fmt.Errorf("unknown cache backend: %s", c.Cache.Backend)
	}
	for _, s := range c.Sections {
		if s.Name == "" {
			return fmt.Errorf("section override is missing a name")
		}
		if s.Latitude < -90 || s.Latitude > 90 {
			return fmt.Errorf("section %s: latitude %f is out of range", s.Name, s.Latitude)
		}
		if s.Longitude < -180 || s.Longitude > 180 {
			return fmt.Errorf("section %s: longitude %f is out of range", s.Name, s.Longitude)
		}
		if s.Timezone != "" {
			if _, err := time.LoadLocation(s.Timezone); err != nil {
				return fmt.Errorf("section %s: invalid timezone %q: %v", s.Name, s.Timezone, err)
			}
		}
	}
	return nil
}
