package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	// Load into temporary struct with YAML tags
	var yamlConfig struct {
		Server   ServerYAML    `yaml:"server,omitempty"`
		Tides    TideFetchYAML `yaml:"tides,omitempty"`
		Cache    CacheYAML     `yaml:"cache,omitempty"`
		Sections []SectionYAML `yaml:"sections,omitempty"`
	}

	err = yaml.Unmarshal(cfgFile, &yamlConfig)
	if err != nil {
		return nil, err
	}

	// Convert to our internal format
	config := &ConfigData{
		Server: ServerData{
			ListenAddr:  yamlConfig.Server.ListenAddr,
			HTTPPort:    yamlConfig.Server.HTTPPort,
			CORSOrigins: yamlConfig.Server.CORSOrigins,
		},
		Tides: TideFetchData{
			BaseURL:          yamlConfig.Tides.BaseURL,
			TimeoutSeconds:   yamlConfig.Tides.TimeoutSeconds,
			MaxAttempts:      yamlConfig.Tides.MaxAttempts,
			BaseDelaySeconds: yamlConfig.Tides.BaseDelaySeconds,
			MaxDelaySeconds:  yamlConfig.Tides.MaxDelaySeconds,
		},
		Cache: CacheData{
			Backend:          yamlConfig.Cache.Backend,
			Path:             yamlConfig.Cache.Path,
			ConnectionString: yamlConfig.Cache.ConnectionString,
		},
		Sections: make([]SectionData, len(yamlConfig.Sections)),
	}

	for i, s := range yamlConfig.Sections {
		config.Sections[i] = SectionData{
			Name:      s.Name,
			Station:   s.Station,
			Latitude:  s.Latitude,
			Longitude: s.Longitude,
			Timezone:  s.Timezone,
		}
	}

	y.config = config
	return config, nil
}

// IsReadOnly returns true since YAML files are read-only in this implementation
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML providers
func (y *YAMLProvider) Close() error {
	return nil
}

// YAML-specific structs with yaml tags
type ServerYAML struct {
	ListenAddr  string   `yaml:"listen_addr,omitempty"`
	HTTPPort    int      `yaml:"http_port,omitempty"`
	CORSOrigins []string `yaml:"cors_origins,omitempty"`
}

type TideFetchYAML struct {
	BaseURL          string `yaml:"base_url,omitempty"`
	TimeoutSeconds   int    `yaml:"timeout_seconds,omitempty"`
	MaxAttempts      int    `yaml:"max_attempts,omitempty"`
	BaseDelaySeconds int    `yaml:"base_delay_seconds,omitempty"`
	MaxDelaySeconds  int    `yaml:"max_delay_seconds,omitempty"`
}

type CacheYAML struct {
	Backend          string `yaml:"backend,omitempty"`
	Path             string `yaml:"path,omitempty"`
	ConnectionString string `yaml:"connection_string,omitempty"`
}

type SectionYAML struct {
	Name      string  `yaml:"name"`
	Station   string  `yaml:"station,omitempty"`
	Latitude  float64 `yaml:"latitude,omitempty"`
	Longitude float64 `yaml:"longitude,omitempty"`
	Timezone  string  `yaml:"timezone,omitempty"`
}
