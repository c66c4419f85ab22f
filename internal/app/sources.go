package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SourceConfig describes one external breed registry the scrapers pull from.
type SourceConfig struct {
	Name         string `yaml:"name"`
	BaseURL      string `yaml:"base_url"`
	DogPath      string `yaml:"dog_path"`
	ListPath     string `yaml:"list_path"`
	PageSize     int    `yaml:"page_size"`
	DelayMinSecs int    `yaml:"delay_min_seconds"`
	DelayMaxSecs int    `yaml:"delay_max_seconds"`
	MaxRetries   int    `yaml:"max_retries"`
}

type SourceCatalog struct {
	UserAgents []string       `yaml:"user_agents"`
	Sources    []SourceConfig `yaml:"sources"`
}

func LoadSourceCatalog(path string) (*SourceCatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source catalog: %w", err)
	}
	var catalog SourceCatalog
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return nil, fmt.Errorf("parse source catalog: %w", err)
	}
	for i, src := range catalog.Sources {
		if src.Name == "" {
			return nil, fmt.Errorf("source catalog entry %d is missing a name", i)
		}
		if src.MaxRetries == 0 {
			catalog.Sources[i].MaxRetries = 3
		}
		if src.PageSize == 0 {
			catalog.Sources[i].PageSize = 100
		}
	}
	return &catalog, nil
}

func (c *SourceCatalog) Source(name string) (SourceConfig, bool) {
	for _, src := range c.Sources {
		if src.Name == name {
			return src, true
		}
	}
	return SourceConfig{}, false
}
