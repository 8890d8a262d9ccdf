package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrSourceNotFound = errors.New("source not found")

// FulltextConfig controls the optional full-text fetch stage per source.
type FulltextConfig struct {
	Enabled        bool     `yaml:"enabled"`
	AllowedDomains []string `yaml:"allowed_domains"`
	MaxMB          int      `yaml:"max_mb"`
}

// Source is one harvestable OAI-PMH repository.
type Source struct {
	Name           string         `yaml:"name"`
	Endpoint       string         `yaml:"endpoint"`
	MetadataPrefix string         `yaml:"metadata_prefix"`
	Set            string         `yaml:"set"`
	Fulltext       FulltextConfig `yaml:"fulltext"`
}

type SourcesFile struct {
	Sources []Source `yaml:"sources"`
}

// LoadSources reads the YAML source list and applies defaults.
func LoadSources(path string) (*SourcesFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources config: %w", err)
	}
	var cfg SourcesFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse sources config: %w", err)
	}
	applySourceDefaults(&cfg)
	return &cfg, nil
}

// FindSource looks a source up by its configured name.
func (s *SourcesFile) FindSource(name string) (*Source, error) {
	for i := range s.Sources {
		if s.Sources[i].Name == name {
			return &s.Sources[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, name)
}

func applySourceDefaults(cfg *SourcesFile) {
	for i := range cfg.Sources {
		if cfg.Sources[i].MetadataPrefix == "" {
			cfg.Sources[i].MetadataPrefix = "oai_dc"
		}
		if cfg.Sources[i].Fulltext.MaxMB == 0 {
			cfg.Sources[i].Fulltext.MaxMB = DefaultMaxMB
		}
	}
}
