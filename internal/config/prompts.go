package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vykhand/mydocs2/internal/core/domain"
)

// LoadClassifierConfig assembles the service-wide classifier config.
// Env-driven values come first; when path names a YAML file its
// non-zero fields override them, so deployments can ship tuned prompt
// templates without code changes.
func LoadClassifierConfig(cfg Config, path string) (domain.ClassifierConfig, error) {
	out := domain.ClassifierConfig{
		Name:              "default",
		Model:             cfg.OllamaModel,
		BatchSize:         cfg.SplitBatchSize,
		OverlapFactor:     cfg.SplitOverlapFactor,
		ValidationRetries: cfg.SplitValidationRetries,
		TransportRetries:  cfg.SplitTransportRetries,
	}
	if path == "" {
		return out, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.ClassifierConfig{}, fmt.Errorf("read prompt config: %w", err)
	}

	var overlay domain.ClassifierConfig
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return domain.ClassifierConfig{}, fmt.Errorf("parse prompt config %s: %w", path, err)
	}

	if overlay.Name != "" {
		out.Name = overlay.Name
	}
	if overlay.Model != "" {
		out.Model = overlay.Model
	}
	if overlay.SysPromptTemplate != "" {
		out.SysPromptTemplate = overlay.SysPromptTemplate
	}
	if overlay.UserPromptTemplate != "" {
		out.UserPromptTemplate = overlay.UserPromptTemplate
	}
	if overlay.BatchSize > 0 {
		out.BatchSize = overlay.BatchSize
	}
	if overlay.OverlapFactor > 0 {
		out.OverlapFactor = overlay.OverlapFactor
	}
	if overlay.ValidationRetries > 0 {
		out.ValidationRetries = overlay.ValidationRetries
	}
	if overlay.TransportRetries > 0 {
		out.TransportRetries = overlay.TransportRetries
	}
	return out, nil
}
