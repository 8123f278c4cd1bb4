// Package config holds the application configuration for the pet-triage
// CLI, loaded from and saved to JSON.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the application configuration
type Config struct {
	Classifier ClassifierConfig `json:"classifier"`
	Spatial    SpatialConfig    `json:"spatial"`
	Estimator  EstimatorConfig  `json:"estimator"`
	Provider   ProviderConfig   `json:"provider"`
	Catalog    CatalogConfig    `json:"catalog"`
}

// ClassifierConfig holds thresholds for the zero-shot classifier
type ClassifierConfig struct {
	SevereThreshold   float64 `json:"severe_threshold"`
	ModerateThreshold float64 `json:"moderate_threshold"`
	MinProbability    float64 `json:"min_probability"`
	DetectThreshold   float64 `json:"detect_threshold"`
	MaxConditions     int     `json:"max_conditions"`
}

// SpatialConfig holds configuration for the spatial analyzer
type SpatialConfig struct {
	GridSize        int     `json:"grid_size"`
	TopRegions      int     `json:"top_regions"`
	ActivationScale float64 `json:"activation_scale"`
}

// EstimatorConfig holds configuration for age/weight estimation
type EstimatorConfig struct {
	AnalysisSize int `json:"analysis_size"`
}

// ProviderConfig selects and configures the feature backend
type ProviderConfig struct {
	// Backend is "http" for an embedding server or "onnx" for a local model.
	Backend      string `json:"backend"`
	URL          string `json:"url"`
	Model        string `json:"model"`
	ModelPath    string `json:"model_path"`
	MetadataPath string `json:"metadata_path"`
	// OllamaURL and OllamaModel enable the standalone age-prediction head.
	OllamaURL   string `json:"ollama_url,omitempty"`
	OllamaModel string `json:"ollama_model,omitempty"`
}

// CatalogConfig points at an optional directory of catalog JSON overrides
type CatalogConfig struct {
	Dir string `json:"dir,omitempty"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Classifier: ClassifierConfig{
			SevereThreshold:   0.7,
			ModerateThreshold: 0.4,
			MinProbability:    0.1,
			DetectThreshold:   0.4,
			MaxConditions:     3,
		},
		Spatial: SpatialConfig{
			GridSize:        16,
			TopRegions:      5,
			ActivationScale: 10,
		},
		Estimator: EstimatorConfig{
			AnalysisSize: 224,
		},
		Provider: ProviderConfig{
			Backend: "http",
			URL:     "http://localhost:8080",
		},
	}
}

// LoadFromFile loads configuration from a JSON file
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Classifier.MinProbability < 0 || c.Classifier.MinProbability > 1 {
		return fmt.Errorf("classifier.min_probability must be between 0 and 1")
	}
	if c.Classifier.ModerateThreshold >= c.Classifier.SevereThreshold {
		return fmt.Errorf("classifier.moderate_threshold must be below severe_threshold")
	}
	if c.Classifier.MaxConditions < 1 {
		return fmt.Errorf("classifier.max_conditions must be positive")
	}
	if c.Spatial.GridSize < 1 {
		return fmt.Errorf("spatial.grid_size must be positive")
	}
	if c.Spatial.TopRegions < 1 {
		return fmt.Errorf("spatial.top_regions must be positive")
	}
	if c.Spatial.ActivationScale <= 0 {
		return fmt.Errorf("spatial.activation_scale must be positive")
	}
	if c.Estimator.AnalysisSize < 1 {
		return fmt.Errorf("estimator.analysis_size must be positive")
	}

	switch c.Provider.Backend {
	case "http":
		if c.Provider.URL == "" {
			return fmt.Errorf("provider.url is required for the http backend")
		}
	case "onnx":
		if c.Provider.ModelPath == "" || c.Provider.MetadataPath == "" {
			return fmt.Errorf("provider.model_path and provider.metadata_path are required for the onnx backend")
		}
	default:
		return fmt.Errorf("provider.backend must be http or onnx")
	}
	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "pet-triage", "config.json")
}
