package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"github.com/diillson/aws-cost-analyzer-go/internal/domain/repository"
	"github.com/diillson/aws-cost-analyzer-go/internal/shared/types"
)

var supportedReportTypes = map[string]bool{"csv": true, "json": true, "pdf": true}

// ConfigRepositoryImpl implementa o ConfigRepository.
type ConfigRepositoryImpl struct{}

// NewConfigRepository cria uma nova implementação do ConfigRepository.
func NewConfigRepository() repository.ConfigRepository {
	return &ConfigRepositoryImpl{}
}

// LoadConfigFile carrega um arquivo de configuração TOML, YAML ou JSON.
func (r *ConfigRepositoryImpl) LoadConfigFile(filePath string) (*types.Config, error) {
	fileExtension := strings.ToLower(filepath.Ext(filePath))

	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error accessing config file: %w", err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config types.Config

	switch fileExtension {
	case ".toml":
		if err := toml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", fileExtension)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// validateConfig rejeita valores que nenhum comando aceitaria.
func validateConfig(config *types.Config) error {
	if config.VariationThreshold < 0 {
		return &types.ValidationError{Field: "variation_threshold", Reason: "must not be negative"}
	}
	if config.LowUsageThreshold < 0 {
		return &types.ValidationError{Field: "low_usage_threshold", Reason: "must not be negative"}
	}
	if config.TopServices < 0 {
		return &types.ValidationError{Field: "top_services", Reason: "must not be negative"}
	}
	for i, t := range config.ReportType {
		t = strings.ToLower(strings.TrimSpace(t))
		if !supportedReportTypes[t] {
			return &types.ValidationError{Field: "report_type", Reason: fmt.Sprintf("unsupported report type %q (use csv, json or pdf)", t)}
		}
		config.ReportType[i] = t
	}
	return nil
}
