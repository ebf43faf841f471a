package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"namaz-assistant/internal/models"

	"gopkg.in/yaml.v3"
)

type yamlFaqRecord struct {
	Query            string `yaml:"query"`
	Response         string `yaml:"response"`
	RecommendedItems any    `yaml:"recommended_items"`
}

// LoadDataset reads the authored FAQ dataset. JSON is the default format;
// files ending in .yaml or .yml are parsed as YAML.
func LoadDataset(path string) ([]models.RawFaqRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parseYAMLDataset(data)
	default:
		var records []models.RawFaqRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("failed to parse dataset %s: %w", path, err)
		}
		return records, nil
	}
}

func parseYAMLDataset(data []byte) ([]models.RawFaqRecord, error) {
	var raw []yamlFaqRecord
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse yaml dataset: %w", err)
	}

	records := make([]models.RawFaqRecord, 0, len(raw))
	for i, r := range raw {
		record := models.RawFaqRecord{Query: r.Query, Response: r.Response}
		if r.RecommendedItems != nil {
			items, err := json.Marshal(r.RecommendedItems)
			if err != nil {
				return nil, fmt.Errorf("record %d: failed to encode recommended_items: %w", i, err)
			}
			record.RecommendedItems = items
		}
		records = append(records, record)
	}
	return records, nil
}
