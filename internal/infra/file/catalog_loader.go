// Package file loads the screen catalog from a YAML data asset, keeping quiz
// content decoupled from the scoring logic.
package file

import (
	"context"
	"fmt"
	"os"

	"waterwise-quiz-service/internal/domain"
	"gopkg.in/yaml.v3"
)

// CatalogLoader reads screens from a YAML file.
type CatalogLoader struct {
	path string
}

func NewCatalogLoader(path string) *CatalogLoader {
	return &CatalogLoader{path: path}
}

type catalogFile struct {
	Screens []domain.Screen `yaml:"screens"`
}

func (l *CatalogLoader) LoadCatalog(_ context.Context) (*domain.Catalog, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var parsed catalogFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}
	catalog, err := domain.NewCatalog(parsed.Screens)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", l.path, err)
	}
	return catalog, nil
}
