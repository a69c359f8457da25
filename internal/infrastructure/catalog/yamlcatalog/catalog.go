// Package yamlcatalog loads the required-document-type catalog from a YAML file.
package yamlcatalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rafaelbarros/docflow/internal/core/domain"
)

type catalogFile struct {
	RequiredDocuments []domain.RequiredDocumentType `yaml:"required_documents"`
}

// Catalog serves required document types grouped by process type. Entries
// without a process type form the default catalog, which also answers
// lookups for process types the file does not mention.
type Catalog struct {
	defaults  []domain.RequiredDocumentType
	byProcess map[string][]domain.RequiredDocumentType
}

func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse catalog yaml: %w", err)
	}
	if len(file.RequiredDocuments) == 0 {
		return nil, fmt.Errorf("catalog has no required_documents entries")
	}

	catalog := &Catalog{
		byProcess: make(map[string][]domain.RequiredDocumentType),
	}
	seen := make(map[string]bool)
	for _, entry := range file.RequiredDocuments {
		if entry.Type == "" {
			return nil, fmt.Errorf("catalog entry %q has empty type", entry.Name)
		}
		key := entry.ProcessType + "/" + entry.Type
		if seen[key] {
			return nil, fmt.Errorf("duplicate catalog entry %q for process %q", entry.Type, entry.ProcessType)
		}
		seen[key] = true

		if entry.ProcessType == "" {
			catalog.defaults = append(catalog.defaults, entry)
			continue
		}
		catalog.byProcess[entry.ProcessType] = append(catalog.byProcess[entry.ProcessType], entry)
	}
	return catalog, nil
}

// RequiredTypes returns the catalog for the process type, falling back to
// the default entries when the process type is empty or unknown.
func (c *Catalog) RequiredTypes(processType string) ([]domain.RequiredDocumentType, error) {
	if processType != "" {
		if entries, ok := c.byProcess[processType]; ok {
			out := make([]domain.RequiredDocumentType, len(entries))
			copy(out, entries)
			return out, nil
		}
	}
	out := make([]domain.RequiredDocumentType, len(c.defaults))
	copy(out, c.defaults)
	return out, nil
}
