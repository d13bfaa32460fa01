package ability

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

type catalogFile struct {
	Abilities []Definition `yaml:"abilities"`
}

// ParseCatalog decodes a YAML ability catalog and builds a registry from it.
func ParseCatalog(data []byte) (*Registry, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing ability catalog: %w", err)
	}
	return Define(f.Abilities)
}

// LoadCatalog builds the registry from the embedded catalog.
func LoadCatalog() (*Registry, error) {
	return ParseCatalog(catalogYAML)
}

// MustLoadCatalog loads the embedded catalog, panicking on error.
func MustLoadCatalog() *Registry {
	r, err := LoadCatalog()
	if err != nil {
		panic(err)
	}
	return r
}
