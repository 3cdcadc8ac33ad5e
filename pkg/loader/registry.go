package loader

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/stuxhq/stux/pkg/model"
	"github.com/stuxhq/stux/pkg/region"
)

//go:embed defaults/*.yaml defaults/*.jsonl
var defaults embed.FS

const defaultRegistryPath = "defaults/regions.yaml"

// RegistryFile is the on-disk form of the region hierarchy
type RegistryFile struct {
	DefaultRegion string              `yaml:"default_region"`
	Regions       []model.Region      `yaml:"regions"`
	Children      map[string][]string `yaml:"children"`
	// Shortcuts are the schools offered before any country is picked.
	Shortcuts []string `yaml:"landing_shortcuts"`
}

// ParseRegistry decodes a registry document
func ParseRegistry(data []byte) (*RegistryFile, error) {
	var file RegistryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	if len(file.Regions) == 0 {
		return nil, fmt.Errorf("registry defines no regions")
	}
	for i := range file.Regions {
		if err := file.Regions[i].Validate(); err != nil {
			return nil, fmt.Errorf("region #%d: %w", i+1, err)
		}
	}
	return &file, nil
}

// LoadRegistryFile reads a registry from path, or the built-in registry when
// path is empty.
func LoadRegistryFile(path string) (*RegistryFile, error) {
	if path == "" {
		return DefaultRegistryFile()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file: %w", err)
	}
	file, err := ParseRegistry(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return file, nil
}

// DefaultRegistryFile returns the built-in region hierarchy
func DefaultRegistryFile() (*RegistryFile, error) {
	data, err := defaults.ReadFile(defaultRegistryPath)
	if err != nil {
		return nil, fmt.Errorf("read built-in registry: %w", err)
	}
	return ParseRegistry(data)
}

// Build turns the file into a registry. A non-empty defaultOverride takes
// precedence over the file's default_region.
func (f *RegistryFile) Build(defaultOverride string) *region.Registry {
	def := f.DefaultRegion
	if region.NormalizeID(defaultOverride) != "" {
		def = defaultOverride
	}
	return region.NewRegistry(f.Regions, f.Children, def)
}
