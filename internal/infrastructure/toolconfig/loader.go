// Package toolconfig loads the tool access table from YAML, falling back to
// the built-in defaults when no override file is configured.
package toolconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"luminara/internal/domain/access"
	"luminara/internal/shared/logger"
)

type fileSchema struct {
	Tools []access.ToolConfig `yaml:"tools"`
}

// Load returns the tool table from the YAML file at path, or the built-in
// table when path is empty. A present but invalid file is an error: a
// half-loaded policy table must never silently fall back to defaults.
func Load(path string, log logger.Interface) (*access.Table, error) {
	if path == "" {
		log.Infow("using built-in tool access table")
		return access.DefaultTable(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tool config %s: %w", path, err)
	}

	table, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tool config %s: %w", path, err)
	}

	log.Infow("loaded tool access table", "path", path, "tools", table.Len())
	return table, nil
}

// Parse builds a tool table from YAML bytes.
func Parse(data []byte) (*access.Table, error) {
	var file fileSchema
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if len(file.Tools) == 0 {
		return nil, fmt.Errorf("tool config declares no tools")
	}
	return access.NewTable(file.Tools...)
}
