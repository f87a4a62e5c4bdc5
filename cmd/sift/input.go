package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jackzampolin/sift/internal/types"
)

// readInput reads a file, or stdin when path is "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

// parseSections decodes a section map from JSON or YAML. Plain text and
// markdown files become a single section named after the file.
func parseSections(path string, data []byte) (map[string]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		return map[string]string{name: string(data)}, nil
	}

	var sections map[string]string
	if err := yaml.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("failed to decode sections: %w", err)
	}
	if len(sections) == 0 {
		return nil, fmt.Errorf("no sections in %s", path)
	}
	return sections, nil
}

// parseProperties decodes a property list from JSON or YAML. Either a bare
// list or an object with a "properties" list is accepted.
func parseProperties(data []byte) ([]types.Property, error) {
	var props []types.Property
	if err := yaml.Unmarshal(data, &props); err != nil {
		var wrapped struct {
			Properties []types.Property `yaml:"properties"`
		}
		if werr := yaml.Unmarshal(data, &wrapped); werr != nil {
			return nil, fmt.Errorf("failed to decode properties: %w", err)
		}
		props = wrapped.Properties
	}
	if len(props) == 0 {
		return nil, fmt.Errorf("no properties defined")
	}
	for i, p := range props {
		if strings.TrimSpace(p.Key()) == "" {
			return nil, fmt.Errorf("property %d has neither id nor label", i)
		}
	}
	return props, nil
}
