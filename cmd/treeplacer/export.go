package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"treeplacer/internal/config"
	"treeplacer/internal/forest"
)

type placementFile struct {
	Requested int           `json:"requested" yaml:"requested"`
	Trees     []forest.Tree `json:"trees" yaml:"trees"`
}

// writePlacements exports trees for an instantiating consumer. The format
// follows the file extension like configuration files do.
func writePlacements(path string, requested int, trees []forest.Tree) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	doc := placementFile{Requested: requested, Trees: trees}
	var data []byte
	var err error
	if config.IsYAML(path) {
		data, err = yaml.Marshal(doc)
	} else {
		data, err = json.MarshalIndent(doc, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal placements: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write placements: %w", err)
	}
	return nil
}
