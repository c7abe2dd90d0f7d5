package project

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Manifest is the parsed quill.toml.
type Manifest struct {
	Package PackageSection `toml:"package"`
	Macros  MacrosSection  `toml:"macros"`
}

// PackageSection names the crate and pins its edition.
type PackageSection struct {
	Name    string `toml:"name"`
	Edition string `toml:"edition"`
}

// MacrosSection carries the expansion knobs.
type MacrosSection struct {
	RecursionLimit uint `toml:"recursion_limit"`
	Trace          bool `toml:"trace"`
}

// LoadManifest reads and parses the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path found by manifest discovery
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return &m, nil
}

// DiscoverManifest finds and loads the manifest governing startDir.
// Returns nil without error when there is none: every knob has a default.
func DiscoverManifest(startDir string) (*Manifest, error) {
	path, ok, err := FindQuillToml(startDir)
	if err != nil || !ok {
		return nil, err
	}
	return LoadManifest(path)
}
