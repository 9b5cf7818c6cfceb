package loader

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/jswap-finance/jswap-subgraph-v2/internal/modules/core"
)

// ManifestLoader handles loading and parsing module manifests
type ManifestLoader struct {
	logger zerolog.Logger
}

// NewManifestLoader creates a new manifest loader
func NewManifestLoader(logger zerolog.Logger) *ManifestLoader {
	return &ManifestLoader{
		logger: logger.With().Str("component", "manifest_loader").Logger(),
	}
}

// LoadFromFile loads a single manifest from a file
func (l *ManifestLoader) LoadFromFile(path string) (*core.Manifest, error) {
	l.logger.Debug().Str("path", path).Msg("Loading manifest from file")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file %s: %w", path, err)
	}

	return l.ParseManifest(data)
}

// LoadFromDirectory loads all manifests from a directory
func (l *ManifestLoader) LoadFromDirectory(dir string) ([]*core.Manifest, error) {
	l.logger.Debug().Str("dir", dir).Msg("Loading manifests from directory")

	var manifests []*core.Manifest

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		if !isManifestFile(d.Name()) {
			l.logger.Debug().Str("file", d.Name()).Msg("Skipping non-manifest file")
			return nil
		}

		manifest, err := l.LoadFromFile(path)
		if err != nil {
			l.logger.Warn().Err(err).Str("path", path).Msg("Failed to load manifest, skipping")
			return nil // Continue processing other files
		}

		manifests = append(manifests, manifest)
		l.logger.Info().
			Str("name", manifest.Name).
			Str("version", manifest.Version).
			Str("path", path).
			Msg("Loaded manifest")

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", dir, err)
	}

	return manifests, nil
}

// ParseManifest parses a YAML manifest from bytes
func (l *ManifestLoader) ParseManifest(data []byte) (*core.Manifest, error) {
	var manifest core.Manifest

	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse YAML manifest: %w", err)
	}

	if err := manifest.ValidateManifest(); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	l.setDefaults(&manifest)

	return &manifest, nil
}

// setDefaults sets default values for manifest fields
func (l *ManifestLoader) setDefaults(manifest *core.Manifest) {
	for i := range manifest.DataSources {
		ds := &manifest.DataSources[i]

		if ds.Kind == "" {
			ds.Kind = "ethereum/contract"
		}

		if ds.Network == "" {
			ds.Network = "bsc"
		}

		if ds.Mapping.Kind == "" {
			ds.Mapping.Kind = "ethereum/events"
		}

		if ds.Mapping.APIVersion == "" {
			ds.Mapping.APIVersion = "0.0.1"
		}

		if ds.Source.StartBlock == nil {
			startBlock := uint64(0)
			ds.Source.StartBlock = &startBlock
		}
	}
}

// ValidateManifestDirectory checks if a directory contains valid manifests
func (l *ManifestLoader) ValidateManifestDirectory(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("manifest directory does not exist: %s", dir)
	}

	manifests, err := l.LoadFromDirectory(dir)
	if err != nil {
		return fmt.Errorf("failed to validate manifest directory: %w", err)
	}

	// Check for duplicate module names
	seen := make(map[string]string)
	for _, manifest := range manifests {
		if existing, exists := seen[manifest.Name]; exists {
			return fmt.Errorf("duplicate module name '%s' found in directory (conflicts with %s)",
				manifest.Name, existing)
		}
		seen[manifest.Name] = manifest.Name
	}

	l.logger.Info().
		Int("count", len(manifests)).
		Str("dir", dir).
		Msg("Successfully validated manifest directory")

	return nil
}

// isManifestFile checks if a filename appears to be a manifest file
func isManifestFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".yaml" || ext == ".yml"
}
