package project

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Manifest is a loaded silicon.toml with its location.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the silicon.toml layout.
type Config struct {
	Package PackageConfig `toml:"package"`
	Verify  VerifyConfig  `toml:"verify"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

// VerifyConfig tunes a verification run. Zero values defer to CLI defaults.
type VerifyConfig struct {
	// Source is the directory (relative to the manifest) holding .sil files.
	Source string `toml:"source"`
	// Jobs bounds per-function parallelism; 0 means GOMAXPROCS.
	Jobs int `toml:"jobs"`
	// MaxDiagnostics caps reported diagnostics per unit.
	MaxDiagnostics int `toml:"max_diagnostics"`
}

// LoadManifest finds and parses the nearest silicon.toml above startDir.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindSiliconToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, true, nil
}

// LoadConfig parses one manifest file and validates the required keys.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return Config{}, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if cfg.Verify.Source == "" {
		cfg.Verify.Source = "."
	}
	return cfg, nil
}

// SourceDir resolves the configured source directory against the root.
func (m *Manifest) SourceDir() string {
	return filepath.Join(m.Root, filepath.FromSlash(m.Config.Verify.Source))
}
