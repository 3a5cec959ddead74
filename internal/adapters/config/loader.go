// Package config loads and validates the optional pave.yaml configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/paveproject/pave/internal/core/domain"
	"github.com/paveproject/pave/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader.
// Configuration is optional: without a pave.yaml the built-in profiles are
// used unchanged, so a fresh checkout works with zero setup.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new config Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// DiscoverRoot walks up from cwd looking for pave.yaml. It returns the
// directory containing the file, or cwd itself when none exists.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	abs, err := filepath.Abs(cwd)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to resolve working directory"), "cwd", cwd)
	}

	dir := abs
	for {
		candidate := filepath.Join(dir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil
		}
		dir = parent
	}
}

// ConfigPath returns the path of the configuration file in use, or "" when
// running on built-in defaults.
func (l *Loader) ConfigPath(cwd string) string {
	root, err := l.DiscoverRoot(cwd)
	if err != nil {
		return ""
	}

	candidate := filepath.Join(root, domain.ConfigFileName)
	if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
		return candidate
	}
	return ""
}

// Load resolves the named profile. The configuration file, when present, is
// merged over the built-in profile of the same name; file-level defaults
// apply to every profile. A non-empty configFile pins the file instead of
// discovering it, and then it must exist.
func (l *Loader) Load(cwd, configFile, profileName string) (domain.Profile, error) {
	name := profileName
	if name == "" {
		name = domain.DefaultProfileName
	}

	builtins := domain.BuiltinProfiles()

	path := configFile
	if path == "" {
		path = l.ConfigPath(cwd)
	} else if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
		return domain.Profile{}, zerr.With(domain.ErrConfigNotFound, "path", path)
	}

	if path == "" {
		p, ok := builtins[name]
		if !ok {
			return domain.Profile{}, zerr.With(domain.ErrUnknownProfile, "profile", name)
		}
		return p, nil
	}

	cfg, err := readAndUnmarshalYAML(path)
	if err != nil {
		return domain.Profile{}, err
	}

	if err := validate(cfg, path); err != nil {
		return domain.Profile{}, err
	}

	if len(cfg.Profiles) == 0 {
		l.logger.Warn("configuration defines no profiles, using built-ins")
	}

	entry, inFile := cfg.Profiles[name]
	base, isBuiltin := builtins[name]
	if !inFile && !isBuiltin {
		unknownErr := zerr.With(domain.ErrUnknownProfile, "profile", name)
		return domain.Profile{}, zerr.With(unknownErr, "path", path)
	}
	if !isBuiltin {
		base = domain.Profile{Name: name}
	}

	profile := merge(base, cfg, entry).ApplyDefaults()

	// Relative manifests resolve against the config file's directory so the
	// command works from any subdirectory. Titles derive from the path as
	// written, before resolution.
	if !filepath.IsAbs(profile.Manifest) {
		profile.Manifest = filepath.Join(filepath.Dir(path), profile.Manifest)
	}

	return profile, nil
}

// readAndUnmarshalYAML reads and parses a YAML file into the config schema.
func readAndUnmarshalYAML(path string) (*configFile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from config discovery
	if err != nil {
		readErr := zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
		return nil, zerr.With(readErr, "path", path)
	}

	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		parseErr := zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
		return nil, zerr.With(parseErr, "path", path)
	}

	return &cfg, nil
}

// validate rejects configurations that would produce a broken setup sequence.
func validate(cfg *configFile, path string) error {
	fail := func(reason string) error {
		valErr := zerr.With(domain.ErrConfigValidation, "reason", reason)
		return zerr.With(valErr, "path", path)
	}

	if cfg.Version != "" && cfg.Version != "1" {
		return fail(fmt.Sprintf("unsupported version %q", cfg.Version))
	}

	if cfg.Tools != nil && len(cfg.Tools) == 0 {
		return fail("tools list must not be empty")
	}

	for name, entry := range cfg.Profiles {
		if entry.Tools != nil && len(entry.Tools) == 0 {
			return fail(fmt.Sprintf("profile %q: tools list must not be empty", name))
		}
	}

	return nil
}

// merge layers file-level defaults and the profile entry over the base
// profile. Zero values never override.
func merge(base domain.Profile, cfg *configFile, entry profileEntry) domain.Profile {
	p := base

	manifestChanged := false

	if cfg.Interpreter != "" {
		p.Interpreter = cfg.Interpreter
	}
	if cfg.Manifest != "" {
		p.Manifest = cfg.Manifest
		manifestChanged = true
	}
	if cfg.Tools != nil {
		p.Tools = cfg.Tools
	}

	if entry.Interpreter != "" {
		p.Interpreter = entry.Interpreter
	}
	if entry.Manifest != "" {
		p.Manifest = entry.Manifest
		manifestChanged = true
	}
	if entry.Tools != nil {
		p.Tools = entry.Tools
	}

	// A changed manifest invalidates a derived install title so it is
	// re-derived from the new path.
	if manifestChanged && entry.Messages.Install == "" {
		p.InstallTitle = ""
	}
	if entry.Messages.Upgrade != "" {
		p.UpgradeTitle = entry.Messages.Upgrade
	}
	if entry.Messages.Install != "" {
		p.InstallTitle = entry.Messages.Install
	}
	if entry.Messages.Complete != "" {
		p.CompletionMessage = entry.Messages.Complete
	}
	if entry.RequiredEnv != nil {
		p.RequiredEnv = entry.RequiredEnv
	}

	return p
}
