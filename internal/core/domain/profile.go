package domain

import "fmt"

// Defaults applied to any profile that does not override them.
const (
	// DefaultInterpreter is the interpreter used to drive the package manager.
	DefaultInterpreter = "python3"
	// DefaultManifest is the dependency manifest read by install steps.
	DefaultManifest = "requirements.txt"
	// DefaultProfileName is the profile selected when none is requested.
	DefaultProfileName = "local"
)

// DefaultTools returns the packaging tools upgraded before installing
// dependencies. The upgrade runs as a single transaction over all of them.
func DefaultTools() []string {
	return []string{"pip", "setuptools", "wheel"}
}

// Profile describes one setup flavor. Profiles differ in data only; the
// execution sequence is identical for all of them.
type Profile struct {
	Name              string
	Interpreter       string
	Manifest          string
	Tools             []string
	UpgradeTitle      string
	InstallTitle      string
	CompletionMessage string
	// RequiredEnv lists environment variables the application needs at
	// runtime. Only consulted by diagnosis, never by setup itself.
	RequiredEnv []string
}

// ApplyDefaults fills unset fields with the built-in defaults.
// Titles derive from the resolved manifest so overrides stay accurate.
func (p Profile) ApplyDefaults() Profile {
	if p.Interpreter == "" {
		p.Interpreter = DefaultInterpreter
	}
	if p.Manifest == "" {
		p.Manifest = DefaultManifest
	}
	if p.Tools == nil {
		p.Tools = DefaultTools()
	}
	if p.UpgradeTitle == "" {
		p.UpgradeTitle = "Upgrading packaging tools..."
	}
	if p.InstallTitle == "" {
		p.InstallTitle = derivedInstallTitle(p.Manifest)
	}
	if p.CompletionMessage == "" {
		p.CompletionMessage = "Setup complete."
	}
	return p
}

// OverrideManifest points the profile at a different manifest. An install
// title derived from the old path is re-derived for the new one; an
// explicitly configured title is kept.
func (p Profile) OverrideManifest(path string) Profile {
	if p.InstallTitle == derivedInstallTitle(p.Manifest) {
		p.InstallTitle = derivedInstallTitle(path)
	}
	p.Manifest = path
	return p
}

func derivedInstallTitle(manifest string) string {
	return fmt.Sprintf("Installing dependencies from %s...", manifest)
}

// BuiltinProfiles returns the profiles available without any configuration
// file. Both run the same upgrade-then-install sequence; the deploy profile
// only changes the wording so hosting logs read naturally.
func BuiltinProfiles() map[string]Profile {
	local := Profile{
		Name: "local",
	}.ApplyDefaults()

	deploy := Profile{
		Name:              "deploy",
		UpgradeTitle:      "Preparing deploy toolchain...",
		CompletionMessage: "Deploy environment ready.",
	}.ApplyDefaults()

	return map[string]Profile{
		local.Name:  local,
		deploy.Name: deploy,
	}
}
