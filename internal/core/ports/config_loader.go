package ports

import "github.com/paveproject/pave/internal/core/domain"

// ConfigLoader resolves profiles from the optional configuration file.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load resolves the named profile, merging the configuration file (if
	// any) over the built-in profiles. An empty name selects the default
	// profile. A non-empty configFile pins the file instead of discovering
	// it from cwd, and then it must exist. A discovered configuration file
	// being absent is not an error; an unknown profile name is.
	Load(cwd, configFile, profileName string) (domain.Profile, error)

	// DiscoverRoot walks up from cwd to the directory containing the
	// configuration file. It returns cwd when no configuration file
	// exists, so zero-config projects root at the working directory.
	DiscoverRoot(cwd string) (string, error)

	// ConfigPath returns the path of the configuration file in use, or ""
	// when running on built-in defaults.
	ConfigPath(cwd string) string
}
