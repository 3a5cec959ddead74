package config

// configFile is the YAML schema of pave.yaml.
// Top-level fields act as defaults for every profile; per-profile fields
// override them.
type configFile struct {
	Version     string                  `yaml:"version"`
	Interpreter string                  `yaml:"interpreter"`
	Manifest    string                  `yaml:"manifest"`
	Tools       []string                `yaml:"tools"`
	Profiles    map[string]profileEntry `yaml:"profiles"`
}

// profileEntry is one profile's overrides in pave.yaml.
type profileEntry struct {
	Interpreter string        `yaml:"interpreter"`
	Manifest    string        `yaml:"manifest"`
	Tools       []string      `yaml:"tools"`
	Messages    messagesEntry `yaml:"messages"`
	RequiredEnv []string      `yaml:"required_env"`
}

// messagesEntry customizes the progress wording of one profile.
type messagesEntry struct {
	Upgrade  string `yaml:"upgrade"`
	Install  string `yaml:"install"`
	Complete string `yaml:"complete"`
}
