package config

// Config holds the tool settings.
type Config struct {
	// Workers bounds parallel activations in recursive mode.
	Workers   int       `koanf:"workers"`
	Discovery Discovery `koanf:"discovery"`
	Artifacts Artifacts `koanf:"artifacts"`
}

// Discovery controls which directories a recursive run visits.
type Discovery struct {
	SkipHidden bool     `koanf:"skip_hidden"`
	GitIgnore  bool     `koanf:"gitignore"`
	Ignore     []string `koanf:"ignore"`
}

// Artifacts selects which files are rendered under .activate/.
type Artifacts struct {
	DotEnv    bool `koanf:"dotenv"`
	JSON      bool `koanf:"json"`
	ConfigMap bool `koanf:"configmap"`
	// ConfigMapName overrides the name derived from the directory.
	ConfigMapName string `koanf:"configmap_name"`
}
