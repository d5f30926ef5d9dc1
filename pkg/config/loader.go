package config

import (
	_ "embed"
	stderrors "errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/activate/pkg/errors"
	"github.com/arthur-debert/activate/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "ACTIVATE_"

//go:embed embedded/defaults.toml
var defaultConfig []byte

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// UserConfigPath returns where the user settings file is looked up.
func UserConfigPath() string {
	xdg.Reload()
	return filepath.Join(xdg.ConfigHome, "activate", "config.toml")
}

// Load reads the settings using the user config file at UserConfigPath.
func Load() (*Config, error) {
	return LoadFrom(UserConfigPath())
}

// LoadFrom reads the settings using path as the user config file.
// A missing file, or an empty path, is skipped.
func LoadFrom(path string) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load default settings")
	}

	// 2. User file
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load settings from %s", path).
					WithDetail("path", path)
			}
			logger.Debug().Str("path", path).Msg("Loaded user settings")
		}
	}

	// 3. Env vars. Keys contain underscores, so names are matched against
	// the known keys instead of splitting on every underscore.
	known := envKeys(k.Keys())
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return known[s]
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load settings from environment")
	}

	// 4. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to decode settings")
	}

	// 5. Post-process
	if err := postProcess(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKeys maps ACTIVATE_DISCOVERY_SKIP_HIDDEN style names to koanf keys.
func envKeys(keys []string) map[string]string {
	names := make(map[string]string, len(keys))
	for _, key := range keys {
		name := EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		names[name] = key
	}
	return names
}

func postProcess(cfg *Config) error {
	if cfg.Workers < 0 {
		return errors.Newf(errors.ErrInvalidInput, "workers must not be negative, got %d", cfg.Workers).
			WithDetail("workers", cfg.Workers)
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return nil
}
