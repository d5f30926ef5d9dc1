package environments

import (
	stderrors "errors"
	"io/fs"
	"sort"

	"github.com/arthur-debert/activate/pkg/errors"
	"github.com/arthur-debert/activate/pkg/logging"
	"github.com/arthur-debert/activate/pkg/paths"
	"github.com/arthur-debert/activate/pkg/shell"
	"github.com/arthur-debert/activate/pkg/types"
	toml "github.com/pelletier/go-toml/v2"
)

// Exists reports whether dir has a declaration source.
func Exists(filesystem types.FS, dir string) bool {
	info, err := filesystem.Stat(paths.ConfigPath(dir))
	return err == nil && !info.IsDir()
}

// Load reads and parses the activate.toml of dir.
func Load(filesystem types.FS, dir string) (types.Environments, error) {
	configPath := paths.ConfigPath(dir)
	logger := logging.GetLogger("environments").With().Str("configPath", configPath).Logger()

	data, err := filesystem.ReadFile(configPath)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Newf(errors.ErrConfigNotFound, "no `%s` file found in `%s`", paths.ConfigFileName, dir).
				WithDetail("path", configPath)
		}
		return nil, errors.Wrapf(err, errors.ErrConfigNotFound, "could not read `%s`", configPath).
			WithDetail("path", configPath)
	}

	envs := types.Environments{}
	if err := toml.Unmarshal(data, &envs); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "could not parse `%s`", configPath).
			WithDetail("path", configPath)
	}

	if err := checkVariableNames(envs, configPath); err != nil {
		return nil, err
	}

	logger.Debug().Int("environments", len(envs)).Msg("Loaded environment declarations")
	return envs, nil
}

// checkVariableNames rejects names that would not survive a shell eval.
func checkVariableNames(envs types.Environments, configPath string) error {
	for _, envName := range Names(envs) {
		for _, name := range types.SortedKeys(envs[envName].Env) {
			if !shell.IsValidName(name) {
				return errors.Newf(errors.ErrConfigParse,
					"environment '%s' declares an invalid variable name `%s`", envName, name).
					WithDetail("path", configPath).
					WithDetail("environment", envName).
					WithDetail("name", name)
			}
		}
	}
	return nil
}

// Select returns the environment called name.
func Select(envs types.Environments, name string) (types.Environment, error) {
	if len(envs) == 0 {
		return types.Environment{}, errors.Newf(errors.ErrNoEnvironments,
			"no environments found in `%s`", paths.ConfigFileName)
	}

	env, ok := envs[name]
	if !ok {
		return types.Environment{}, errors.Newf(errors.ErrUnknownEnvironment,
			"'%s' is not a valid environment", name).
			WithDetail("name", name).
			WithDetail("available", Names(envs))
	}

	return env, nil
}

// Names returns the declared environment names in ascending order.
func Names(envs types.Environments) []string {
	names := make([]string, 0, len(envs))
	for name := range envs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
