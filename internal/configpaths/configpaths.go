// Package configpaths resolves candidate locations for the ximapperd
// blueprint/log configuration file, the way VIIPER's configpaths package
// resolves candidates for its own config and key files.
package configpaths

import (
	"os"
	"path/filepath"
)

// DefaultConfigDir returns the per-user configuration directory for
// ximapperd, preferring XDG_CONFIG_HOME on platforms that set it.
func DefaultConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ximapperd"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ximapperd"), nil
}

// ConfigCandidatePaths returns the JSON, YAML, and TOML config file
// candidates to probe, in priority order. If userCfg is non-empty it is
// used verbatim (extension determines which slice it lands in); otherwise
// the default config directory is searched for well-known filenames.
func ConfigCandidatePaths(userCfg string) (jsonPaths, yamlPaths, tomlPaths []string) {
	if userCfg != "" {
		switch filepath.Ext(userCfg) {
		case ".json":
			return []string{userCfg}, nil, nil
		case ".yaml", ".yml":
			return nil, []string{userCfg}, nil
		case ".toml":
			return nil, nil, []string{userCfg}
		default:
			return nil, nil, []string{userCfg}
		}
	}

	dir, err := DefaultConfigDir()
	if err != nil {
		return nil, nil, nil
	}
	return []string{filepath.Join(dir, "ximapperd.json")},
		[]string{filepath.Join(dir, "ximapperd.yaml"), filepath.Join(dir, "ximapperd.yml")},
		[]string{filepath.Join(dir, "ximapperd.toml")}
}
