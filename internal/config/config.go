package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	yamlv3 "gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFile is the default configuration filename.
	DefaultConfigFile = "formbuilder.yaml"

	// EnvPrefix prefixes environment overrides, e.g. FORMBUILDER_FORMS_DIR
	// or FORMBUILDER_COMPILER__PATH for nested keys.
	EnvPrefix = "FORMBUILDER_"
)

// flagKeys maps CLI flag names onto config keys. Flags not listed here are
// not configuration (e.g. --config itself).
var flagKeys = map[string]string{
	"forms-dir": "forms_dir",
	"verbose":   "verbose",
}

// Load builds the configuration from defaults, the config file, environment
// and flags, in increasing order of precedence.
//
// If path is empty, formbuilder.yaml is looked up in the current
// directory and a missing file simply means defaults. An explicit
// path that does not exist is an error.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath, err := findConfigFile(path)
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		fk := koanf.New(".")
		if err := fk.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
		if err := resolveFilePaths(fk, filepath.Dir(configPath)); err != nil {
			return nil, err
		}
		if err := k.Merge(fk); err != nil {
			return nil, fmt.Errorf("failed to merge config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &cfg, nil
}

// envKey turns FORMBUILDER_COMPILER__PATH into compiler.path.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// findConfigFile resolves the config file to read. It returns "" when no
// explicit path was given and the default file does not exist.
func findConfigFile(path string) (string, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return path, nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// FileHeader starts every config file written by Save.
const FileHeader = `# formbuilder configuration
#
# forms_dir:  directory holding the Qt Designer .ui forms
# compiler:   pyuic5 executable; path overrides the PATH lookup
# patch:      identifiers made relative in every generated module
#
# Relative paths are resolved against the directory of this file.
# Environment overrides use the FORMBUILDER_ prefix, with __ between
# nested keys, e.g. FORMBUILDER_COMPILER__PATH=/opt/qt/bin/pyuic5

`

// Save writes the configuration, preceded by FileHeader, to a YAML file.
func (c *Config) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, append([]byte(FileHeader), data...), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// resolveFilePaths makes the relative paths set by a config file relative
// to the file's directory. Keys the file does not set are left alone, so
// defaults, env and flag values stay relative to the working directory.
// A compiler path without a separator is a command name and is kept.
func resolveFilePaths(fk *koanf.Koanf, configDir string) error {
	for _, key := range []string{"forms_dir", "compiler.path", "logging.path"} {
		if !fk.Exists(key) {
			continue
		}
		p := NormalizePath(fk.String(key))
		if p == "" || filepath.IsAbs(p) {
			continue
		}
		if key == "compiler.path" && !strings.ContainsRune(p, filepath.Separator) {
			continue
		}
		if err := fk.Set(key, filepath.Join(configDir, p)); err != nil {
			return fmt.Errorf("failed to resolve %s: %w", key, err)
		}
	}
	return nil
}
