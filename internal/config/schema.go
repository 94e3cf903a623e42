// Package config provides YAML configuration loading and validation for formbuilder.
package config

import (
	"path/filepath"
	"strings"
)

// Config represents the main configuration structure for formbuilder.
type Config struct {
	FormsDir string   `yaml:"forms_dir" koanf:"forms_dir"`
	Pattern  string   `yaml:"pattern" koanf:"pattern"`
	Compiler Compiler `yaml:"compiler" koanf:"compiler"`
	Patch    Patch    `yaml:"patch" koanf:"patch"`
	Logging  Logging  `yaml:"logging" koanf:"logging"`
	Verbose  bool     `yaml:"verbose,omitempty" koanf:"verbose"`
}

// Compiler defines the external form compiler settings.
type Compiler struct {
	Name        string   `yaml:"name" koanf:"name"`
	Path        string   `yaml:"path" koanf:"path"`
	Args        []string `yaml:"args" koanf:"args"`
	InstallHint string   `yaml:"install_hint" koanf:"install_hint"`
}

// Patch lists the identifiers rewritten into relative references
// after each form is compiled.
type Patch struct {
	Identifiers []string `yaml:"identifiers" koanf:"identifiers"`
}

// Logging defines logging configuration.
type Logging struct {
	Path  string `yaml:"path" koanf:"path"`
	Level string `yaml:"level" koanf:"level"`
}

const (
	// DefaultFormsDir is where the Qt Designer forms live, relative to the repository root.
	DefaultFormsDir = "electrum/gui/qt/forms"
	// DefaultPattern matches Qt Designer form files.
	DefaultPattern = "*.ui"
	// DefaultCompiler is the PyQt5 form compiler.
	DefaultCompiler = "pyuic5"
	// DefaultInstallHint is printed when the compiler cannot be found.
	DefaultInstallHint = "Please install pyuic5 (e.g. 'sudo apt-get install pyqt5-dev-tools' or 'pip install pyqt5')"
)

// DefaultIdentifiers are the module references pyuic5 emits as absolute
// imports while the generated forms live inside a package.
var DefaultIdentifiers = []string{"qpaytoedit", "qvalidatedlineedit"}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		FormsDir: DefaultFormsDir,
		Pattern:  DefaultPattern,
		Compiler: Compiler{
			Name:        DefaultCompiler,
			Path:        "", // Will auto-detect
			Args:        []string{"-x"},
			InstallHint: DefaultInstallHint,
		},
		Patch: Patch{
			Identifiers: append([]string(nil), DefaultIdentifiers...),
		},
		Logging: Logging{
			Path:  "",
			Level: "warn",
		},
	}
}

// defaults flattens DefaultConfig into koanf keys.
func defaults() map[string]interface{} {
	d := DefaultConfig()
	return map[string]interface{}{
		"forms_dir":             d.FormsDir,
		"pattern":               d.Pattern,
		"compiler.name":         d.Compiler.Name,
		"compiler.path":         d.Compiler.Path,
		"compiler.args":         d.Compiler.Args,
		"compiler.install_hint": d.Compiler.InstallHint,
		"patch.identifiers":     d.Patch.Identifiers,
		"logging.path":          d.Logging.Path,
		"logging.level":         d.Logging.Level,
		"verbose":               false,
	}
}

// NormalizePath converts path to OS-native format and handles both slash types.
func NormalizePath(path string) string {
	path = strings.ReplaceAll(path, "\\\\", "/")
	path = strings.ReplaceAll(path, "\\", "/")
	return filepath.FromSlash(path)
}

// GetFormsDir returns the normalized forms directory.
func (c *Config) GetFormsDir() string {
	return NormalizePath(c.FormsDir)
}

// GetCompilerPath returns the configured compiler executable path, if any.
func (c *Config) GetCompilerPath() string {
	if c.Compiler.Path != "" {
		return NormalizePath(c.Compiler.Path)
	}
	return ""
}

// LogLevel returns the effective log level, honouring Verbose.
func (c *Config) LogLevel() string {
	if c.Verbose {
		return "debug"
	}
	return c.Logging.Level
}
