package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultFormsDir, cfg.FormsDir)
	assert.Equal(t, "*.ui", cfg.Pattern)
	assert.Equal(t, "pyuic5", cfg.Compiler.Name)
	assert.Equal(t, []string{"-x"}, cfg.Compiler.Args)
	assert.Equal(t, []string{"qpaytoedit", "qvalidatedlineedit"}, cfg.Patch.Identifiers)
	assert.Equal(t, "warn", cfg.LogLevel())
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
forms_dir: gui/forms
compiler:
  name: pyuic5-3
  args: ["-x", "--from-imports"]
patch:
  identifiers: [qpaytoedit]
logging:
  level: debug
  path: logs/formbuilder.log
`)
	chdir(t, dir)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "gui", "forms"), cfg.FormsDir)
	assert.Equal(t, "pyuic5-3", cfg.Compiler.Name)
	assert.Equal(t, []string{"-x", "--from-imports"}, cfg.Compiler.Args)
	assert.Equal(t, []string{"qpaytoedit"}, cfg.Patch.Identifiers)
	assert.Equal(t, filepath.Join(wd, "logs", "formbuilder.log"), cfg.Logging.Path)
	// Keys absent from the file keep their defaults.
	assert.Equal(t, "*.ui", cfg.Pattern)
	assert.Equal(t, DefaultInstallHint, cfg.Compiler.InstallHint)
}

func TestLoad_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "forms_dir: forms\n")
	chdir(t, t.TempDir())

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "forms"), cfg.FormsDir)
}

func TestLoad_ExplicitFileKeepsDefaultFormsDir(t *testing.T) {
	root := t.TempDir()
	tools := filepath.Join(root, "tools")
	require.NoError(t, os.Mkdir(tools, 0755))
	path := writeConfig(t, tools, "logging:\n  level: debug\n")
	chdir(t, root)

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultFormsDir, cfg.FormsDir)
	assert.Equal(t, "debug", cfg.LogLevel())

	t.Setenv("FORMBUILDER_FORMS_DIR", "env/forms")
	cfg, err = Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "env/forms", cfg.FormsDir)
}

func TestLoad_FileCompilerName(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "compiler:\n  path: pyuic5-3\n")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "pyuic5-3", cfg.Compiler.Path)
}

func TestLoad_FlagOverridesFileFormsDir(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "forms_dir: gui/forms\n")
	chdir(t, dir)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("forms-dir", "", "")
	require.NoError(t, flags.Parse([]string{"--forms-dir", "other/forms"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "other/forms", cfg.FormsDir)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Load("nope.yaml", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.yaml")
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "forms_dir: [unterminated\n")
	chdir(t, dir)

	_, err := Load("", nil)
	require.Error(t, err)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "forms_dir: /from/file\ncompiler:\n  path: /from/file/pyuic5\n")
	chdir(t, dir)

	t.Setenv("FORMBUILDER_FORMS_DIR", "/from/env")
	t.Setenv("FORMBUILDER_COMPILER__PATH", "/from/env/pyuic5")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.FormsDir)
	assert.Equal(t, "/from/env/pyuic5", cfg.Compiler.Path)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("forms-dir", "", "")
	flags.Bool("verbose", false, "")
	flags.String("config", "", "")
	require.NoError(t, flags.Parse([]string{"--forms-dir", "from/flag", "--verbose"}))

	cfg, err = Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "from/flag", cfg.FormsDir)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "debug", cfg.LogLevel())
	assert.Equal(t, "/from/env/pyuic5", cfg.Compiler.Path)
}

func TestLoad_UnchangedFlagsKeepDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("forms-dir", "ignored-default", "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, DefaultFormsDir, cfg.FormsDir)
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFile)

	cfg := DefaultConfig()
	cfg.FormsDir = filepath.Join(dir, "custom", "forms")
	cfg.Patch.Identifiers = []string{"qpaytoedit"}
	require.NoError(t, cfg.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), FileHeader))

	loaded, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, filepath.FromSlash("electrum/gui/qt/forms"), NormalizePath(`electrum\gui\qt\forms`))
	assert.Equal(t, filepath.FromSlash("a/b"), NormalizePath("a/b"))
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
