package forms

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/electrum-nmc/formbuilder/internal/config"
	"github.com/electrum-nmc/formbuilder/internal/logger"
)

// PyUIC compiles forms with the external pyuic5 tool.
type PyUIC struct {
	config  *config.Config
	exePath string
}

// NewPyUIC creates a compiler for the configured pyuic5 executable.
func NewPyUIC(cfg *config.Config) *PyUIC {
	return &PyUIC{
		config:  cfg,
		exePath: findPyUIC(cfg),
	}
}

// findPyUIC locates the compiler executable.
func findPyUIC(cfg *config.Config) string {
	// Check config first
	if path := cfg.GetCompilerPath(); path != "" {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
		logger.Warn("configured compiler not found", "path", path)
	}

	name := cfg.Compiler.Name
	if name == "" {
		name = config.DefaultCompiler
	}
	if path, err := exec.LookPath(name); err == nil {
		return path
	}

	return ""
}

// IsAvailable checks if the compiler is available on the system.
func (p *PyUIC) IsAvailable() bool {
	return p.exePath != ""
}

// GetPath returns the path to the compiler executable.
func (p *PyUIC) GetPath() string {
	return p.exePath
}

// Name returns the configured tool name.
func (p *PyUIC) Name() string {
	if p.config.Compiler.Name != "" {
		return p.config.Compiler.Name
	}
	return config.DefaultCompiler
}

// Check returns a ToolNotFoundError when the compiler is not installed.
func (p *PyUIC) Check() error {
	if p.IsAvailable() {
		return nil
	}
	return &ToolNotFoundError{
		Tool: p.Name(),
		Hint: p.config.Compiler.InstallHint,
	}
}

// Compile runs the compiler for one form.
//
//	pyuic5 -x form.ui -o form.py
func (p *PyUIC) Compile(ctx context.Context, source, output string) error {
	if err := p.Check(); err != nil {
		return err
	}

	args := append([]string{}, p.config.Compiler.Args...)
	args = append(args, source, "-o", output)

	log := logger.With("form", source)
	log.Debug("running form compiler", "exe", p.exePath, "args", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, p.exePath, args...)

	out, err := cmd.CombinedOutput()
	if err != nil {
		log.Debug("form compiler failed", "error", err, "output", string(out))
		return &CompileError{Source: source, Output: string(out), Err: err}
	}
	if len(out) > 0 {
		log.Debug("form compiler output", "output", string(out))
	}

	return nil
}
