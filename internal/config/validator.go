package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidationError is a problem with one config key.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationResult collects the problems found by Validate. Warnings never
// make a config invalid.
type ValidationResult struct {
	Valid    bool
	Errors   []ValidationError
	Warnings []string
}

// Validate checks c without modifying it. Paths are checked as resolved
// by GetFormsDir and GetCompilerPath.
func (c *Config) Validate() *ValidationResult {
	result := &ValidationResult{Valid: true}

	if strings.TrimSpace(c.FormsDir) == "" {
		result.addError("forms_dir", "forms directory is required")
	} else if info, err := os.Stat(c.GetFormsDir()); err != nil {
		// No forms is a valid (empty) run.
		result.addWarning(fmt.Sprintf("forms directory does not exist: %s", c.FormsDir))
	} else if !info.IsDir() {
		result.addError("forms_dir", fmt.Sprintf("not a directory: %s", c.FormsDir))
	}

	if strings.TrimSpace(c.Pattern) == "" {
		result.addError("pattern", "glob pattern is required")
	} else if _, err := filepath.Match(c.Pattern, ""); err != nil {
		result.addError("pattern", fmt.Sprintf("invalid glob pattern %q: %v", c.Pattern, err))
	} else if !strings.HasSuffix(c.Pattern, ".ui") {
		result.addWarning(fmt.Sprintf("pattern %q does not end in .ui; non-form matches will be rejected", c.Pattern))
	}

	if strings.TrimSpace(c.Compiler.Name) == "" && strings.TrimSpace(c.Compiler.Path) == "" {
		result.addError("compiler.name", "compiler name or path is required")
	}
	if c.Compiler.Path != "" {
		if _, err := os.Stat(c.GetCompilerPath()); os.IsNotExist(err) {
			result.addWarning(fmt.Sprintf("compiler path does not exist: %s; falling back to %s on PATH", c.Compiler.Path, c.Compiler.Name))
		}
	}
	for _, arg := range c.Compiler.Args {
		if arg == "-o" || arg == "--output" {
			result.addError("compiler.args", "output flag is added automatically and must not be configured")
		}
	}

	if len(c.Patch.Identifiers) == 0 {
		result.addWarning("no patch identifiers configured; generated forms will not be patched")
	}
	for i, id := range c.Patch.Identifiers {
		if strings.TrimSpace(id) == "" {
			result.addError(fmt.Sprintf("patch.identifiers[%d]", i), "identifier must not be empty")
		} else if strings.ContainsAny(id, "\r\n") {
			result.addError(fmt.Sprintf("patch.identifiers[%d]", i), "identifier must be a single line")
		}
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		result.addWarning(fmt.Sprintf("unrecognized log level '%s'; consider using: debug, info, warn, error", c.Logging.Level))
	}

	return result
}

func (r *ValidationResult) addError(field, message string) {
	r.Valid = false
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: message})
}

func (r *ValidationResult) addWarning(message string) {
	r.Warnings = append(r.Warnings, message)
}

// String renders the result for the config validate command.
func (r *ValidationResult) String() string {
	var sb strings.Builder
	if r.Valid {
		sb.WriteString("Configuration is valid\n")
	} else {
		fmt.Fprintf(&sb, "Configuration has %d error(s):\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Fprintf(&sb, "  ✗ %s\n", e)
		}
	}
	if len(r.Warnings) > 0 {
		sb.WriteString("Warnings:\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&sb, "  ⚠ %s\n", w)
		}
	}
	return sb.String()
}

// MustValidate returns every validation error joined, or nil.
func (c *Config) MustValidate() error {
	result := c.Validate()
	if result.Valid {
		return nil
	}
	errs := make([]error, len(result.Errors))
	for i, e := range result.Errors {
		errs[i] = e
	}
	return fmt.Errorf("configuration validation failed: %w", errors.Join(errs...))
}
