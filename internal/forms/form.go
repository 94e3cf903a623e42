// Package forms compiles Qt Designer forms into Python modules with the
// external pyuic5 compiler and patches the generated output.
package forms

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// SourceExt is the suffix of Qt Designer form files.
	SourceExt = ".ui"
	// OutputExt is the suffix of generated Python modules.
	OutputExt = ".py"
)

// ErrNotForm is returned for paths that do not end in SourceExt.
var ErrNotForm = errors.New("not a form file")

// Form pairs a form source with its generated module.
type Form struct {
	Source string
	Output string
}

// NewForm derives the Form for a source path.
func NewForm(source string) (Form, error) {
	out, err := OutputPath(source)
	if err != nil {
		return Form{}, err
	}
	return Form{Source: source, Output: out}, nil
}

// OutputPath replaces the trailing ".ui" of source with ".py".
// Nothing else in the path changes and the filesystem is not touched.
func OutputPath(source string) (string, error) {
	if !strings.HasSuffix(source, SourceExt) {
		return "", fmt.Errorf("%w: %s", ErrNotForm, source)
	}
	return strings.TrimSuffix(source, SourceExt) + OutputExt, nil
}

// Discover returns the forms matching pattern inside dir, in glob order.
// A missing directory yields no forms.
func Discover(dir, pattern string) ([]Form, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid form pattern %q: %w", pattern, err)
	}

	forms := make([]Form, 0, len(matches))
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", match, err)
		}
		if info.IsDir() {
			continue
		}

		form, err := NewForm(match)
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}

	return forms, nil
}

// Status describes how a generated module relates to its form.
type Status string

const (
	StatusMissing Status = "missing"
	StatusStale   Status = "stale"
	StatusCurrent Status = "current"
)

// StatusOf reports whether the form's output exists and is newer than its source.
func StatusOf(f Form) (Status, error) {
	src, err := os.Stat(f.Source)
	if err != nil {
		return "", fmt.Errorf("failed to stat form: %w", err)
	}

	out, err := os.Stat(f.Output)
	if errors.Is(err, os.ErrNotExist) {
		return StatusMissing, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to stat generated module: %w", err)
	}

	if out.ModTime().Before(src.ModTime()) {
		return StatusStale, nil
	}
	return StatusCurrent, nil
}
