package forms

import (
	"fmt"
	"os"
	"strings"
)

// Patcher rewrites identifiers in generated modules into member references.
//
// pyuic5 emits custom widget imports such as "from qpaytoedit import PayToEdit",
// which only resolve when the generated form is run from inside the forms
// package. Prefixing a dot turns them into relative references.
type Patcher struct {
	identifiers []string
}

// NewPatcher creates a patcher for the given identifiers, applied in order.
func NewPatcher(identifiers ...string) *Patcher {
	ids := make([]string, 0, len(identifiers))
	for _, id := range identifiers {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return &Patcher{identifiers: ids}
}

// Identifiers returns the identifiers this patcher rewrites.
func (p *Patcher) Identifiers() []string {
	return append([]string(nil), p.identifiers...)
}

// Patch applies every identifier to every line of content and reports how
// many replacements were made.
//
// Only the first occurrence of an identifier on a line is rewritten and the
// match is a plain substring: an occurrence that is already dotted gains
// another dot. Generated modules depend on exactly this behaviour.
func (p *Patcher) Patch(content string) (string, int) {
	if len(p.identifiers) == 0 || content == "" {
		return content, 0
	}

	lines := strings.SplitAfter(content, "\n")
	count := 0
	for i, line := range lines {
		for _, id := range p.identifiers {
			idx := strings.Index(line, id)
			if idx < 0 {
				continue
			}
			line = line[:idx] + "." + line[idx:]
			count++
		}
		lines[i] = line
	}

	return strings.Join(lines, ""), count
}

// PatchFile patches the file at path in place, preserving its permissions.
// The file is only rewritten when something changed.
func (p *Patcher) PatchFile(path string) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat generated module: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read generated module: %w", err)
	}

	patched, count := p.Patch(string(data))
	if count == 0 {
		return 0, nil
	}

	if err := os.WriteFile(path, []byte(patched), info.Mode().Perm()); err != nil {
		return 0, fmt.Errorf("failed to write generated module: %w", err)
	}

	return count, nil
}
