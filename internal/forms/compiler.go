package forms

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Compiler turns one form into a generated module.
type Compiler interface {
	Compile(ctx context.Context, source, output string) error
}

// Checker is implemented by compilers that can verify their tool is
// installed before any form is touched.
type Checker interface {
	Check() error
}

// ErrToolNotFound matches every ToolNotFoundError.
var ErrToolNotFound = errors.New("form compiler not found")

// ToolNotFoundError reports a missing form compiler together with
// instructions for installing it.
type ToolNotFoundError struct {
	Tool string
	Hint string
}

func (e *ToolNotFoundError) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("%s not found", e.Tool)
	}
	return fmt.Sprintf("%s not found. %s", e.Tool, e.Hint)
}

// Is lets errors.Is(err, ErrToolNotFound) match.
func (e *ToolNotFoundError) Is(target error) bool {
	return target == ErrToolNotFound
}

// CompileError reports a failed compiler invocation for one form.
type CompileError struct {
	Source string
	Output string // combined stdout/stderr of the tool
	Err    error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile %s: %v", e.Source, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// ExitCode returns the compiler's exit status, or 1 when it has none.
func (e *CompileError) ExitCode() int {
	var exitErr *exec.ExitError
	if errors.As(e.Err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode()
	}
	return 1
}

// CompilerFunc adapts an ordinary function to the Compiler interface.
type CompilerFunc func(ctx context.Context, source, output string) error

// Compile calls f(ctx, source, output).
func (f CompilerFunc) Compile(ctx context.Context, source, output string) error {
	return f(ctx, source, output)
}
