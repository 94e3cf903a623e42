//go:build !windows

package console

// Unix terminals get their title from the shell.
func setTitle(string) {}
