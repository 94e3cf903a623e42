// Package console provides cross-platform console utilities.
package console

// SetTitle sets the console window title.
// On Windows, this uses the Windows API.
// Elsewhere it is a no-op.
func SetTitle(title string) {
	setTitle(title)
}
