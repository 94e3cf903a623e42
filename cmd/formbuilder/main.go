// formbuilder regenerates the Python modules of the Qt Designer forms.
package main

import (
	"github.com/electrum-nmc/formbuilder/internal/cli"
)

func main() {
	cli.Execute()
}
