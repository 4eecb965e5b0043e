package main

import (
	"os"

	"github.com/pterm/pterm"
)

func main() {
	err := newRootCmd().Execute()
	closeRunLog()
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}
