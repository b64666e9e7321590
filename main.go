package main

import (
	"os"

	"github.com/pterm/pterm"

	"sshportal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}
