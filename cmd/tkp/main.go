package main

import (
	"os"

	"techknowledgepills/cmd/tkp/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
