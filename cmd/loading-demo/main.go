package main

import (
	"os"

	"github.com/goliatone/go-loading/cmd/loading-demo/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
