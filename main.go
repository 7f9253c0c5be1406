package main

import (
	"os"

	"github.com/droe-core/droe-view/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
