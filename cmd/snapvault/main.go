package main

import (
	"os"

	"github.com/ewout/snapvault/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
