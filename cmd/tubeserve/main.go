package main

import (
	"os"

	"github.com/tubeserve/tubeserve/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
