package main

import (
	"os"

	"github.com/relaystack/pgparse/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
