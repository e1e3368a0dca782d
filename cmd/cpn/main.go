package main

import (
	"os"

	"github.com/check-phat-nguoi/cpn-core/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
