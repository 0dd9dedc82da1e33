package main

import (
	"os"

	"github.com/Coxless/wtenv/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
