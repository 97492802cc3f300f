// Package main is the entry point for the testreport CLI.
package main

import (
	"os"

	"github.com/AndreyAkinshin/testreport/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
