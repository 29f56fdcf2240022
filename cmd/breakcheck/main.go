package main

import (
	"os"

	"github.com/dshills/breakcheck/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
