package main

import (
	"os"

	"github.com/handiism/social-transcriber/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
