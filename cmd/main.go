package main

import (
	"os"

	"pfxcrack/internal/platform/cli"
)

func main() {
	os.Exit(cli.Execute())
}
