package main

import (
	"os"

	"ai-coach-be/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
