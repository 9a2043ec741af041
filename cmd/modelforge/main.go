package main

import (
	"os"

	"github.com/modelforge/modelforge/cmd/modelforge/app"
)

func main() {
	if err := app.NewModelForgeCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
