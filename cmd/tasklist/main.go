package main

import (
	"os"

	"github.com/tgienger/tasklist/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
