package main

import (
	"os"

	"github.com/Iron-Ham/contractlens/internal/cmd"
)

func main() {
	// cobra has already printed the error
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
