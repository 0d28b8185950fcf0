package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"focusforge/internal/cli"
	"focusforge/internal/platform"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	root := cli.NewRootCommand(platform.NewService(), runGUI)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
