package main

import (
	"errors"
	"io/fs"
	"log"
	"log/slog"
	"os"

	"github.com/Jacobbrewer1/kyogre/pkg/logging"
	"github.com/joho/godotenv"
)

func main() {
	// A .env file is optional, the environment always wins.
	envErr := godotenv.Load()

	a, err := InitializeApp()
	if err != nil {
		log.Fatalln(err)
	}

	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		a.Warn("Error loading .env file", slog.String(logging.KeyError, envErr.Error()))
	}

	if err := parseConfig(a.Log()); err != nil {
		a.Error("Error parsing configuration", slog.String(logging.KeyError, err.Error()))
		os.Exit(1)
	}

	a.Info("Starting application")
	if err := a.Run(); err != nil {
		a.Error("Error running application", slog.String(logging.KeyError, err.Error()))
		os.Exit(1)
	}
}
