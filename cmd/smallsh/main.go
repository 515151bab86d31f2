package main

import (
	"fmt"
	"os"

	"smallsh/internal/config"
	"smallsh/internal/launch"
	"smallsh/internal/logging"
	"smallsh/internal/shell"
)

func main() {
	// Launched commands re-enter this binary; nothing else may run first.
	if launch.IsHelper() {
		launch.Main()
	}

	cfg, err := config.Load(config.Path())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log, closer, err := logging.Open(cfg.LogFile, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	s, err := shell.New(cfg, shell.WithLogger(log))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing shell: %v\n", err)
		os.Exit(1)
	}

	if err := s.Run(); err != nil {
		log.Error("interpreter stopped", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		closer.Close()
		os.Exit(1)
	}
}
