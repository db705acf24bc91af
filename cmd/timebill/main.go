package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/solobill/timebill/internal/cli"
	"github.com/solobill/timebill/internal/config"
	"github.com/solobill/timebill/internal/logger"
)

func main() {
	// A .env file is optional; environment overrides work without it.
	_ = godotenv.Load()

	configPath := config.DefaultPath()
	if v := os.Getenv("TIMEBILL_CONFIG"); v != "" {
		configPath = v
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("loading configuration: %v", err)
	}

	if err := logger.Setup(cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatalf("initializing logger: %v", err)
	}

	cli.Execute(cfg)
}
