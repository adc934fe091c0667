package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/villagecare/cms-sync/internal/cli"
	"github.com/villagecare/cms-sync/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	if err := logger.Init(os.Getenv("LOG_MODE")); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
