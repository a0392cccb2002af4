package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// API keys and Telegram credentials may live in a local .env file.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
