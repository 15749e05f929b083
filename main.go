package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/bitinch/bitinch/cmd"
)

func main() {
	// optional; API keys may come from the environment directly
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
