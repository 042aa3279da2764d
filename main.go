package main

import (
	"github.com/joho/godotenv"

	"smart-tutor-pipeline/cmd"
)

func main() {
	// Load .env for local dev; deployed environments inject real env vars.
	_ = godotenv.Load()

	cmd.Execute()
}
