package main

import (
	"github.com/joho/godotenv"

	"github.com/teemow/multical/cmd"
)

// version will be set by goreleaser during build
var version = "dev"

func main() {
	// A missing .env file is fine; the variables may come from the environment.
	_ = godotenv.Load()

	cmd.SetVersion(version)
	cmd.Execute()
}
