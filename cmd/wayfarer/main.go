// Command wayfarer serves the travel log.
//
//	wayfarer [serve]         run the web server
//	wayfarer migrate         run database migrations and exit
//	wayfarer token <email>   print a magic login link
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(envFile()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "could not load env file:", err)
		os.Exit(1)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// envFile names the file environment variables are loaded from,
// ".env" unless ENV_FILE says otherwise.
func envFile() string {
	if f := os.Getenv("ENV_FILE"); f != "" {
		return f
	}

	return ".env"
}
