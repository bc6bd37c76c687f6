// Package main is the entry point for the vows service and its CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

// profile selects configs/<profile>.yaml.
var profile string

var rootCmd = &cobra.Command{
	Use:   "vows",
	Short: "Draft vows and eulogies from seed quotes",
	Long: `vows drafts wedding vows, personal letters and eulogies from a seed
quote, picked from the bundled philosopher catalog or from the caller's
Readwise highlights.`,
	SilenceUsage: true,
}

func init() {
	// Load .env file if present
	_ = godotenv.Load()

	defaultProfile := os.Getenv("APP_ENVIRONMENT")
	if defaultProfile == "" {
		defaultProfile = "local"
	}

	rootCmd.PersistentFlags().StringVar(&profile, "profile", defaultProfile, "configuration profile (configs/<profile>.yaml)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
