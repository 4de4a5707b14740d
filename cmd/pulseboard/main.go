// Package main provides the entry point for the pulseboard server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:     "pulseboard",
		Short:   "Admin backend for projects, tickets, and members with version history",
		Version: version,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newSeedCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}
