package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ArquintL/silicon/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the verification unit cache",
	Long:  "Remove every cached unit result; the next verify run re-axiomatizes everything.",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func runClean(_ *cobra.Command, _ []string) error {
	cache, err := driver.OpenDiskCache("silicon")
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to drop cache: %w", err)
	}
	_, _ = fmt.Fprintln(os.Stdout, "verification cache cleared")
	return nil
}
