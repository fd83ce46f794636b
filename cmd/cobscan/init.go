package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"cobscan/internal/config"
	"cobscan/internal/errors"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long:  "Create .cobscan/config.json in the current directory with default settings",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing configuration")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	path := filepath.Join(".cobscan", "config.json")
	if _, err := os.Stat(path); err == nil && !initForce {
		return errors.Newf(errors.UsageError, "%s already exists, use --force to overwrite", path)
	}
	cfg := config.DefaultConfig()
	if err := cfg.Save("."); err != nil {
		return errors.New(errors.InternalError, "failed to write configuration", err)
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
