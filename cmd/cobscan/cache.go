package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cobscan/internal/errors"
	"cobscan/internal/storage"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the artifact cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show artifact cache statistics",
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached artifacts",
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

// mustOpenCache opens the cache for the cache subcommands, where an
// unreachable cache is an error rather than a silent fallback.
func mustOpenCache() (*storage.Cache, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg)
	db, err := storage.Open(cfg.Cache.Dir, logger)
	if err != nil {
		return nil, errors.New(errors.InternalError, "failed to open artifact cache", err)
	}
	cache, err := storage.NewCache(db)
	if err != nil {
		db.Close()
		return nil, errors.New(errors.InternalError, "failed to open artifact cache", err)
	}
	return cache, nil
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	cache, err := mustOpenCache()
	if err != nil {
		return err
	}
	defer cache.Close()
	stats, err := cache.Stats()
	if err != nil {
		return errors.New(errors.InternalError, "failed to read cache statistics", err)
	}
	fmt.Printf("Entries:        %d\n", stats.Entries)
	fmt.Printf("Payload bytes:  %d\n", stats.PayloadBytes)
	if stats.Entries > 0 {
		fmt.Printf("Oldest entry:   %s\n", stats.OldestCreated)
		fmt.Printf("Newest entry:   %s\n", stats.NewestCreated)
	}
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	cache, err := mustOpenCache()
	if err != nil {
		return err
	}
	defer cache.Close()
	removed, err := cache.Clear()
	if err != nil {
		return errors.New(errors.InternalError, "failed to clear cache", err)
	}
	fmt.Printf("Removed %d cached artifacts\n", removed)
	return nil
}
