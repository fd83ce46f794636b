package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"cobscan/internal/artifact"
	"cobscan/internal/cobol"
	"cobscan/internal/config"
	"cobscan/internal/engine"
	"cobscan/internal/errors"
	"cobscan/internal/logging"
	"cobscan/internal/source"
	"cobscan/internal/storage"
	"cobscan/internal/version"
)

var (
	formatFlag  string
	engineFlag  string
	workersFlag int
	noCacheFlag bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze one COBOL source file",
	Long: `Analyze a single COBOL source file and emit the structural model as a
JSON artifact on stdout. Exit codes: 0 on success, 1 on parse or
extraction failure, 2 on usage error, 3 when the input file is missing.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.Newf(errors.UsageError, "expected exactly one COBOL source file, got %d arguments", len(args))
		}
		return nil
	},
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&formatFlag, "format", "",
		"Source format: FIXED or VARIABLE (default: COBOL_SOURCE_FORMAT env, then config)")
	analyzeCmd.Flags().StringVar(&engineFlag, "engine", "",
		"Parse engine name from "+engine.RegistryFile+" (default: configured or declared default)")
	analyzeCmd.Flags().IntVar(&workersFlag, "workers", 0,
		"Extraction worker count (default: from config)")
	analyzeCmd.Flags().BoolVar(&noCacheFlag, "no-cache", false,
		"Bypass the artifact cache for this run")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	// Flag beats env beats config for the source format.
	if formatFlag != "" {
		cfg.SourceFormat = config.NormalizeFormat(formatFlag)
	}
	if workersFlag > 0 {
		cfg.Workers = workersFlag
	}

	eng, err := resolveEngine(cfg, logger)
	if err != nil {
		return err
	}
	engineID := engine.HeuristicID
	if eng != nil {
		engineID = eng.ID()
	}

	doc, err := source.Load(args[0], source.ParseFormat(cfg.SourceFormat))
	if err != nil {
		return err
	}

	cache := openCache(cfg, logger)
	var key storage.Key
	if cache != nil {
		defer cache.Close()
		key = storage.Key{
			ContentSha256: doc.Sha256(),
			SourceFormat:  cfg.SourceFormat,
			Engine:        engineID,
			ToolVersion:   version.Version,
		}
		if payload, ok, err := cache.Get(key); err == nil && ok {
			logger.Debug("artifact cache hit", map[string]interface{}{
				"file": doc.Path,
				"sha":  key.ContentSha256,
			})
			fmt.Println(string(payload))
			return nil
		}
	}

	analyzer := cobol.New(eng, cfg.Workers, logger)
	result, err := analyzer.Analyze(context.Background(), doc)
	if err != nil {
		return err
	}

	payload, err := artifact.Encode(result)
	if err != nil {
		return errors.New(errors.InternalError, "failed to encode artifact", err)
	}
	fmt.Println(string(payload))

	if cache != nil {
		if err := cache.Put(key, payload); err != nil {
			logger.Warn("artifact cache write failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return nil
}

// resolveEngine picks the external parse engine for this run. An
// explicitly named engine must exist and be usable; otherwise the
// configured engine is used, then the registry default, then heuristics.
func resolveEngine(cfg *config.Config, logger *logging.Logger) (engine.Engine, error) {
	if engineFlag != "" {
		decls, err := engine.LoadRegistry(registryPath(cfg))
		if err != nil {
			return nil, errors.New(errors.InternalError, "failed to read engine registry", err)
		}
		for _, d := range decls {
			if d.Name != engineFlag {
				continue
			}
			if !d.Available() {
				return nil, errors.Newf(errors.EngineUnavailable, "engine %s declared but jar %s not found", d.Name, d.Jar)
			}
			eng, ok := engine.Resolve(d.EngineConfig(), logger)
			if !ok {
				return nil, errors.Newf(errors.EngineUnavailable, "engine %s is not usable", d.Name)
			}
			return eng, nil
		}
		return nil, errors.Newf(errors.UsageError, "unknown engine %q, not declared in %s", engineFlag, registryPath(cfg))
	}

	if cfg.Engine.Jar == "" {
		decls, err := engine.LoadRegistry(registryPath(cfg))
		if err != nil {
			logger.Warn("failed to read engine registry, falling back to heuristics", map[string]interface{}{
				"error": err.Error(),
			})
			return nil, nil
		}
		if d, ok := engine.DefaultDeclaration(decls); ok {
			ec := d.EngineConfig()
			ec.Registry = cfg.Engine.Registry
			eng, _ := engine.Resolve(ec, logger)
			return eng, nil
		}
		return nil, nil
	}

	eng, _ := engine.Resolve(cfg.Engine, logger)
	return eng, nil
}

// registryPath resolves the ENGINES.toml location, defaulting to the
// working directory.
func registryPath(cfg *config.Config) string {
	if cfg.Engine.Registry != "" {
		return cfg.Engine.Registry
	}
	return engine.RegistryFile
}

// openCache opens the artifact cache when enabled. Cache trouble is
// never fatal to an analysis run.
func openCache(cfg *config.Config, logger *logging.Logger) *storage.Cache {
	if noCacheFlag || !cfg.Cache.Enabled {
		return nil
	}
	db, err := storage.Open(cfg.Cache.Dir, logger)
	if err != nil {
		logger.Warn("artifact cache unavailable", map[string]interface{}{
			"dir":   cfg.Cache.Dir,
			"error": err.Error(),
		})
		return nil
	}
	cache, err := storage.NewCache(db)
	if err != nil {
		logger.Warn("artifact cache unavailable", map[string]interface{}{
			"error": err.Error(),
		})
		db.Close()
		return nil
	}
	return cache
}
