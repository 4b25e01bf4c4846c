package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/pgannotate/internal/config"
	"github.com/vvka-141/pgannotate/internal/files/scanner"
	"github.com/vvka-141/pgannotate/internal/schema"
	"github.com/vvka-141/pgannotate/pkg/pgannotate"
)

// defaultModelsPath is scanned when neither arguments nor pgannotate.yaml name any path.
const defaultModelsPath = "app/models"

// loadEnvFiles loads the --env-file files, then .env from the working
// directory. Variables that are already set win, so earlier files take
// precedence over later ones.
func loadEnvFiles(paths []string, logger pgannotate.Logger) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load env file %q: %w: %v", p, pgannotate.ErrInvalidConfig, err)
		}
		logger.Verbose("Loaded environment from %s", p)
	}
	if err := godotenv.Load(); err == nil {
		logger.Verbose("Loaded environment from .env")
	}
	return nil
}

// loadProject reads pgannotate.yaml from dir. A missing file yields an
// empty configuration.
func loadProject(dir string, logger pgannotate.Logger) (*config.ProjectConfig, error) {
	cfg, err := config.Load(dir)
	if errors.Is(err, config.ErrConfigNotFound) {
		logger.Verbose("No %s in %s, using defaults", config.ConfigFileName, dir)
		return &config.ProjectConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", config.ConfigFileName, err)
	}
	return cfg, nil
}

// modelPaths returns the paths to scan. Arguments are taken as given;
// paths from pgannotate.yaml are relative to the project directory.
func modelPaths(args []string, dir string, cfg *config.ProjectConfig) []string {
	if len(args) > 0 {
		return args
	}
	paths := cfg.Models.Paths
	if len(paths) == 0 {
		paths = []string{defaultModelsPath}
	}
	out := make([]string, len(paths))
	for i, p := range paths {
		if filepath.IsAbs(p) {
			out[i] = p
		} else {
			out[i] = filepath.Join(dir, p)
		}
	}
	return out
}

func scannerOptions(cfg *config.ProjectConfig) scanner.Options {
	return scanner.Options{
		Extensions: cfg.Models.Extensions,
		Exclude:    cfg.Models.Exclude,
	}
}

// apply returns a with every explicitly set flag copied over it.
func (f placementFlags) apply(cmd *cobra.Command, a config.AnnotateConfig) config.AnnotateConfig {
	changed := cmd.Flags().Changed
	if changed("position") {
		a.Position = f.position
	}
	if changed("wrapper-open") {
		a.WrapperOpen = f.wrapperOpen
	}
	if changed("wrapper-close") {
		a.WrapperClose = f.wrapperClose
	}
	if changed("skip-marker") {
		marker := f.skipMarker
		a.SkipMarker = &marker
	}
	if changed("force") {
		a.Force = f.force
	}
	return a
}

// apply returns a with every explicitly set render flag copied over it.
func (f renderFlags) apply(cmd *cobra.Command, a config.AnnotateConfig) config.AnnotateConfig {
	changed := cmd.Flags().Changed
	if changed("exclude-tables") {
		a.ExcludeTables = f.excludeTables
	}
	if changed("with-indexes") {
		v := f.withIndexes
		a.WithIndexes = &v
	}
	if changed("with-foreign-keys") {
		v := f.withForeignKeys
		a.WithForeignKeys = &v
	}
	return a
}

// schemaName resolves the inspected schema: flag > pgannotate.yaml > public.
func (f renderFlags) schemaName(cfg *config.ProjectConfig) string {
	switch {
	case f.schema != "":
		return f.schema
	case cfg.Schema != "":
		return cfg.Schema
	default:
		return pgannotate.DefaultSchema
	}
}

// renderOptions builds the renderer settings. heading must match the
// placement heading so existing blocks are recognized.
func renderOptions(a config.AnnotateConfig, heading string) schema.RenderOptions {
	opts := schema.DefaultRenderOptions()
	opts.Heading = heading
	opts.Indexes = config.Enabled(a.WithIndexes, opts.Indexes)
	opts.ForeignKeys = config.Enabled(a.WithForeignKeys, opts.ForeignKeys)
	opts.CheckConstraints = config.Enabled(a.WithCheckConstr, opts.CheckConstraints)
	opts.TableComment = config.Enabled(a.WithTableComment, opts.TableComment)
	return opts
}

// resolveTimeout applies pgannotate.yaml unless --timeout was given.
func resolveTimeout(cmd *cobra.Command, flag time.Duration, cfg *config.ProjectConfig) (time.Duration, error) {
	if cmd.Flags().Changed("timeout") {
		if flag <= 0 {
			return 0, fmt.Errorf("--timeout must be positive, got %s: %w", flag, pgannotate.ErrInvalidConfig)
		}
		return flag, nil
	}
	return cfg.TimeoutDuration(flag)
}

// resolveConcurrency: flag > pgannotate.yaml > default. Zero means default.
func resolveConcurrency(flag int, cfg *config.ProjectConfig) int {
	if flag > 0 {
		return flag
	}
	return cfg.Concurrency
}
