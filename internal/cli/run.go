package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vvka-141/pgannotate/internal/checksum"
	"github.com/vvka-141/pgannotate/internal/config"
	"github.com/vvka-141/pgannotate/internal/db"
	"github.com/vvka-141/pgannotate/internal/files/scanner"
	"github.com/vvka-141/pgannotate/internal/files/writer"
	"github.com/vvka-141/pgannotate/internal/logging"
	"github.com/vvka-141/pgannotate/internal/report"
	"github.com/vvka-141/pgannotate/internal/schema"
	"github.com/vvka-141/pgannotate/internal/services"
	"github.com/vvka-141/pgannotate/internal/tui"
	"github.com/vvka-141/pgannotate/internal/ui"
	"github.com/vvka-141/pgannotate/pkg/pgannotate"
)

// runMode is the shared body of the annotate, remove and check commands.
func runMode(cmd *cobra.Command, args []string, mode services.Mode, flags *runFlags) error {
	verbose := getVerboseFlag(cmd)
	logger := logging.NewConsoleLogger(verbose)

	if err := loadEnvFiles(flags.envFiles, logger); err != nil {
		return err
	}

	dir := getConfigDir(cmd)
	projectCfg, err := loadProject(dir, logger)
	if err != nil {
		return err
	}

	annotateCfg := flags.placement.apply(cmd, projectCfg.Annotate)
	annotateCfg = flags.render.apply(cmd, annotateCfg)
	placement, err := annotateCfg.Placement()
	if err != nil {
		return err
	}

	timeout, err := resolveTimeout(cmd, flags.timeout, projectCfg)
	if err != nil {
		return err
	}

	// Setup context with timeout and signal handling for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\n[INTERRUPT] Received interrupt signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	var provider pgannotate.AnnotationProvider
	if mode != services.ModeRemove {
		p, err := openProvider(ctx, flags, projectCfg, renderOptions(annotateCfg, placement.Heading), annotateCfg.ExcludeTables, logger)
		if err != nil {
			return err
		}
		provider = p
	}

	calc := checksum.New()
	annotator := services.NewAnnotator(
		scanner.NewScanner(calc, scannerOptions(projectCfg)),
		provider,
		writer.New(calc, pgannotate.DefaultLockTimeout),
		selectApprover(flags.interactive, logger),
		logger,
	)

	preview := flags.dryRun || flags.diff
	req := services.Request{
		Paths:         modelPaths(args, dir, projectCfg),
		Mode:          mode,
		Placement:     placement,
		Concurrency:   resolveConcurrency(flags.concurrency, projectCfg),
		DryRun:        flags.dryRun,
		Preview:       preview,
		PreviewStyles: previewStyles(),
	}

	summary, runErr := annotator.Run(ctx, req)
	if runErr == nil || len(summary.Results) > 0 {
		printSummary(cmd.OutOrStdout(), summary, reportOptions{
			mode:     mode,
			verbose:  verbose,
			previews: preview,
			dryRun:   flags.dryRun,
		})
	}
	return runErr
}

// openProvider loads the schema snapshot. The pool is closed before
// returning; rendering works from the snapshot alone.
func openProvider(
	ctx context.Context,
	flags *runFlags,
	projectCfg *config.ProjectConfig,
	opts schema.RenderOptions,
	excludeTables []string,
	logger pgannotate.Logger,
) (*schema.Provider, error) {
	connConfig, err := db.ResolveConnection(flags.conn.toConnFlags(), db.LoadFromEnvironment(), &projectCfg.Connection)
	if err != nil {
		return nil, err
	}

	schemaName := flags.render.schemaName(projectCfg)
	logger.Verbose("Connection resolved:")
	logger.Verbose("  Host: %s", connConfig.Host)
	logger.Verbose("  Port: %d", connConfig.Port)
	logger.Verbose("  User: %s", connConfig.Username)
	logger.Verbose("  Database: %s", connConfig.Database)
	logger.Verbose("  Schema: %s", schemaName)
	logger.Verbose("  SSL Mode: %s", connConfig.SSLMode)
	logger.Verbose("  Auth Method: %s", connConfig.AuthMethod)
	logger.Verbose("  Password: %s", passwordSource(connConfig))

	connector, err := db.NewConnector(connConfig, logger)
	if err != nil {
		return nil, err
	}
	if closer, ok := connector.(io.Closer); ok {
		defer closer.Close()
	}

	pool, err := connector.Connect(ctx)
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	snapshot, err := schema.NewReader(pool).Load(ctx, schemaName)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema %q: %w", schemaName, err)
	}
	logger.Verbose("Loaded %d table(s) from schema %q", len(snapshot.Tables), schemaName)

	return schema.NewProvider(snapshot, schema.NewRenderer(opts), excludeTables), nil
}

// selectApprover picks how writes are confirmed: automatically, through
// the full-screen prompt on a terminal, or line by line from stdin.
func selectApprover(interactive bool, logger pgannotate.Logger) pgannotate.Approver {
	if !interactive {
		return ui.NewAutoApprover(logger)
	}
	if tui.IsInteractive() {
		return tui.NewConfirmApprover(os.Stdin, os.Stderr)
	}
	return ui.NewPromptApprover(os.Stdin, os.Stderr)
}

func previewStyles() report.Styles {
	if tui.IsInteractive() {
		return tui.DiffStyles()
	}
	return report.PlainStyles()
}
