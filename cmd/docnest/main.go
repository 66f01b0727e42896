// Command docnest is the DocNest command line interface: archive
// exports, export previews, history, and database migrations without
// the desktop shell.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/docnest/docnest/internal/config"
	"github.com/docnest/docnest/internal/db"
	"github.com/docnest/docnest/internal/export"
	"github.com/docnest/docnest/internal/logging"
	"github.com/docnest/docnest/internal/models"
)

var (
	cfgFile string
	verbose bool
	version = "dev"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "docnest",
		Short:   "DocNest document archive tool",
		Long:    `Command line access to the DocNest backend: export archives, preview export statistics, inspect history, and manage the database.`,
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := logging.LevelInfo
			if verbose {
				level = logging.LevelDebug
			}
			logging.Init(os.Stderr, level)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	rootCmd.AddCommand(
		exportCmd(),
		statsCmd(),
		historyCmd(),
		migrateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openRepository opens the configured database with migrations applied.
func openRepository(cfg *config.Config) (*db.DB, *db.Repository, error) {
	database, err := db.Open(cfg.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	migrator := db.NewMigrator(database.DB, db.Migrations())
	if err := migrator.Initialize(); err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("failed to initialize migrations: %w", err)
	}
	if err := migrator.Up(); err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return database, db.NewRepository(database.DB), nil
}

// newEngine builds the export engine from configuration.
func newEngine(cfg *config.Config, repo *db.Repository) *export.Service {
	return export.NewService(repo, export.Config{
		StagingRoot:     export.DataDirRoot(cfg.DataDir),
		ExcludePatterns: cfg.Export.ExcludePatterns,
		History:         repo,
	})
}

// scopeFromFlags maps the scope flags onto an export scope.
func scopeFromFlags(scopeType, categoryID, documentID string) export.Scope {
	switch export.ScopeType(scopeType) {
	case export.ScopeCategory:
		return export.CategoryScope(models.UUID(categoryID))
	case export.ScopeDocument:
		return export.DocumentScope(models.UUID(documentID))
	default:
		return export.CompleteScope()
	}
}

func exportCmd() *cobra.Command {
	var (
		scopeType  string
		categoryID string
		documentID string
		outPath    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export documents into a tar.gz archive",
		Long:  `Exports the selected scope (everything, one category, or one document) with its attachments and manifests into a single tar.gz archive.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			database, repo, err := openRepository(cfg)
			if err != nil {
				return err
			}
			defer database.Close()
			defer repo.Close()

			scope := scopeFromFlags(scopeType, categoryID, documentID)
			if err := scope.Validate(); err != nil {
				return err
			}

			destPath := outPath
			if destPath == "" {
				name := fmt.Sprintf("docnest-export-%s.tar.gz", time.Now().Format("20060102-150405"))
				destPath = filepath.Join(cfg.ExportDir, name)
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			bar := progressbar.NewOptions(100,
				progressbar.OptionSetDescription("Exporting"),
				progressbar.OptionSetWidth(40),
				progressbar.OptionClearOnFinish(),
			)
			sink := func(ev export.Event) {
				if ev.Phase == export.PhaseFailed {
					return
				}
				bar.Set(ev.Progress)
				if ev.CurrentItem != "" {
					bar.Describe(fmt.Sprintf("Copying %s", ev.CurrentItem))
				}
			}

			result, err := newEngine(cfg, repo).ExportArchive(ctx, destPath, scope, sink)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			fmt.Printf("Export complete: %s\n", result.ArchivePath)
			fmt.Printf("  Size: %d bytes\n", result.SizeBytes)
			fmt.Printf("  Checksum: %s\n", result.Checksum)
			fmt.Printf("  Categories: %d, Documents: %d, Attachments: %d (%d copied)\n",
				result.CategoryCount, result.DocumentCount, result.AttachmentCount, result.CopiedCount)
			for _, warning := range result.Warnings {
				fmt.Printf("  Warning: %s\n", warning)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&scopeType, "scope", "complete", "export scope: complete, category, or document")
	cmd.Flags().StringVar(&categoryID, "category", "", "category ID for scope=category")
	cmd.Flags().StringVar(&documentID, "document", "", "document ID for scope=document")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "archive destination path")

	return cmd
}

func statsCmd() *cobra.Command {
	var (
		scopeType  string
		categoryID string
		documentID string
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Preview what an export would contain",
		Long:  `Shows record counts and estimated attachment size for a prospective export without writing anything.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			database, repo, err := openRepository(cfg)
			if err != nil {
				return err
			}
			defer database.Close()
			defer repo.Close()

			scope := scopeFromFlags(scopeType, categoryID, documentID)
			if err := scope.Validate(); err != nil {
				return err
			}

			stats, err := newEngine(cfg, repo).GetExportStats(scope)
			if err != nil {
				return fmt.Errorf("failed to compute stats: %w", err)
			}

			fmt.Println("=== Export Preview ===")
			fmt.Printf("Selection: %s\n", stats.SelectionLabel)
			fmt.Printf("  Categories: %d\n", stats.CategoryCount)
			fmt.Printf("  Documents: %d\n", stats.DocumentCount)
			fmt.Printf("  Attachments: %d\n", stats.AttachmentCount)
			fmt.Printf("  Estimated size: %d bytes\n", stats.EstimatedSizeBytes)
			return nil
		},
	}

	cmd.Flags().StringVar(&scopeType, "scope", "complete", "export scope: complete, category, or document")
	cmd.Flags().StringVar(&categoryID, "category", "", "category ID for scope=category")
	cmd.Flags().StringVar(&documentID, "document", "", "document ID for scope=document")

	return cmd
}

func historyCmd() *cobra.Command {
	limit := 20

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past exports",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			database, repo, err := openRepository(cfg)
			if err != nil {
				return err
			}
			defer database.Close()
			defer repo.Close()

			records, err := repo.ListExportRecords(limit)
			if err != nil {
				return fmt.Errorf("failed to list export history: %w", err)
			}
			if len(records) == 0 {
				fmt.Println("No exports recorded.")
				return nil
			}

			for _, record := range records {
				fmt.Printf("%s  %s\n", record.CreatedAtTime().Format(time.RFC3339), record.ArchivePath)
				fmt.Printf("  scope=%s size=%d categories=%d documents=%d attachments=%d\n",
					record.ScopeType, record.SizeBytes, record.CategoryCount,
					record.DocumentCount, record.AttachmentCount)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum records to show")

	return cmd
}

func migrateCmd() *cobra.Command {
	down := false

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Applies all pending database migrations, or rolls back the most recent one with --down.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			database, err := db.Open(cfg.DataDir)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer database.Close()

			migrator := db.NewMigrator(database.DB, db.Migrations())
			if err := migrator.Initialize(); err != nil {
				return fmt.Errorf("failed to initialize migrations: %w", err)
			}

			if down {
				if err := migrator.Down(); err != nil {
					return fmt.Errorf("rollback failed: %w", err)
				}
				fmt.Println("Rolled back one migration.")
			} else {
				if err := migrator.Up(); err != nil {
					return fmt.Errorf("migration failed: %w", err)
				}
				fmt.Println("Migrations applied.")
			}

			current, err := migrator.CurrentVersion()
			if err != nil {
				return fmt.Errorf("failed to read schema version: %w", err)
			}
			fmt.Printf("Schema version: %d\n", current)
			return nil
		},
	}

	cmd.Flags().BoolVar(&down, "down", false, "roll back the most recent migration")

	return cmd
}
