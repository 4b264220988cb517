package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/langtools/langtools-api/internal/config"
	"github.com/langtools/langtools-api/internal/platform/logger"
	"github.com/langtools/langtools-api/internal/platform/postgres"
	"github.com/langtools/langtools-api/internal/service/auth"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configFile string
	envFile    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "langtools",
		Short:         "Dictionary and spaced-repetition review API",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadEnvFile(opts.envFile, cmd.Flags().Changed("env-file"))
		},
	}
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default ./config.yaml if present)")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before configuration")

	root.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newHashPasswordCmd(),
	)
	return root
}

// loadEnvFile loads path into the environment without overriding variables
// that are already set. A missing default file is not an error.
func loadEnvFile(path string, explicit bool) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadFile(opts.configFile)
			if err != nil {
				return err
			}
			log, err := logger.Setup(cfg.Server)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			db, err := openDatabase(ctx, cfg.Database, log)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			app, err := newApplication(ctx, cfg, db, log)
			if err != nil {
				return err
			}
			return app.serve(ctx)
		},
	}
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	run := func(command string) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))

			dbCfg, err := config.LoadDatabaseFile(opts.configFile)
			if err != nil {
				return err
			}
			db, err := openDatabase(cmd.Context(), *dbCfg, log)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			return postgres.Migrate(cmd.Context(), db, log, command, args...)
		}
	}

	for _, sub := range []struct {
		name, short string
		args        cobra.PositionalArgs
	}{
		{"up", "Apply all pending migrations", cobra.NoArgs},
		{"down", "Roll back the latest migration", cobra.NoArgs},
		{"redo", "Roll back and reapply the latest migration", cobra.NoArgs},
		{"reset", "Roll back every migration", cobra.NoArgs},
		{"status", "Show the state of each migration", cobra.NoArgs},
		{"version", "Print the current schema version", cobra.NoArgs},
	} {
		cmd.AddCommand(&cobra.Command{
			Use:   sub.name,
			Short: sub.short,
			Args:  sub.args,
			RunE:  run(sub.name),
		})
	}

	var dir string
	create := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a new SQL migration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return postgres.CreateMigration(dir, args[0])
		},
	}
	create.Flags().StringVar(&dir, "dir", "internal/platform/postgres/migrations", "migrations directory")
	cmd.AddCommand(create)

	return cmd
}

// newHashPasswordCmd prints bcrypt hashes, for seeding accounts by hand.
func newHashPasswordCmd() *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "hash-password PASSWORD...",
		Short: "Print the bcrypt hash of each password",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hasher := auth.NewBcryptHasher(cost)
			for _, pw := range args {
				hash, err := hasher.Hash(pw)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), hash)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", 10, "bcrypt cost")
	return cmd
}
