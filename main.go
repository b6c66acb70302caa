package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"library-backend/internal/app"
	"library-backend/internal/platform/config"
	"library-backend/internal/platform/db"
	"library-backend/internal/platform/logging"
)

// ldflags で埋め込む
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOpts struct {
	configPath string
}

func (o *rootOpts) load() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Version == "" || cfg.Version == "dev" {
		cfg.Version = version
	}
	logger, err := logging.New(cfg.Mode, cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOpts{}
	root := &cobra.Command{
		Use:          "library-backend",
		Short:        "Library catalog and reservation API",
		Version:      version,
		SilenceUsage: true,
	}
	root.SetVersionTemplate(fmt.Sprintf("library-backend %s\ncommit: %s\n", version, commit))
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", config.DefaultPath, "path to config.yaml")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newMigrateCmd(opts))
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("library-backend %s (%s)\n", version, commit)
		},
	})
	return root
}

func newServeCmd(opts *rootOpts) *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			logger.Info("starting",
				zap.String("version", cfg.Version),
				zap.String("mode", cfg.Mode),
				zap.String("driver", cfg.DB.Driver),
			)

			if migrate && cfg.DB.Driver == config.DriverMySQL {
				if err := runMigrate(cmd.Context(), cfg, logger, "up"); err != nil {
					return err
				}
			}

			a, err := app.New(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			err = a.Run(cmd.Context())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving")
	return cmd
}

func newMigrateCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status|reset|version]",
		Short:     "Run database migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status", "reset", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			if cfg.DB.Driver != config.DriverMySQL {
				return fmt.Errorf("migrate requires database.driver %q", config.DriverMySQL)
			}
			command := "up"
			if len(args) == 1 {
				command = args[0]
			}
			return runMigrate(cmd.Context(), cfg, logger, command)
		},
	}
}

func runMigrate(ctx context.Context, cfg *config.Config, logger *zap.Logger, command string) error {
	conn, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer conn.Close()

	if command != "version" {
		if err := db.Migrate(ctx, conn.DB, command); err != nil {
			return err
		}
	}
	v, err := db.Version(ctx, conn.DB)
	if err != nil {
		return err
	}
	logger.Info("schema version", zap.String("command", command), zap.Int64("version", v))
	return nil
}
