// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/storefront/internal/config"
	"github.com/carterperez-dev/storefront/internal/core"
	"github.com/carterperez-dev/storefront/internal/user"
)

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("storectl failed", "error", err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "storectl",
		Short:         "Storefront operations: migrations and account administration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "config.yaml", "path to config file")

	root.AddCommand(
		newMigrateCmd(opts),
		newCreateAdminCmd(opts),
		newPromoteCmd(opts),
	)

	return root
}

// connect loads config, installs the logger and opens the database.
func connect(ctx context.Context, opts *options) (*core.Database, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	slog.SetDefault(core.NewLogger(cfg.Log))

	return core.NewDatabase(ctx, cfg.Database)
}

func newMigrateCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	steps := []struct {
		use   string
		short string
		run   func(context.Context, *core.Database) error
	}{
		{"up", "Apply all pending migrations", func(ctx context.Context, db *core.Database) error {
			return db.Migrate(ctx)
		}},
		{"down", "Roll back the most recent migration", func(ctx context.Context, db *core.Database) error {
			return core.MigrateDown(ctx, db.DB.DB)
		}},
		{"status", "Print applied and pending migrations", func(ctx context.Context, db *core.Database) error {
			return core.MigrationStatus(ctx, db.DB.DB)
		}},
	}

	for _, step := range steps {
		cmd.AddCommand(&cobra.Command{
			Use:   step.use,
			Short: step.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				db, err := connect(cmd.Context(), opts)
				if err != nil {
					return err
				}
				defer db.Close() //nolint:errcheck // process exits next

				return step.run(cmd.Context(), db)
			},
		})
	}

	return cmd
}

func newCreateAdminCmd(opts *options) *cobra.Command {
	var email, userName, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account with an empty cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(password) < 6 {
				return fmt.Errorf("password must be at least 6 characters")
			}

			db, err := connect(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer db.Close() //nolint:errcheck // process exits next

			svc := user.NewService(user.NewRepository(db.DB), nil)
			admin, err := svc.CreateAdmin(cmd.Context(), email, userName, password)
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", admin.Email, admin.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&userName, "username", "admin", "display name")
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	_ = cmd.MarkFlagRequired("email")    //nolint:errcheck // flag is defined above
	_ = cmd.MarkFlagRequired("password") //nolint:errcheck // flag is defined above

	return cmd
}

func newPromoteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "promote <email>",
		Short: "Grant the admin role to an existing account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer db.Close() //nolint:errcheck // process exits next

			svc := user.NewService(user.NewRepository(db.DB), nil)
			u, err := svc.Promote(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("promote %s: %w", args[0], err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s is now an admin\n", u.Email)
			return nil
		},
	}
}
