package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/triage/internal/migrations"
)

const envDSN = "TRIAGE_DB_DSN"

var (
	migrateDSN   string
	migrateSteps int
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or inspect the ticket and prompt schema",
	Long: `Apply or inspect the ticket and prompt schema.

The database is taken from --dsn, then TRIAGE_DB_DSN, then the [database]
section of the configuration.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply every pending migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd, (*migrations.Migrator).Up)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert every applied migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd, (*migrations.Migrator).Down)
	},
}

var migrateStepsCmd = &cobra.Command{
	Use:   "steps --count N",
	Short: "Apply N migrations, or revert them when N is negative",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateSteps == 0 {
			return fmt.Errorf("--count must be non-zero")
		}
		return withMigrator(cmd, func(m *migrations.Migrator) error {
			return m.Steps(migrateSteps)
		})
	},
}

var migrateForceCmd = &cobra.Command{
	Use:   "force <version>",
	Short: "Record a version without running migrations, clearing a dirty state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return withMigrator(cmd, func(m *migrations.Migrator) error {
			return m.Force(v)
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd, func(*migrations.Migrator) error { return nil })
	},
}

func init() {
	migrateCmd.PersistentFlags().StringVar(&migrateDSN, "dsn", "", "postgres:// connection URL")
	migrateStepsCmd.Flags().IntVarP(&migrateSteps, "count", "n", 0, "migrations to apply (negative reverts)")

	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStepsCmd)
	migrateCmd.AddCommand(migrateForceCmd)
	migrateCmd.AddCommand(migrateVersionCmd)
}

// withMigrator opens a Migrator, runs fn, and prints the resulting version.
func withMigrator(cmd *cobra.Command, fn func(*migrations.Migrator) error) error {
	dsn, err := resolveDSN()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
	m, err := migrations.New(dsn, logger)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := fn(m); err != nil {
		return err
	}

	v, err := m.Version()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version: %s\n", v)
	return nil
}

func resolveDSN() (string, error) {
	if migrateDSN != "" {
		return migrateDSN, nil
	}
	if dsn := os.Getenv(envDSN); dsn != "" {
		return dsn, nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return "", fmt.Errorf("resolve database: %w", err)
	}
	return cfg.Database.URL(), nil
}
