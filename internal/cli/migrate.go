package cli

import (
	"fmt"

	"github.com/Sternrassler/game-picker/internal/config"
	"github.com/Sternrassler/game-picker/pkg/store"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the recommendation history schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: withMigrator(func(m *store.Migrator, cmd *cobra.Command) error {
				if err := m.Up(); err != nil {
					return err
				}
				return printVersion(m, cmd)
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the latest migration",
			RunE: withMigrator(func(m *store.Migrator, cmd *cobra.Command) error {
				if err := m.Down(); err != nil {
					return err
				}
				return printVersion(m, cmd)
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			RunE:  withMigrator(printVersion),
		},
	)

	return cmd
}

func withMigrator(fn func(*store.Migrator, *cobra.Command) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Store.Driver != config.StoreDriverPostgres {
			return fmt.Errorf("migrations require STORE_DRIVER=%s (got %q)", config.StoreDriverPostgres, cfg.Store.Driver)
		}

		m, err := store.NewMigrator(cfg.Store.DatabaseURL)
		if err != nil {
			return err
		}
		defer func() { _ = m.Close() }()

		return fn(m, cmd)
	}
}

func printVersion(m *store.Migrator, cmd *cobra.Command) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	if version == 0 {
		cmd.Println("schema version: none")
		return nil
	}
	cmd.Printf("schema version: %d (dirty: %t)\n", version, dirty)
	return nil
}
