// Copyright (c) 2026 Keymaster Team
// Voterslip - voter lookup and slip printing
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/toeirei/voterslip/internal/db"
	"github.com/toeirei/voterslip/internal/i18n"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the voter database",
	}
	cmd.AddCommand(newDBProvisionCmd(), newDBMaintainCmd())
	return cmd
}

func newDBProvisionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "provision",
		Short: "Copy the bundled SQLite database into place if it is missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if appConfig.Database.Type != "sqlite" {
				return fmt.Errorf("provisioning only applies to sqlite, configured type is %q", appConfig.Database.Type)
			}
			path := db.SQLitePath(appConfig.Database.Dsn)
			if path == "" {
				return errors.New("the configured sqlite DSN is in-memory, nothing to provision")
			}
			copied, err := db.Provision(path, appConfig.Assets.Dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch {
			case copied:
				fmt.Fprintln(out, i18n.T("db.provisioned", path))
			case fileExists(path):
				fmt.Fprintln(out, i18n.T("db.already_present", path))
			default:
				fmt.Fprintln(out, i18n.T("db.no_asset", appConfig.Assets.Dir))
			}
			return nil
		},
	}
}

func newDBMaintainCmd() *cobra.Command {
	var skipIntegrity bool
	var timeoutSec int
	cmd := &cobra.Command{
		Use:   "maintain",
		Short: "Run database maintenance (VACUUM/OPTIMIZE) for the configured DB",
		Long:  `Runs engine-specific maintenance tasks (PRAGMA optimize, VACUUM, integrity_check, VACUUM ANALYZE, OPTIMIZE TABLE).`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if timeoutSec > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, time.Duration(timeoutSec)*time.Second)
				defer cancel()
			}
			store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			if err := store.Maintain(ctx, skipIntegrity); err != nil {
				return fmt.Errorf("maintenance failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("db.maintained"))
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipIntegrity, "skip-integrity", false, "Skip integrity_check (SQLite) during maintenance")
	cmd.Flags().IntVar(&timeoutSec, "timeout", 0, "Timeout in seconds for maintenance (0 means no timeout)")
	return cmd
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
