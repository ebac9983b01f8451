// Copyright (c) 2026 Keymaster Team
// Voterslip - voter lookup and slip printing
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"

	"github.com/toeirei/voterslip/internal/config"
	"github.com/toeirei/voterslip/internal/i18n"
	"github.com/toeirei/voterslip/internal/model"
)

// settingsBackupVersion is bumped when the backup layout changes.
const settingsBackupVersion = 1

// SettingsBackup is the JSON document stored in a settings backup.
type SettingsBackup struct {
	SchemaVersion int            `json:"schema_version"`
	CreatedAt     time.Time      `json:"created_at"`
	Branding      model.Branding `json:"branding"`
}

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the candidate branding printed on slips",
	}
	cmd.AddCommand(newSettingsShowCmd(), newSettingsSetCmd(), newSettingsBackupCmd(), newSettingsRestoreCmd(), newSettingsWriteConfigCmd())
	return cmd
}

func newSettingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the saved branding",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			b, err := store.LoadBranding(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "header_image_path: %s\n", b.HeaderImagePath)
			fmt.Fprintf(out, "candidate_name: %s\n", b.CandidateName)
			fmt.Fprintf(out, "candidate_party: %s\n", b.CandidateParty)
			fmt.Fprintf(out, "candidate_symbol: %s\n", b.CandidateSymbol)
			return nil
		},
	}
}

func newSettingsSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change branding fields and save them",
		Long: `Updates only the fields whose flags are given and saves the result.

Example:
  voterslip settings set --name "Candidate X" --party "Party Y" --header ./logo.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			sess, err := newSession(cmd.Context(), store)
			if err != nil {
				return err
			}
			b := sess.Branding()
			f := cmd.Flags()
			for flag, dst := range map[string]*string{
				"name":   &b.CandidateName,
				"party":  &b.CandidateParty,
				"symbol": &b.CandidateSymbol,
			} {
				if f.Changed(flag) {
					v, err := f.GetString(flag)
					if err != nil {
						return fmt.Errorf("could not read --%s flag: %w", flag, err)
					}
					*dst = strings.TrimSpace(v)
				}
			}
			sess.SetBranding(b)
			if f.Changed("header") {
				v, err := f.GetString("header")
				if err != nil {
					return fmt.Errorf("could not read --header flag: %w", err)
				}
				sess.SetHeaderImage(strings.TrimSpace(v))
			}
			err = sess.Save(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), sess.Notice())
			return err
		},
	}
	cmd.Flags().String("name", "", "Candidate name")
	cmd.Flags().String("party", "", "Candidate party")
	cmd.Flags().String("symbol", "", "Candidate symbol")
	cmd.Flags().String("header", "", "Path to the header image")
	return cmd
}

func newSettingsBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup [output-file]",
		Short: "Write a compressed (zstd) JSON backup of the branding",
		Long: `Writes the saved branding to a Zstandard-compressed JSON file.
If no output file is given, 'voterslip-settings-YYYY-MM-DD.json.zst' is used.
'.zst' is appended when missing.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFile := fmt.Sprintf("voterslip-settings-%s.json.zst", time.Now().Format("2006-01-02"))
			if len(args) == 1 {
				outputFile = args[0]
				if !strings.HasSuffix(outputFile, ".zst") {
					outputFile += ".zst"
				}
			}
			store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			b, err := store.LoadBranding(cmd.Context())
			if err != nil {
				return err
			}
			data := &SettingsBackup{SchemaVersion: settingsBackupVersion, CreatedAt: time.Now().UTC(), Branding: b}
			if err := writeCompressedBackup(outputFile, data); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("settings.backup_written", outputFile))
			return nil
		},
	}
}

func newSettingsRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <backup-file>",
		Short: "Restore the branding from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readCompressedBackup(args[0])
			if err != nil {
				return err
			}
			if data.SchemaVersion > settingsBackupVersion {
				return fmt.Errorf("backup schema version %d is newer than supported version %d", data.SchemaVersion, settingsBackupVersion)
			}
			store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			if err := store.SaveBranding(cmd.Context(), data.Branding); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("settings.restored", args[0]))
			return nil
		},
	}
}

func newSettingsWriteConfigCmd() *cobra.Command {
	var system bool
	cmd := &cobra.Command{
		Use:   "write-config",
		Short: "Write the effective configuration to voterslip.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.WriteConfigFile(&appConfig, system)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&system, "system", false, "Write the system-wide file instead of the user file")
	return cmd
}

// writeCompressedBackup streams the JSON encoding of data through a zstd
// writer into filename.
func writeCompressedBackup(filename string, data *SettingsBackup) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	defer func() { _ = file.Close() }()

	zstdWriter, err := zstd.NewWriter(file)
	if err != nil {
		return fmt.Errorf("could not create zstd writer: %w", err)
	}
	enc := json.NewEncoder(zstdWriter)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		_ = zstdWriter.Close()
		return fmt.Errorf("could not encode json to zstd writer: %w", err)
	}
	if err := zstdWriter.Close(); err != nil {
		return fmt.Errorf("could not finish zstd stream: %w", err)
	}
	return nil
}

// readCompressedBackup handles reading and decoding a zstd-compressed JSON backup file.
func readCompressedBackup(filename string) (*SettingsBackup, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	zstdReader, err := zstd.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("could not create zstd reader: %w", err)
	}
	defer zstdReader.Close()

	var data SettingsBackup
	if err := json.NewDecoder(zstdReader).Decode(&data); err != nil {
		return nil, fmt.Errorf("could not decode json from zstd reader: %w", err)
	}
	return &data, nil
}
