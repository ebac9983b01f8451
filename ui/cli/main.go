// Copyright (c) 2026 Keymaster Team
// Voterslip - voter lookup and slip printing
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface for voterslip using Cobra. It
// defines the root command, the shared setup that loads configuration,
// logging and translations, and the version reporting.

package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toeirei/voterslip/buildvars"
	"github.com/toeirei/voterslip/internal/config"
	"github.com/toeirei/voterslip/internal/db"
	"github.com/toeirei/voterslip/internal/i18n"
	"github.com/toeirei/voterslip/internal/logging"
)

var version = "dev"   // this will be set by the linker
var gitCommit = "dev" // set at build time with the short commit SHA
var buildDate = ""    // set at build time (RFC3339)
var cfgFile string
var verbose bool

var appConfig config.Config

func setupDefaultServices(cmd *cobra.Command, args []string) error {
	optionalConfigPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	defaults := config.Defaults()
	appConfig, err = config.LoadConfig[config.Config](cmd, defaults, optionalConfigPath)
	if err != nil {
		if strings.Contains(err.Error(), "control characters are not allowed") {
			logging.Errorf("The config file appears to be invalid, continuing on defaults: %v", err)
			appConfig, err = config.LoadConfig[config.Config](nil, defaults, nil)
		}
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
	}

	// Empty values in a config file fall back to the defaults.
	if appConfig.Database.Type == "" {
		appConfig.Database.Type = defaults["database.type"].(string)
	}
	if appConfig.Database.Dsn == "" {
		appConfig.Database.Dsn = defaults["database.dsn"].(string)
	}
	if appConfig.Language == "" {
		appConfig.Language = defaults["language"].(string)
	}

	logging.SetOutput(cmd.ErrOrStderr())
	if verbose {
		logging.SetDebug(true)
		db.SetDebug(true)
	}
	i18n.Init(appConfig.Language)
	return nil
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	// Only proceed if the user has explicitly set the --config flag.
	if !cmd.Flags().Changed("config") {
		return nil, nil
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("could not read --config flag: %w", err)
	}
	if path == "" {
		return nil, nil
	}
	// Make sure the user-provided file exists to avoid unwanted behavior.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
	}
	return &path, nil
}

// Execute runs the CLI entrypoint. The main package should call this
// function and handle process exit.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd creates and configures a new root cobra command.
// This function is used to create the main application command as well as
// fresh instances for isolated testing.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voterslip",
		Short: "Look up voters and print voter slips",
		Long: `Voterslip searches a local voter roll by card ID or name and prints a
voter slip carrying the candidate's branding, either through the browser's
print dialog or through a thermal printer app such as RawBT.`,
		SilenceUsage:      true,
		PersistentPreRunE: setupDefaultServices,
	}
	cmd.Version = compositeVersion()

	pf := cmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	pf.StringVar(&cfgFile, "config", "", "config file")
	pf.String("language", "en", `Language for messages and slip labels ("en", "mr")`)
	pf.String("database.type", "sqlite", "Database type (sqlite, postgres, mysql)")
	pf.String("database.dsn", "voter_data.db", "Database connection string (DSN)")
	pf.String("assets.dir", "assets", "Directory with bundled assets")

	cmd.AddCommand(
		newFindCmd(),
		newSlipCmd(),
		newPrintCmd(),
		newSettingsCmd(),
		newDBCmd(),
		newVersionCmd(),
	)
	return cmd
}

func compositeVersion() string {
	v, c, d := resolveBuildVersion(nil)
	out := v
	if c != "" && c != "dev" {
		out += " (" + c + ")"
	}
	if d != "" {
		out += " built: " + d
	}
	return out
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		// Version needs no config or database.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			v, c, d := resolveBuildVersion(nil)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "version: %s\n", v)
			fmt.Fprintf(out, "commit: %s\n", c)
			if d != "" {
				fmt.Fprintf(out, "built: %s\n", d)
			}
		},
	}
}

// resolveBuildVersion computes the best-available version, commit and build
// date for the running binary. If `info` is nil, it reads build info from
// the runtime.
func resolveBuildVersion(info *debug.BuildInfo) (versionOut, commitOut, dateOut string) {
	resolvedVersion := buildvars.VersionOrDefault(version)
	resolvedCommit := gitCommit
	resolvedDate := buildDate

	if info == nil {
		if local, found := debug.ReadBuildInfo(); found {
			info = local
		}
	}

	if info != nil {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
		}
		// If Main doesn't contain the version (some build paths), try to
		// find our module in the dependencies and use that version.
		if resolvedVersion == "dev" || resolvedVersion == "(devel)" {
			for _, dep := range info.Deps {
				if dep.Path == "github.com/toeirei/voterslip" && dep.Version != "" {
					resolvedVersion = dep.Version
					break
				}
			}
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if s.Value != "" {
					resolvedCommit = s.Value
				}
			case "vcs.time":
				if s.Value != "" {
					resolvedDate = s.Value
				}
			}
		}
	}

	// As a last resort show the commit from ldflags to aid support.
	if resolvedVersion == "dev" && gitCommit != "dev" && gitCommit != "" {
		resolvedVersion = gitCommit
	}
	return resolvedVersion, resolvedCommit, resolvedDate
}

// errNoMatch is returned when a lookup for slip or print finds nobody.
var errNoMatch = errors.New("no matching voter")
