// Copyright (c) 2026 Keymaster Team
// Voterslip - voter lookup and slip printing
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toeirei/voterslip/internal/dispatch"
	"github.com/toeirei/voterslip/internal/lookup"
	"github.com/toeirei/voterslip/internal/model"
	"github.com/toeirei/voterslip/internal/session"
)

// selectVoter searches for query and picks one voter. pick is 1-based as
// listed by find; 0 prefers the exact card ID match, then the first row.
func selectVoter(ctx context.Context, sess *session.Session, query string, pick int) (model.VoterRecord, error) {
	rows := sess.Search(ctx, query)
	v, ok := lookup.Pick(rows, query, pick-1)
	if !ok {
		if len(rows) == 0 {
			return model.VoterRecord{}, fmt.Errorf("%w: %s", errNoMatch, sess.Notice())
		}
		return model.VoterRecord{}, fmt.Errorf("--pick %d is out of range, %d voter(s) found", pick, len(rows))
	}
	return v, nil
}

// addSlipFlags registers the slip content flags shared by slip and print.
func addSlipFlags(cmd *cobra.Command, noImage *bool) {
	cmd.Flags().BoolVar(noImage, "no-image", false, "Leave the header photo off the slip")
	cmd.Flags().String("slip.fields", "", `Comma separated voter fields to show, e.g. "name,card,booth"`)
}

// applySlipFlags folds --no-image into the loaded configuration.
func applySlipFlags(noImage bool) {
	if noImage {
		appConfig.Slip.Image = false
	}
}

// parseStyleFlag returns "" for an empty flag so the channel default applies.
func parseStyleFlag(s string) (model.Style, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	return model.ParseStyle(s)
}

func newSlipCmd() *cobra.Command {
	var styleFlag, outFile string
	var pick int
	var noImage bool
	cmd := &cobra.Command{
		Use:   "slip <query>",
		Short: "Render a voter slip without printing it",
		Long: `Looks up a voter and writes the rendered slip to stdout or to --out.
--style rich produces a standalone HTML page, --style plain the line based
thermal printer text.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			style, err := parseStyleFlag(styleFlag)
			if err != nil {
				return err
			}
			if style == "" {
				style = model.StyleRich
			}
			applySlipFlags(noImage)
			store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			sess, err := newSession(cmd.Context(), store)
			if err != nil {
				return err
			}
			v, err := selectVoter(cmd.Context(), sess, strings.Join(args, " "), pick)
			if err != nil {
				return err
			}
			doc, err := sess.Preview(v, style)
			if err != nil {
				return err
			}
			if outFile == "" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), doc)
				return err
			}
			return os.WriteFile(outFile, []byte(doc), 0o644)
		},
	}
	cmd.Flags().StringVar(&styleFlag, "style", "rich", `Slip style ("rich" or "plain")`)
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Write the slip to a file instead of stdout")
	cmd.Flags().IntVar(&pick, "pick", 0, "Result number to use as listed by find (default: exact card match or first)")
	addSlipFlags(cmd, &noImage)
	return cmd
}

func newPrintCmd() *cobra.Command {
	var styleFlag, channelFlag string
	var pick int
	var urlOnly, noImage bool
	cmd := &cobra.Command{
		Use:   "print <query>",
		Short: "Print a voter slip",
		Long: `Looks up a voter and hands the slip to a print channel:

  browser  open the HTML slip in the default browser to use its print dialog
  service  send the HTML slip to the print service app (RawBT by default)
  text     send plain printer text to the print service app

With --url the URL is written to stdout instead of being opened.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			channel, err := model.ParseChannel(channelFlag)
			if err != nil {
				return err
			}
			style, err := parseStyleFlag(styleFlag)
			if err != nil {
				return err
			}
			applySlipFlags(noImage)
			store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			sess, err := newSession(cmd.Context(), store)
			if err != nil {
				return err
			}
			v, err := selectVoter(cmd.Context(), sess, strings.Join(args, " "), pick)
			if err != nil {
				return err
			}

			if urlOnly {
				if style == "" {
					style = channel.DefaultStyle()
				}
				doc, err := sess.Preview(v, style)
				if err != nil {
					return err
				}
				u, err := dispatch.BuildURL(doc, channel, appConfig.Printer.Scheme)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), u)
				return err
			}

			err = sess.Print(v, style, channel)
			fmt.Fprintln(cmd.OutOrStdout(), sess.Notice())
			return err
		},
	}
	cmd.Flags().StringVar(&channelFlag, "channel", "browser", `Print channel ("browser", "service" or "text")`)
	cmd.Flags().StringVar(&styleFlag, "style", "", "Slip style (default: rich for browser and service, plain for text)")
	cmd.Flags().IntVar(&pick, "pick", 0, "Result number to use as listed by find (default: exact card match or first)")
	cmd.Flags().BoolVar(&urlOnly, "url", false, "Print the URL instead of opening it")
	cmd.Flags().String("printer.scheme", "rawbt", "URL scheme of the print service app")
	cmd.Flags().Bool("printer.copy_on_failure", false, "Copy the print URL to the clipboard when it cannot be opened")
	addSlipFlags(cmd, &noImage)
	return cmd
}
