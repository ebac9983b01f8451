// Copyright (c) 2026 Keymaster Team
// Voterslip - voter lookup and slip printing
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/toeirei/voterslip/internal/i18n"
	"github.com/toeirei/voterslip/internal/model"
)

// isTerminal reports whether w is an interactive terminal. Tests replace it.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	exactStyle  = cellStyle.Bold(true)
)

func newFindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find <query>",
		Short: "Search voters by card ID or name",
		Long: `Searches the voter roll. The query matches a card ID exactly or any part
of the local or transliterated name. At most 10 voters are listed and an
exact card ID match is always listed first.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			sess, err := newSession(cmd.Context(), store)
			if err != nil {
				return err
			}
			rows := sess.Search(cmd.Context(), query)
			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, sess.Notice())
				return nil
			}
			writeResults(out, rows, strings.TrimSpace(query), isTerminal(out))
			return nil
		},
	}
}

// writeResults lists rows numbered from 1, the way --pick addresses them.
// Terminals get a styled table, anything else tab separated lines.
func writeResults(w io.Writer, rows []model.VoterRecord, query string, styled bool) {
	headers := []string{"#", i18n.T("find.header_card"), i18n.T("find.header_name"), i18n.T("find.header_ward"), i18n.T("find.header_serial"), i18n.T("find.header_booth")}
	records := make([][]string, 0, len(rows))
	for i, r := range rows {
		records = append(records, []string{strconv.Itoa(i + 1), r.CardID, r.Name, r.WardNumber, r.SerialNumber, r.BoothAddress})
	}

	if !styled {
		fmt.Fprintln(w, strings.Join(headers, "\t"))
		for _, rec := range records {
			fmt.Fprintln(w, strings.Join(rec, "\t"))
		}
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(records...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row >= 0 && row < len(rows) && rows[row].CardID == query:
				return exactStyle
			default:
				return cellStyle
			}
		})
	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w, i18n.T("find.results", len(rows)))
}
