package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/opendrop/pkg/errors"
	"github.com/DeBrosOfficial/opendrop/pkg/logging"
	"github.com/DeBrosOfficial/opendrop/pkg/peer"
	"github.com/DeBrosOfficial/opendrop/pkg/report"
)

// NewPeersCmd creates the peers command
func NewPeersCmd() *cobra.Command {
	var opts Options
	var format string

	cmd := &cobra.Command{
		Use:   "peers",
		Short: "List the receivers of the last discovery report",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "table" && format != "json" {
				return errors.NewValidationError("format", "must be table or json", format)
			}

			e, err := opts.load()
			if err != nil {
				return err
			}

			store := report.NewStore(e.cfg.Discovery.ReportPath, e.logger)
			records, err := store.Load()
			if err != nil {
				return err
			}

			now := time.Now()
			age, err := store.Staleness(now)
			if err != nil {
				return err
			}
			if staleErr := store.CheckStale(now, e.cfg.Discovery.StaleAfter); errors.IsStaleReport(staleErr) {
				e.logger.ComponentWarn(logging.ComponentCLI, staleErr.Error(), zap.String("path", store.Path()))
			}

			if format == "json" {
				return printRecordsJSON(cmd.OutOrStdout(), records)
			}
			printRecords(cmd.OutOrStdout(), records, age)
			return nil
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVar(&format, "format", "table", "output format: table or json")
	return cmd
}

func printRecordsJSON(w io.Writer, records []peer.Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// printRecords renders records as an aligned table with their indices.
func printRecords(w io.Writer, records []peer.Record, age time.Duration) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Receivers (%d, report %.0fs old)", len(records), age.Seconds())))
	if len(records) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No receivers found. Run 'opendrop find' near a receiver."))
		return
	}

	header := []string{"INDEX", "ID", "NAME", "ADDRESS", "PORT", "FLAGS", "DISCOVERABLE"}
	rows := make([][]string, 0, len(records))
	for i, rec := range records {
		name := rec.DisplayName()
		if name == "" {
			name = "-"
		}
		discoverable := "no"
		if rec.Discoverable {
			discoverable = "yes"
		}
		rows = append(rows, []string{
			strconv.Itoa(i),
			rec.ID,
			name,
			rec.Address,
			strconv.Itoa(rec.Port),
			fmt.Sprintf("0x%x", int(rec.Flags)),
			discoverable,
		})
	}

	widths := make([]int, len(header))
	for _, row := range append([][]string{header}, rows...) {
		for i, cell := range row {
			if n := lipgloss.Width(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}

	render := func(row []string, style lipgloss.Style) string {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = cellStyle.Width(widths[i] + 2).Render(style.Render(cell))
		}
		return strings.TrimRight(lipgloss.JoinHorizontal(lipgloss.Top, cells...), " ")
	}

	fmt.Fprintln(w, render(header, headerStyle))
	for _, row := range rows {
		fmt.Fprintln(w, render(row, lipgloss.NewStyle()))
	}
}
