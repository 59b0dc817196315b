package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crewdeck/crewclock/internal/report"
)

var (
	exportFormat string
	exportOut    string
	exportDate   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the entries of a pay period",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", report.FormatCSV, "Output format: csv, json, md, xlsx")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file; stdout when empty (required for xlsx)")
	exportCmd.Flags().StringVar(&exportDate, "date", "", "Any date in the period (YYYY-MM-DD); defaults to today")
}

func runExport(cmd *cobra.Command, args []string) error {
	d, err := app.dateOrToday(exportDate)
	if err != nil {
		return err
	}
	period := app.calc.PeriodFor(d)

	entries, err := loadPeriodEntries(period)
	if err != nil {
		return err
	}
	r := report.New(period.PeriodName, entries, app.loc)

	if exportFormat == report.FormatXLSX {
		if exportOut == "" {
			return fmt.Errorf("--out is required for the xlsx format")
		}
		if err := report.WriteXLSX(exportOut, r); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", exportOut)
		return nil
	}

	if exportOut == "" {
		return report.Write(cmd.OutOrStdout(), exportFormat, r)
	}

	f, err := os.Create(exportOut)
	if err != nil {
		return fmt.Errorf("creating %s: %w", exportOut, err)
	}
	if err := report.Write(f, exportFormat, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
