package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/Iron-Ham/contractlens/internal/api"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Analyze a contract and download the report",
	Long: `Analyze a contract and download the report as PDF or JSON.

The report is written to export.dir as contract_analysis_{id}.{pdf|json}.
When export.archive.enabled is set the report is also copied to the
configured bucket.

Examples:
  contractlens export lease.pdf
  contractlens export lease.pdf --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

var exportFormat string

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "pdf", "Report format (pdf, json)")
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := api.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if _, err := s.analyzeFile(ctx, args[0]); err != nil {
		return err
	}

	res, err := s.exports.Export(ctx, format)
	if err != nil {
		return asUserError(err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Exported %s\n", res.Location)
	if res.ArchiveLocation != "" {
		fmt.Fprintf(out, "Archived to %s\n", res.ArchiveLocation)
	}
	if res.ArchiveErr != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: archive copy failed: %v\n", res.ArchiveErr)
	}
	return nil
}
