package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/Iron-Ham/contractlens/internal/contract"
	"github.com/Iron-Ham/contractlens/internal/resultview"
	"github.com/Iron-Ham/contractlens/internal/workflow"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Upload and analyze a contract without the interactive UI",
	Long: `Upload a contract, run the analysis and print the results.

The file is validated locally first: only PDF, DOCX and TXT files up to
16 MiB are sent.

Examples:
  # Print the summary, risks, recommendations and clause list
  contractlens analyze lease.pdf

  # Include every clause's text and entities
  contractlens analyze lease.pdf --expand

  # Print the raw analysis JSON returned by the service
  contractlens analyze lease.pdf --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeJSON   bool
	analyzeExpand bool
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the analysis as JSON")
	analyzeCmd.Flags().BoolVar(&analyzeExpand, "expand", false, "Expand every clause")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	result, err := s.analyzeFile(ctx, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if analyzeJSON {
		return writeJSON(out, result)
	}
	_, err = io.WriteString(out, resultview.Build(result).PlainText(analyzeExpand))
	return err
}

// analyzeFile selects path and runs one upload and analysis sequence.
func (s *session) analyzeFile(ctx context.Context, path string) (*contract.AnalysisResult, error) {
	file, err := contract.FromPath(path)
	if err != nil {
		return nil, err
	}
	if _, err := s.orch.SelectFile(file); err != nil {
		return nil, asUserError(err)
	}

	result, err := workflow.Run(ctx, s.orch, s.client)
	if err != nil {
		return nil, asUserError(err)
	}
	return result, nil
}

func writeJSON(w io.Writer, result *contract.AnalysisResult) error {
	raw, err := result.Raw()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("decode analysis: %w", err)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
