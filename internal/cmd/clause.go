package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/Iron-Ham/contractlens/internal/resultview"
	"github.com/spf13/cobra"
)

var clauseCmd = &cobra.Command{
	Use:   "clause <file>",
	Short: "Request a detailed analysis of one clause",
	Long: `Analyze a contract, then request the per-clause insight for one clause:
its risk level and score, an explanation, concerns and alternative wording.

Clauses are numbered from 0 in document order.

Examples:
  contractlens clause lease.pdf --index 3`,
	Args: cobra.ExactArgs(1),
	RunE: runClause,
}

var clauseIndex int

func init() {
	rootCmd.AddCommand(clauseCmd)

	clauseCmd.Flags().IntVarP(&clauseIndex, "index", "i", 0, "Clause index (0-based)")
}

func runClause(cmd *cobra.Command, args []string) error {
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

	detail, ok := resultview.BuildClauseDetail(result, clauseIndex)
	if !ok {
		return fmt.Errorf("clause index %d out of range: the contract has %d clauses", clauseIndex, len(result.Clauses))
	}

	q, cached, err := s.orch.ClauseInput(clauseIndex)
	if err != nil {
		return err
	}
	ci := cached
	if ci == nil {
		ci, err = s.client.AnalyzeClause(ctx, q.ClauseID, q.Text, q.ContractType)
		if err != nil {
			return asUserError(err)
		}
		_ = s.orch.StoreInsight(q, ci)
	}

	_, err = io.WriteString(cmd.OutOrStdout(), detail.WithInsight(ci).PlainText())
	return err
}
