package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the analysis service is reachable",
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	h, err := s.client.Health(cmd.Context())
	if err != nil {
		return fmt.Errorf("%s is unreachable: %w", s.client.BaseURL(), err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Status:  %s\n", h.Status)
	if h.Service != "" {
		fmt.Fprintf(out, "Service: %s\n", h.Service)
	}
	if h.Version != "" {
		fmt.Fprintf(out, "Version: %s\n", h.Version)
	}
	return nil
}
