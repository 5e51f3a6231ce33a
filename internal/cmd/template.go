package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Generate a contract template",
	Long: `Ask the analysis service to draft a contract template of the given type.

Examples:
  contractlens template --type nda
  contractlens template --type lease --requirements "12 month term, no pets"`,
	Args: cobra.NoArgs,
	RunE: runTemplate,
}

var (
	templateType         string
	templateRequirements string
)

func init() {
	rootCmd.AddCommand(templateCmd)

	templateCmd.Flags().StringVarP(&templateType, "type", "t", "", "Contract type (required)")
	templateCmd.Flags().StringVarP(&templateRequirements, "requirements", "r", "", "Free-form requirements for the template")
	_ = templateCmd.MarkFlagRequired("type")
}

func runTemplate(cmd *cobra.Command, args []string) error {
	if strings.TrimSpace(templateType) == "" {
		return fmt.Errorf("--type must not be empty")
	}

	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	text, err := s.client.Template(cmd.Context(), templateType, templateRequirements)
	if err != nil {
		return asUserError(err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, text)
	if !strings.HasSuffix(text, "\n") {
		fmt.Fprintln(out)
	}
	return nil
}
