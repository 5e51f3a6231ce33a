package resultview

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/contractlens/internal/markdown"
)

// PlainText renders the view without styling for non-interactive output.
// Bold spans are wrapped in ** so the emphasis survives copy and paste.
func (v View) PlainText(expandAll bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Contract type: %s\n", v.Overview.ContractType)
	fmt.Fprintf(&b, "Risk score:    %s\n", v.Overview.Score)
	fmt.Fprintf(&b, "Risk level:    %s\n", v.Overview.Badge.Label)
	fmt.Fprintf(&b, "Clauses:       %d\n", v.Overview.ClauseCount)

	if len(v.Summary) > 0 {
		b.WriteString("\nSummary\n")
		writeLines(&b, v.Summary, "  ")
	}

	b.WriteString("\nRisk flags\n")
	if v.NoRisks {
		fmt.Fprintf(&b, "  %s\n", NoRisksPlaceholder)
	}
	for _, f := range v.Flags {
		fmt.Fprintf(&b, "  - %s: %s\n", f.Label, f.Description)
	}

	b.WriteString("\nRecommendations\n")
	for i, r := range v.Recommendations {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, r)
	}

	if len(v.Clauses) > 0 {
		b.WriteString("\nClauses\n")
	}
	for _, row := range v.Clauses {
		fmt.Fprintf(&b, "  [%s] %s (%s)", row.Badge.Label, row.Label, row.Type)
		if s := row.EntitySummary(); s != "" {
			fmt.Fprintf(&b, "  %s", s)
		}
		b.WriteByte('\n')
		if !expandAll {
			continue
		}
		for _, line := range strings.Split(row.Text, "\n") {
			fmt.Fprintf(&b, "      %s\n", line)
		}
		if row.Deviation != nil {
			fmt.Fprintf(&b, "      %s: %s\n", row.Deviation.Title, row.Deviation.Suggested)
		}
	}

	return b.String()
}

// PlainText renders the detail view without styling.
func (d ClauseDetail) PlainText() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s (%s)\n", d.Label, d.ClauseID)
	fmt.Fprintf(&b, "Type: %s\n", d.Type)
	fmt.Fprintf(&b, "Risk: %s\n\n", d.Badge.Label)
	b.WriteString(d.Text)
	b.WriteString("\n")

	if d.Deviation != nil {
		fmt.Fprintf(&b, "\n%s: %s\n", d.Deviation.Title, d.Deviation.Suggested)
	}

	if len(d.Entities) > 0 {
		b.WriteString("\nEntities\n")
		for _, g := range d.Entities {
			fmt.Fprintf(&b, "  %s: %s\n", g.Category, strings.Join(g.Mentions, ", "))
		}
	}

	if in := d.Insight; in != nil {
		fmt.Fprintf(&b, "\nInsight (%s, %s)\n", in.Badge.Label, in.Score)
		writeLines(&b, in.Explanation, "  ")
		for _, c := range in.Concerns {
			fmt.Fprintf(&b, "  ! %s\n", c)
		}
		for _, a := range in.Alternatives {
			fmt.Fprintf(&b, "  > %s\n", a)
		}
	}

	return b.String()
}

func writeLines(b *strings.Builder, lines []markdown.Line, indent string) {
	for _, line := range lines {
		b.WriteString(indent)
		for _, span := range line {
			if span.Bold {
				b.WriteString("**" + span.Text + "**")
				continue
			}
			b.WriteString(span.Text)
		}
		b.WriteByte('\n')
	}
}
