package resultview

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/contractlens/internal/contract"
	"github.com/Iron-Ham/contractlens/internal/markdown"
	"github.com/Iron-Ham/contractlens/internal/risk"
)

// Fixed texts shown in place of absent data.
const (
	NoRisksPlaceholder     = "No significant risks detected"
	FallbackRecommendation = "Have a qualified lawyer review this contract before signing"
	NotAvailable           = "Not available"
	UnknownContractType    = "Unknown"
	UnclassifiedClause     = "Unclassified"
	DeviationTitle         = "Deviates from standard"
)

// View is the complete result presentation.
type View struct {
	Overview Overview
	Summary  []markdown.Line
	// Flags is empty when NoRisks is set.
	Flags   []Flag
	NoRisks bool
	// Recommendations always has at least one entry.
	Recommendations []string
	Clauses         []ClauseRow
}

// Overview is the headline block.
type Overview struct {
	ContractType string
	Score        string
	ClauseCount  int
	Badge        Badge
}

// Badge is a rendered risk level.
type Badge struct {
	Level contract.RiskLevel
	risk.Meta
}

// NewBadge builds the badge for level.
func NewBadge(level contract.RiskLevel) Badge {
	return Badge{Level: level, Meta: risk.For(level)}
}

// Flag is one document-level risk flag.
type Flag struct {
	Label       string
	Description string
}

// ClauseRow is one entry in the clause list.
type ClauseRow struct {
	Index    int
	Label    string
	Type     string
	Badge    Badge
	Entities []contract.EntityCount
	// Text and Deviation are shown only while the row is expanded.
	Text      string
	Deviation *Deviation
}

// Deviation is the callout for clauses that differ from the standard template.
type Deviation struct {
	Title     string
	Suggested string
	Available bool
}

// EntitySummary renders the entity counts compactly, e.g. "Dates 2 · Parties 1".
func (r ClauseRow) EntitySummary() string {
	parts := make([]string, 0, len(r.Entities))
	for _, ec := range r.Entities {
		parts = append(parts, fmt.Sprintf("%s %d", risk.Label(ec.Category), ec.Count))
	}
	return strings.Join(parts, " · ")
}

// Build produces the view for result. A nil result yields an empty view with
// all placeholders set.
func Build(result *contract.AnalysisResult) View {
	if result == nil {
		result = &contract.AnalysisResult{}
	}

	v := View{
		Overview: Overview{
			ContractType: orDefault(risk.Title(markdown.Sanitize(result.ContractType)), UnknownContractType),
			Score:        result.Score() + "/100",
			ClauseCount:  len(result.Clauses),
			Badge:        NewBadge(result.RiskLevel),
		},
		Summary: markdown.Parse(result.Summary),
	}

	for _, f := range result.RiskFlags {
		v.Flags = append(v.Flags, Flag{
			Label:       orDefault(risk.Label(f.Type), "Risk"),
			Description: markdown.Sanitize(f.Description),
		})
	}
	v.NoRisks = len(v.Flags) == 0

	for _, rec := range result.Recommendations {
		if rec = strings.TrimSpace(markdown.Sanitize(rec)); rec != "" {
			v.Recommendations = append(v.Recommendations, rec)
		}
	}
	if len(v.Recommendations) == 0 {
		v.Recommendations = []string{FallbackRecommendation}
	}

	v.Clauses = make([]ClauseRow, 0, len(result.Clauses))
	for i := range result.Clauses {
		v.Clauses = append(v.Clauses, buildRow(i, &result.Clauses[i]))
	}

	return v
}

func buildRow(index int, c *contract.Clause) ClauseRow {
	row := ClauseRow{
		Index:    index,
		Label:    ClauseLabel(index, c),
		Type:     orDefault(risk.Label(c.Type), UnclassifiedClause),
		Badge:    NewBadge(c.RiskLevel),
		Entities: c.EntityCounts(),
		Text:     markdown.Sanitize(c.Text),
	}
	if c.DeviationFlag {
		row.Deviation = &Deviation{Title: DeviationTitle, Suggested: NotAvailable}
		if s := strings.TrimSpace(markdown.Sanitize(c.SuggestedMatch)); s != "" {
			row.Deviation.Suggested = s
			row.Deviation.Available = true
		}
	}
	return row
}

// ClauseLabel is the clause header, or "Clause {index+1}" when absent. The
// positional label is for display only.
func ClauseLabel(index int, c *contract.Clause) string {
	if h := strings.TrimSpace(markdown.Sanitize(c.Header)); h != "" {
		return h
	}
	return fmt.Sprintf("Clause %d", index+1)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
