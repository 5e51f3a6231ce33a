package resultview

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Iron-Ham/contractlens/internal/contract"
	"github.com/Iron-Ham/contractlens/internal/markdown"
	"github.com/Iron-Ham/contractlens/internal/risk"
)

// ClauseDetail is the full-text presentation of a single clause.
type ClauseDetail struct {
	Index     int
	ClauseID  string
	Label     string
	Type      string
	Badge     Badge
	Text      string
	Entities  []EntityGroup
	Deviation *Deviation
	// Insight is set once a clause insight has been fetched.
	Insight *Insight
}

// EntityGroup lists the mentions of one entity category.
type EntityGroup struct {
	Category string
	Mentions []string
}

// Insight is the on-demand per-clause analysis.
type Insight struct {
	Badge        Badge
	Score        string
	Explanation  []markdown.Line
	Concerns     []string
	Alternatives []string
}

// BuildClauseDetail builds the detail view for the clause at index. It
// reports false when index is out of range.
func BuildClauseDetail(result *contract.AnalysisResult, index int) (ClauseDetail, bool) {
	if result == nil || index < 0 || index >= len(result.Clauses) {
		return ClauseDetail{}, false
	}

	c := &result.Clauses[index]
	row := buildRow(index, c)
	return ClauseDetail{
		Index:     index,
		ClauseID:  contract.ClauseID(index),
		Label:     row.Label,
		Type:      row.Type,
		Badge:     row.Badge,
		Text:      row.Text,
		Entities:  entityGroups(c.Entities),
		Deviation: row.Deviation,
	}, true
}

// WithInsight returns a copy of d carrying the insight.
func (d ClauseDetail) WithInsight(ci *contract.ClauseInsight) ClauseDetail {
	if ci == nil {
		d.Insight = nil
		return d
	}
	d.Insight = &Insight{
		Badge:        NewBadge(ci.RiskLevel),
		Score:        contract.FormatScore(ci.RiskScore) + "/100",
		Explanation:  markdown.Parse(ci.Explanation),
		Concerns:     sanitizeAll(ci.Concerns),
		Alternatives: sanitizeAll(ci.Alternatives),
	}
	return d
}

func entityGroups(entities map[string][]contract.EntityMention) []EntityGroup {
	categories := make([]string, 0, len(entities))
	for category, mentions := range entities {
		if len(mentions) > 0 {
			categories = append(categories, category)
		}
	}
	sort.Strings(categories)

	groups := make([]EntityGroup, 0, len(categories))
	for _, category := range categories {
		g := EntityGroup{Category: risk.Label(category)}
		for _, m := range entities[category] {
			g.Mentions = append(g.Mentions, mentionText(m))
		}
		groups = append(groups, g)
	}
	return groups
}

// mentionText prefers the matched text and falls back to value and unit.
func mentionText(m contract.EntityMention) string {
	if t := strings.TrimSpace(markdown.Sanitize(m.Text)); t != "" {
		return t
	}
	if m.Value != 0 {
		s := strconv.FormatFloat(m.Value, 'f', -1, 64)
		if m.Unit != "" {
			s += " " + markdown.Sanitize(m.Unit)
		}
		return s
	}
	return NotAvailable
}

func sanitizeAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(markdown.Sanitize(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
