package contract

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// RiskLevel is the server's three-way risk classification.
type RiskLevel string

// Risk levels. RiskUnknown is used for absent or unrecognized values.
const (
	RiskLow     RiskLevel = "low"
	RiskMedium  RiskLevel = "medium"
	RiskHigh    RiskLevel = "high"
	RiskUnknown RiskLevel = ""
)

// ParseRiskLevel normalizes a server value. Anything other than
// low/medium/high (case-insensitive) maps to RiskUnknown.
func ParseRiskLevel(s string) RiskLevel {
	switch RiskLevel(strings.ToLower(strings.TrimSpace(s))) {
	case RiskLow:
		return RiskLow
	case RiskMedium:
		return RiskMedium
	case RiskHigh:
		return RiskHigh
	default:
		return RiskUnknown
	}
}

// UnmarshalJSON accepts any string and normalizes it.
func (r *RiskLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Non-string levels (null, numbers) are treated as unknown.
		*r = RiskUnknown
		return nil
	}
	*r = ParseRiskLevel(s)
	return nil
}

// Session correlates an uploaded document with later analyze, export and
// clause-insight calls. A nil *Session means no contract id has been assigned.
type Session struct {
	ContractID  string
	Text        string
	TextPreview string
}

// UploadResponse is the success body of POST /upload/.
type UploadResponse struct {
	ContractID  string `json:"contract_id"`
	Text        string `json:"text"`
	TextPreview string `json:"text_preview,omitempty"`
	Filename    string `json:"filename,omitempty"`
	FileType    string `json:"file_type,omitempty"`
	TextLength  int    `json:"text_length,omitempty"`
}

// Session converts the upload response into a Session.
func (u UploadResponse) Session() *Session {
	return &Session{
		ContractID:  u.ContractID,
		Text:        u.Text,
		TextPreview: u.TextPreview,
	}
}

// AnalysisResult is the success body of POST /analyze/. It is treated as
// immutable once received.
type AnalysisResult struct {
	ContractID      string     `json:"contract_id,omitempty"`
	ContractType    string     `json:"contract_type"`
	RiskScore       float64    `json:"risk_score"`
	RiskLevel       RiskLevel  `json:"risk_level"`
	Summary         string     `json:"summary"`
	RiskFlags       []RiskFlag `json:"risk_flags"`
	Recommendations []string   `json:"recommendations"`
	Clauses         []Clause   `json:"clauses"`
	Timestamp       string     `json:"timestamp,omitempty"`

	// raw is the body as received, re-sent verbatim with export requests.
	raw json.RawMessage
}

// DecodeAnalysis decodes an analyze response body leniently.
func DecodeAnalysis(data []byte) (*AnalysisResult, error) {
	var result AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	result.raw = append(json.RawMessage(nil), data...)
	return &result, nil
}

// UnmarshalJSON clamps the score to 0..100.
func (a *AnalysisResult) UnmarshalJSON(data []byte) error {
	type plain AnalysisResult
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = AnalysisResult(p)
	a.RiskScore = clampScore(a.RiskScore)
	return nil
}

// Score returns the risk score as displayed, e.g. "72" or "56.67".
func (a *AnalysisResult) Score() string {
	return FormatScore(a.RiskScore)
}

// FormatScore clamps v to 0..100 and formats it with the fewest digits that
// represent it exactly. Integral scores have no decimal point.
func FormatScore(v float64) string {
	return strconv.FormatFloat(clampScore(v), 'f', -1, 64)
}

// Raw returns the body the result was decoded from, or a fresh encoding when
// the result was built in memory.
func (a *AnalysisResult) Raw() (json.RawMessage, error) {
	if len(a.raw) > 0 {
		return a.raw, nil
	}
	type plain AnalysisResult
	return json.Marshal(plain(*a))
}

func clampScore(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// RiskFlag is a document-level concern.
type RiskFlag struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Clause is a server-identified contractual unit. Its position in
// AnalysisResult.Clauses is used for display labels only.
type Clause struct {
	Header         string                     `json:"header,omitempty"`
	Type           string                     `json:"type"`
	Text           string                     `json:"text"`
	RiskLevel      RiskLevel                  `json:"risk_level"`
	Entities       map[string][]EntityMention `json:"entities,omitempty"`
	DeviationFlag  bool                       `json:"deviation_flag"`
	SuggestedMatch string                     `json:"suggested_match,omitempty"`
}

// UnmarshalJSON accepts the service's suggested_standard as a fallback for
// suggested_match.
func (c *Clause) UnmarshalJSON(data []byte) error {
	type plain Clause
	var p struct {
		plain
		SuggestedStandard string `json:"suggested_standard"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = Clause(p.plain)
	if c.SuggestedMatch == "" {
		c.SuggestedMatch = p.SuggestedStandard
	}
	return nil
}

// EntityCount is the number of mentions in one entity category.
type EntityCount struct {
	Category string
	Count    int
}

// EntityCounts summarizes Entities as category counts, sorted by category
// name. Empty categories are omitted.
func (c *Clause) EntityCounts() []EntityCount {
	counts := make([]EntityCount, 0, len(c.Entities))
	for category, mentions := range c.Entities {
		if len(mentions) == 0 {
			continue
		}
		counts = append(counts, EntityCount{Category: category, Count: len(mentions)})
	}
	sortCounts(counts)
	return counts
}

func sortCounts(counts []EntityCount) {
	slices.SortFunc(counts, func(a, b EntityCount) int {
		return strings.Compare(a.Category, b.Category)
	})
}

// EntityMention is one extracted entity. The service sends objects with
// varying fields per category; a bare string is also accepted.
type EntityMention struct {
	Text    string  `json:"text"`
	Type    string  `json:"type,omitempty"`
	Start   int     `json:"start,omitempty"`
	End     int     `json:"end,omitempty"`
	Value   float64 `json:"value,omitempty"`
	Unit    string  `json:"unit,omitempty"`
	Context string  `json:"context,omitempty"`
}

// UnmarshalJSON accepts either a string or an object.
func (e *EntityMention) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*e = EntityMention{Text: s}
		return nil
	}
	type plain EntityMention
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = EntityMention(p)
	return nil
}

// ClauseInsight is the response of POST /analyze/clause/{clause_id}.
type ClauseInsight struct {
	ClauseID     string                     `json:"clause_id"`
	Entities     map[string][]EntityMention `json:"entities,omitempty"`
	RiskLevel    RiskLevel                  `json:"risk_level"`
	RiskScore    float64                    `json:"risk_score"`
	Explanation  string                     `json:"explanation"`
	Concerns     []string                   `json:"concerns"`
	Alternatives []string                   `json:"alternatives"`
}

// ClauseID returns the identifier used for clause-insight requests. It is
// derived from the clause's position and is not stable across results.
func ClauseID(index int) string {
	return fmt.Sprintf("clause-%d", index+1)
}
