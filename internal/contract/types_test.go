package contract

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestParseRiskLevel(t *testing.T) {
	tests := []struct {
		in   string
		want RiskLevel
	}{
		{"low", RiskLow},
		{"Medium", RiskMedium},
		{" HIGH ", RiskHigh},
		{"critical", RiskUnknown},
		{"", RiskUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseRiskLevel(tt.in); got != tt.want {
				t.Errorf("ParseRiskLevel(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecodeAnalysis(t *testing.T) {
	body := `{
		"contract_type": "employment",
		"risk_score": 72.4,
		"risk_level": "High",
		"summary": "**Overall** fine",
		"risk_flags": [{"type": "missing_clause", "description": "No termination"}],
		"recommendations": ["Consult counsel"],
		"clauses": [
			{"header": "Term", "type": "term", "text": "One year.", "risk_level": "low",
			 "entities": {"dates": [{"text": "2024-01-01", "type": "date", "start": 3, "end": 13}], "parties": ["Acme"]},
			 "deviation_flag": true, "suggested_standard": "Standard term"},
			{"type": "payment", "text": "Net 30", "risk_level": 5, "deviation_flag": false}
		]
	}`

	result, err := DecodeAnalysis([]byte(body))
	if err != nil {
		t.Fatalf("DecodeAnalysis() error = %v", err)
	}

	if result.Score() != "72" {
		t.Errorf("Score() = %q, want 72", result.Score())
	}
	if result.RiskLevel != RiskHigh {
		t.Errorf("RiskLevel = %q, want high", result.RiskLevel)
	}
	if len(result.Clauses) != 2 {
		t.Fatalf("len(Clauses) = %d, want 2", len(result.Clauses))
	}

	first := result.Clauses[0]
	if first.SuggestedMatch != "Standard term" {
		t.Errorf("SuggestedMatch = %q, want fallback from suggested_standard", first.SuggestedMatch)
	}
	if got := first.Entities["parties"][0].Text; got != "Acme" {
		t.Errorf("string entity mention decoded as %q", got)
	}
	if got := first.Entities["dates"][0].End; got != 13 {
		t.Errorf("object entity mention End = %d, want 13", got)
	}

	second := result.Clauses[1]
	if second.RiskLevel != RiskUnknown {
		t.Errorf("non-string risk level decoded as %q", second.RiskLevel)
	}
	if second.Header != "" || second.Entities != nil {
		t.Error("absent optional fields should decode to zero values")
	}

	raw, err := result.Raw()
	if err != nil {
		t.Fatalf("Raw() error = %v", err)
	}
	if string(raw) != body {
		t.Error("Raw() should return the body as received")
	}
}

func TestDecodeAnalysis_ClampsScore(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"risk_score": -4}`, "0"},
		{`{"risk_score": 140}`, "100"},
		{`{}`, "0"},
		{`{"risk_score": 56.67}`, "56.67"},
		{`{"risk_score": 72.0}`, "72"},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			result, err := DecodeAnalysis([]byte(tt.body))
			if err != nil {
				t.Fatalf("DecodeAnalysis() error = %v", err)
			}
			if result.Score() != tt.want {
				t.Errorf("Score() = %q, want %q", result.Score(), tt.want)
			}
		})
	}
}

func TestDecodeAnalysis_Invalid(t *testing.T) {
	if _, err := DecodeAnalysis([]byte(`[1,2`)); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestAnalysisResult_RawWithoutBody(t *testing.T) {
	result := &AnalysisResult{ContractType: "nda", RiskScore: 10, RiskLevel: RiskLow}
	raw, err := result.Raw()
	if err != nil {
		t.Fatalf("Raw() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Raw() produced invalid JSON: %v", err)
	}
	if decoded["contract_type"] != "nda" || decoded["risk_level"] != "low" {
		t.Errorf("Raw() = %s", raw)
	}
}

func TestClause_EntityCounts(t *testing.T) {
	clause := Clause{Entities: map[string][]EntityMention{
		"parties": {{Text: "A"}, {Text: "B"}},
		"amounts": {{Text: "$5"}},
		"dates":   {},
	}}

	got := clause.EntityCounts()
	want := []EntityCount{{"amounts", 1}, {"parties", 2}}
	if len(got) != len(want) {
		t.Fatalf("EntityCounts() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("EntityCounts()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestClause_EntityCountsSortedByCategory(t *testing.T) {
	clause := Clause{Entities: map[string][]EntityMention{}}
	for _, c := range []string{"terms", "amounts", "parties", "dates", "locations", "durations"} {
		clause.Entities[c] = []EntityMention{{Text: c}}
	}

	got := clause.EntityCounts()
	want := []string{"amounts", "dates", "durations", "locations", "parties", "terms"}
	if len(got) != len(want) {
		t.Fatalf("EntityCounts() = %v", got)
	}
	for i, c := range want {
		if got[i].Category != c {
			t.Errorf("EntityCounts()[%d] = %q, want %q", i, got[i].Category, c)
		}
	}
}

func TestClauseID(t *testing.T) {
	if got := ClauseID(0); got != "clause-1" {
		t.Errorf("ClauseID(0) = %q", got)
	}
	if got := ClauseID(9); got != "clause-10" {
		t.Errorf("ClauseID(9) = %q", got)
	}
}

func TestUploadResponse_Session(t *testing.T) {
	var resp UploadResponse
	if err := json.Unmarshal([]byte(`{"contract_id":"abc123","text":"full","text_preview":"fu"}`), &resp); err != nil {
		t.Fatal(err)
	}
	s := resp.Session()
	if s.ContractID != "abc123" || s.Text != "full" || s.TextPreview != "fu" {
		t.Errorf("Session() = %+v", s)
	}
}

func TestFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nda.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 test"), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := FromPath(path)
	if err != nil {
		t.Fatalf("FromPath() error = %v", err)
	}
	if f.Name != "nda.pdf" || f.Size != 13 {
		t.Errorf("FromPath() = %+v", f)
	}
	if f.MediaType != "application/pdf" {
		t.Errorf("MediaType = %q, want application/pdf", f.MediaType)
	}

	if _, err := FromPath(dir); err == nil {
		t.Error("expected error for directory")
	}
	if _, err := FromPath(filepath.Join(dir, "missing.pdf")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFromPath_SniffsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.contract")
	if err := os.WriteFile(path, []byte("plain words"), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := FromPath(path)
	if err != nil {
		t.Fatal(err)
	}
	if f.MediaType != "text/plain" {
		t.Errorf("MediaType = %q, want text/plain", f.MediaType)
	}
}

func TestSelectedFile_Open(t *testing.T) {
	f := FromBytes("a.txt", "text/plain", []byte("hello"))
	rc, err := f.Open()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = rc.Close() }()

	buf := make([]byte, 5)
	if _, err := rc.Read(buf); err != nil || string(buf) != "hello" {
		t.Errorf("Open() read %q, %v", buf, err)
	}

	if !f.Same(FromBytes("a.txt", "", []byte("world"))) {
		t.Error("in-memory files with same name and size should match")
	}
}
