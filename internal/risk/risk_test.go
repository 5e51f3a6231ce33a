package risk

import (
	"testing"

	"github.com/Iron-Ham/contractlens/internal/contract"
)

func TestFor(t *testing.T) {
	tests := []struct {
		level     contract.RiskLevel
		wantLabel string
		wantClass string
	}{
		{contract.RiskLow, "Low", "risk-low"},
		{contract.RiskMedium, "Medium", "risk-medium"},
		{contract.RiskHigh, "High", "risk-high"},
		{contract.RiskUnknown, "Unknown", "risk-unknown"},
		{contract.RiskLevel("severe"), "Unknown", "risk-unknown"},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			m := For(tt.level)
			if m.Label != tt.wantLabel || m.Class != tt.wantClass {
				t.Errorf("For(%q) = %+v, want label %q class %q", tt.level, m, tt.wantLabel, tt.wantClass)
			}
		})
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"missing_clause", "Missing Clause"},
		{"unlimited-liability", "Unlimited Liability"},
		{"non_compete__broad", "Non Compete Broad"},
		{"IP", "Ip"},
		{"", ""},
		{"__", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Label(tt.in); got != tt.want {
				t.Errorf("Label(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTitle(t *testing.T) {
	if got := Title("employment"); got != "Employment" {
		t.Errorf("Title() = %q", got)
	}
	if got := Title("service agreement"); got != "Service Agreement" {
		t.Errorf("Title() = %q", got)
	}
	if got := Title("  "); got != "" {
		t.Errorf("Title(blank) = %q", got)
	}
}
