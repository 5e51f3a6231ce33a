package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Iron-Ham/contractlens/internal/config"
	"github.com/Iron-Ham/contractlens/internal/contract"
	"github.com/Iron-Ham/contractlens/internal/errors"
	"github.com/Iron-Ham/contractlens/internal/logging"
	"github.com/Iron-Ham/contractlens/internal/workflow"
)

const analysisBody = `{
	"contract_id": "abc123",
	"contract_type": "employment",
	"risk_score": 72,
	"risk_level": "high",
	"summary": "Standard **employment** terms.",
	"risk_flags": [{"type": "Non-compete", "description": "Two year restriction"}],
	"recommendations": ["Consult counsel"],
	"clauses": [
		{"type": "term", "text": "The term is one year.", "risk_level": "low"},
		{"type": "non_compete", "text": "Employee shall not compete for two years.", "risk_level": "high"}
	]
}`

// fakeService mimics the analysis service
type fakeService struct {
	uploadStatus int
	clauseCalls  int
	exports      []string
}

func (f *fakeService) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	reply := func(w http.ResponseWriter, status int, body string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}

	mux.HandleFunc("/api/upload/", func(w http.ResponseWriter, r *http.Request) {
		if f.uploadStatus != 0 {
			reply(w, f.uploadStatus, `{"error": "unsupported encoding"}`)
			return
		}
		reply(w, http.StatusOK, `{"success": true, "contract_id": "abc123", "text": "full text"}`)
	})
	mux.HandleFunc("/api/analyze/", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ContractID string `json:"contract_id"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "abc123", req.ContractID)
		reply(w, http.StatusOK, analysisBody)
	})
	mux.HandleFunc("/api/analyze/clause/", func(w http.ResponseWriter, r *http.Request) {
		f.clauseCalls++
		assert.Equal(t, "/api/analyze/clause/clause-2", r.URL.Path)
		reply(w, http.StatusOK, `{"clause_id": "clause-2", "risk_level": "high", "risk_score": 81,
			"explanation": "Overly broad.", "concerns": ["Duration"], "alternatives": ["Limit to 6 months"]}`)
	})
	mux.HandleFunc("/api/export/", func(w http.ResponseWriter, r *http.Request) {
		format := strings.TrimPrefix(r.URL.Path, "/api/export/")
		f.exports = append(f.exports, format)
		if format == "template" {
			reply(w, http.StatusOK, `{"template": "NON-DISCLOSURE AGREEMENT"}`)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = io.WriteString(w, "%PDF-1.4 report")
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, `{"status": "healthy", "service": "contract-analysis", "version": "1.0.0"}`)
	})
	return mux
}

// setupCommand points the configuration at a fake service and returns the
// export directory and a contract file to analyze.
func setupCommand(t *testing.T, svc *fakeService) (exportDir, file string) {
	t.Helper()

	srv := httptest.NewServer(svc.handler(t))
	t.Cleanup(srv.Close)

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	viper.Reset()
	config.SetDefaults()
	t.Cleanup(viper.Reset)

	exportDir = t.TempDir()
	viper.Set("api.base_url", srv.URL+"/api")
	viper.Set("api.requests_per_second", 0)
	viper.Set("logging.enabled", false)
	viper.Set("export.dir", exportDir)

	file = filepath.Join(t.TempDir(), "employment.txt")
	require.NoError(t, os.WriteFile(file, []byte("The term is one year."), 0o644))
	return exportDir, file
}

// execute runs fn as c with captured stdout
func execute(t *testing.T, c *cobra.Command, fn func(*cobra.Command, []string) error, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	c.SetOut(&out)
	c.SetErr(&errOut)
	c.SetContext(context.Background())
	t.Cleanup(func() {
		c.SetOut(nil)
		c.SetErr(nil)
	})
	err := fn(c, args)
	return out.String(), err
}

func TestAnalyze_PlainText(t *testing.T) {
	_, file := setupCommand(t, &fakeService{})
	analyzeJSON, analyzeExpand = false, true
	t.Cleanup(func() { analyzeJSON, analyzeExpand = false, false })

	out, err := execute(t, analyzeCmd, runAnalyze, file)
	require.NoError(t, err)

	assert.Contains(t, out, "Contract type: Employment")
	assert.Contains(t, out, "Risk score:    72/100")
	assert.Contains(t, out, "Risk level:    High")
	assert.Contains(t, out, "Consult counsel")
	assert.Contains(t, out, "Employee shall not compete for two years.")
}

func TestAnalyze_JSON(t *testing.T) {
	_, file := setupCommand(t, &fakeService{})
	analyzeJSON = true
	t.Cleanup(func() { analyzeJSON = false })

	out, err := execute(t, analyzeCmd, runAnalyze, file)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "employment", got["contract_type"])
	assert.Len(t, got["clauses"], 2)
}

func TestAnalyze_RejectedFile(t *testing.T) {
	_, _ = setupCommand(t, &fakeService{})
	bad := filepath.Join(t.TempDir(), "malware.exe")
	require.NoError(t, os.WriteFile(bad, []byte("MZ"), 0o644))

	_, err := execute(t, analyzeCmd, runAnalyze, bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnsupportedType)
	assert.Contains(t, err.Error(), "PDF, DOCX and TXT")
}

func TestAnalyze_ServerRejects(t *testing.T) {
	_, file := setupCommand(t, &fakeService{uploadStatus: http.StatusBadRequest})

	_, err := execute(t, analyzeCmd, runAnalyze, file)
	require.Error(t, err)
	assert.Equal(t, "unsupported encoding", err.Error())
	assert.ErrorIs(t, err, errors.ErrServerRejected)
}

func TestExport_WritesReport(t *testing.T) {
	svc := &fakeService{}
	dir, file := setupCommand(t, svc)
	exportFormat = "pdf"

	out, err := execute(t, exportCmd, runExport, file)
	require.NoError(t, err)

	path := filepath.Join(dir, "contract_analysis_abc123.pdf")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 report", string(data))
	assert.Contains(t, out, path)
	assert.Equal(t, []string{"pdf"}, svc.exports)
}

func TestExport_BadFormat(t *testing.T) {
	_, file := setupCommand(t, &fakeService{})
	exportFormat = "docx"
	t.Cleanup(func() { exportFormat = "pdf" })

	_, err := execute(t, exportCmd, runExport, file)
	assert.ErrorContains(t, err, "unknown export format")
}

func TestClause(t *testing.T) {
	svc := &fakeService{}
	_, file := setupCommand(t, svc)
	clauseIndex = 1
	t.Cleanup(func() { clauseIndex = 0 })

	out, err := execute(t, clauseCmd, runClause, file)
	require.NoError(t, err)

	assert.Contains(t, out, "(clause-2)")
	assert.Contains(t, out, "Overly broad.")
	assert.Contains(t, out, "! Duration")
	assert.Contains(t, out, "> Limit to 6 months")
	assert.Equal(t, 1, svc.clauseCalls)
}

func TestClause_OutOfRange(t *testing.T) {
	svc := &fakeService{}
	_, file := setupCommand(t, svc)
	clauseIndex = 9
	t.Cleanup(func() { clauseIndex = 0 })

	_, err := execute(t, clauseCmd, runClause, file)
	assert.ErrorContains(t, err, "out of range")
	assert.Zero(t, svc.clauseCalls)
}

func TestTemplate(t *testing.T) {
	_, _ = setupCommand(t, &fakeService{})
	templateType, templateRequirements = "nda", "mutual"
	t.Cleanup(func() { templateType, templateRequirements = "", "" })

	out, err := execute(t, templateCmd, runTemplate)
	require.NoError(t, err)
	assert.Equal(t, "NON-DISCLOSURE AGREEMENT\n", out)
}

func TestHealth(t *testing.T) {
	_, _ = setupCommand(t, &fakeService{})

	out, err := execute(t, healthCmd, runHealth)
	require.NoError(t, err)
	assert.Contains(t, out, "Status:  healthy")
	assert.Contains(t, out, "Version: 1.0.0")
}

func TestNewSession_InvalidConfig(t *testing.T) {
	_, _ = setupCommand(t, &fakeService{})
	viper.Set("api.base_url", "localhost")

	_, err := newSession()
	assert.ErrorContains(t, err, "api.base_url")
}

func TestLogStageChanges(t *testing.T) {
	var logs bytes.Buffer
	orch := workflow.New()
	orch.OnTransition(logStageChanges(logging.NewWriterLogger(&logs, "info")))

	_, err := orch.SelectFile(contract.FromBytes("a.pdf", "application/pdf", []byte("%PDF-1.4")))
	require.NoError(t, err)

	out := logs.String()
	for _, want := range []string{`"msg":"entered stage"`, `"component":"session"`, `"stage":"file_selected"`, `"from":"idle"`} {
		assert.Contains(t, out, want)
	}
}

func TestLogFilter(t *testing.T) {
	filter, err := newLogFilter("warn", "", "abc", mustTime(t, "2026-01-01T12:00:00Z"))
	require.NoError(t, err)

	line := `{"time":"2026-01-01T11:00:00Z","level":"WARN","msg":"stale response","contract_id":"abc123","seq":4}`
	s, ok := filter.formatLine(line)
	require.True(t, ok)
	assert.Contains(t, s, "stale response")
	assert.Contains(t, s, "contract_id=")
	assert.Contains(t, s, "seq=")

	_, ok = filter.formatLine(`{"time":"2026-01-01T11:00:00Z","level":"INFO","msg":"abc"}`)
	assert.False(t, ok, "info is below warn")

	raw, ok := filter.formatLine("not json")
	assert.True(t, ok)
	assert.Equal(t, "not json", raw)

	_, err = newLogFilter("", "soon", "", mustTime(t, "2026-01-01T12:00:00Z"))
	assert.Error(t, err)
	_, err = newLogFilter("", "", "(", mustTime(t, "2026-01-01T12:00:00Z"))
	assert.Error(t, err)
}

func TestDisplayLogs_Tail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contractlens.log")
	lines := []string{
		`{"time":"2026-01-01T11:00:00Z","level":"INFO","msg":"one"}`,
		`{"time":"2026-01-01T11:00:01Z","level":"INFO","msg":"two"}`,
		`{"time":"2026-01-01T11:00:02Z","level":"INFO","msg":"three"}`,
	}
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))

	var out bytes.Buffer
	require.NoError(t, displayLogs(&out, path, 2, logFilter{minLevel: -1}))
	assert.NotContains(t, out.String(), "one")
	assert.Contains(t, out.String(), "two")
	assert.Contains(t, out.String(), "three")
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}
