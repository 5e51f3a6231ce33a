package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/Iron-Ham/contractlens/internal/contract"
	"github.com/Iron-Ham/contractlens/internal/errors"
)

// Format is an export format.
type Format string

// Export formats.
const (
	FormatPDF  Format = "pdf"
	FormatJSON Format = "json"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPDF, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want pdf or json)", s)
	}
}

// Ext is the file extension for the format, without a dot.
func (f Format) Ext() string {
	return string(f)
}

// Artifact is an exported report as returned by the service.
type Artifact struct {
	Format      Format
	ContentType string
	// SuggestedName is the filename from Content-Disposition, if any.
	SuggestedName string
	Data          []byte
}

// Health is the response of GET /health.
type Health struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// Upload sends the file as a multipart form with a single "file" field.
func (c *Client) Upload(ctx context.Context, file contract.SelectedFile) (*contract.UploadResponse, error) {
	body, contentType, err := multipartBody(file)
	if err != nil {
		return nil, errors.NewTransportError(errors.OpUpload, err).WithStatus(0)
	}

	resp, err := c.do(ctx, errors.OpUpload, http.MethodPost, c.endpointURL("/upload/"), body, contentType)
	if err != nil {
		return nil, err
	}

	var out contract.UploadResponse
	if err := c.decode(errors.OpUpload, schemaUpload, resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func multipartBody(file contract.SelectedFile) ([]byte, string, error) {
	src, err := file.Open()
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", file.Name, err)
	}
	defer func() { _ = src.Close() }()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{
		"name":     "file",
		"filename": file.Name,
	}))
	mediaType := file.MediaType
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	header.Set("Content-Type", mediaType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, src); err != nil {
		return nil, "", fmt.Errorf("read %s: %w", file.Name, err)
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

type analyzeRequest struct {
	ContractID string `json:"contract_id"`
	Text       string `json:"text"`
}

// Analyze requests the analysis of an uploaded document.
func (c *Client) Analyze(ctx context.Context, contractID, text string) (*contract.AnalysisResult, error) {
	body, err := json.Marshal(analyzeRequest{ContractID: contractID, Text: text})
	if err != nil {
		return nil, errors.NewTransportError(errors.OpAnalyze, err).WithStatus(0)
	}

	resp, err := c.do(ctx, errors.OpAnalyze, http.MethodPost, c.endpointURL("/analyze/"), body, "application/json")
	if err != nil {
		return nil, err
	}

	if err := c.schemas.validate(schemaAnalyze, resp.body); err != nil {
		return nil, errors.NewTransportError(errors.OpAnalyze, fmt.Errorf("%w: %v", errors.ErrMalformedResponse, err)).
			WithStatus(resp.status).
			WithRequestID(resp.requestID)
	}
	result, err := contract.DecodeAnalysis(resp.body)
	if err != nil {
		return nil, errors.NewTransportError(errors.OpAnalyze, fmt.Errorf("%w: %v", errors.ErrMalformedResponse, err)).
			WithStatus(resp.status).
			WithRequestID(resp.requestID)
	}
	return result, nil
}

type exportRequest struct {
	ContractID string          `json:"contract_id"`
	Analysis   json.RawMessage `json:"analysis"`
}

// Export requests a report for the analysis in the given format.
func (c *Client) Export(ctx context.Context, format Format, contractID string, analysis *contract.AnalysisResult) (*Artifact, error) {
	raw, err := analysis.Raw()
	if err != nil {
		return nil, errors.NewTransportError(errors.OpExport, err).WithStatus(0)
	}
	body, err := json.Marshal(exportRequest{ContractID: contractID, Analysis: raw})
	if err != nil {
		return nil, errors.NewTransportError(errors.OpExport, err).WithStatus(0)
	}

	resp, err := c.do(ctx, errors.OpExport, http.MethodPost, c.endpointURL("/export/"+string(format)), body, "application/json")
	if err != nil {
		return nil, err
	}

	artifact := &Artifact{
		Format:      format,
		ContentType: resp.header.Get("Content-Type"),
		Data:        resp.body,
	}
	if _, params, err := mime.ParseMediaType(resp.header.Get("Content-Disposition")); err == nil {
		artifact.SuggestedName = params["filename"]
	}
	return artifact, nil
}

type clauseRequest struct {
	Text         string `json:"text"`
	ContractType string `json:"contract_type,omitempty"`
}

// AnalyzeClause requests a detailed analysis of one clause.
func (c *Client) AnalyzeClause(ctx context.Context, clauseID, text, contractType string) (*contract.ClauseInsight, error) {
	body, err := json.Marshal(clauseRequest{Text: text, ContractType: contractType})
	if err != nil {
		return nil, errors.NewTransportError(errors.OpClauseInsight, err).WithStatus(0)
	}

	target := c.endpointURL("/analyze/clause/" + url.PathEscape(clauseID))
	resp, err := c.do(ctx, errors.OpClauseInsight, http.MethodPost, target, body, "application/json")
	if err != nil {
		return nil, err
	}

	var out contract.ClauseInsight
	if err := c.decode(errors.OpClauseInsight, schemaClause, resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type templateRequest struct {
	ContractType string `json:"contract_type"`
	Requirements string `json:"requirements"`
}

type templateResponse struct {
	Template string `json:"template"`
}

// Template asks the service to draft a standard contract template.
func (c *Client) Template(ctx context.Context, contractType, requirements string) (string, error) {
	body, err := json.Marshal(templateRequest{ContractType: contractType, Requirements: requirements})
	if err != nil {
		return "", errors.NewTransportError(errors.OpTemplate, err).WithStatus(0)
	}

	resp, err := c.do(ctx, errors.OpTemplate, http.MethodPost, c.endpointURL("/export/template"), body, "application/json")
	if err != nil {
		return "", err
	}

	var out templateResponse
	if err := c.decode(errors.OpTemplate, "", resp, &out); err != nil {
		return "", err
	}
	return out.Template, nil
}

// Health queries the service health endpoint at the server root.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	resp, err := c.do(ctx, errors.OpHealth, http.MethodGet, c.serverRootURL("/health"), nil, "")
	if err != nil {
		return nil, err
	}

	var out Health
	if err := c.decode(errors.OpHealth, "", resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
