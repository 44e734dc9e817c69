// Package render turns a composed contract document into its output
// formats: an HTML preview and a printable PDF.
package render

import (
	"bytes"
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"time"

	"github.com/srvalle/contract-pro/document"
	"github.com/srvalle/contract-pro/model"
	"github.com/srvalle/contract-pro/pkg/logger"
	"github.com/srvalle/contract-pro/pkg/metrics"
)

// Output formats
const (
	FormatHTML = "html"
	FormatPDF  = "pdf"
)

//go:embed templates/*.html
var templateFS embed.FS

var previewTemplate = template.Must(template.ParseFS(templateFS, "templates/preview.html"))

// Target renders documents. Both formats go through the same logo
// resolution so a preview and a PDF of one document always agree.
type Target struct {
	logos LogoFetcher
}

// NewTarget creates a render target. logos may be nil, in which case
// documents are rendered without a logo.
func NewTarget(logos LogoFetcher) *Target {
	return &Target{logos: logos}
}

type previewData struct {
	Doc           *document.Document
	Logo          template.URL
	SignatureLine string
}

// Preview renders doc as a standalone HTML page.
func (t *Target) Preview(ctx context.Context, doc *document.Document) ([]byte, error) {
	start := time.Now()
	if err := doc.Validate(); err != nil {
		metrics.RenderFailures.WithLabelValues(FormatHTML).Inc()
		return nil, err
	}

	data := previewData{Doc: doc, SignatureLine: document.SignatureLine}
	if logo := t.resolveLogo(ctx, doc); logo != nil {
		data.Logo = template.URL("data:" + logo.MIME + ";base64," + base64.StdEncoding.EncodeToString(logo.Data))
	}

	var buf bytes.Buffer
	if err := previewTemplate.Execute(&buf, data); err != nil {
		metrics.RenderFailures.WithLabelValues(FormatHTML).Inc()
		return nil, fmt.Errorf("%w: %v", model.ErrRenderFailure, err)
	}

	metrics.RenderDuration.WithLabelValues(FormatHTML).Observe(time.Since(start).Seconds())
	return buf.Bytes(), nil
}

// PDF renders doc as an A4 PDF. The output only depends on doc and the
// resolved logo.
func (t *Target) PDF(ctx context.Context, doc *document.Document) ([]byte, error) {
	start := time.Now()
	if err := doc.Validate(); err != nil {
		metrics.RenderFailures.WithLabelValues(FormatPDF).Inc()
		return nil, err
	}

	out, err := writePDF(doc, t.resolveLogo(ctx, doc))
	if err != nil {
		metrics.RenderFailures.WithLabelValues(FormatPDF).Inc()
		return nil, fmt.Errorf("%w: %v", model.ErrRenderFailure, err)
	}

	metrics.RenderDuration.WithLabelValues(FormatPDF).Observe(time.Since(start).Seconds())
	metrics.PDFBytes.Observe(float64(len(out)))
	return out, nil
}

// resolveLogo returns nil when the document has no logo or it could not
// be retrieved. A missing logo never fails a render.
func (t *Target) resolveLogo(ctx context.Context, doc *document.Document) *Logo {
	if doc.Header.LogoURL == "" || t.logos == nil {
		return nil
	}
	logo, err := t.logos.Fetch(ctx, doc.Header.LogoURL)
	if err != nil {
		metrics.LogoFetchFailures.Inc()
		logger.Warn(ctx, "logo omitted from render", "contract_id", doc.ContractID, "url", doc.Header.LogoURL, "error", err)
		return nil
	}
	return logo
}
