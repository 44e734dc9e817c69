package render

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/srvalle/contract-pro/document"
)

// Layout in points on an A4 page.
const (
	pageMargin  = 24.0
	bodySize    = 12.0
	leading     = 15.0
	titleSize   = 20.0
	sectionSize = 14.0
	tagSize     = 10.0
	logoHeight  = 40.0
	boxPadding  = 8.0
	boxGap      = 12.0
	boxRadius   = 6.0
	chipHeight  = 18.0
	chipPadding = 8.0
	chipGap     = 4.0
	quoteBar    = 4.0
	quoteIndent = 10.0
)

type rgb struct{ r, g, b int }

var (
	colorText    = rgb{0x22, 0x22, 0x22}
	colorMuted   = rgb{0x66, 0x66, 0x66}
	colorHeading = rgb{0x11, 0x11, 0x11}
	colorBorder  = rgb{0xbb, 0xbb, 0xbb}
	colorChip    = rgb{0xf3, 0xf3, 0xf3}
	colorAccent  = rgb{0x25, 0x63, 0xeb}
)

type pdfWriter struct {
	pdf     *fpdf.Fpdf
	fonts   *fontSet
	missing map[rune]bool
	left    float64
	width   float64
	limit   float64
}

func writePDF(doc *document.Document, logo *Logo) ([]byte, error) {
	fonts, err := loadFonts()
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	fonts.register(pdf)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetCatalogSort(true)
	stamp := doc.IssuedAt
	if stamp.IsZero() {
		stamp = time.Unix(0, 0).UTC()
	}
	pdf.SetCreationDate(stamp)
	pdf.SetModificationDate(stamp)
	pdf.SetTitle(doc.Header.Title+" "+doc.ContractNumber, true)
	pdf.SetCreator("contract-pro", false)

	pageW, pageH := pdf.GetPageSize()
	w := &pdfWriter{
		pdf:     pdf,
		fonts:   fonts,
		missing: make(map[rune]bool),
		left:    pageMargin,
		width:   pageW - 2*pageMargin,
		limit:   pageH - pageMargin,
	}

	pdf.AddPage()
	w.header(doc.Header, logo)
	w.parties(doc.Parties)
	for _, c := range doc.Clauses {
		w.clause(c)
	}
	w.pdf.Ln(16)
	w.field(doc.DateLine)
	w.signatures(doc.Signatures)

	if pdf.Err() {
		return nil, pdf.Error()
	}
	if len(w.missing) > 0 {
		return nil, fmt.Errorf("no glyph for %s", w.missingList())
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// text passes s through unchanged and remembers the runes the fonts
// cannot draw.
// text records runes the embedded faces cannot draw. They are swapped for
// '?' so layout can continue; writePDF fails once the page is done.
func (w *pdfWriter) text(s string) string {
	return strings.Map(func(r rune) rune {
		if w.fonts.supports(r) {
			return r
		}
		w.missing[r] = true
		return '?'
	}, s)
}

func (w *pdfWriter) missingList() string {
	runes := make([]rune, 0, len(w.missing))
	for r := range w.missing {
		runes = append(runes, r)
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })

	quoted := make([]string, len(runes))
	for i, r := range runes {
		quoted[i] = fmt.Sprintf("%q (%U)", r, r)
	}
	return strings.Join(quoted, ", ")
}

func (w *pdfWriter) font(style string, size float64, c rgb) {
	w.pdf.SetFont(fontFamily, style, size)
	w.pdf.SetTextColor(c.r, c.g, c.b)
}

// ensureSpace starts a new page when h points do not fit below the cursor.
func (w *pdfWriter) ensureSpace(h float64) {
	if w.pdf.GetY()+h > w.limit {
		w.pdf.AddPage()
	}
}

// wrap splits text into lines no wider than width in the current font.
func (w *pdfWriter) wrap(text string, width float64) []string {
	return w.pdf.SplitText(w.text(text), width)
}

func (w *pdfWriter) header(h document.Header, logo *Logo) {
	x, y := w.pdf.GetXY()
	titleX := x

	if logo != nil {
		opts := fpdf.ImageOptions{ImageType: logo.ImageType()}
		info := w.pdf.RegisterImageOptionsReader("logo", opts, bytes.NewReader(logo.Data))
		if w.pdf.Err() || info == nil || info.Height() == 0 {
			w.pdf.ClearError()
		} else {
			logoW := info.Width() * logoHeight / info.Height()
			w.pdf.ImageOptions("logo", x, y, logoW, logoHeight, false, opts, 0, "")
			titleX += logoW + 16
		}
	}

	w.font("B", titleSize, colorText)
	w.pdf.SetXY(titleX, y)
	w.pdf.CellFormat(w.left+w.width-titleX, logoHeight, w.text(h.Title), "", 1, "LM", false, 0, "")
	w.pdf.Ln(16)

	w.font("", bodySize, colorMuted)
	w.pdf.MultiCell(w.width, leading, w.text(h.Intro), "", "L", false)
	w.pdf.Ln(16)
}

type boxLine struct {
	text string
	bold bool
}

func (w *pdfWriter) partyLines(p document.Party, width float64) []boxLine {
	w.font("B", bodySize, colorText)
	lines := []boxLine{{text: w.text(p.Label + ":"), bold: true}}

	w.font("", bodySize, colorText)
	for _, l := range w.wrap(p.Text, width) {
		lines = append(lines, boxLine{text: l})
	}
	if p.Email != "" {
		lines = append(lines, boxLine{})
		for _, l := range w.wrap(p.Email, width) {
			lines = append(lines, boxLine{text: l})
		}
	}
	return lines
}

// parties draws the identity boxes side by side with equal heights.
func (w *pdfWriter) parties(parties []document.Party) {
	boxW := (w.width - boxGap*float64(len(parties)-1)) / float64(len(parties))
	inner := boxW - 2*boxPadding

	content := make([][]boxLine, len(parties))
	height := 0.0
	for i, p := range parties {
		content[i] = w.partyLines(p, inner)
		if h := float64(len(content[i]))*leading + 2*boxPadding; h > height {
			height = h
		}
	}
	w.ensureSpace(height)

	w.pdf.SetAutoPageBreak(false, 0)
	y := w.pdf.GetY()
	w.pdf.SetDrawColor(colorBorder.r, colorBorder.g, colorBorder.b)
	w.pdf.SetLineWidth(1)
	for i, lines := range content {
		x := w.left + float64(i)*(boxW+boxGap)
		w.pdf.RoundedRect(x, y, boxW, height, boxRadius, "1234", "D")
		for j, l := range lines {
			style := ""
			if l.bold {
				style = "B"
			}
			w.font(style, bodySize, colorText)
			w.pdf.SetXY(x+boxPadding, y+boxPadding+float64(j)*leading)
			w.pdf.CellFormat(inner, leading, l.text, "", 0, "L", false, 0, "")
		}
	}
	w.pdf.SetAutoPageBreak(true, pageMargin)
	w.pdf.SetXY(w.left, y+height+10)
}

func (w *pdfWriter) clause(c document.Clause) {
	w.pdf.Ln(16)
	w.ensureSpace(sectionSize + 6 + leading)
	w.font("B", sectionSize, colorHeading)
	w.pdf.CellFormat(w.width, sectionSize+4, w.text(c.Title), "", 1, "L", false, 0, "")
	w.pdf.Ln(6)

	for _, b := range c.Blocks {
		switch b.Kind {
		case document.BlockParagraph:
			w.font("", bodySize, colorText)
			w.pdf.MultiCell(w.width, leading, w.text(b.Text), "", "L", false)
		case document.BlockTags:
			w.tags(b.Items)
		case document.BlockQuote:
			w.quote(b.Text)
		case document.BlockField:
			if b.Strong {
				w.pdf.Ln(leading)
			}
			w.field(b)
		}
	}
}

// tags lays out items as filled chips, wrapping onto new rows.
func (w *pdfWriter) tags(items []string) {
	w.pdf.Ln(12)
	if len(items) == 0 {
		return
	}
	w.font("", tagSize, colorText)
	w.pdf.SetFillColor(colorChip.r, colorChip.g, colorChip.b)

	w.ensureSpace(chipHeight)
	x, y := w.left, w.pdf.GetY()
	for _, item := range items {
		text := w.text(item)
		chipW := w.pdf.GetStringWidth(text) + 2*chipPadding
		if chipW > w.width {
			chipW = w.width
		}
		if x > w.left && x+chipW > w.left+w.width {
			x = w.left
			y += chipHeight + chipGap
			if y+chipHeight > w.limit {
				w.pdf.AddPage()
				y = w.pdf.GetY()
			}
		}
		w.pdf.RoundedRect(x, y, chipW, chipHeight, chipHeight/2, "1234", "F")
		w.pdf.SetXY(x+chipPadding, y)
		w.pdf.CellFormat(chipW-2*chipPadding, chipHeight, text, "", 0, "LM", false, 0, "")
		x += chipW + chipGap
	}
	w.pdf.SetXY(w.left, y+chipHeight+12)
}

// quote draws text with an accent bar on its left, one bar segment per
// line so the rule follows the text across page breaks.
func (w *pdfWriter) quote(text string) {
	w.pdf.Ln(12)
	w.font("", bodySize, colorText)
	w.pdf.SetFillColor(colorAccent.r, colorAccent.g, colorAccent.b)

	indent := quoteBar + quoteIndent
	lines := w.wrap(strings.TrimRight(text, "\n"), w.width-indent)

	w.pdf.SetAutoPageBreak(false, 0)
	for _, line := range lines {
		if w.pdf.GetY()+leading > w.limit {
			w.pdf.AddPage()
		}
		y := w.pdf.GetY()
		w.pdf.Rect(w.left, y, quoteBar, leading, "F")
		w.pdf.SetXY(w.left+indent, y)
		w.pdf.CellFormat(w.width-indent, leading, line, "", 2, "L", false, 0, "")
	}
	w.pdf.SetAutoPageBreak(true, pageMargin)
	w.pdf.SetX(w.left)
	w.pdf.Ln(12)
}

func (w *pdfWriter) field(b document.Block) {
	style := ""
	if b.Strong {
		style = "B"
	}
	w.pdf.SetX(w.left)
	w.font(style, bodySize, colorText)
	w.pdf.Write(leading, w.text(b.Label))
	w.font("", bodySize, colorText)
	w.pdf.Write(leading, w.text(" "+b.Value))
	w.pdf.Ln(leading)
}

// signatures draws the signature slots in order, the first on the left
// and the last on the right.
func (w *pdfWriter) signatures(sigs []document.Signature) {
	w.pdf.Ln(32)
	w.font("", bodySize, colorText)
	line := w.text(document.SignatureLine)
	slotW := w.pdf.GetStringWidth(line)
	w.ensureSpace(3*leading + 8)

	y := w.pdf.GetY()
	for i, sig := range sigs {
		x := w.left
		if len(sigs) > 1 {
			x += float64(i) * (w.width - slotW) / float64(len(sigs)-1)
		}
		w.pdf.SetXY(x, y)
		w.pdf.CellFormat(slotW, leading, line, "", 0, "C", false, 0, "")
		w.pdf.SetXY(x, y+leading+8)
		w.pdf.CellFormat(slotW, leading, w.text(sig.Name), "", 0, "C", false, 0, "")
		w.pdf.SetXY(x, y+2*leading+8)
		w.pdf.CellFormat(slotW, leading, w.text(sig.TaxLine), "", 0, "C", false, 0, "")
	}
	w.pdf.SetXY(w.left, y+3*leading+8)
}
