package minutes

import (
	"bytes"
	"fmt"
	"time"

	"github.com/dkeye/sfu-control-plane/internal/core"
	"github.com/jung-kurt/gofpdf"
)

// pdfRenderer implements core.PDFRenderer with gofpdf: a title page
// summary followed by the full timestamped transcript.
type pdfRenderer struct{}

func NewPDFRenderer() core.PDFRenderer {
	return pdfRenderer{}
}

func (pdfRenderer) Render(title, summary string, chunks []core.TranscriptChunk) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 6, "Generated "+time.Now().UTC().Format(time.RFC3339), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 5, summary, "", "L", false)
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Transcript", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	for _, c := range chunks {
		line := fmt.Sprintf("[%s] %s: %s", formatRange(c.StartMs, c.EndMs), speakerOrUnknown(c.Speaker), c.Text)
		pdf.MultiCell(0, 5, line, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func formatRange(startMs, endMs int64) string {
	return fmt.Sprintf("%s-%s", formatMs(startMs), formatMs(endMs))
}

func formatMs(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

func speakerOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
