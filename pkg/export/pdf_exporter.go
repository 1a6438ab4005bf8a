package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const pageWidth = 190.0

// PDFExporter renders datasets into a tabular PDF.
type PDFExporter struct {
	// Widths optionally weights column widths; equal widths are used when the
	// length does not match the headers.
	Widths []float64
}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter(widths ...float64) *PDFExporter {
	return &PDFExporter{Widths: widths}
}

// Render creates a PDF document with an optional title and a table body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	widths := e.columnWidths(len(data.Headers))

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	pdf.SetFont("Arial", "B", 10)
	for i, header := range data.Headers {
		pdf.CellFormat(widths[i], 8, tr(header), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		for i := range data.Headers {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			pdf.CellFormat(widths[i], 7, tr(value), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) columnWidths(n int) []float64 {
	out := make([]float64, n)
	if len(e.Widths) == n {
		var total float64
		for _, w := range e.Widths {
			total += w
		}
		if total > 0 {
			for i, w := range e.Widths {
				out[i] = pageWidth * w / total
			}
			return out
		}
	}
	for i := range out {
		out[i] = pageWidth / float64(n)
	}
	return out
}
