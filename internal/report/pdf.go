package report

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/hyperifyio/godork/internal/dorker"
)

// RenderPDF lays the results out as a simple A4 document: one section per
// result with a clickable URL, the matched line and the snippet. Text is
// converted to the core fonts' cp1252 encoding.
func RenderPDF(w io.Writer, meta Meta, results []dorker.Result) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("godork: "+meta.Query, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.MultiCell(0, 8, tr(meta.Query), "", "L", false)
	pdf.Ln(2)

	for i, r := range results {
		pdf.SetFont("Helvetica", "B", 11)
		title := r.Title
		if title == "" {
			title = r.URL
		}
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("%d. %s", i+1, title)), "", "L", false)

		pdf.SetFont("Helvetica", "U", 9)
		pdf.SetTextColor(0, 0, 180)
		pdf.WriteLinkString(5, tr(r.URL), r.URL)
		pdf.Ln(6)
		pdf.SetTextColor(0, 0, 0)

		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, tr("Matched line: "+r.MatchedLine), "", "L", false)
		if r.Snippet != "" {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.MultiCell(0, 5, tr("Snippet: "+r.Snippet), "", "L", false)
		}
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "", 8)
	pdf.MultiCell(0, 4, tr(footer(meta, len(results))), "T", "L", false)

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

// WritePDF renders the results into a PDF file at path.
func WritePDF(path string, meta Meta, results []dorker.Result) error {
	return writeFile(path, func(w io.Writer) error { return RenderPDF(w, meta, results) })
}
