package codec

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"

	"ottica-backend/internal/timeutil"
)

// EncodeTablePDF renders a header+rows table to a landscape A4 PDF with
// alternating row shading. Used for the archive snapshot and the filtered
// sales export.
func EncodeTablePDF(title string, headers []string, rows [][]string) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "") // Landscape for more columns
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(277, 10, title, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(277, 6, fmt.Sprintf("Generato: %s", timeutil.Now().Format("02/01/2006 15:04")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	colWidth := 277.0 / float64(len(headers))

	// Table header
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(200, 200, 200)
	for _, h := range headers {
		pdf.CellFormat(colWidth, 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	// Table rows
	pdf.SetFont("Arial", "", 9)
	for i, row := range rows {
		// Alternate row colors
		if i%2 == 0 {
			pdf.SetFillColor(255, 255, 255)
		} else {
			pdf.SetFillColor(245, 245, 245)
		}

		for col := 0; col < len(headers); col++ {
			v := ""
			if col < len(row) {
				v = row[col]
			}
			if len(v) > 30 {
				v = v[:27] + "..."
			}
			pdf.CellFormat(colWidth, 6, v, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
