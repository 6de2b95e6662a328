// internal/report/report.go
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"stocksync/internal/store"
)

// Filename builds the attachment name for a report generated at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("relatorio_estoque_%s.pdf", t.Format("20060102_150405"))
}

// Generate renders the outbound-movements report as a PDF blob: title,
// generation timestamp, then one table row per saída movement, or a
// placeholder line when nothing moved yet.
func Generate(movements []store.Movement, generatedAt time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr("Relatório de Saída de Itens do Estoque"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Gerado em: %s", generatedAt.Format("02/01/2006 às 15:04:05"))), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	if len(movements) == 0 {
		pdf.CellFormat(0, 6, tr("Nenhuma movimentação registrada até o momento."), "", 1, "L", false, 0, "")
	} else {
		widths := []float64{30, 30, 60, 30, 40}
		headers := []string{"Data", "Hora", "Item", "Quantidade", "Usuário"}

		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(200, 200, 200)
		for i, header := range headers {
			pdf.CellFormat(widths[i], 8, tr(header), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 10)
		pdf.SetFillColor(245, 245, 220)
		for _, m := range movements {
			cells := []string{m.Date, m.Time, m.Item, fmt.Sprintf("%d", m.Quantity), m.Username}
			for i, cell := range cells {
				pdf.CellFormat(widths[i], 8, tr(cell), "1", 0, "C", true, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering report PDF: %w", err)
	}
	return buf.Bytes(), nil
}
