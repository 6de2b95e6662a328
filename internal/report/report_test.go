// internal/report/report_test.go
package report

import (
	"bytes"
	"testing"
	"time"

	"stocksync/internal/store"
)

func TestFilenameFormat(t *testing.T) {
	ts := time.Date(2026, 8, 30, 14, 5, 9, 0, time.UTC)
	if got := Filename(ts); got != "relatorio_estoque_20260830_140509.pdf" {
		t.Errorf("unexpected filename: %s", got)
	}
}

func TestGenerateEmptyReport(t *testing.T) {
	blob, err := Generate(nil, time.Now())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !bytes.HasPrefix(blob, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
}

func TestGenerateWithMovements(t *testing.T) {
	movements := []store.Movement{
		{Item: "Cerveja Lata", Quantity: 10, Username: "bar1", Date: "2026-08-30", Time: "13:01:05", Type: store.MovementOut},
		{Item: "Gelo", Quantity: 2, Username: "bar2", Date: "2026-08-30", Time: "13:40:00", Type: store.MovementOut},
	}

	blob, err := Generate(movements, time.Now())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !bytes.HasPrefix(blob, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}

	empty, err := Generate(nil, time.Now())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(blob) <= len(empty) {
		t.Error("table rows did not grow the document")
	}
}
