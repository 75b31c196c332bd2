package perf

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Kathiriniyan/SukanFood-sub001/internal/catalog"
	"github.com/Kathiriniyan/SukanFood-sub001/internal/sales/ledger"
)

func filledLedger(tb testing.TB, lines int) *ledger.Ledger {
	tb.Helper()
	l := ledger.New(catalog.NewSeededRepository())
	rate := decimal.NewFromInt(18)
	if _, err := l.AddTaxRow(ledger.TaxInput{Kind: ledger.TaxOnNetTotal, Label: "VAT", Rate: &rate}); err != nil {
		tb.Fatalf("add tax: %v", err)
	}
	codes := []string{"VEG-001", "VEG-002", "FRU-001", "GRN-002"}
	for i := 0; i < lines; i++ {
		if _, err := l.AddLine(codes[i%len(codes)], i%7+1, nil); err != nil {
			tb.Fatalf("add line: %v", err)
		}
	}
	return l
}

func TestLedgerEditLatencyTarget(t *testing.T) {
	l := filledLedger(t, 500)
	lines := l.Lines()

	start := time.Now()
	for i, line := range lines {
		qty := i%9 + 1
		if _, err := l.EditLine(line.ID, ledger.LinePatch{Quantity: &qty}); err != nil {
			t.Fatalf("edit line: %v", err)
		}
	}
	perEdit := time.Since(start) / time.Duration(len(lines))
	if perEdit > 5*time.Millisecond {
		t.Fatalf("line edit with tax recompute too slow: %s per edit", perEdit)
	}
}

func BenchmarkAddLine(b *testing.B) {
	for _, size := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("lines=%d", size), func(b *testing.B) {
			l := filledLedger(b, size)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				line, err := l.AddLine("VEG-003", 2, nil)
				if err != nil {
					b.Fatal(err)
				}
				if err := l.RemoveLine(line.ID); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkTotals(b *testing.B) {
	l := filledLedger(b, 1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = l.Totals().Format()
	}
}
