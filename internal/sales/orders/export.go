package orders

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Export is a downloadable rendering of an order snapshot.
type Export struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Export renders the current state of an open draft, saved or not.
func (s *Service) Export(ctx context.Context, orderID string, format ExportFormat) (Export, error) {
	snap, err := s.Snapshot(ctx, orderID)
	if err != nil {
		return Export{}, err
	}
	var body []byte
	switch format {
	case ExportJSON:
		body, err = json.MarshalIndent(snap, "", "  ")
	case ExportXLSX:
		body, err = renderWorkbook(snap)
	default:
		return Export{}, s.notice(validationErr("unsupported export format %q", format))
	}
	if err != nil {
		return Export{}, fmt.Errorf("export order %s: %w", orderID, err)
	}
	s.recorder.DraftEvent("exported")
	return Export{
		Filename:    format.filename(snap.OrderID),
		ContentType: format.contentType(),
		Body:        body,
	}, nil
}

const (
	sheetItems  = "Items"
	sheetTaxes  = "Taxes"
	sheetTotals = "Totals"
)

func renderWorkbook(snap Snapshot) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetItems); err != nil {
		return nil, err
	}
	for _, name := range []string{sheetTaxes, sheetTotals} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}

	items := [][]any{{"Line", "Code", "Product", "Unit", "Quantity", "Rate", "Amount", "Mode"}}
	for _, line := range snap.Items {
		items = append(items, []any{
			line.ID,
			line.Product.Code,
			line.Product.Name,
			line.Product.Unit,
			line.Quantity,
			line.Product.SellRate.InexactFloat64(),
			line.Amount.InexactFloat64(),
			string(line.Mode),
		})
	}
	if err := writeRows(f, sheetItems, items); err != nil {
		return nil, err
	}

	taxes := [][]any{{"Row", "Kind", "Label", "Rate", "Amount"}}
	for _, row := range snap.Taxes.Rows {
		taxes = append(taxes, []any{
			row.ID,
			string(row.Kind),
			row.Label,
			row.Rate.InexactFloat64(),
			row.Amount.InexactFloat64(),
		})
	}
	if err := writeRows(f, sheetTaxes, taxes); err != nil {
		return nil, err
	}

	customer := ""
	if snap.Customer != nil {
		customer = snap.Customer.Name
	}
	totals := [][]any{
		{"Order", snap.OrderID},
		{"Customer", customer},
		{"Order date", snap.OrderDate.Format(dateLayout)},
		{"Status", string(snap.Status.State)},
		{"Net total", snap.Totals.Net.Round(2).InexactFloat64()},
		{"Tax total", snap.Totals.Tax.Round(2).InexactFloat64()},
		{"Grand total", snap.Totals.Grand.Round(2).InexactFloat64()},
		{"Margin", snap.Totals.Margin.Round(2).InexactFloat64()},
	}
	if err := writeRows(f, sheetTotals, totals); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
