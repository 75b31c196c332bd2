package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Kathiriniyan/SukanFood-sub001/internal/shared"
)

func exportFixture(t *testing.T) (*fixture, string) {
	t.Helper()
	ctx := context.Background()
	f := newFixture(t, nil)
	id := f.openWithCustomer(t).OrderID
	_, err := f.svc.AddLine(ctx, id, AddLineRequest{ProductCode: "VEG-001", Quantity: 2})
	require.NoError(t, err)
	_, err = f.svc.AddLine(ctx, id, AddLineRequest{ProductCode: "GRN-001", Quantity: 1, Amount: dp("400")})
	require.NoError(t, err)
	_, err = f.svc.AddTaxRow(ctx, id, AddTaxRequest{Kind: "ON_NET_TOTAL", Label: "VAT", Rate: dp("18")})
	require.NoError(t, err)
	return f, id
}

func TestExportJSONIncludesUnsavedState(t *testing.T) {
	f, id := exportFixture(t)

	out, err := f.svc.Export(context.Background(), id, ExportJSON)
	require.NoError(t, err)
	assert.Equal(t, id+".json", out.Filename)
	assert.Equal(t, "application/json", out.ContentType)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(out.Body, &snap))
	assert.Equal(t, id, snap.OrderID)
	assert.Equal(t, StatusDraft, snap.Status.State)
	assert.True(t, snap.Status.Dirty)
	require.Len(t, snap.Items, 2)
	assert.True(t, d("1040").Equal(snap.Totals.Net))
	assert.True(t, d("187.2").Equal(snap.Taxes.Total))
	assert.True(t, d("1227.2").Equal(snap.Totals.Grand))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(out.Body, &raw))
	for _, key := range []string{"orderId", "customer", "orderDate", "items", "taxes", "totals", "status", "createdAt"} {
		assert.Contains(t, raw, key)
	}
}

func TestExportXLSX(t *testing.T) {
	f, id := exportFixture(t)

	out, err := f.svc.Export(context.Background(), id, ExportXLSX)
	require.NoError(t, err)
	assert.Equal(t, id+".xlsx", out.Filename)

	book, err := excelize.OpenReader(bytes.NewReader(out.Body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = book.Close() })

	assert.Equal(t, []string{sheetItems, sheetTaxes, sheetTotals}, book.GetSheetList())

	items, err := book.GetRows(sheetItems)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Code", items[0][1])
	assert.Equal(t, "VEG-001", items[1][1])
	assert.Equal(t, "MANUAL", items[2][7])

	taxes, err := book.GetRows(sheetTaxes)
	require.NoError(t, err)
	require.Len(t, taxes, 2)
	assert.Equal(t, "ON_NET_TOTAL", taxes[1][1])

	grand, err := book.GetCellValue(sheetTotals, "B7")
	require.NoError(t, err)
	assert.Equal(t, "1227.2", grand)
	assert.Equal(t, 1, f.recorder.events["exported"])
}

func TestExportUnknownDraftOrFormat(t *testing.T) {
	f, id := exportFixture(t)
	ctx := context.Background()

	_, err := f.svc.Export(ctx, "SO-missing", ExportJSON)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = f.svc.Export(ctx, id, ExportFormat("pdf"))
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = ParseExportFormat("csv")
	assert.ErrorIs(t, err, shared.ErrValidation)
	format, err := ParseExportFormat("")
	require.NoError(t, err)
	assert.Equal(t, ExportJSON, format)
}
