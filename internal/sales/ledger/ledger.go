// Package ledger keeps the line items and tax rows of one order draft consistent.
//
// Every mutation either commits completely or leaves the ledger untouched. After a
// line mutation commits, all percentage-of-net-total tax rows are recomputed from
// the new net total before the call returns.
//
// A Ledger has a single owner and is not safe for concurrent use.
package ledger

import (
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Kathiriniyan/SukanFood-sub001/internal/catalog"
)

var hundred = decimal.NewFromInt(100)

// Catalog resolves product codes to reference products.
type Catalog interface {
	LookupProduct(code string) (catalog.Product, bool)
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithIDGenerator replaces the UUID generator used for new lines and tax rows.
func WithIDGenerator(fn func() string) Option {
	return func(l *Ledger) {
		if fn != nil {
			l.newID = fn
		}
	}
}

// Ledger holds the editable lines and tax rows of an order draft.
type Ledger struct {
	catalog Catalog
	lines   []LineItem
	taxes   []TaxRow
	edits   map[string]*LineEdit
	newID   func() string
}

// New returns an empty ledger.
func New(cat Catalog, opts ...Option) *Ledger {
	l := &Ledger{
		catalog: cat,
		edits:   make(map[string]*LineEdit),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Restore rebuilds a ledger from previously committed rows, e.g. a saved snapshot.
// Line modes are taken as stored; percentage taxes are recomputed.
func Restore(cat Catalog, lines []LineItem, taxes []TaxRow, opts ...Option) (*Ledger, error) {
	l := New(cat, opts...)
	seen := make(map[string]struct{}, len(lines)+len(taxes))
	for _, line := range lines {
		if line.ID == "" {
			return nil, validationErr("line without id")
		}
		if _, dup := seen[line.ID]; dup {
			return nil, validationErr("duplicate id %s", line.ID)
		}
		seen[line.ID] = struct{}{}
		if line.Quantity < 1 {
			return nil, validationErr("line %s quantity must be at least 1", line.ID)
		}
		if line.Mode != ModeAuto && line.Mode != ModeManual {
			return nil, validationErr("line %s has unknown mode %q", line.ID, line.Mode)
		}
		if !line.Amount.IsPositive() {
			return nil, validationErr("line %s amount must be greater than zero", line.ID)
		}
	}
	for _, tax := range taxes {
		if tax.ID == "" {
			return nil, validationErr("tax row without id")
		}
		if _, dup := seen[tax.ID]; dup {
			return nil, validationErr("duplicate id %s", tax.ID)
		}
		seen[tax.ID] = struct{}{}
		if !tax.Kind.Valid() {
			return nil, validationErr("tax row %s has unknown kind %q", tax.ID, tax.Kind)
		}
		if err := checkRate(tax.Rate); err != nil {
			return nil, err
		}
	}
	l.lines = slices.Clone(lines)
	l.taxes = slices.Clone(taxes)
	l.recomputeTaxes()
	return l, nil
}

// Lines returns a copy of the committed lines in order.
func (l *Ledger) Lines() []LineItem {
	return slices.Clone(l.lines)
}

// Line returns one committed line.
func (l *Ledger) Line(id string) (LineItem, bool) {
	idx := l.lineIndex(id)
	if idx < 0 {
		return LineItem{}, false
	}
	return l.lines[idx], true
}

// TaxRows returns a copy of the tax rows in order.
func (l *Ledger) TaxRows() []TaxRow {
	return slices.Clone(l.taxes)
}

// Totals sums the committed rows without intermediate rounding.
func (l *Ledger) Totals() Totals {
	t := Totals{Net: l.netTotal(), Tax: decimal.Zero, Margin: decimal.Zero}
	for _, line := range l.lines {
		t.Margin = t.Margin.Add(line.Margin())
	}
	for _, tax := range l.taxes {
		t.Tax = t.Tax.Add(tax.Amount)
	}
	t.Grand = t.Net.Add(t.Tax)
	return t
}

// AddLine appends a line for the given product. A quantity below 1 is raised to 1.
// Without an override the line is in AUTO mode with amount = sell rate × quantity.
func (l *Ledger) AddLine(productCode string, quantity int, override *decimal.Decimal) (LineItem, error) {
	product, err := l.resolveProduct(productCode)
	if err != nil {
		return LineItem{}, err
	}
	line := LineItem{
		ID:       l.newID(),
		Product:  product,
		Quantity: coerceQuantity(quantity),
		Mode:     ModeAuto,
	}
	if override != nil {
		line.Mode = ModeManual
		line.Amount = *override
	} else {
		line.Amount = autoAmount(line.Product, line.Quantity)
	}
	if !line.Amount.IsPositive() {
		return LineItem{}, validationErr("line amount must be greater than zero")
	}

	l.lines = append(l.lines, line)
	l.recomputeTaxes()
	return line, nil
}

// EditLine applies a patch to a committed line through a one-shot edit session.
// Changes are applied in product, quantity, amount order.
func (l *Ledger) EditLine(id string, patch LinePatch) (LineItem, error) {
	edit, err := l.BeginEdit(id)
	if err != nil {
		return LineItem{}, err
	}
	if err := edit.Apply(patch); err != nil {
		edit.Cancel()
		return LineItem{}, err
	}
	line, err := edit.Commit()
	if err != nil {
		edit.Cancel()
		return LineItem{}, err
	}
	return line, nil
}

// RemoveLine deletes a line and closes any edit session open on it.
func (l *Ledger) RemoveLine(id string) error {
	idx := l.lineIndex(id)
	if idx < 0 {
		return notFoundErr("line %s", id)
	}
	if edit, ok := l.edits[id]; ok {
		edit.closed = true
		delete(l.edits, id)
	}
	l.lines = slices.Delete(l.lines, idx, idx+1)
	l.recomputeTaxes()
	return nil
}

// AddTaxRow appends a tax row. ON_NET_TOTAL rows need a rate and get their amount
// from the current net total; ACTUAL rows start at the given amount or zero.
func (l *Ledger) AddTaxRow(in TaxInput) (TaxRow, error) {
	if !in.Kind.Valid() {
		return TaxRow{}, validationErr("unknown tax kind %q", in.Kind)
	}
	row := TaxRow{
		ID:     l.newID(),
		Kind:   in.Kind,
		Label:  in.Label,
		Rate:   decimal.Zero,
		Amount: decimal.Zero,
	}
	switch in.Kind {
	case TaxOnNetTotal:
		if in.Rate == nil {
			return TaxRow{}, validationErr("tax rate is required")
		}
		if in.Amount != nil {
			return TaxRow{}, validationErr("amount of a percentage tax is computed from the net total")
		}
		if err := checkRate(*in.Rate); err != nil {
			return TaxRow{}, err
		}
		row.Rate = *in.Rate
		row.Amount = percentOf(l.netTotal(), row.Rate)
	case TaxActual:
		if in.Rate != nil {
			if err := checkRate(*in.Rate); err != nil {
				return TaxRow{}, err
			}
			row.Rate = *in.Rate
		}
		if in.Amount != nil {
			row.Amount = *in.Amount
		}
	}
	l.taxes = append(l.taxes, row)
	return row, nil
}

// EditTaxRow patches a tax row. Switching kind or changing the rate of an
// ON_NET_TOTAL row recomputes the amount; an amount is only accepted for ACTUAL rows.
func (l *Ledger) EditTaxRow(id string, patch TaxPatch) (TaxRow, error) {
	idx := l.taxIndex(id)
	if idx < 0 {
		return TaxRow{}, notFoundErr("tax row %s", id)
	}
	row := l.taxes[idx]

	kindChanged := false
	if patch.Kind != nil && *patch.Kind != row.Kind {
		if !patch.Kind.Valid() {
			return TaxRow{}, validationErr("unknown tax kind %q", *patch.Kind)
		}
		row.Kind = *patch.Kind
		kindChanged = true
	}
	if patch.Label != nil {
		row.Label = *patch.Label
	}
	if patch.Rate != nil {
		row.Rate = *patch.Rate
	}
	if err := checkRate(row.Rate); err != nil {
		return TaxRow{}, err
	}

	switch row.Kind {
	case TaxOnNetTotal:
		if kindChanged && patch.Rate == nil && row.Rate.IsZero() {
			return TaxRow{}, validationErr("tax rate is required")
		}
		if patch.Amount != nil {
			return TaxRow{}, validationErr("amount of a percentage tax is computed from the net total")
		}
		row.Amount = percentOf(l.netTotal(), row.Rate)
	case TaxActual:
		if patch.Amount != nil {
			row.Amount = *patch.Amount
		} else if kindChanged {
			row.Amount = percentOf(l.netTotal(), row.Rate)
		}
	}

	l.taxes[idx] = row
	return row, nil
}

// RemoveTaxRow deletes a tax row.
func (l *Ledger) RemoveTaxRow(id string) error {
	idx := l.taxIndex(id)
	if idx < 0 {
		return notFoundErr("tax row %s", id)
	}
	l.taxes = slices.Delete(l.taxes, idx, idx+1)
	return nil
}

func (l *Ledger) resolveProduct(code string) (catalog.Product, error) {
	if code == "" {
		return catalog.Product{}, validationErr("select a product")
	}
	if l.catalog == nil {
		return catalog.Product{}, validationErr("product catalog unavailable")
	}
	product, ok := l.catalog.LookupProduct(code)
	if !ok {
		return catalog.Product{}, validationErr("unknown product %s", code)
	}
	if !product.IsActive {
		return catalog.Product{}, validationErr("product %s is discontinued", product.Code)
	}
	return product, nil
}

// recomputeTaxes must run after every committed line mutation.
func (l *Ledger) recomputeTaxes() {
	net := l.netTotal()
	for i := range l.taxes {
		if l.taxes[i].Kind == TaxOnNetTotal {
			l.taxes[i].Amount = percentOf(net, l.taxes[i].Rate)
		}
	}
}

func (l *Ledger) netTotal() decimal.Decimal {
	net := decimal.Zero
	for _, line := range l.lines {
		net = net.Add(line.Amount)
	}
	return net
}

func (l *Ledger) lineIndex(id string) int {
	return slices.IndexFunc(l.lines, func(line LineItem) bool { return line.ID == id })
}

func (l *Ledger) taxIndex(id string) int {
	return slices.IndexFunc(l.taxes, func(row TaxRow) bool { return row.ID == id })
}

// checkRate applies to every stored rate, whatever the row kind, since an
// ACTUAL row may later become ON_NET_TOTAL.
func checkRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return validationErr("tax rate must not be negative")
	}
	return nil
}

func coerceQuantity(q int) int {
	if q < 1 {
		return 1
	}
	return q
}

func autoAmount(p catalog.Product, quantity int) decimal.Decimal {
	return p.SellRate.Mul(decimal.NewFromInt(int64(quantity)))
}

func percentOf(base, rate decimal.Decimal) decimal.Decimal {
	return base.Mul(rate).Div(hundred)
}
