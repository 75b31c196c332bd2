package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/Kathiriniyan/SukanFood-sub001/internal/catalog"
)

// AmountMode records how a line amount was produced.
type AmountMode string

const (
	// ModeAuto keeps the amount at sell rate × quantity.
	ModeAuto AmountMode = "AUTO"
	// ModeManual keeps a typed amount until a different product is chosen.
	ModeManual AmountMode = "MANUAL"
)

// TaxKind selects how a tax row amount is obtained.
type TaxKind string

const (
	// TaxOnNetTotal is a percentage of the net total, recomputed on every line change.
	TaxOnNetTotal TaxKind = "ON_NET_TOTAL"
	// TaxActual is a fixed amount entered by the user.
	TaxActual TaxKind = "ACTUAL"
)

// Valid reports whether k is a known tax kind.
func (k TaxKind) Valid() bool {
	return k == TaxOnNetTotal || k == TaxActual
}

// LineItem is one product row of an order.
type LineItem struct {
	ID       string          `json:"id"`
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
	Amount   decimal.Decimal `json:"amount"`
	Mode     AmountMode      `json:"mode"`
}

// Cost is buy rate × quantity.
func (l LineItem) Cost() decimal.Decimal {
	return l.Product.BuyRate.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Margin is amount minus cost.
func (l LineItem) Margin() decimal.Decimal {
	return l.Amount.Sub(l.Cost())
}

// TaxRow is a tax or charge applied to the order.
type TaxRow struct {
	ID     string          `json:"id"`
	Kind   TaxKind         `json:"kind"`
	Label  string          `json:"label"`
	Rate   decimal.Decimal `json:"rate"`
	Amount decimal.Decimal `json:"amount"`
}

// Totals are the derived order amounts. Values are unrounded.
type Totals struct {
	Net    decimal.Decimal `json:"net"`
	Tax    decimal.Decimal `json:"tax"`
	Grand  decimal.Decimal `json:"grand"`
	Margin decimal.Decimal `json:"margin"`
}

// LinePatch carries the fields changed by a line edit. Nil fields are untouched.
type LinePatch struct {
	ProductCode *string
	Quantity    *int
	Amount      *decimal.Decimal
}

// TaxInput describes a new tax row. Rate applies to ON_NET_TOTAL rows, Amount to ACTUAL rows.
type TaxInput struct {
	Kind   TaxKind
	Label  string
	Rate   *decimal.Decimal
	Amount *decimal.Decimal
}

// TaxPatch carries the fields changed by a tax row edit. Nil fields are untouched.
type TaxPatch struct {
	Kind   *TaxKind
	Label  *string
	Rate   *decimal.Decimal
	Amount *decimal.Decimal
}
