package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Kathiriniyan/SukanFood-sub001/internal/sales/ledger"
)

// Status is the lifecycle state of an order draft.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusSaved     Status = "SAVED"
	StatusSubmitted Status = "SUBMITTED"
	StatusPicked    Status = "PICKED"
	StatusCancelled Status = "CANCELLED"
)

// Editable reports whether lines and taxes may still change.
func (s Status) Editable() bool {
	return s == StatusDraft || s == StatusSaved
}

// CustomerRef is the customer context captured on the order.
type CustomerRef struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	AddressID string `json:"addressId,omitempty"`
	Address   string `json:"address,omitempty"`
}

// StatusFlags summarises where the draft is in its lifecycle.
type StatusFlags struct {
	State     Status `json:"state"`
	Dirty     bool   `json:"dirty"`
	Saved     bool   `json:"saved"`
	Submitted bool   `json:"submitted"`
}

// SnapshotTaxes groups tax rows with their sum.
type SnapshotTaxes struct {
	Rows  []ledger.TaxRow `json:"rows"`
	Total decimal.Decimal `json:"total"`
}

// Snapshot is the serialised form of an order written on save and offered for download.
type Snapshot struct {
	OrderID    string            `json:"orderId"`
	Customer   *CustomerRef      `json:"customer,omitempty"`
	OrderDate  time.Time         `json:"orderDate"`
	ExpiryDate *time.Time        `json:"expiryDate,omitempty"`
	Notes      string            `json:"notes,omitempty"`
	Items      []ledger.LineItem `json:"items"`
	Taxes      SnapshotTaxes     `json:"taxes"`
	Totals     ledger.Totals     `json:"totals"`
	Status     StatusFlags       `json:"status"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// View is the draft as returned to clients: the snapshot shape plus display strings.
type View struct {
	Snapshot
	Display  ledger.FormattedTotals `json:"display"`
	OpenedAt time.Time              `json:"openedAt"`
	SavedAt  *time.Time             `json:"savedAt,omitempty"`
}
