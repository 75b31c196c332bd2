package orders

import (
	"sync"
	"time"

	"github.com/Kathiriniyan/SukanFood-sub001/internal/sales/ledger"
)

// draft is the in-memory working state of one order. All access goes through mu.
type draft struct {
	mu sync.Mutex

	orderID    string
	customer   *CustomerRef
	orderDate  time.Time
	expiryDate *time.Time
	notes      string
	ledger     *ledger.Ledger

	status      Status
	dirty       bool
	submitted   bool
	openedAt    time.Time
	savedAt     *time.Time
	snapshotted time.Time // createdAt of the latest stored snapshot, openedAt before the first save
}

func (d *draft) ensureEditable() error {
	if !d.status.Editable() {
		return stateErr("order %s is %s and can no longer be changed", d.orderID, d.status)
	}
	return nil
}

// touch records an unsaved change. A saved order falls back to DRAFT until saved again.
func (d *draft) touch() {
	d.dirty = true
	if d.status == StatusSaved {
		d.status = StatusDraft
	}
}

func (d *draft) flags(state Status) StatusFlags {
	return StatusFlags{
		State:     state,
		Dirty:     d.dirty && state.Editable(),
		Saved:     d.savedAt != nil || state == StatusSaved,
		Submitted: d.submitted || state == StatusSubmitted || state == StatusPicked,
	}
}

// snapshot captures the draft as it would be stored with the given state.
func (d *draft) snapshot(state Status, at time.Time) Snapshot {
	totals := d.ledger.Totals()
	var customer *CustomerRef
	if d.customer != nil {
		c := *d.customer
		customer = &c
	}
	flags := d.flags(state)
	if state != StatusDraft {
		flags.Dirty = false
	}
	return Snapshot{
		OrderID:    d.orderID,
		Customer:   customer,
		OrderDate:  d.orderDate,
		ExpiryDate: d.expiryDate,
		Notes:      d.notes,
		Items:      d.ledger.Lines(),
		Taxes:      SnapshotTaxes{Rows: d.ledger.TaxRows(), Total: totals.Tax},
		Totals:     totals,
		Status:     flags,
		CreatedAt:  at.UTC(),
	}
}

func (d *draft) view() View {
	snap := d.snapshot(d.status, d.snapshotted)
	return View{
		Snapshot: snap,
		Display:  snap.Totals.Format(),
		OpenedAt: d.openedAt,
		SavedAt:  d.savedAt,
	}
}

// validateForSave checks the preconditions of a save.
func (d *draft) validateForSave() error {
	if d.customer == nil || d.customer.Code == "" {
		return validationErr("select a customer before saving")
	}
	if len(d.ledger.Lines()) == 0 {
		return validationErr("add at least one line before saving")
	}
	return validateDates(d.orderDate, d.expiryDate)
}

func validateDates(orderDate time.Time, expiry *time.Time) error {
	if orderDate.IsZero() {
		return validationErr("order date is required")
	}
	if expiry != nil && dateOnly(*expiry).Before(dateOnly(orderDate)) {
		return validationErr("expiry date must not be before the order date")
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
