package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

// LineState tells whether a line is shown as committed or being edited.
type LineState string

const (
	LineViewing LineState = "VIEWING"
	LineEditing LineState = "EDITING"
)

// LineEdit is an open edit session over a private copy of one line.
// Staged changes are invisible to the ledger until Commit.
type LineEdit struct {
	ledger *Ledger
	draft  LineItem
	closed bool
}

// BeginEdit switches a line from viewing to editing. Only one session may be open per line.
func (l *Ledger) BeginEdit(id string) (*LineEdit, error) {
	idx := l.lineIndex(id)
	if idx < 0 {
		return nil, notFoundErr("line %s", id)
	}
	if _, open := l.edits[id]; open {
		return nil, stateErr("line %s is already being edited", id)
	}
	edit := &LineEdit{ledger: l, draft: l.lines[idx]}
	l.edits[id] = edit
	return edit, nil
}

// LineState reports whether a line is being edited.
func (l *Ledger) LineState(id string) (LineState, error) {
	if l.lineIndex(id) < 0 {
		return "", notFoundErr("line %s", id)
	}
	if _, open := l.edits[id]; open {
		return LineEditing, nil
	}
	return LineViewing, nil
}

// Draft returns the staged copy.
func (e *LineEdit) Draft() LineItem {
	return e.draft
}

// SetProduct stages a product change. Choosing a different product resets the line to AUTO.
func (e *LineEdit) SetProduct(code string) error {
	if err := e.usable(); err != nil {
		return err
	}
	product, err := e.ledger.resolveProduct(code)
	if err != nil {
		return err
	}
	if strings.EqualFold(product.Code, e.draft.Product.Code) {
		return nil
	}
	e.draft.Product = product
	e.draft.Mode = ModeAuto
	e.draft.Amount = autoAmount(product, e.draft.Quantity)
	return nil
}

// SetQuantity stages a quantity change. AUTO lines follow it; MANUAL lines keep their amount.
func (e *LineEdit) SetQuantity(quantity int) error {
	if err := e.usable(); err != nil {
		return err
	}
	e.draft.Quantity = coerceQuantity(quantity)
	if e.draft.Mode == ModeAuto {
		e.draft.Amount = autoAmount(e.draft.Product, e.draft.Quantity)
	}
	return nil
}

// SetAmount stages a typed amount and switches the line to MANUAL.
func (e *LineEdit) SetAmount(amount decimal.Decimal) error {
	if err := e.usable(); err != nil {
		return err
	}
	e.draft.Amount = amount
	e.draft.Mode = ModeManual
	return nil
}

// Apply stages a patch in product, quantity, amount order.
func (e *LineEdit) Apply(patch LinePatch) error {
	if patch.ProductCode != nil {
		if err := e.SetProduct(*patch.ProductCode); err != nil {
			return err
		}
	}
	if patch.Quantity != nil {
		if err := e.SetQuantity(*patch.Quantity); err != nil {
			return err
		}
	}
	if patch.Amount != nil {
		if err := e.SetAmount(*patch.Amount); err != nil {
			return err
		}
	}
	return e.usable()
}

// Commit validates the staged copy and replaces the committed line with it.
// A rejected commit leaves both the ledger and the session open for correction.
func (e *LineEdit) Commit() (LineItem, error) {
	if err := e.usable(); err != nil {
		return LineItem{}, err
	}
	if !e.draft.Amount.IsPositive() {
		return LineItem{}, validationErr("line amount must be greater than zero")
	}
	idx := e.ledger.lineIndex(e.draft.ID)
	if idx < 0 {
		e.close()
		return LineItem{}, notFoundErr("line %s", e.draft.ID)
	}
	e.ledger.lines[idx] = e.draft
	e.ledger.recomputeTaxes()
	e.close()
	return e.draft, nil
}

// Cancel discards the staged copy. Cancelling a closed session is a no-op.
func (e *LineEdit) Cancel() {
	if !e.closed {
		e.close()
	}
}

func (e *LineEdit) close() {
	e.closed = true
	if current, ok := e.ledger.edits[e.draft.ID]; ok && current == e {
		delete(e.ledger.edits, e.draft.ID)
	}
}

func (e *LineEdit) usable() error {
	if e == nil || e.closed {
		return stateErr("edit session is closed")
	}
	return nil
}
