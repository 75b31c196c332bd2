package orders

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// HeaderPatch changes the order header. Nil fields are left as they are.
type HeaderPatch struct {
	CustomerCode *string
	AddressID    *string
	OrderDate    *time.Time
	ExpiryDate   *time.Time
	Notes        *string
}

// HeaderRequest is the JSON body for opening a draft or updating its header.
type HeaderRequest struct {
	CustomerCode *string `json:"customerCode,omitempty" validate:"omitempty,max=40"`
	AddressID    *string `json:"addressId,omitempty" validate:"omitempty,max=40"`
	OrderDate    *string `json:"orderDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ExpiryDate   *string `json:"expiryDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes        *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// Patch converts the request into a HeaderPatch. Dates must already be validated.
func (r HeaderRequest) Patch() (HeaderPatch, error) {
	patch := HeaderPatch{CustomerCode: r.CustomerCode, AddressID: r.AddressID, Notes: r.Notes}
	var err error
	if patch.OrderDate, err = parseDate(r.OrderDate); err != nil {
		return HeaderPatch{}, err
	}
	if patch.ExpiryDate, err = parseDate(r.ExpiryDate); err != nil {
		return HeaderPatch{}, err
	}
	return patch, nil
}

func parseDate(v *string) (*time.Time, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *v)
	if err != nil {
		return nil, validationErr("invalid date %q, expected YYYY-MM-DD", *v)
	}
	return &t, nil
}

// AddLineRequest adds a product line. Amount, when given, puts the line in MANUAL mode.
type AddLineRequest struct {
	ProductCode string           `json:"productCode" validate:"required,max=40"`
	Quantity    int              `json:"quantity"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
}

// EditLineRequest patches a line. Changes apply in product, quantity, amount order.
type EditLineRequest struct {
	ProductCode *string          `json:"productCode,omitempty" validate:"omitempty,max=40"`
	Quantity    *int             `json:"quantity,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
}

// AddTaxRequest adds a tax or charge row.
type AddTaxRequest struct {
	Kind   string           `json:"kind" validate:"required,oneof=ON_NET_TOTAL ACTUAL"`
	Label  string           `json:"label" validate:"max=80"`
	Rate   *decimal.Decimal `json:"rate,omitempty"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

// EditTaxRequest patches a tax row.
type EditTaxRequest struct {
	Kind   *string          `json:"kind,omitempty" validate:"omitempty,oneof=ON_NET_TOTAL ACTUAL"`
	Label  *string          `json:"label,omitempty" validate:"omitempty,max=80"`
	Rate   *decimal.Decimal `json:"rate,omitempty"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

// ExportFormat names a download format.
type ExportFormat string

const (
	ExportJSON ExportFormat = "json"
	ExportXLSX ExportFormat = "xlsx"
)

// ParseExportFormat defaults to JSON when empty.
func ParseExportFormat(v string) (ExportFormat, error) {
	switch ExportFormat(v) {
	case "", ExportJSON:
		return ExportJSON, nil
	case ExportXLSX:
		return ExportXLSX, nil
	}
	return "", validationErr("unsupported export format %q", v)
}

func (f ExportFormat) contentType() string {
	if f == ExportXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/json"
}

func (f ExportFormat) filename(orderID string) string {
	return fmt.Sprintf("%s.%s", orderID, f)
}
