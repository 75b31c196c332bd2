package catalog

import "github.com/shopspring/decimal"

// Product is a sellable item in the produce catalog.
type Product struct {
	Code     string          `json:"code" db:"code"`
	Name     string          `json:"name" db:"name"`
	Unit     string          `json:"unit" db:"unit"`
	Category string          `json:"category" db:"category"`
	SellRate decimal.Decimal `json:"sell_rate" db:"sell_rate"`
	BuyRate  decimal.Decimal `json:"buy_rate" db:"buy_rate"`
	IsActive bool            `json:"is_active" db:"is_active"`
}

// Customer is a trading counterparty with one or more delivery addresses.
type Customer struct {
	Code      string    `json:"code" db:"code"`
	Name      string    `json:"name" db:"name"`
	Phone     string    `json:"phone,omitempty" db:"phone"`
	Email     string    `json:"email,omitempty" db:"email"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	Addresses []Address `json:"addresses,omitempty" db:"-"`
}

// Address is a delivery location of a customer.
type Address struct {
	ID      string `json:"id" db:"id"`
	Label   string `json:"label" db:"label"`
	Line1   string `json:"line1" db:"line1"`
	City    string `json:"city" db:"city"`
	Country string `json:"country" db:"country"`
}

// Address looks up one of the customer's addresses by ID.
func (c Customer) Address(id string) (Address, bool) {
	for _, a := range c.Addresses {
		if a.ID == id {
			return a, true
		}
	}
	return Address{}, false
}
