package catalog

import "github.com/shopspring/decimal"

func rate(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// SeedProducts returns the reference produce catalog used when no database is configured.
func SeedProducts() []Product {
	return []Product{
		{Code: "VEG-001", Name: "Carrot", Unit: "kg", Category: "Vegetables", SellRate: rate("320.00"), BuyRate: rate("250.00"), IsActive: true},
		{Code: "VEG-002", Name: "Leeks", Unit: "kg", Category: "Vegetables", SellRate: rate("280.00"), BuyRate: rate("210.00"), IsActive: true},
		{Code: "VEG-003", Name: "Green Beans", Unit: "kg", Category: "Vegetables", SellRate: rate("450.00"), BuyRate: rate("360.00"), IsActive: true},
		{Code: "VEG-004", Name: "Cabbage", Unit: "kg", Category: "Vegetables", SellRate: rate("180.00"), BuyRate: rate("120.00"), IsActive: true},
		{Code: "VEG-005", Name: "Tomato", Unit: "kg", Category: "Vegetables", SellRate: rate("390.00"), BuyRate: rate("300.00"), IsActive: true},
		{Code: "FRU-001", Name: "Banana (Ambul)", Unit: "bunch", Category: "Fruits", SellRate: rate("650.00"), BuyRate: rate("520.00"), IsActive: true},
		{Code: "FRU-002", Name: "Papaya", Unit: "kg", Category: "Fruits", SellRate: rate("240.00"), BuyRate: rate("170.00"), IsActive: true},
		{Code: "FRU-003", Name: "Pineapple", Unit: "each", Category: "Fruits", SellRate: rate("350.00"), BuyRate: rate("260.00"), IsActive: true},
		{Code: "FRU-004", Name: "Mango (TJC)", Unit: "kg", Category: "Fruits", SellRate: rate("780.00"), BuyRate: rate("640.00"), IsActive: false},
		{Code: "GRN-001", Name: "Red Onion", Unit: "kg", Category: "Dry Goods", SellRate: rate("410.00"), BuyRate: rate("345.50"), IsActive: true},
		{Code: "GRN-002", Name: "Potato", Unit: "kg", Category: "Dry Goods", SellRate: rate("290.00"), BuyRate: rate("235.75"), IsActive: true},
		{Code: "PKG-001", Name: "Mesh Crate", Unit: "each", Category: "Packaging", SellRate: rate("5.00"), BuyRate: rate("24.00"), IsActive: true},
	}
}

// SeedCustomers returns the reference customer directory used when no database is configured.
func SeedCustomers() []Customer {
	return []Customer{
		{
			Code: "CUS-001", Name: "Keells Super Colombo", Phone: "+94112345678", Email: "buying@keells.example", IsActive: true,
			Addresses: []Address{
				{ID: "ADR-001", Label: "Head Office", Line1: "117 Sir Chittampalam A Gardiner Mawatha", City: "Colombo", Country: "LK"},
				{ID: "ADR-002", Label: "Distribution Centre", Line1: "Kerawalapitiya Industrial Zone", City: "Wattala", Country: "LK"},
			},
		},
		{
			Code: "CUS-002", Name: "Cargills Food City", Phone: "+94112427777", Email: "fresh@cargills.example", IsActive: true,
			Addresses: []Address{
				{ID: "ADR-003", Label: "Warehouse", Line1: "40 York Street", City: "Colombo", Country: "LK"},
			},
		},
		{
			Code: "CUS-003", Name: "Hill Country Hotels", Phone: "+94522222881", IsActive: true,
			Addresses: []Address{
				{ID: "ADR-004", Label: "Kitchen", Line1: "Grand Hotel Road", City: "Nuwara Eliya", Country: "LK"},
			},
		},
		{
			Code: "CUS-004", Name: "Lanka Exports Pvt Ltd", Email: "ops@lankaexports.example", IsActive: false,
			Addresses: []Address{
				{ID: "ADR-005", Label: "Port Office", Line1: "Port Access Road", City: "Colombo", Country: "LK"},
			},
		},
	}
}

// NewSeededRepository builds a MemoryRepository over the seed data.
func NewSeededRepository() *MemoryRepository {
	repo, err := NewMemoryRepository(SeedProducts(), SeedCustomers())
	if err != nil {
		panic("catalog: invalid seed data: " + err.Error())
	}
	return repo
}
