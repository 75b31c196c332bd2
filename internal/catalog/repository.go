package catalog

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/ttacon/libphonenumber"
	"go.uber.org/multierr"

	"github.com/Kathiriniyan/SukanFood-sub001/internal/shared"
)

// DefaultPhoneRegion is assumed for phone numbers entered without a country code.
const DefaultPhoneRegion = "LK"

// Repository exposes read-only reference data.
type Repository interface {
	Product(ctx context.Context, code string) (Product, error)
	ListProducts(ctx context.Context, params ListParams) (Page[Product], error)
	Customer(ctx context.Context, code string) (Customer, error)
	ListCustomers(ctx context.Context, params ListParams) (Page[Customer], error)
}

// MemoryRepository holds the catalog in memory. It is never mutated after
// construction, so concurrent reads need no locking.
type MemoryRepository struct {
	products      []Product
	productIndex  map[string]int
	customers     []Customer
	customerIndex map[string]int
}

// NewMemoryRepository builds a repository over copies of the given records.
// Codes are matched case-insensitively; duplicate codes are rejected.
// Customer phone numbers are normalised to E.164. Every invalid record is
// reported, not only the first.
func NewMemoryRepository(products []Product, customers []Customer) (*MemoryRepository, error) {
	repo := &MemoryRepository{
		products:      slices.Clone(products),
		productIndex:  make(map[string]int, len(products)),
		customers:     slices.Clone(customers),
		customerIndex: make(map[string]int, len(customers)),
	}
	var errs error
	for i, p := range repo.products {
		key := normalizeCode(p.Code)
		if key == "" {
			errs = multierr.Append(errs, fmt.Errorf("%w: product %d has no code", shared.ErrValidation, i))
			continue
		}
		if _, dup := repo.productIndex[key]; dup {
			errs = multierr.Append(errs, fmt.Errorf("%w: duplicate product code %s", shared.ErrValidation, p.Code))
			continue
		}
		repo.productIndex[key] = i
	}
	for i, c := range repo.customers {
		key := normalizeCode(c.Code)
		if key == "" {
			errs = multierr.Append(errs, fmt.Errorf("%w: customer %d has no code", shared.ErrValidation, i))
			continue
		}
		if _, dup := repo.customerIndex[key]; dup {
			errs = multierr.Append(errs, fmt.Errorf("%w: duplicate customer code %s", shared.ErrValidation, c.Code))
			continue
		}
		phone, err := NormalizePhone(c.Phone)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("customer %s: %w", c.Code, err))
			continue
		}
		repo.customers[i].Phone = phone
		repo.customers[i].Addresses = slices.Clone(c.Addresses)
		repo.customerIndex[key] = i
	}
	if errs != nil {
		return nil, errs
	}
	return repo, nil
}

// NormalizePhone formats a phone number as E.164. Numbers without a country
// code are read as Sri Lankan. An empty number stays empty.
func NormalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	num, err := libphonenumber.Parse(raw, DefaultPhoneRegion)
	if err != nil {
		return "", fmt.Errorf("%w: phone %q: %v", shared.ErrValidation, raw, err)
	}
	if !libphonenumber.IsValidNumber(num) {
		return "", fmt.Errorf("%w: phone %q is not a valid number", shared.ErrValidation, raw)
	}
	return libphonenumber.Format(num, libphonenumber.E164), nil
}

// Product returns a product by code.
func (r *MemoryRepository) Product(_ context.Context, code string) (Product, error) {
	idx, ok := r.productIndex[normalizeCode(code)]
	if !ok {
		return Product{}, fmt.Errorf("%w: product %s", shared.ErrNotFound, code)
	}
	return r.products[idx], nil
}

// LookupProduct resolves a product without a context, for synchronous callers such as the order ledger.
func (r *MemoryRepository) LookupProduct(code string) (Product, bool) {
	idx, ok := r.productIndex[normalizeCode(code)]
	if !ok {
		return Product{}, false
	}
	return r.products[idx], true
}

// ListProducts filters, sorts and paginates the product list.
func (r *MemoryRepository) ListProducts(_ context.Context, params ListParams) (Page[Product], error) {
	filtered := make([]Product, 0, len(r.products))
	for _, p := range r.products {
		if params.ActiveOnly && !p.IsActive {
			continue
		}
		if !matches(params.Search, p.Code, p.Name, p.Category) {
			continue
		}
		filtered = append(filtered, p)
	}

	var compare func(a, b Product) int
	switch params.SortBy {
	case "name":
		compare = func(a, b Product) int { return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)) }
	case "sell_rate":
		compare = func(a, b Product) int { return a.SellRate.Cmp(b.SellRate) }
	case "", "code":
		compare = func(a, b Product) int { return cmp.Compare(a.Code, b.Code) }
	default:
		return Page[Product]{}, fmt.Errorf("%w: cannot sort products by %s", shared.ErrValidation, params.SortBy)
	}
	sortRecords(filtered, compare, params.Desc)
	return paginate(filtered, params), nil
}

// Customer returns a customer by code.
func (r *MemoryRepository) Customer(_ context.Context, code string) (Customer, error) {
	idx, ok := r.customerIndex[normalizeCode(code)]
	if !ok {
		return Customer{}, fmt.Errorf("%w: customer %s", shared.ErrNotFound, code)
	}
	c := r.customers[idx]
	c.Addresses = slices.Clone(c.Addresses)
	return c, nil
}

// ListCustomers filters, sorts and paginates the customer directory.
func (r *MemoryRepository) ListCustomers(_ context.Context, params ListParams) (Page[Customer], error) {
	filtered := make([]Customer, 0, len(r.customers))
	for _, c := range r.customers {
		if params.ActiveOnly && !c.IsActive {
			continue
		}
		if !matches(params.Search, c.Code, c.Name, c.Phone, c.Email) {
			continue
		}
		filtered = append(filtered, c)
	}

	var compare func(a, b Customer) int
	switch params.SortBy {
	case "name":
		compare = func(a, b Customer) int { return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)) }
	case "", "code":
		compare = func(a, b Customer) int { return cmp.Compare(a.Code, b.Code) }
	default:
		return Page[Customer]{}, fmt.Errorf("%w: cannot sort customers by %s", shared.ErrValidation, params.SortBy)
	}
	sortRecords(filtered, compare, params.Desc)
	return paginate(filtered, params), nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func matches(search string, fields ...string) bool {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}

func sortRecords[T any](records []T, compare func(a, b T) int, desc bool) {
	slices.SortStableFunc(records, func(a, b T) int {
		if desc {
			return compare(b, a)
		}
		return compare(a, b)
	})
}

func paginate[T any](records []T, params ListParams) Page[T] {
	pagination := shared.NewPagination(params.Page, params.PerPage, len(records))
	start, end := pagination.Bounds()
	return Page[T]{Items: records[start:end], Pagination: pagination}
}
