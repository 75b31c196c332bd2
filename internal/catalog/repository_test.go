package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/Kathiriniyan/SukanFood-sub001/internal/shared"
)

func TestNewMemoryRepositoryRejectsDuplicates(t *testing.T) {
	_, err := NewMemoryRepository([]Product{{Code: "A"}, {Code: "a"}}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrValidation))

	_, err = NewMemoryRepository(nil, []Customer{{Code: " "}})
	require.Error(t, err)
}

func TestNewMemoryRepositoryReportsEveryProblem(t *testing.T) {
	_, err := NewMemoryRepository(
		[]Product{{Code: "A"}, {Code: "A"}, {Code: ""}},
		[]Customer{{Code: "C1", Phone: "12"}},
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrValidation))
	assert.Len(t, multierr.Errors(err), 3)
}

func TestNormalizePhone(t *testing.T) {
	got, err := NormalizePhone("011 234 5678")
	require.NoError(t, err)
	assert.Equal(t, "+94112345678", got)

	got, err = NormalizePhone("+94 52 222 2881")
	require.NoError(t, err)
	assert.Equal(t, "+94522222881", got)

	got, err = NormalizePhone("  ")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = NormalizePhone("not a phone")
	assert.True(t, errors.Is(err, shared.ErrValidation))
}

func TestProductLookupIsCaseInsensitive(t *testing.T) {
	repo := NewSeededRepository()

	p, err := repo.Product(context.Background(), "veg-001")
	require.NoError(t, err)
	assert.Equal(t, "Carrot", p.Name)
	assert.True(t, decimal.RequireFromString("320").Equal(p.SellRate))

	_, ok := repo.LookupProduct(" pkg-001 ")
	assert.True(t, ok)

	_, err = repo.Product(context.Background(), "NOPE")
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestListProductsFilterSortPaginate(t *testing.T) {
	repo := NewSeededRepository()
	ctx := context.Background()

	page, err := repo.ListProducts(ctx, ListParams{Search: "fruits", ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, 3, page.Pagination.Total)

	page, err = repo.ListProducts(ctx, ListParams{SortBy: "sell_rate", Desc: true, PerPage: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "FRU-004", page.Items[0].Code)
	assert.Equal(t, "FRU-001", page.Items[1].Code)
	assert.Equal(t, 6, page.Pagination.TotalPages)

	page, err = repo.ListProducts(ctx, ListParams{SortBy: "name", Page: 99})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	_, err = repo.ListProducts(ctx, ListParams{SortBy: "colour"})
	assert.True(t, errors.Is(err, shared.ErrValidation))
}

func TestListCustomers(t *testing.T) {
	repo := NewSeededRepository()

	page, err := repo.ListCustomers(context.Background(), ListParams{ActiveOnly: true, SortBy: "name"})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "Cargills Food City", page.Items[0].Name)

	page, err = repo.ListCustomers(context.Background(), ListParams{Search: "keells"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	c, err := repo.Customer(context.Background(), "CUS-001")
	require.NoError(t, err)
	addr, ok := c.Address("ADR-002")
	require.True(t, ok)
	assert.Equal(t, "Wattala", addr.City)
	_, ok = c.Address("ADR-003")
	assert.False(t, ok)
}

func TestCustomerReturnsCopy(t *testing.T) {
	repo := NewSeededRepository()
	c, err := repo.Customer(context.Background(), "CUS-001")
	require.NoError(t, err)
	c.Addresses[0].City = "Kandy"

	again, err := repo.Customer(context.Background(), "CUS-001")
	require.NoError(t, err)
	assert.Equal(t, "Colombo", again.Addresses[0].City)
}
