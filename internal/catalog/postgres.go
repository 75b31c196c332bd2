package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"
)

type dbtx interface {
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
}

// PostgresSource loads the catalog tables into a MemoryRepository at startup.
type PostgresSource struct {
	db dbtx
}

// NewPostgresSource constructs a loader over a pool or transaction.
func NewPostgresSource(db dbtx) *PostgresSource {
	return &PostgresSource{db: db}
}

// Load reads products, customers and addresses concurrently and assembles the repository.
func (s *PostgresSource) Load(ctx context.Context) (*MemoryRepository, error) {
	var (
		products  []Product
		customers []Customer
		addresses map[string][]Address
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.loadProducts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		customers, err = s.loadCustomers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		addresses, err = s.loadAddresses(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range customers {
		customers[i].Addresses = addresses[customers[i].Code]
	}
	return NewMemoryRepository(products, customers)
}

func (s *PostgresSource) loadProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.db.Query(ctx, `SELECT code, name, unit, category, sell_rate, buy_rate, is_active FROM products ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("catalog: query products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.Code, &p.Name, &p.Unit, &p.Category, &p.SellRate, &p.BuyRate, &p.IsActive); err != nil {
			return nil, fmt.Errorf("catalog: scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate products: %w", err)
	}
	return products, nil
}

func (s *PostgresSource) loadCustomers(ctx context.Context) ([]Customer, error) {
	rows, err := s.db.Query(ctx, `SELECT code, name, phone, email, is_active FROM customers ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("catalog: query customers: %w", err)
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.Code, &c.Name, &c.Phone, &c.Email, &c.IsActive); err != nil {
			return nil, fmt.Errorf("catalog: scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate customers: %w", err)
	}
	return customers, nil
}

func (s *PostgresSource) loadAddresses(ctx context.Context) (map[string][]Address, error) {
	rows, err := s.db.Query(ctx, `SELECT customer_code, id, label, line1, city, country FROM customer_addresses ORDER BY customer_code, id`)
	if err != nil {
		return nil, fmt.Errorf("catalog: query addresses: %w", err)
	}
	defer rows.Close()

	addresses := make(map[string][]Address)
	for rows.Next() {
		var (
			customerCode string
			a            Address
		)
		if err := rows.Scan(&customerCode, &a.ID, &a.Label, &a.Line1, &a.City, &a.Country); err != nil {
			return nil, fmt.Errorf("catalog: scan address: %w", err)
		}
		addresses[customerCode] = append(addresses[customerCode], a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate addresses: %w", err)
	}
	return addresses, nil
}
