package grocer

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PriceRepository persists scraped price catalogs so planning runs off
// materialized data instead of live scrapes.
type PriceRepository struct {
	db *sql.DB
}

// NewPriceRepository creates a new PriceRepository.
func NewPriceRepository(d *sql.DB) *PriceRepository {
	return &PriceRepository{db: d}
}

// SaveCatalog upserts every entry of a store catalog.
func (r *PriceRepository) SaveCatalog(ctx context.Context, catalog *Catalog) error {
	now := time.Now().UTC()
	for _, name := range catalog.Names() {
		entry, _ := catalog.Lookup(name)
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO price_cache (store, ingredient, unit_price, package_qty, package_unit, scraped_at)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT(store, ingredient) DO UPDATE SET
			   unit_price = excluded.unit_price,
			   package_qty = excluded.package_qty,
			   package_unit = excluded.package_unit,
			   scraped_at = excluded.scraped_at`,
			catalog.Store, name, entry.UnitPrice, entry.PackageQty, entry.PackageUnit, now)
		if err != nil {
			return fmt.Errorf("failed to upsert price for %q at %s: %w", name, catalog.Store, err)
		}
	}
	return nil
}

// LoadCatalog loads the cached catalog for one store. The returned time is
// the most recent scrape timestamp among the entries, zero when the cache
// is empty.
func (r *PriceRepository) LoadCatalog(ctx context.Context, store string) (*Catalog, time.Time, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT ingredient, unit_price, package_qty, package_unit, scraped_at
		 FROM price_cache WHERE store = ?`, store)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to load price cache for %s: %w", store, err)
	}
	defer rows.Close()

	catalog := NewCatalog(store)
	var latest time.Time
	for rows.Next() {
		var (
			name      string
			entry     Entry
			scrapedAt time.Time
		)
		if err := rows.Scan(&name, &entry.UnitPrice, &entry.PackageQty, &entry.PackageUnit, &scrapedAt); err != nil {
			return nil, time.Time{}, fmt.Errorf("failed to scan price row: %w", err)
		}
		catalog.Put(name, entry)
		if scrapedAt.After(latest) {
			latest = scrapedAt
		}
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to iterate price rows: %w", err)
	}
	return catalog, latest, nil
}
