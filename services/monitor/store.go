package monitor

import (
	"context"
	"database/sql"
	"time"
)

// Store persists the last observed snapshot per product url, which is
// what change detection diffs the current check against.
type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

// Snapshot is the persisted tri-field outcome of one check.
type Snapshot struct {
	Url       string
	InStock   *bool
	Price     string
	Currency  string
	CheckedAt time.Time
}

// Pull returns the previous snapshot for a url. The second return is
// false when the url has never been checked.
func (s Store) Pull(ctx context.Context, url string) (Snapshot, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT in_stock, price, currency, checked_at
		FROM product_snapshot WHERE url = ?
	`, url)

	var inStock sql.NullBool
	var checkedAt int64
	snap := Snapshot{Url: url}
	err := row.Scan(&inStock, &snap.Price, &snap.Currency, &checkedAt)
	if err == sql.ErrNoRows {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, err
	}

	if inStock.Valid {
		snap.InStock = &inStock.Bool
	}
	snap.CheckedAt = time.Unix(checkedAt, 0)
	return snap, true, nil
}

// Push upserts the snapshot for its url.
func (s Store) Push(ctx context.Context, snap Snapshot) error {
	var inStock sql.NullBool
	if snap.InStock != nil {
		inStock = sql.NullBool{Bool: *snap.InStock, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO product_snapshot (url, in_stock, price, currency, checked_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (url) DO UPDATE SET
			in_stock = excluded.in_stock,
			price = excluded.price,
			currency = excluded.currency,
			checked_at = excluded.checked_at
	`, snap.Url, inStock, snap.Price, snap.Currency, snap.CheckedAt.Unix())
	return err
}
