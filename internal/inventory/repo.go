package inventory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/invtrack/go-inventory-ledger/internal/ledger"
)

type Repo struct{ DB *pgxpool.Pool }

const itemColumns = `id, user_id, name, sku, quantity, price, created_at, updated_at`

func scanItems(rows pgx.Rows) ([]ledger.Item, error) {
	defer rows.Close()
	var out []ledger.Item
	for rows.Next() {
		var it ledger.Item
		if err := rows.Scan(&it.ID, &it.OwnerID, &it.Name, &it.SKU, &it.Quantity, &it.Price,
			&it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *Repo) Insert(ctx context.Context, it *ledger.Item) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO items(id, user_id, name, sku, quantity, price, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		it.ID, it.OwnerID, it.Name, it.SKU, it.Quantity, it.Price, it.CreatedAt, it.UpdatedAt,
	)
	return err
}

func (r *Repo) ListByOwner(ctx context.Context, ownerID string) ([]ledger.Item, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+itemColumns+` FROM items WHERE user_id=$1 ORDER BY sku`, ownerID)
	if err != nil {
		return nil, err
	}
	return scanItems(rows)
}

func (r *Repo) GetOwned(ctx context.Context, id, ownerID string) (*ledger.Item, error) {
	var it ledger.Item
	err := r.DB.QueryRow(ctx, `
		SELECT `+itemColumns+` FROM items WHERE id=$1 AND user_id=$2`, id, ownerID,
	).Scan(&it.ID, &it.OwnerID, &it.Name, &it.SKU, &it.Quantity, &it.Price, &it.CreatedAt, &it.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *Repo) Update(ctx context.Context, it *ledger.Item) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE items SET name=$3, sku=$4, quantity=$5, price=$6, updated_at=$7
		WHERE id=$1 AND user_id=$2`,
		it.ID, it.OwnerID, it.Name, it.SKU, it.Quantity, it.Price, it.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id, ownerID string) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM items WHERE id=$1 AND user_id=$2`, id, ownerID)
	return err
}

// Dashboard aggregates, all owner-scoped.

func (r *Repo) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var n int64
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM items WHERE user_id=$1`, ownerID).Scan(&n)
	return n, err
}

func (r *Repo) TotalQuantity(ctx context.Context, ownerID string) (int64, error) {
	var n int64
	err := r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0) FROM items WHERE user_id=$1`, ownerID).Scan(&n)
	return n, err
}

func (r *Repo) TotalValue(ctx context.Context, ownerID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(price * quantity), 0) FROM items WHERE user_id=$1`, ownerID).Scan(&total)
	return total, err
}

func (r *Repo) CountLowStock(ctx context.Context, ownerID string, threshold int) (int64, error) {
	var n int64
	err := r.DB.QueryRow(ctx, `
		SELECT COUNT(*) FROM items WHERE user_id=$1 AND quantity < $2`, ownerID, threshold).Scan(&n)
	return n, err
}

// LowStock returns the scarcest items under the threshold, lowest quantity first.
func (r *Repo) LowStock(ctx context.Context, ownerID string, threshold, limit int) ([]ledger.Item, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+itemColumns+` FROM items
		WHERE user_id=$1 AND quantity < $2
		ORDER BY quantity ASC LIMIT $3`, ownerID, threshold, limit)
	if err != nil {
		return nil, err
	}
	return scanItems(rows)
}

// TopByValue returns the highest-valued items (price * quantity) first.
func (r *Repo) TopByValue(ctx context.Context, ownerID string, limit int) ([]ledger.Item, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+itemColumns+` FROM items
		WHERE user_id=$1
		ORDER BY (price * quantity) DESC LIMIT $2`, ownerID, limit)
	if err != nil {
		return nil, err
	}
	return scanItems(rows)
}
