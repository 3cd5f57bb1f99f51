package ledger

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PGStore is the pgx-backed ledger store. Write paths for item quantity go
// through WithTx so the row lock taken by ItemForUpdate covers the whole
// read-modify-write plus the transaction insert.
type PGStore struct{ DB *pgxpool.Pool }

func (s *PGStore) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	pgtx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = pgtx.Rollback(ctx) }()

	if err := fn(&pgTx{tx: pgtx}); err != nil {
		return err
	}
	return pgtx.Commit(ctx)
}

type pgTx struct{ tx pgx.Tx }

func (t *pgTx) ItemForUpdate(ctx context.Context, itemID, ownerID string) (*Item, error) {
	var it Item
	err := t.tx.QueryRow(ctx, `
		SELECT id, user_id, name, sku, quantity, price, created_at, updated_at
		FROM items WHERE id=$1 AND user_id=$2
		FOR UPDATE`, itemID, ownerID,
	).Scan(&it.ID, &it.OwnerID, &it.Name, &it.SKU, &it.Quantity, &it.Price, &it.CreatedAt, &it.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (t *pgTx) SaveItem(ctx context.Context, it *Item) error {
	_, err := t.tx.Exec(ctx, `
		UPDATE items SET quantity=$2, updated_at=now() WHERE id=$1`,
		it.ID, it.Quantity,
	)
	return err
}

func (t *pgTx) InsertTransaction(ctx context.Context, rec *Transaction) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO transactions(id, item_id, user_id, kind, status, quantity,
			price_per_unit, total_amount, inventory_before, inventory_after, notes, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		rec.ID, rec.ItemID, rec.UserID, string(rec.Kind), string(rec.Status), rec.Quantity,
		rec.PricePerUnit, rec.TotalAmount, rec.InventoryBefore, rec.InventoryAfter, rec.Notes, rec.CreatedAt,
	)
	return err
}

const txColumns = `id, item_id, user_id, kind, status, quantity,
	price_per_unit, total_amount, inventory_before, inventory_after, notes, created_at`

func scanTransactions(rows pgx.Rows) ([]Transaction, error) {
	defer rows.Close()
	var out []Transaction
	for rows.Next() {
		var rec Transaction
		if err := rows.Scan(&rec.ID, &rec.ItemID, &rec.UserID, &rec.Kind, &rec.Status, &rec.Quantity,
			&rec.PricePerUnit, &rec.TotalAmount, &rec.InventoryBefore, &rec.InventoryAfter, &rec.Notes, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListByUser returns the user's transactions, newest first.
func (s *PGStore) ListByUser(ctx context.Context, userID string) ([]Transaction, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT `+txColumns+` FROM transactions
		WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return scanTransactions(rows)
}

// ListByItem returns one item's transactions, newest first. Ownership of the
// item is the caller's problem; the user filter here keeps tenants isolated
// even if that check is skipped.
func (s *PGStore) ListByItem(ctx context.Context, itemID, userID string) ([]Transaction, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT `+txColumns+` FROM transactions
		WHERE item_id=$1 AND user_id=$2 ORDER BY created_at DESC`, itemID, userID)
	if err != nil {
		return nil, err
	}
	return scanTransactions(rows)
}

func (s *PGStore) Recent(ctx context.Context, userID string, limit int) ([]Transaction, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT `+txColumns+` FROM transactions
		WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	return scanTransactions(rows)
}

func (s *PGStore) CountByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := s.DB.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE user_id=$1`, userID).Scan(&n)
	return n, err
}

// TotalByKind sums total_amount over one kind for the user (0 when empty).
func (s *PGStore) TotalByKind(ctx context.Context, userID string, kind Kind) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_amount), 0) FROM transactions
		WHERE user_id=$1 AND kind=$2`, userID, string(kind)).Scan(&total)
	return total, err
}

// Summarize computes the spending/sales/profit rollup for a user.
func (s *PGStore) Summarize(ctx context.Context, userID string) (*Summary, error) {
	spending, err := s.TotalByKind(ctx, userID, KindBuy)
	if err != nil {
		return nil, err
	}
	sales, err := s.TotalByKind(ctx, userID, KindSell)
	if err != nil {
		return nil, err
	}
	return &Summary{
		TotalSpending: spending,
		TotalSales:    sales,
		NetProfit:     sales.Sub(spending),
	}, nil
}
