package ledger

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func getPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_DSN not set")
	}
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Skipf("postgres not available: %v", err)
	}
	if err := pool.Ping(context.Background()); err != nil {
		t.Skipf("postgres not available: %v", err)
	}
	return pool
}

func seedItem(t *testing.T, pool *pgxpool.Pool, qty int) (itemID, userID string) {
	t.Helper()
	ctx := context.Background()
	userID = uuid.NewString()
	itemID = uuid.NewString()

	_, err := pool.Exec(ctx, `INSERT INTO users(id, username, password_hash) VALUES ($1,$2,'x')`,
		userID, "tester-"+userID[:8])
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	_, err = pool.Exec(ctx, `INSERT INTO items(id, user_id, name, sku, quantity, price)
		VALUES ($1,$2,'Widget',$3,$4,3.50)`, itemID, userID, "SKU-"+itemID[:8], qty)
	if err != nil {
		t.Fatalf("seed item: %v", err)
	}

	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `DELETE FROM items WHERE id=$1`, itemID)
		_, _ = pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, userID)
	})
	return itemID, userID
}

func TestPGStore_SellCommitsItemAndTransactionTogether(t *testing.T) {
	pool := getPool(t)
	defer pool.Close()
	ctx := context.Background()

	itemID, userID := seedItem(t, pool, 100)
	p := NewProcessor(&PGStore{DB: pool}, zap.NewNop())

	rec, err := p.ProcessSell(ctx, itemID, userID, 30, decimal.RequireFromString("5.00"))
	if err != nil {
		t.Fatalf("ProcessSell failed: %v", err)
	}

	var qty int
	if err := pool.QueryRow(ctx, `SELECT quantity FROM items WHERE id=$1`, itemID).Scan(&qty); err != nil {
		t.Fatalf("read item: %v", err)
	}
	if qty != 70 {
		t.Errorf("expected quantity 70, got %d", qty)
	}

	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE item_id=$1`, itemID).Scan(&count); err != nil {
		t.Fatalf("count transactions: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 transaction row, got %d", count)
	}
	if rec.InventoryBefore != 100 || rec.InventoryAfter != 70 {
		t.Errorf("expected snapshots 100/70, got %d/%d", rec.InventoryBefore, rec.InventoryAfter)
	}
}

func TestPGStore_FailedSellLeavesNoTrace(t *testing.T) {
	pool := getPool(t)
	defer pool.Close()
	ctx := context.Background()

	itemID, userID := seedItem(t, pool, 10)
	p := NewProcessor(&PGStore{DB: pool}, zap.NewNop())

	if _, err := p.ProcessSell(ctx, itemID, userID, 20, decimal.RequireFromString("1.00")); err == nil {
		t.Fatal("expected insufficient inventory error")
	}

	var qty, count int
	if err := pool.QueryRow(ctx, `SELECT quantity FROM items WHERE id=$1`, itemID).Scan(&qty); err != nil {
		t.Fatalf("read item: %v", err)
	}
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE item_id=$1`, itemID).Scan(&count); err != nil {
		t.Fatalf("count transactions: %v", err)
	}
	if qty != 10 || count != 0 {
		t.Errorf("expected untouched item (10, 0 rows), got qty=%d rows=%d", qty, count)
	}
}

func TestPGStore_Summarize(t *testing.T) {
	pool := getPool(t)
	defer pool.Close()
	ctx := context.Background()

	itemID, userID := seedItem(t, pool, 100)
	store := &PGStore{DB: pool}
	p := NewProcessor(store, zap.NewNop())

	if _, err := p.ProcessBuy(ctx, itemID, userID, 10, decimal.RequireFromString("2.00")); err != nil {
		t.Fatalf("buy: %v", err)
	}
	if _, err := p.ProcessSell(ctx, itemID, userID, 5, decimal.RequireFromString("6.00")); err != nil {
		t.Fatalf("sell: %v", err)
	}

	sum, err := store.Summarize(ctx, userID)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if !sum.TotalSpending.Equal(decimal.RequireFromString("20.00")) {
		t.Errorf("expected spending 20.00, got %s", sum.TotalSpending)
	}
	if !sum.TotalSales.Equal(decimal.RequireFromString("30.00")) {
		t.Errorf("expected sales 30.00, got %s", sum.TotalSales)
	}
	if !sum.NetProfit.Equal(decimal.RequireFromString("10.00")) {
		t.Errorf("expected profit 10.00, got %s", sum.NetProfit)
	}
}
