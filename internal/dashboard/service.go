package dashboard

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/invtrack/go-inventory-ledger/internal/ledger"
)

const (
	LowStockThreshold       = 10
	recentTransactionsLimit = 10
	topItemsLimit           = 5
)

// ItemStats is the read side the aggregator needs over items.
// inventory.Repo implements it.
type ItemStats interface {
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	TotalQuantity(ctx context.Context, ownerID string) (int64, error)
	TotalValue(ctx context.Context, ownerID string) (decimal.Decimal, error)
	CountLowStock(ctx context.Context, ownerID string, threshold int) (int64, error)
	LowStock(ctx context.Context, ownerID string, threshold, limit int) ([]ledger.Item, error)
	TopByValue(ctx context.Context, ownerID string, limit int) ([]ledger.Item, error)
}

// TransactionStats is the read side over the ledger. ledger.PGStore implements it.
type TransactionStats interface {
	CountByUser(ctx context.Context, userID string) (int64, error)
	TotalByKind(ctx context.Context, userID string, kind ledger.Kind) (decimal.Decimal, error)
	Recent(ctx context.Context, userID string, limit int) ([]ledger.Transaction, error)
}

// ItemSummary is the trimmed item view used in dashboard lists.
type ItemSummary struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	SKU        string          `json:"sku"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	TotalValue decimal.Decimal `json:"total_value"`
}

func summarize(items []ledger.Item) []ItemSummary {
	out := make([]ItemSummary, 0, len(items))
	for i := range items {
		it := &items[i]
		out = append(out, ItemSummary{
			ID:         it.ID,
			Name:       it.Name,
			SKU:        it.SKU,
			Quantity:   it.Quantity,
			Price:      it.Price,
			TotalValue: it.Value(),
		})
	}
	return out
}

type Overview struct {
	TotalItems          int64                `json:"total_items"`
	TotalInventoryValue decimal.Decimal      `json:"total_inventory_value"`
	TotalItemQuantity   int64                `json:"total_item_quantity"`
	LowStockItemsCount  int64                `json:"low_stock_items_count"`
	TotalTransactions   int64                `json:"total_transactions"`
	TotalSpending       decimal.Decimal      `json:"total_spending"`
	TotalSales          decimal.Decimal      `json:"total_sales"`
	NetProfit           decimal.Decimal      `json:"net_profit"`
	RecentTransactions  []ledger.Transaction `json:"recent_transactions"`
	TopValueItems       []ItemSummary        `json:"top_value_items"`
	LowStockItems       []ItemSummary        `json:"low_stock_items"`
}

// Service computes the read-only dashboard aggregate. No mutation anywhere.
type Service struct {
	items ItemStats
	txs   TransactionStats
}

func NewService(items ItemStats, txs TransactionStats) *Service {
	return &Service{items: items, txs: txs}
}

func (s *Service) Overview(ctx context.Context, userID string) (*Overview, error) {
	ov := &Overview{}

	var err error
	if ov.TotalItems, err = s.items.CountByOwner(ctx, userID); err != nil {
		return nil, err
	}
	if ov.TotalInventoryValue, err = s.items.TotalValue(ctx, userID); err != nil {
		return nil, err
	}
	if ov.TotalItemQuantity, err = s.items.TotalQuantity(ctx, userID); err != nil {
		return nil, err
	}
	if ov.LowStockItemsCount, err = s.items.CountLowStock(ctx, userID, LowStockThreshold); err != nil {
		return nil, err
	}

	if ov.TotalTransactions, err = s.txs.CountByUser(ctx, userID); err != nil {
		return nil, err
	}
	if ov.TotalSpending, err = s.txs.TotalByKind(ctx, userID, ledger.KindBuy); err != nil {
		return nil, err
	}
	if ov.TotalSales, err = s.txs.TotalByKind(ctx, userID, ledger.KindSell); err != nil {
		return nil, err
	}
	ov.NetProfit = ov.TotalSales.Sub(ov.TotalSpending)

	if ov.RecentTransactions, err = s.txs.Recent(ctx, userID, recentTransactionsLimit); err != nil {
		return nil, err
	}
	top, err := s.items.TopByValue(ctx, userID, topItemsLimit)
	if err != nil {
		return nil, err
	}
	ov.TopValueItems = summarize(top)

	low, err := s.items.LowStock(ctx, userID, LowStockThreshold, topItemsLimit)
	if err != nil {
		return nil, err
	}
	ov.LowStockItems = summarize(low)

	return ov, nil
}
