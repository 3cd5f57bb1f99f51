package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind of quantity change a transaction records.
type Kind string

const (
	KindBuy  Kind = "BUY"
	KindSell Kind = "SELL"
)

func (k Kind) Valid() bool { return k == KindBuy || k == KindSell }

// Status of a transaction. The processor only ever writes Completed;
// the other values exist so reversal/approval flows have a place to land.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
	StatusReversed  Status = "REVERSED"
)

type Item struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"-"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Value is the item's stock valuation (price * quantity).
func (i *Item) Value() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Transaction is an append-only audit record of one quantity change.
// Rows are never updated after insert; notes are part of the initial write.
type Transaction struct {
	ID              string          `json:"id"`
	ItemID          string          `json:"item_id"`
	UserID          string          `json:"user_id"`
	Kind            Kind            `json:"kind"`
	Status          Status          `json:"status"`
	Quantity        int             `json:"quantity"`
	PricePerUnit    decimal.Decimal `json:"price_per_unit"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	InventoryBefore int             `json:"inventory_before"`
	InventoryAfter  int             `json:"inventory_after"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Summary aggregates a user's transaction totals.
type Summary struct {
	TotalSpending decimal.Decimal `json:"total_spending"`
	TotalSales    decimal.Decimal `json:"total_sales"`
	NetProfit     decimal.Decimal `json:"net_profit"`
}
