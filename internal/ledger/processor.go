package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Store is the durable boundary the processor writes through. WithTx runs fn
// inside one atomic unit of work: either every call on the Tx commits, or none do.
type Store interface {
	WithTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the per-transaction view of the store. ItemForUpdate must hold the
// item row locked (or otherwise serialized) until the unit of work ends, so
// the read-modify-write on quantity cannot race a concurrent call.
type Tx interface {
	ItemForUpdate(ctx context.Context, itemID, ownerID string) (*Item, error)
	SaveItem(ctx context.Context, item *Item) error
	InsertTransaction(ctx context.Context, t *Transaction) error
}

// Processor applies buy/sell operations to items and records the audit trail.
// It is stateless; all per-call state lives in the store transaction.
type Processor struct {
	store  Store
	logger *zap.Logger
}

func NewProcessor(store Store, logger *zap.Logger) *Processor {
	return &Processor{store: store, logger: logger}
}

// Process dispatches on kind. Notes, when non-empty, are written as part of
// the single transaction insert; there is no follow-up update.
func (p *Processor) Process(ctx context.Context, itemID, userID string, kind Kind, quantity int, pricePerUnit decimal.Decimal, notes string) (*Transaction, error) {
	switch kind {
	case KindBuy:
		return p.apply(ctx, itemID, userID, KindBuy, quantity, pricePerUnit, notes)
	case KindSell:
		return p.apply(ctx, itemID, userID, KindSell, quantity, pricePerUnit, notes)
	default:
		return nil, &InvalidKindError{Kind: kind}
	}
}

// ProcessBuy increases the item's quantity by the bought amount.
func (p *Processor) ProcessBuy(ctx context.Context, itemID, userID string, quantity int, pricePerUnit decimal.Decimal) (*Transaction, error) {
	return p.apply(ctx, itemID, userID, KindBuy, quantity, pricePerUnit, "")
}

// ProcessSell decreases the item's quantity, rejecting sells that exceed the
// available stock with the exact available/requested amounts.
func (p *Processor) ProcessSell(ctx context.Context, itemID, userID string, quantity int, pricePerUnit decimal.Decimal) (*Transaction, error) {
	return p.apply(ctx, itemID, userID, KindSell, quantity, pricePerUnit, "")
}

func (p *Processor) apply(ctx context.Context, itemID, userID string, kind Kind, quantity int, pricePerUnit decimal.Decimal, notes string) (*Transaction, error) {
	// Input validation happens before any store call.
	if quantity <= 0 {
		return nil, &ValidationError{Field: "quantity", Reason: "must be greater than 0"}
	}
	if pricePerUnit.IsNegative() {
		return nil, &ValidationError{Field: "price_per_unit", Reason: "cannot be negative"}
	}

	var rec *Transaction
	err := p.store.WithTx(ctx, func(tx Tx) error {
		item, err := tx.ItemForUpdate(ctx, itemID, userID)
		if err != nil {
			return err
		}

		// Snapshot under the lock: this is the value the audit trail promises.
		before := item.Quantity

		switch kind {
		case KindBuy:
			item.Quantity = before + quantity
		case KindSell:
			if before < quantity {
				return &InsufficientInventoryError{Available: before, Requested: quantity}
			}
			item.Quantity = before - quantity
		}

		if err := tx.SaveItem(ctx, item); err != nil {
			return err
		}

		rec = &Transaction{
			ID:              uuid.NewString(),
			ItemID:          item.ID,
			UserID:          userID,
			Kind:            kind,
			Status:          StatusCompleted,
			Quantity:        quantity,
			PricePerUnit:    pricePerUnit,
			TotalAmount:     pricePerUnit.Mul(decimal.NewFromInt(int64(quantity))),
			InventoryBefore: before,
			InventoryAfter:  item.Quantity,
			Notes:           notes,
			CreatedAt:       time.Now().UTC(),
		}
		return tx.InsertTransaction(ctx, rec)
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info("transaction recorded",
		zap.String("transaction_id", rec.ID),
		zap.String("item_id", rec.ItemID),
		zap.String("kind", string(rec.Kind)),
		zap.Int("quantity", rec.Quantity),
		zap.Int("inventory_after", rec.InventoryAfter),
	)
	return rec, nil
}
