package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/invtrack/go-inventory-ledger/internal/ledger"
)

// ItemStore is what the service needs from persistence. *Repo implements it.
type ItemStore interface {
	Insert(ctx context.Context, item *ledger.Item) error
	ListByOwner(ctx context.Context, ownerID string) ([]ledger.Item, error)
	GetOwned(ctx context.Context, id, ownerID string) (*ledger.Item, error)
	Update(ctx context.Context, item *ledger.Item) error
	Delete(ctx context.Context, id, ownerID string) error
}

// ItemInput is the caller-supplied shape for create and update.
type ItemInput struct {
	Name     string          `json:"name"`
	SKU      string          `json:"sku"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Service is owner-scoped item CRUD. Every operation takes the owner
// explicitly; there is no ambient current-user state.
type Service struct {
	store  ItemStore
	logger *zap.Logger
}

func NewService(store ItemStore, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

func (s *Service) Create(ctx context.Context, ownerID string, in ItemInput) (*ledger.Item, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, &ledger.ValidationError{Field: "name", Reason: "is required"}
	}
	if strings.TrimSpace(in.SKU) == "" {
		return nil, &ledger.ValidationError{Field: "sku", Reason: "is required"}
	}
	if in.Quantity < 0 {
		return nil, &ledger.ValidationError{Field: "quantity", Reason: "cannot be negative"}
	}
	if in.Price.IsNegative() {
		return nil, &ledger.ValidationError{Field: "price", Reason: "cannot be negative"}
	}

	now := time.Now().UTC()
	item := &ledger.Item{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      in.Name,
		SKU:       in.SKU,
		Quantity:  in.Quantity,
		Price:     in.Price,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Insert(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info("item created", zap.String("item_id", item.ID), zap.String("sku", item.SKU))
	return item, nil
}

func (s *Service) List(ctx context.Context, ownerID string) ([]ledger.Item, error) {
	return s.store.ListByOwner(ctx, ownerID)
}

// Get returns ErrNotFound for foreign-owned ids, identical to missing ones.
func (s *Service) Get(ctx context.Context, id, ownerID string) (*ledger.Item, error) {
	return s.store.GetOwned(ctx, id, ownerID)
}

// Update overwrites name/sku/quantity/price on the owned record.
func (s *Service) Update(ctx context.Context, id, ownerID string, in ItemInput) (*ledger.Item, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, &ledger.ValidationError{Field: "name", Reason: "is required"}
	}
	if strings.TrimSpace(in.SKU) == "" {
		return nil, &ledger.ValidationError{Field: "sku", Reason: "is required"}
	}
	if in.Quantity < 0 {
		return nil, &ledger.ValidationError{Field: "quantity", Reason: "cannot be negative"}
	}
	if in.Price.IsNegative() {
		return nil, &ledger.ValidationError{Field: "price", Reason: "cannot be negative"}
	}

	item, err := s.store.GetOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	item.Name = in.Name
	item.SKU = in.SKU
	item.Quantity = in.Quantity
	item.Price = in.Price
	item.UpdatedAt = time.Now().UTC()
	if err := s.store.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes the owned item (transactions cascade); deleting an item
// that is missing or foreign-owned is a silent no-op.
func (s *Service) Delete(ctx context.Context, id, ownerID string) error {
	return s.store.Delete(ctx, id, ownerID)
}
