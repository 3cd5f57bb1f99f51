package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/invtrack/go-inventory-ledger/internal/ledger"
)

type memStore struct {
	items map[string]ledger.Item
}

func newMemStore() *memStore {
	return &memStore{items: make(map[string]ledger.Item)}
}

func (m *memStore) Insert(ctx context.Context, it *ledger.Item) error {
	m.items[it.ID] = *it
	return nil
}

func (m *memStore) ListByOwner(ctx context.Context, ownerID string) ([]ledger.Item, error) {
	var out []ledger.Item
	for _, it := range m.items {
		if it.OwnerID == ownerID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *memStore) GetOwned(ctx context.Context, id, ownerID string) (*ledger.Item, error) {
	it, ok := m.items[id]
	if !ok || it.OwnerID != ownerID {
		return nil, ledger.ErrNotFound
	}
	cp := it
	return &cp, nil
}

func (m *memStore) Update(ctx context.Context, it *ledger.Item) error {
	cur, ok := m.items[it.ID]
	if !ok || cur.OwnerID != it.OwnerID {
		return ledger.ErrNotFound
	}
	m.items[it.ID] = *it
	return nil
}

func (m *memStore) Delete(ctx context.Context, id, ownerID string) error {
	it, ok := m.items[id]
	if ok && it.OwnerID == ownerID {
		delete(m.items, id)
	}
	return nil
}

func newTestService() (*Service, *memStore) {
	store := newMemStore()
	return NewService(store, zap.NewNop()), store
}

func validInput() ItemInput {
	return ItemInput{Name: "Widget", SKU: "WID-1", Quantity: 5, Price: decimal.RequireFromString("3.50")}
}

func TestCreate_StampsOwnerAndID(t *testing.T) {
	svc, store := newTestService()

	item, err := svc.Create(context.Background(), "user-1", validInput())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if item.ID == "" {
		t.Error("expected generated id")
	}
	if item.OwnerID != "user-1" {
		t.Errorf("expected owner user-1, got %s", item.OwnerID)
	}
	if _, ok := store.items[item.ID]; !ok {
		t.Error("expected item persisted")
	}
}

func TestCreate_RejectsEmptyFields(t *testing.T) {
	svc, _ := newTestService()

	cases := []struct {
		name  string
		in    ItemInput
		field string
	}{
		{"empty name", ItemInput{SKU: "S", Price: decimal.Zero}, "name"},
		{"blank name", ItemInput{Name: "   ", SKU: "S", Price: decimal.Zero}, "name"},
		{"empty sku", ItemInput{Name: "N", Price: decimal.Zero}, "sku"},
		{"negative quantity", ItemInput{Name: "N", SKU: "S", Quantity: -1, Price: decimal.Zero}, "quantity"},
		{"negative price", ItemInput{Name: "N", SKU: "S", Price: decimal.RequireFromString("-1")}, "price"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "user-1", tc.in)
			var vErr *ledger.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got: %v", err)
			}
			if vErr.Field != tc.field {
				t.Errorf("expected field %q, got %q", tc.field, vErr.Field)
			}
		})
	}
}

func TestGet_ForeignOwnerLooksMissing(t *testing.T) {
	svc, _ := newTestService()

	item, err := svc.Create(context.Background(), "user-1", validInput())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err = svc.Get(context.Background(), item.ID, "user-2")
	if !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign owner, got: %v", err)
	}
	_, err = svc.Get(context.Background(), "no-such-id", "user-2")
	if !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing id, got: %v", err)
	}
}

func TestUpdate_OverwritesAllFields(t *testing.T) {
	svc, _ := newTestService()

	item, err := svc.Create(context.Background(), "user-1", validInput())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := svc.Update(context.Background(), item.ID, "user-1", ItemInput{
		Name: "Gadget", SKU: "GAD-9", Quantity: 42, Price: decimal.RequireFromString("9.99"),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Name != "Gadget" || updated.SKU != "GAD-9" || updated.Quantity != 42 ||
		!updated.Price.Equal(decimal.RequireFromString("9.99")) {
		t.Errorf("unexpected updated item: %+v", updated)
	}
}

func TestUpdate_NotFoundForForeignOwner(t *testing.T) {
	svc, _ := newTestService()

	item, err := svc.Create(context.Background(), "user-1", validInput())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err = svc.Update(context.Background(), item.ID, "user-2", validInput())
	if !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestDelete_SilentNoopForForeignOwner(t *testing.T) {
	svc, store := newTestService()

	item, err := svc.Create(context.Background(), "user-1", validInput())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := svc.Delete(context.Background(), item.ID, "user-2"); err != nil {
		t.Errorf("expected silent no-op, got: %v", err)
	}
	if _, ok := store.items[item.ID]; !ok {
		t.Error("foreign delete must not remove the item")
	}

	if err := svc.Delete(context.Background(), item.ID, "user-1"); err != nil {
		t.Errorf("owned delete failed: %v", err)
	}
	if _, ok := store.items[item.ID]; ok {
		t.Error("expected item removed")
	}
}
