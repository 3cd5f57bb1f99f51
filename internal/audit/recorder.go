package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/invtrack/go-inventory-ledger/internal/kafka"
	"github.com/invtrack/go-inventory-ledger/internal/ledger"
	"github.com/invtrack/go-inventory-ledger/internal/redisx"
)

// Recorder tails the transaction event stream, deduplicates by event id, and
// maintains the audit log plus per-user rolling counters. The database is the
// source of truth; this is a side channel for operators.
type Recorder struct {
	Redis       *redis.Client
	Logger      *zap.Logger
	ServiceName string
}

// HandleRecorded is wired as the kafka consumer handler.
func (rc *Recorder) HandleRecorded(ctx context.Context, m kafkago.Message) error {
	var env ledger.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != ledger.EventTransactionRecorded {
		return nil
	}

	// Dedup on event id: redeliveries after a consumer restart are expected.
	dkey := fmt.Sprintf(redisx.KeyDedup, rc.ServiceName, env.EventID)
	seen, err := redisx.Exists(ctx, rc.Redis, dkey)
	if err != nil {
		return err
	}
	if seen {
		return nil
	}

	p, err := kafkax.UnwrapPayload[ledger.TransactionRecordedPayload](env.Payload)
	if err != nil {
		return err
	}

	rc.Logger.Info("audit",
		zap.String("transaction_id", p.TransactionID),
		zap.String("item_id", p.ItemID),
		zap.String("user_id", p.UserID),
		zap.String("kind", p.Kind),
		zap.Int("quantity", p.Quantity),
		zap.String("total_amount", p.TotalAmount),
		zap.Int("inventory_before", p.InventoryBefore),
		zap.Int("inventory_after", p.InventoryAfter),
	)

	if err := rc.Redis.Incr(ctx, fmt.Sprintf(redisx.KeyAuditCount, p.UserID)).Err(); err != nil {
		return err
	}
	return rc.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
}
