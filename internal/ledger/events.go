package ledger

import (
	"encoding/json"
	"time"
)

const (
	EventTransactionRecorded = "TransactionRecorded"

	TopicTransactionRecorded = "ledger.transaction.recorded"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // transaction id
	Payload       json.RawMessage `json:"payload"`
}

type TransactionRecordedPayload struct {
	TransactionID   string `json:"transaction_id"`
	ItemID          string `json:"item_id"`
	UserID          string `json:"user_id"`
	Kind            string `json:"kind"`
	Quantity        int    `json:"quantity"`
	TotalAmount     string `json:"total_amount"`
	InventoryBefore int    `json:"inventory_before"`
	InventoryAfter  int    `json:"inventory_after"`
}

// Partition key = item_id, so all events for one item keep their order.
func PartitionKey(itemID string) []byte { return []byte(itemID) }
