package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/invtrack/go-inventory-ledger/internal/inventory"
	kafkax "github.com/invtrack/go-inventory-ledger/internal/kafka"
	"github.com/invtrack/go-inventory-ledger/internal/ledger"
)

type TransactionsHandler struct {
	Processor *ledger.Processor
	Store     *ledger.PGStore
	Items     *inventory.Service
	Producer  *kafkax.Producer
	Sessions  *Sessions
	Service   string
}

type createTransactionReq struct {
	ItemID       string          `json:"item_id"`
	Type         string          `json:"type"`
	Quantity     int             `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	Notes        string          `json:"notes"`
}

func (h *TransactionsHandler) Register(r *chi.Mux) {
	r.Route("/api/transactions", func(r chi.Router) {
		r.Use(h.Sessions.Middleware)
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/summary", h.summary)
		r.Get("/item/{itemId}", h.listByItem)
	})
}

func (h *TransactionsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ItemID == "" {
		writeError(w, http.StatusBadRequest, "item_id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user := UserFrom(r.Context())
	kind := ledger.Kind(strings.ToUpper(req.Type))

	rec, err := h.Processor.Process(ctx, req.ItemID, user.ID, kind, req.Quantity, req.PricePerUnit, req.Notes)
	if err != nil {
		var (
			vErr    *ledger.ValidationError
			insErr  *ledger.InsufficientInventoryError
			kindErr *ledger.InvalidKindError
		)
		switch {
		case errors.Is(err, ledger.ErrNotFound):
			writeError(w, http.StatusNotFound, "not found")
		case errors.As(err, &vErr), errors.As(err, &insErr), errors.As(err, &kindErr):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	h.publishRecorded(r, rec)
	writeJSON(w, http.StatusOK, rec)
}

// publishRecorded emits the audit event after the transaction committed.
// Delivery is best effort; the database row is the source of truth.
func (h *TransactionsHandler) publishRecorded(r *http.Request, rec *ledger.Transaction) {
	if h.Producer == nil {
		return
	}
	ev := ledger.Envelope{
		EventID:       uuid.NewString(),
		EventType:     ledger.EventTransactionRecorded,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: rec.ID,
		Payload: kafkax.MustMarshal(ledger.TransactionRecordedPayload{
			TransactionID:   rec.ID,
			ItemID:          rec.ItemID,
			UserID:          rec.UserID,
			Kind:            string(rec.Kind),
			Quantity:        rec.Quantity,
			TotalAmount:     rec.TotalAmount.String(),
			InventoryBefore: rec.InventoryBefore,
			InventoryAfter:  rec.InventoryAfter,
		}),
	}
	h.Producer.Publish(ledger.PartitionKey(rec.ItemID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(ledger.EventTransactionRecorded)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (h *TransactionsHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	txs, err := h.Store.ListByUser(ctx, UserFrom(r.Context()).ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if txs == nil {
		txs = []ledger.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (h *TransactionsHandler) listByItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	user := UserFrom(r.Context())
	itemID := chi.URLParam(r, "itemId")

	// Ownership gate: a foreign item behaves exactly like a missing one.
	if _, err := h.Items.Get(ctx, itemID, user.ID); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	txs, err := h.Store.ListByItem(ctx, itemID, user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if txs == nil {
		txs = []ledger.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (h *TransactionsHandler) summary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	sum, err := h.Store.Summarize(ctx, UserFrom(r.Context()).ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
