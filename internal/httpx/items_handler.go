package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/invtrack/go-inventory-ledger/internal/inventory"
	"github.com/invtrack/go-inventory-ledger/internal/ledger"
)

type ItemsHandler struct {
	Service  *inventory.Service
	Sessions *Sessions
}

func (h *ItemsHandler) Register(r *chi.Mux) {
	r.Route("/api/items", func(r chi.Router) {
		r.Use(h.Sessions.Middleware)
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func (h *ItemsHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	items, err := h.Service.List(ctx, UserFrom(r.Context()).ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if items == nil {
		items = []ledger.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ItemsHandler) create(w http.ResponseWriter, r *http.Request) {
	var in inventory.ItemInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.Service.Create(ctx, UserFrom(r.Context()).ID, in)
	if err != nil {
		var vErr *ledger.ValidationError
		if errors.As(err, &vErr) {
			writeError(w, http.StatusBadRequest, vErr.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *ItemsHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	item, err := h.Service.Get(ctx, chi.URLParam(r, "id"), UserFrom(r.Context()).ID)
	if errors.Is(err, ledger.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemsHandler) update(w http.ResponseWriter, r *http.Request) {
	var in inventory.ItemInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.Service.Update(ctx, chi.URLParam(r, "id"), UserFrom(r.Context()).ID, in)
	if err != nil {
		var vErr *ledger.ValidationError
		switch {
		case errors.Is(err, ledger.ErrNotFound):
			writeError(w, http.StatusNotFound, "not found")
		case errors.As(err, &vErr):
			writeError(w, http.StatusBadRequest, vErr.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemsHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Service.Delete(ctx, chi.URLParam(r, "id"), UserFrom(r.Context()).ID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
