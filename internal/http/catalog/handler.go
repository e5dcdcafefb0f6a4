package catalog

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sversluys/walleto/internal/catalog"
	"github.com/sversluys/walleto/internal/operation"
)

type Handler struct {
	svc *catalog.Service
}

func NewHandler(svc *catalog.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/{kind}", h.create)
	r.Get("/{kind}", h.list)
	r.Delete("/{kind}/{id}", h.delete)
}

// kindFromURL maps the route segment onto a catalog kind.
func kindFromURL(r *http.Request) (catalog.Kind, bool) {
	switch chi.URLParam(r, "kind") {
	case "payees":
		return catalog.KindPayee, true
	case "categories":
		return catalog.KindCategory, true
	case "forms-of-payment":
		return catalog.KindFormOfPayment, true
	}

	return "", false
}

type entryResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type createEntryRequest struct {
	Name string `json:"name"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindFromURL(r)
	if !ok {
		http.Error(w, "unknown catalog kind", http.StatusNotFound)
		return
	}

	var req createEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entry, err := h.svc.Create(r.Context(), kind, req.Name)
	if err != nil {
		if errors.Is(err, operation.ErrNameSize) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(entryResponse{ID: entry.ID, Name: entry.Name}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindFromURL(r)
	if !ok {
		http.Error(w, "unknown catalog kind", http.StatusNotFound)
		return
	}

	entries, err := h.svc.List(r.Context(), kind)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryResponse{ID: e.ID, Name: e.Name})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(out); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindFromURL(r)
	if !ok {
		http.Error(w, "unknown catalog kind", http.StatusNotFound)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), kind, id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			http.Error(w, "entry not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
