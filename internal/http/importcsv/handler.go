// Package importcsv accepts bank statement uploads and admits the parsed
// rows as planned movements.
package importcsv

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sversluys/walleto/internal/importer"
	"github.com/sversluys/walleto/internal/wallet"
)

// maxUploadSize bounds statement uploads; bank exports are tiny.
const maxUploadSize = 10 << 20

type Handler struct {
	imports *importer.Service
	wallets *wallet.Service
}

func NewHandler(imports *importer.Service, wallets *wallet.Service) *Handler {
	return &Handler{imports: imports, wallets: wallets}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/{walletID}", h.importStatement)
}

type importResponse struct {
	Imported int         `json:"imported"`
	Skipped  int         `json:"skipped"`
	IDs      []uuid.UUID `json:"ids"`
}

// importStatement parses the uploaded statement and adds each row to the
// wallet as a pending movement. The statement carries no ledger references,
// so payee, category and form of payment come from form fields and apply to
// every row. Rows the wallet rejects (duplicates, unaccepted form of
// payment) are counted, not fatal.
func (h *Handler) importStatement(w http.ResponseWriter, r *http.Request) {
	walletID, err := uuid.Parse(chi.URLParam(r, "walletID"))
	if err != nil {
		http.Error(w, "invalid wallet id", http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	payee, err := uuid.Parse(r.FormValue("payee"))
	if err != nil {
		http.Error(w, "invalid payee id", http.StatusBadRequest)
		return
	}

	category, err := uuid.Parse(r.FormValue("category"))
	if err != nil {
		http.Error(w, "invalid category id", http.StatusBadRequest)
		return
	}

	paymentMethod, err := uuid.Parse(r.FormValue("payment_method"))
	if err != nil {
		http.Error(w, "invalid form of payment id", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("statement")
	if err != nil {
		http.Error(w, "missing statement file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	rows, err := h.imports.Parse(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	resp := importResponse{IDs: make([]uuid.UUID, 0, len(rows))}

	for _, params := range rows {
		params.Payee = payee
		params.Category = category
		params.PaymentMethod = paymentMethod

		added, err := h.wallets.AddMovement(r.Context(), walletID, params)
		if err != nil {
			slog.Warn("skipping statement row", "wallet", walletID, "name", params.Name, "error", err)
			resp.Skipped++

			continue
		}

		resp.Imported++
		resp.IDs = append(resp.IDs, added.ID())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
