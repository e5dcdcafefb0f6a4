package export

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sversluys/walleto/internal/export"
	"github.com/sversluys/walleto/internal/wallet"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/{walletID}", h.statement)
	r.Get("/{walletID}/summary", h.summary)
}

// statement streams the wallet's movements as a CSV download, optionally
// restricted to one month.
func (h *Handler) statement(w http.ResponseWriter, r *http.Request) {
	walletID, err := uuid.Parse(chi.URLParam(r, "walletID"))
	if err != nil {
		http.Error(w, "invalid wallet id", http.StatusBadRequest)
		return
	}

	var month *wallet.YearMonth

	if s := r.URL.Query().Get("month"); s != "" {
		ym, err := wallet.ParseYearMonth(s)
		if err != nil {
			http.Error(w, "invalid month", http.StatusBadRequest)
			return
		}

		month = &ym
	}

	filename := fmt.Sprintf("statement-%s.csv", walletID)
	if month != nil {
		filename = fmt.Sprintf("statement-%s-%s.csv", walletID, month)
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.svc.WriteStatement(r.Context(), w, walletID, month); err != nil {
		if errors.Is(err, wallet.ErrNotFound) {
			http.Error(w, "wallet not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// summary streams one month of cash flow as CSV.
func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	walletID, err := uuid.Parse(chi.URLParam(r, "walletID"))
	if err != nil {
		http.Error(w, "invalid wallet id", http.StatusBadRequest)
		return
	}

	ym, err := wallet.ParseYearMonth(r.URL.Query().Get("month"))
	if err != nil {
		http.Error(w, "invalid month", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/csv")

	if err := h.svc.WriteMonthlySummary(r.Context(), w, walletID, ym); err != nil {
		if errors.Is(err, wallet.ErrNotFound) {
			http.Error(w, "wallet not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
