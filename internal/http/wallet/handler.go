// Package wallet exposes the wallet service over HTTP. Handlers translate
// requests into service calls and the core's error kinds into status codes;
// no business rule lives here.
package wallet

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sversluys/walleto/internal/movement"
	"github.com/sversluys/walleto/internal/operation"
	"github.com/sversluys/walleto/internal/wallet"
)

type Handler struct {
	svc *wallet.Service
}

func NewHandler(svc *wallet.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)

	r.Post("/{id}/payment-methods", h.addPaymentMethod)
	r.Delete("/{id}/payment-methods/{pm}", h.removePaymentMethod)

	r.Get("/{id}/movements", h.listMovements)
	r.Post("/{id}/movements", h.addMovement)
	r.Post("/{id}/installments", h.addInstallment)
	r.Patch("/{id}/movements/{movementID}", h.updateMovement)
	r.Delete("/{id}/movements/{movementID}", h.removeMovement)
	r.Post("/{id}/movements/{movementID}/confirm", h.confirmMovement)

	r.Get("/{id}/balance", h.balance)
	r.Get("/{id}/cashflow", h.cashFlow)
}

// writeError maps the core's error taxonomy onto HTTP: absent/invalid fields
// and broken business rules are 422, lifecycle and structural conflicts are
// 409, unknown ids are 404.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, wallet.ErrNotFound),
		errors.Is(err, wallet.ErrMovementNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, wallet.ErrInactiveMovement),
		errors.Is(err, wallet.ErrMovementExcluded),
		errors.Is(err, wallet.ErrAlreadyAccomplished),
		errors.Is(err, wallet.ErrMovementExists),
		errors.Is(err, wallet.ErrInstallmentForbidden),
		errors.Is(err, wallet.ErrNotAnInstallment),
		errors.Is(err, wallet.ErrHandlingModeRequired),
		errors.Is(err, wallet.ErrUnknownHandlingMode):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, operation.ErrNilArgument),
		errors.Is(err, operation.ErrNameSize),
		errors.Is(err, operation.ErrDescriptionSize),
		errors.Is(err, operation.ErrZeroAmount),
		errors.Is(err, wallet.ErrInstallmentQuantity),
		errors.Is(err, wallet.ErrPaymentMethodNotAccepted),
		errors.Is(err, wallet.ErrInsufficientFunds),
		errors.Is(err, wallet.ErrLastPaymentMethod):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func walletID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

type createWalletRequest struct {
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	Currency       string      `json:"currency"`
	PaymentMethods []uuid.UUID `json:"payment_methods"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.svc.CreateWallet(r.Context(), wallet.CreateParams{
		Name:           req.Name,
		Description:    req.Description,
		Currency:       req.Currency,
		PaymentMethods: req.PaymentMethods,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toWalletResponse(created))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	wallets, err := h.svc.ListWallets(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toWalletResponseList(wallets))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := walletID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	found, err := h.svc.GetWallet(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toWalletResponse(found))
}

type updateWalletRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := walletID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.svc.UpdateWallet(r.Context(), id, wallet.UpdateWalletParams{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toWalletResponse(updated))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := walletID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteWallet(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type paymentMethodRequest struct {
	PaymentMethod uuid.UUID `json:"payment_method"`
}

func (h *Handler) addPaymentMethod(w http.ResponseWriter, r *http.Request) {
	id, err := walletID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req paymentMethodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.AddPaymentMethod(r.Context(), id, req.PaymentMethod); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) removePaymentMethod(w http.ResponseWriter, r *http.Request) {
	id, err := walletID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	pm, err := uuid.Parse(chi.URLParam(r, "pm"))
	if err != nil {
		http.Error(w, "invalid form of payment id", http.StatusBadRequest)
		return
	}

	if err := h.svc.RemovePaymentMethod(r.Context(), id, pm); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listMovements(w http.ResponseWriter, r *http.Request) {
	id, err := walletID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	movements, err := h.svc.Movements(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMovementResponseList(movements))
}

type movementRequest struct {
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	Amount        decimal.Decimal      `json:"amount"`
	DueDate       string               `json:"due_date"`
	PaymentMethod uuid.UUID            `json:"payment_method"`
	Payee         uuid.UUID            `json:"payee"`
	Category      uuid.UUID            `json:"category"`
	Type          movement.Type        `json:"type"`
	Frequency     movement.Frequency   `json:"frequency"`
	Attachments   []attachmentResponse `json:"attachments"`
}

func (req movementRequest) toParams() (movement.Params, error) {
	var due time.Time

	if req.DueDate != "" {
		var err error

		due, err = time.Parse(time.DateOnly, req.DueDate)
		if err != nil {
			return movement.Params{}, err
		}
	}

	params := movement.Params{
		Name:          req.Name,
		Description:   req.Description,
		Amount:        req.Amount,
		DueDate:       due,
		PaymentMethod: req.PaymentMethod,
		Payee:         req.Payee,
		Category:      req.Category,
		Type:          req.Type,
		Frequency:     req.Frequency,
	}

	for _, a := range req.Attachments {
		params.Attachments = append(params.Attachments, operation.Attachment{Name: a.Name, URI: a.URI})
	}

	return params, nil
}

func (h *Handler) addMovement(w http.ResponseWriter, r *http.Request) {
	id, err := walletID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req movementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params, err := req.toParams()
	if err != nil {
		http.Error(w, "invalid due date", http.StatusBadRequest)
		return
	}

	added, err := h.svc.AddMovement(r.Context(), id, params)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMovementResponse(added))
}

type installmentRequest struct {
	movementRequest

	InstallmentFrequency movement.Frequency `json:"installment_frequency"`
	Count                int                `json:"count"`
}

func (h *Handler) addInstallment(w http.ResponseWriter, r *http.Request) {
	id, err := walletID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req installmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params, err := req.toParams()
	if err != nil {
		http.Error(w, "invalid due date", http.StatusBadRequest)
		return
	}

	seed, err := h.svc.AddInstallment(r.Context(), id, params, req.InstallmentFrequency, req.Count)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMovementResponse(seed))
}

type updateMovementRequest struct {
	Name          *string              `json:"name"`
	Description   *string              `json:"description"`
	Amount        *decimal.Decimal     `json:"amount"`
	Type          *movement.Type       `json:"type"`
	PaymentMethod *uuid.UUID           `json:"payment_method"`
	Payee         *uuid.UUID           `json:"payee"`
	Category      *uuid.UUID           `json:"category"`
	Attachments   []attachmentResponse `json:"attachments"`
}

func (req updateMovementRequest) toParams() wallet.UpdateMovementParams {
	params := wallet.UpdateMovementParams{
		Name:          req.Name,
		Description:   req.Description,
		Amount:        req.Amount,
		Type:          req.Type,
		PaymentMethod: req.PaymentMethod,
		Payee:         req.Payee,
		Category:      req.Category,
	}

	for _, a := range req.Attachments {
		params.Attachments = append(params.Attachments, operation.Attachment{Name: a.Name, URI: a.URI})
	}

	return params
}

func (h *Handler) updateMovement(w http.ResponseWriter, r *http.Request) {
	id, movementID, ok := h.movementIDs(w, r)
	if !ok {
		return
	}

	var req updateMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// An installment update must say which siblings it reaches.
	if mode := r.URL.Query().Get("mode"); mode != "" {
		if err := h.svc.UpdateInstallment(r.Context(), id, movementID, wallet.HandlingMode(mode), req.toParams()); err != nil {
			writeError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)

		return
	}

	updated, err := h.svc.UpdateMovement(r.Context(), id, movementID, req.toParams())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMovementResponse(updated))
}

func (h *Handler) removeMovement(w http.ResponseWriter, r *http.Request) {
	id, movementID, ok := h.movementIDs(w, r)
	if !ok {
		return
	}

	if mode := r.URL.Query().Get("mode"); mode != "" {
		if err := h.svc.RemoveInstallment(r.Context(), id, movementID, wallet.HandlingMode(mode)); err != nil {
			writeError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)

		return
	}

	if err := h.svc.RemoveMovement(r.Context(), id, movementID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type confirmRequest struct {
	Date string `json:"date"`
}

func (h *Handler) confirmMovement(w http.ResponseWriter, r *http.Request) {
	id, movementID, ok := h.movementIDs(w, r)
	if !ok {
		return
	}

	// The body is optional; an empty confirm means "today".
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var date time.Time

	if req.Date != "" {
		var err error

		date, err = time.Parse(time.DateOnly, req.Date)
		if err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}
	}

	confirmed, err := h.svc.ConfirmMovement(r.Context(), id, movementID, date)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMovementResponse(confirmed))
}

func (h *Handler) balance(w http.ResponseWriter, r *http.Request) {
	id, err := walletID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var date time.Time

	if s := r.URL.Query().Get("date"); s != "" {
		date, err = time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}
	}

	balances, err := h.svc.BalancesOn(r.Context(), id, date)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toBalancesResponse(balances))
}

func (h *Handler) cashFlow(w http.ResponseWriter, r *http.Request) {
	id, err := walletID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	month := r.URL.Query().Get("month")
	if month == "" {
		http.Error(w, "month is required", http.StatusBadRequest)
		return
	}

	ym, err := wallet.ParseYearMonth(month)
	if err != nil {
		http.Error(w, "invalid month", http.StatusBadRequest)
		return
	}

	summary, err := h.svc.MonthlyCashFlow(r.Context(), id, ym)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCashFlowResponse(summary))
}

func (h *Handler) movementIDs(w http.ResponseWriter, r *http.Request) (walletID, movementID uuid.UUID, ok bool) {
	walletID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return uuid.Nil, uuid.Nil, false
	}

	movementID, err = uuid.Parse(chi.URLParam(r, "movementID"))
	if err != nil {
		http.Error(w, "invalid movement id", http.StatusBadRequest)
		return uuid.Nil, uuid.Nil, false
	}

	return walletID, movementID, true
}
