package wallet

import (
	"time"

	"github.com/google/uuid"

	"github.com/sversluys/walleto/internal/movement"
	"github.com/sversluys/walleto/internal/wallet"
)

type attachmentResponse struct {
	Name string `json:"name,omitempty"`
	URI  string `json:"uri"`
}

type movementResponse struct {
	ID             uuid.UUID            `json:"id"`
	Name           string               `json:"name"`
	Description    string               `json:"description,omitempty"`
	Amount         string               `json:"amount"`
	DueDate        string               `json:"due_date"`
	PaymentMethod  uuid.UUID            `json:"payment_method"`
	Payee          uuid.UUID            `json:"payee"`
	Category       uuid.UUID            `json:"category"`
	Type           movement.Type        `json:"type"`
	Frequency      movement.Frequency   `json:"frequency"`
	GroupID        uuid.UUID            `json:"group_id"`
	Kind           string               `json:"kind"`
	Active         bool                 `json:"active"`
	Accomplished   bool                 `json:"accomplished"`
	AccomplishDate string               `json:"accomplish_date,omitempty"`
	Attachments    []attachmentResponse `json:"attachments,omitempty"`
}

func toMovementResponse(m *movement.Movement) movementResponse {
	resp := movementResponse{
		ID:            m.ID(),
		Name:          m.Name(),
		Description:   m.Description(),
		Amount:        m.Amount().String(),
		DueDate:       m.DueDate().Format(time.DateOnly),
		PaymentMethod: m.PaymentMethod(),
		Payee:         m.Payee(),
		Category:      m.Category(),
		Type:          m.Type(),
		Frequency:     m.Frequency(),
		GroupID:       m.GroupID(),
		Active:        m.Active(),
		Accomplished:  m.Accomplished(),
	}

	switch {
	case m.IsRecurrent():
		resp.Kind = "recurrent"
	case m.IsInstallment():
		resp.Kind = "installment"
	default:
		resp.Kind = "common"
	}

	if d, ok := m.AccomplishDate(); ok {
		resp.AccomplishDate = d.Format(time.DateOnly)
	}

	for _, a := range m.Attachments() {
		resp.Attachments = append(resp.Attachments, attachmentResponse{Name: a.Name, URI: a.URI})
	}

	return resp
}

func toMovementResponseList(ms []*movement.Movement) []movementResponse {
	out := make([]movementResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, toMovementResponse(m))
	}

	return out
}

type walletResponse struct {
	ID             uuid.UUID   `json:"id"`
	Name           string      `json:"name"`
	Description    string      `json:"description,omitempty"`
	Currency       string      `json:"currency"`
	PaymentMethods []uuid.UUID `json:"payment_methods"`
}

func toWalletResponse(w *wallet.Wallet) walletResponse {
	return walletResponse{
		ID:             w.ID(),
		Name:           w.Name(),
		Description:    w.Description(),
		Currency:       w.Currency(),
		PaymentMethods: w.PaymentMethods(),
	}
}

func toWalletResponseList(ws []*wallet.Wallet) []walletResponse {
	out := make([]walletResponse, 0, len(ws))
	for _, w := range ws {
		out = append(out, toWalletResponse(w))
	}

	return out
}

type balancesResponse struct {
	Date     string `json:"date"`
	Actual   string `json:"actual"`
	Expected string `json:"expected"`
}

func toBalancesResponse(b wallet.Balances) balancesResponse {
	return balancesResponse{
		Date:     b.Date.Format(time.DateOnly),
		Actual:   b.Actual.String(),
		Expected: b.Expected.String(),
	}
}

type cashFlowResponse struct {
	Month           string `json:"month"`
	Inflow          string `json:"inflow"`
	Outflow         string `json:"outflow"`
	Net             string `json:"net"`
	ExpectedInflow  string `json:"expected_inflow"`
	ExpectedOutflow string `json:"expected_outflow"`
	ExpectedNet     string `json:"expected_net"`
}

func toCashFlowResponse(s wallet.CashFlowSummary) cashFlowResponse {
	return cashFlowResponse{
		Month:           s.Month.String(),
		Inflow:          s.Inflow.String(),
		Outflow:         s.Outflow.String(),
		Net:             s.Net.String(),
		ExpectedInflow:  s.ExpectedInflow.String(),
		ExpectedOutflow: s.ExpectedOutflow.String(),
		ExpectedNet:     s.ExpectedNet.String(),
	}
}
