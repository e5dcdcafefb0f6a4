// Package export renders wallet statements for the outside world.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/sversluys/walleto/internal/wallet"
)

// Service writes CSV statements and monthly summaries for a wallet.
type Service struct {
	wallets *wallet.Service
}

func NewService(wallets *wallet.Service) *Service {
	return &Service{wallets: wallets}
}

var statementHeader = []string{
	"due_date", "name", "type", "amount", "status", "accomplish_date", "kind",
}

// WriteStatement writes the wallet's movements as CSV, chronologically. A
// non-nil month restricts the statement to movements due in that month.
// Inactive movements never appear; a statement shows the ledger, not its
// tombstones.
func (s *Service) WriteStatement(ctx context.Context, out io.Writer, walletID uuid.UUID, month *wallet.YearMonth) error {
	w, err := s.wallets.GetWallet(ctx, walletID)
	if err != nil {
		return fmt.Errorf("loading wallet: %w", err)
	}

	cw := csv.NewWriter(out)

	if err := cw.Write(statementHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, m := range w.Movements() {
		if !m.Active() {
			continue
		}

		if month != nil && !month.Contains(m.DueDate()) {
			continue
		}

		status := "pending"
		accomplishDate := ""

		if m.Accomplished() {
			status = "accomplished"

			if d, ok := m.AccomplishDate(); ok {
				accomplishDate = d.Format(time.DateOnly)
			}
		}

		kind := "common"
		switch {
		case m.IsRecurrent():
			kind = "recurrent"
		case m.IsInstallment():
			kind = "installment"
		}

		record := []string{
			m.DueDate().Format(time.DateOnly),
			m.Name(),
			string(m.Type()),
			m.Amount().StringFixed(2),
			status,
			accomplishDate,
			kind,
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing movement %s: %w", m.ID(), err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// WriteMonthlySummary writes one month of cash flow as CSV: realized and
// planned inflow, outflow and net.
func (s *Service) WriteMonthlySummary(ctx context.Context, out io.Writer, walletID uuid.UUID, month wallet.YearMonth) error {
	summary, err := s.wallets.MonthlyCashFlow(ctx, walletID, month)
	if err != nil {
		return fmt.Errorf("summarizing month: %w", err)
	}

	cw := csv.NewWriter(out)

	rows := [][]string{
		{"month", "inflow", "outflow", "net", "expected_inflow", "expected_outflow", "expected_net"},
		{
			month.String(),
			summary.Inflow.StringFixed(2),
			summary.Outflow.StringFixed(2),
			summary.Net.StringFixed(2),
			summary.ExpectedInflow.StringFixed(2),
			summary.ExpectedOutflow.StringFixed(2),
			summary.ExpectedNet.StringFixed(2),
		},
	}

	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
	}

	cw.Flush()

	return cw.Error()
}
