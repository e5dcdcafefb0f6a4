package wallet

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sversluys/walleto/internal/movement"
	"github.com/sversluys/walleto/internal/operation"
)

// fold sums the amounts of every active stored movement satisfying the
// predicate. Inactive movements never count; every public query is an
// instance of this one primitive.
func (w *Wallet) fold(include func(*movement.Movement) bool) decimal.Decimal {
	total := decimal.Zero

	for _, m := range w.movements {
		if !m.Active() {
			continue
		}

		if include(m) {
			total = total.Add(m.Amount())
		}
	}

	return total
}

func accomplishedBy(m *movement.Movement, date time.Time) bool {
	d, ok := m.AccomplishDate()
	return ok && !d.After(date)
}

// BalanceOn is the realized running balance: the sum of accomplished
// movements confirmed on or before the date.
func (w *Wallet) BalanceOn(date time.Time) decimal.Decimal {
	ref := operation.DateOf(date)

	return w.fold(func(m *movement.Movement) bool {
		return m.Accomplished() && accomplishedBy(m, ref)
	})
}

// BalanceThroughMonth is the realized running balance at month granularity:
// the sum of accomplished movements confirmed in or before the month.
func (w *Wallet) BalanceThroughMonth(ym YearMonth) decimal.Decimal {
	return w.fold(func(m *movement.Movement) bool {
		if !m.Accomplished() {
			return false
		}

		d, ok := m.AccomplishDate()

		return ok && !YearMonthOf(d).After(ym)
	})
}

// ExpectedBalanceOn is the planned running balance: the sum of every active
// movement due on or before the date, confirmed or not.
func (w *Wallet) ExpectedBalanceOn(date time.Time) decimal.Decimal {
	ref := operation.DateOf(date)

	return w.fold(func(m *movement.Movement) bool {
		return !m.DueDate().After(ref)
	})
}

// ExpectedBalanceThroughMonth is the planned running balance at month
// granularity.
func (w *Wallet) ExpectedBalanceThroughMonth(ym YearMonth) decimal.Decimal {
	return w.fold(func(m *movement.Movement) bool {
		return !YearMonthOf(m.DueDate()).After(ym)
	})
}

// CashInflow is the realized credit flow of a month, keyed by accomplish
// date.
func (w *Wallet) CashInflow(ym YearMonth) decimal.Decimal {
	return w.fold(func(m *movement.Movement) bool {
		d, ok := m.AccomplishDate()

		return m.Accomplished() && ok && ym.Contains(d) && m.Type() == movement.TypeCredit
	})
}

// CashOutflow is the realized debit flow of a month, keyed by accomplish
// date.
func (w *Wallet) CashOutflow(ym YearMonth) decimal.Decimal {
	return w.fold(func(m *movement.Movement) bool {
		d, ok := m.AccomplishDate()

		return m.Accomplished() && ok && ym.Contains(d) && m.Type() == movement.TypeDebit
	})
}

// CashFlow is the realized net flow of a month.
func (w *Wallet) CashFlow(ym YearMonth) decimal.Decimal {
	return w.fold(func(m *movement.Movement) bool {
		d, ok := m.AccomplishDate()

		return m.Accomplished() && ok && ym.Contains(d)
	})
}

// CashInflowExpected is the planned credit flow of a month, keyed by due
// date and indifferent to accomplishment.
func (w *Wallet) CashInflowExpected(ym YearMonth) decimal.Decimal {
	return w.fold(func(m *movement.Movement) bool {
		return ym.Contains(m.DueDate()) && m.Type() == movement.TypeCredit
	})
}

// CashOutflowExpected is the planned debit flow of a month, keyed by due
// date and indifferent to accomplishment.
func (w *Wallet) CashOutflowExpected(ym YearMonth) decimal.Decimal {
	return w.fold(func(m *movement.Movement) bool {
		return ym.Contains(m.DueDate()) && m.Type() == movement.TypeDebit
	})
}

// CashFlowExpected is the planned net flow of a month.
func (w *Wallet) CashFlowExpected(ym YearMonth) decimal.Decimal {
	return w.fold(func(m *movement.Movement) bool {
		return ym.Contains(m.DueDate())
	})
}
