package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sversluys/walleto/internal/movement"
	"github.com/sversluys/walleto/internal/operation"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=wallet
type Repository interface {
	CreateWallet(ctx context.Context, w *Wallet) error
	GetWallet(ctx context.Context, id uuid.UUID) (*Wallet, error)
	SaveWallet(ctx context.Context, w *Wallet) error
	ListWallets(ctx context.Context) ([]*Wallet, error)
	DeleteWallet(ctx context.Context, id uuid.UUID) error
}

// Service orchestrates wallet aggregates over a repository: load the whole
// aggregate, run one operation on it, save it back. Aggregates cross the
// repository boundary complete; there is no partial-field patching.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateParams carries the fields of a new wallet.
type CreateParams struct {
	Name           string
	Description    string
	Currency       string
	PaymentMethods []uuid.UUID
}

// UpdateWalletParams carries optional wallet field changes; nil means keep.
type UpdateWalletParams struct {
	Name        *string
	Description *string
}

// UpdateMovementParams carries optional movement field changes; nil means
// keep. Attachments are added, never removed.
type UpdateMovementParams struct {
	Name          *string
	Description   *string
	Amount        *decimal.Decimal
	Type          *movement.Type
	PaymentMethod *uuid.UUID
	Payee         *uuid.UUID
	Category      *uuid.UUID
	Attachments   []operation.Attachment
}

// Balances pairs the realized and planned running balance at a date.
type Balances struct {
	Date     time.Time
	Actual   decimal.Decimal
	Expected decimal.Decimal
}

// CashFlowSummary aggregates one month of flows, realized and planned.
type CashFlowSummary struct {
	Month           YearMonth
	Inflow          decimal.Decimal
	Outflow         decimal.Decimal
	Net             decimal.Decimal
	ExpectedInflow  decimal.Decimal
	ExpectedOutflow decimal.Decimal
	ExpectedNet     decimal.Decimal
}

func (s *Service) CreateWallet(ctx context.Context, params CreateParams) (*Wallet, error) {
	w, err := New(params.Name, params.Description, params.Currency, params.PaymentMethods)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateWallet(ctx, w); err != nil {
		return nil, fmt.Errorf("creating wallet: %w", err)
	}

	return w, nil
}

func (s *Service) GetWallet(ctx context.Context, id uuid.UUID) (*Wallet, error) {
	return s.repo.GetWallet(ctx, id)
}

func (s *Service) ListWallets(ctx context.Context) ([]*Wallet, error) {
	return s.repo.ListWallets(ctx)
}

func (s *Service) DeleteWallet(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteWallet(ctx, id)
}

func (s *Service) UpdateWallet(ctx context.Context, id uuid.UUID, params UpdateWalletParams) (*Wallet, error) {
	w, err := s.repo.GetWallet(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		if err := w.Rename(*params.Name); err != nil {
			return nil, err
		}
	}

	if params.Description != nil {
		if err := w.Redescribe(*params.Description); err != nil {
			return nil, err
		}
	}

	if err := s.repo.SaveWallet(ctx, w); err != nil {
		return nil, fmt.Errorf("saving wallet: %w", err)
	}

	return w, nil
}

func (s *Service) AddPaymentMethod(ctx context.Context, walletID, paymentMethod uuid.UUID) error {
	return s.mutate(ctx, walletID, func(w *Wallet) error {
		return w.AddPaymentMethod(paymentMethod)
	})
}

func (s *Service) RemovePaymentMethod(ctx context.Context, walletID, paymentMethod uuid.UUID) error {
	return s.mutate(ctx, walletID, func(w *Wallet) error {
		return w.RemovePaymentMethod(paymentMethod)
	})
}

// AddMovement builds a movement from the params and admits it to the wallet.
func (s *Service) AddMovement(ctx context.Context, walletID uuid.UUID, params movement.Params) (*movement.Movement, error) {
	m, err := movement.New(params)
	if err != nil {
		return nil, err
	}

	if err := s.mutate(ctx, walletID, func(w *Wallet) error {
		return w.AddMovement(m)
	}); err != nil {
		return nil, err
	}

	return m, nil
}

// AddInstallment builds the seed of an installment series and admits the
// whole series. The params' frequency and group id are overridden: each
// occurrence carries frequency NONE and a shared, fresh group id.
func (s *Service) AddInstallment(ctx context.Context, walletID uuid.UUID, params movement.Params, freq movement.Frequency, count int) (*movement.Movement, error) {
	params.Frequency = movement.FrequencyNone
	params.GroupID = uuid.New()

	seed, err := movement.New(params)
	if err != nil {
		return nil, err
	}

	if err := s.mutate(ctx, walletID, func(w *Wallet) error {
		return w.AddInstallment(seed, freq, count)
	}); err != nil {
		return nil, err
	}

	return seed, nil
}

func (s *Service) RemoveMovement(ctx context.Context, walletID, movementID uuid.UUID) error {
	return s.mutate(ctx, walletID, func(w *Wallet) error {
		m, err := w.Movement(movementID)
		if err != nil {
			return err
		}

		return w.RemoveMovement(m)
	})
}

func (s *Service) RemoveInstallment(ctx context.Context, walletID, movementID uuid.UUID, mode HandlingMode) error {
	return s.mutate(ctx, walletID, func(w *Wallet) error {
		m, err := w.Movement(movementID)
		if err != nil {
			return err
		}

		return w.RemoveInstallment(m, mode)
	})
}

// ConfirmMovement realizes a pending movement. A zero date means today;
// the wallet core itself never reads the clock.
func (s *Service) ConfirmMovement(ctx context.Context, walletID, movementID uuid.UUID, date time.Time) (*movement.Movement, error) {
	if date.IsZero() {
		date = time.Now()
	}

	var confirmed *movement.Movement

	err := s.mutate(ctx, walletID, func(w *Wallet) error {
		m, err := w.Movement(movementID)
		if err != nil {
			return err
		}

		if err := w.ConfirmMovement(m, date); err != nil {
			return err
		}

		confirmed, err = w.Movement(movementID)

		return err
	})
	if err != nil {
		return nil, err
	}

	return confirmed, nil
}

func (s *Service) UpdateMovement(ctx context.Context, walletID, movementID uuid.UUID, params UpdateMovementParams) (*movement.Movement, error) {
	var updated *movement.Movement

	err := s.mutate(ctx, walletID, func(w *Wallet) error {
		m, err := w.Movement(movementID)
		if err != nil {
			return err
		}

		if err := applyMovementParams(m, params); err != nil {
			return err
		}

		if err := w.UpdateMovement(m); err != nil {
			return err
		}

		updated, err = w.Movement(movementID)

		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *Service) UpdateInstallment(ctx context.Context, walletID, movementID uuid.UUID, mode HandlingMode, params UpdateMovementParams) error {
	return s.mutate(ctx, walletID, func(w *Wallet) error {
		m, err := w.Movement(movementID)
		if err != nil {
			return err
		}

		if err := applyMovementParams(m, params); err != nil {
			return err
		}

		return w.UpdateInstallment(m, mode)
	})
}

func (s *Service) Movements(ctx context.Context, walletID uuid.UUID) ([]*movement.Movement, error) {
	w, err := s.repo.GetWallet(ctx, walletID)
	if err != nil {
		return nil, err
	}

	return w.Movements(), nil
}

// BalancesOn reports the realized and planned running balance at a date.
// A zero date means today.
func (s *Service) BalancesOn(ctx context.Context, walletID uuid.UUID, date time.Time) (Balances, error) {
	if date.IsZero() {
		date = time.Now()
	}

	w, err := s.repo.GetWallet(ctx, walletID)
	if err != nil {
		return Balances{}, err
	}

	return Balances{
		Date:     operation.DateOf(date),
		Actual:   w.BalanceOn(date),
		Expected: w.ExpectedBalanceOn(date),
	}, nil
}

// MonthlyCashFlow reports one month of realized and planned flows.
func (s *Service) MonthlyCashFlow(ctx context.Context, walletID uuid.UUID, ym YearMonth) (CashFlowSummary, error) {
	w, err := s.repo.GetWallet(ctx, walletID)
	if err != nil {
		return CashFlowSummary{}, err
	}

	return CashFlowSummary{
		Month:           ym,
		Inflow:          w.CashInflow(ym),
		Outflow:         w.CashOutflow(ym),
		Net:             w.CashFlow(ym),
		ExpectedInflow:  w.CashInflowExpected(ym),
		ExpectedOutflow: w.CashOutflowExpected(ym),
		ExpectedNet:     w.CashFlowExpected(ym),
	}, nil
}

// mutate loads the aggregate, applies fn and saves it back. The save is
// skipped when fn fails, so a precondition violation never reaches storage.
func (s *Service) mutate(ctx context.Context, walletID uuid.UUID, fn func(*Wallet) error) error {
	w, err := s.repo.GetWallet(ctx, walletID)
	if err != nil {
		return err
	}

	if err := fn(w); err != nil {
		return err
	}

	if err := s.repo.SaveWallet(ctx, w); err != nil {
		return fmt.Errorf("saving wallet: %w", err)
	}

	return nil
}

func applyMovementParams(m *movement.Movement, p UpdateMovementParams) error {
	if p.Name != nil {
		if err := m.UpdateName(*p.Name); err != nil {
			return err
		}
	}

	if p.Description != nil {
		if err := m.UpdateDescription(*p.Description); err != nil {
			return err
		}
	}

	if p.Type != nil {
		if err := m.UpdateType(*p.Type); err != nil {
			return err
		}
	}

	if p.Amount != nil {
		if err := m.UpdateAmount(*p.Amount); err != nil {
			return err
		}
	}

	if p.PaymentMethod != nil {
		if err := m.UpdatePaymentMethod(*p.PaymentMethod); err != nil {
			return err
		}
	}

	if p.Payee != nil {
		if err := m.UpdatePayee(*p.Payee); err != nil {
			return err
		}
	}

	if p.Category != nil {
		if err := m.UpdateCategory(*p.Category); err != nil {
			return err
		}
	}

	for _, a := range p.Attachments {
		if err := m.AddAttachment(a); err != nil {
			return err
		}
	}

	return nil
}
