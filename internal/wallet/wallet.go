// Package wallet implements the aggregate that owns one pocket of money: it
// admits, confirms, updates and removes movements, generates installment
// series and recurrence successors, and answers balance and cash-flow
// queries. Callers never get a live reference into wallet state; every read
// returns a copy and every write stores a copy.
package wallet

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/sversluys/walleto/internal/movement"
	"github.com/sversluys/walleto/internal/operation"
)

// Wallet owns a movement set and the set of forms of payment it accepts.
// It is not safe for concurrent use; one caller at a time.
type Wallet struct {
	id             uuid.UUID
	name           string
	description    string
	currency       string
	paymentMethods map[uuid.UUID]struct{}
	movements      map[uuid.UUID]*movement.Movement
}

// New validates the fields and returns an empty wallet accepting the given
// forms of payment. At least one is required.
func New(name, description, currency string, paymentMethods []uuid.UUID) (*Wallet, error) {
	if err := operation.ValidateName(name); err != nil {
		return nil, err
	}

	if err := operation.ValidateDescription(description); err != nil {
		return nil, err
	}

	if currency == "" {
		return nil, fmt.Errorf("%w: currency", operation.ErrNilArgument)
	}

	accepted := make(map[uuid.UUID]struct{}, len(paymentMethods))

	for _, pm := range paymentMethods {
		if pm == uuid.Nil {
			return nil, fmt.Errorf("%w: form of payment", operation.ErrNilArgument)
		}

		accepted[pm] = struct{}{}
	}

	if len(accepted) == 0 {
		return nil, ErrLastPaymentMethod
	}

	return &Wallet{
		id:             uuid.New(),
		name:           name,
		description:    description,
		currency:       currency,
		paymentMethods: accepted,
		movements:      make(map[uuid.UUID]*movement.Movement),
	}, nil
}

func (w *Wallet) ID() uuid.UUID       { return w.id }
func (w *Wallet) Name() string        { return w.name }
func (w *Wallet) Description() string { return w.description }
func (w *Wallet) Currency() string    { return w.currency }

// AsPayee returns the wallet's own payee identity, used as the counterparty
// of wallet-to-wallet transfers.
func (w *Wallet) AsPayee() uuid.UUID { return w.id }

// Rename replaces the wallet name after validating it.
func (w *Wallet) Rename(name string) error {
	if err := operation.ValidateName(name); err != nil {
		return err
	}

	w.name = name

	return nil
}

// Redescribe replaces the wallet description after validating it.
func (w *Wallet) Redescribe(description string) error {
	if err := operation.ValidateDescription(description); err != nil {
		return err
	}

	w.description = description

	return nil
}

// Accepts reports whether the wallet currently accepts the form of payment.
func (w *Wallet) Accepts(paymentMethod uuid.UUID) bool {
	_, ok := w.paymentMethods[paymentMethod]
	return ok
}

// PaymentMethods returns the accepted forms of payment in stable order.
func (w *Wallet) PaymentMethods() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(w.paymentMethods))
	for pm := range w.paymentMethods {
		out = append(out, pm)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })

	return out
}

// AddPaymentMethod starts accepting a form of payment. Adding one already
// accepted is a no-op.
func (w *Wallet) AddPaymentMethod(paymentMethod uuid.UUID) error {
	if paymentMethod == uuid.Nil {
		return fmt.Errorf("%w: form of payment", operation.ErrNilArgument)
	}

	w.paymentMethods[paymentMethod] = struct{}{}

	return nil
}

// RemovePaymentMethod stops accepting a form of payment. The accepted set
// never becomes empty.
func (w *Wallet) RemovePaymentMethod(paymentMethod uuid.UUID) error {
	if !w.Accepts(paymentMethod) {
		return ErrPaymentMethodNotAccepted
	}

	if len(w.paymentMethods) == 1 {
		return ErrLastPaymentMethod
	}

	delete(w.paymentMethods, paymentMethod)

	return nil
}

// Movement returns a copy of the stored movement with the given id.
func (w *Wallet) Movement(id uuid.UUID) (*movement.Movement, error) {
	stored, ok := w.movements[id]
	if !ok {
		return nil, ErrMovementNotFound
	}

	return stored.Clone(), nil
}

// Movements returns copies of every stored movement in chronological order.
func (w *Wallet) Movements() []*movement.Movement {
	out := make([]*movement.Movement, 0, len(w.movements))
	for _, m := range w.movements {
		out = append(out, m.Clone())
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].DueDate().Equal(out[j].DueDate()) {
			return out[i].DueDate().Before(out[j].DueDate())
		}

		return out[i].ID().String() < out[j].ID().String()
	})

	return out
}

// AddMovement admits a pending common or recurrent movement. Installments go
// through AddInstallment so the whole series is generated together.
func (w *Wallet) AddMovement(m *movement.Movement) error {
	if m == nil {
		return fmt.Errorf("%w: movement", operation.ErrNilArgument)
	}

	if !m.Active() {
		return ErrInactiveMovement
	}

	if m.IsInstallment() {
		return ErrInstallmentForbidden
	}

	if m.Accomplished() {
		return ErrAlreadyAccomplished
	}

	if !w.Accepts(m.PaymentMethod()) {
		return ErrPaymentMethodNotAccepted
	}

	if stored, ok := w.movements[m.ID()]; ok {
		if stored.Active() {
			return ErrMovementExists
		}

		return ErrMovementExcluded
	}

	w.movements[m.ID()] = m.Clone()

	return nil
}

// AddInstallment admits the seed of an installment series and eagerly
// generates its count-1 remaining siblings, each one frequency step after
// the previous and all sharing the seed's group id.
func (w *Wallet) AddInstallment(seed *movement.Movement, freq movement.Frequency, count int) error {
	if seed == nil {
		return fmt.Errorf("%w: movement", operation.ErrNilArgument)
	}

	if !freq.Repeats() {
		return fmt.Errorf("%w: frequency", operation.ErrNilArgument)
	}

	if !seed.Active() {
		return ErrInactiveMovement
	}

	if stored, ok := w.movements[seed.ID()]; ok {
		if stored.Active() {
			return ErrMovementExists
		}

		return ErrMovementExcluded
	}

	if seed.Accomplished() {
		return ErrAlreadyAccomplished
	}

	if !seed.IsInstallment() {
		return ErrNotAnInstallment
	}

	if count < 2 {
		return ErrInstallmentQuantity
	}

	w.movements[seed.ID()] = seed.Clone()

	due := seed.DueDate()
	for i := 1; i < count; i++ {
		due = freq.Next(due)
		sib := seed.SiblingDue(due)
		w.movements[sib.ID()] = sib
	}

	return nil
}

// RemoveMovement soft-deletes a pending common or recurrent movement.
// Removal is terminal; the record stays, inactive, and its id can never be
// admitted again.
func (w *Wallet) RemoveMovement(m *movement.Movement) error {
	if m == nil {
		return fmt.Errorf("%w: movement", operation.ErrNilArgument)
	}

	if !m.Active() {
		return ErrInactiveMovement
	}

	if m.Accomplished() {
		return ErrAlreadyAccomplished
	}

	if m.IsInstallment() {
		return ErrInstallmentForbidden
	}

	stored, err := w.activeStored(m.ID())
	if err != nil {
		return err
	}

	if stored.Accomplished() {
		return ErrAlreadyAccomplished
	}

	stored.Inactivate()

	return nil
}

// ConfirmMovement realizes a pending movement on the given date, turning it
// into a transaction. The wallet must hold enough realized funds both as of
// the date and as of the date's month. Confirming a recurrent movement also
// inserts its next pending occurrence.
func (w *Wallet) ConfirmMovement(m *movement.Movement, date time.Time) error {
	if m == nil {
		return fmt.Errorf("%w: movement", operation.ErrNilArgument)
	}

	if date.IsZero() {
		return fmt.Errorf("%w: accomplish date", operation.ErrNilArgument)
	}

	if !m.Active() {
		return ErrInactiveMovement
	}

	stored, err := w.activeStored(m.ID())
	if err != nil {
		return err
	}

	if !w.Accepts(m.PaymentMethod()) {
		return ErrPaymentMethodNotAccepted
	}

	if m.Accomplished() || stored.Accomplished() {
		return ErrAlreadyAccomplished
	}

	// Both the as-of-date and the as-of-month balance must cover the
	// movement. The two can disagree for dates inside the current month;
	// both checks are intentional.
	if m.Amount().Add(w.BalanceOn(date)).IsNegative() {
		return ErrInsufficientFunds
	}

	if m.Amount().Add(w.BalanceThroughMonth(YearMonthOf(date))).IsNegative() {
		return ErrInsufficientFunds
	}

	stored.SyncFrom(m)

	if stored.IsRecurrent() {
		next := stored.NextOccurrence()
		w.movements[next.ID()] = next
	}

	return stored.Accomplish(date)
}

// UpdateMovement synchronizes the stored copy of a common or recurrent
// movement with the caller's fields. Lifecycle flags are wallet-owned and
// never copied.
func (w *Wallet) UpdateMovement(m *movement.Movement) error {
	if m == nil {
		return fmt.Errorf("%w: movement", operation.ErrNilArgument)
	}

	if !m.Active() {
		return ErrInactiveMovement
	}

	if m.IsInstallment() {
		return ErrInstallmentForbidden
	}

	if !w.Accepts(m.PaymentMethod()) {
		return ErrPaymentMethodNotAccepted
	}

	stored, err := w.activeStored(m.ID())
	if err != nil {
		return err
	}

	stored.SyncFrom(m)

	return nil
}

// RemoveInstallment soft-deletes the pending siblings of an installment
// series selected by the handling mode.
func (w *Wallet) RemoveInstallment(m *movement.Movement, mode HandlingMode) error {
	return w.applyToInstallment(m, mode, func(stored *movement.Movement) {
		stored.Inactivate()
	})
}

// UpdateInstallment synchronizes the pending siblings of an installment
// series selected by the handling mode with the pivot's fields.
func (w *Wallet) UpdateInstallment(m *movement.Movement, mode HandlingMode) error {
	if m != nil && !w.Accepts(m.PaymentMethod()) {
		return ErrPaymentMethodNotAccepted
	}

	return w.applyToInstallment(m, mode, func(stored *movement.Movement) {
		stored.SyncFrom(m)
	})
}

// activeStored finds the stored copy for an id, rejecting missing and
// excluded records.
func (w *Wallet) activeStored(id uuid.UUID) (*movement.Movement, error) {
	stored, ok := w.movements[id]
	if !ok {
		return nil, ErrMovementNotFound
	}

	if !stored.Active() {
		return nil, ErrMovementExcluded
	}

	return stored, nil
}

// Clone returns a copy of the wallet sharing no mutable state.
func (w *Wallet) Clone() *Wallet {
	out := &Wallet{
		id:             w.id,
		name:           w.name,
		description:    w.description,
		currency:       w.currency,
		paymentMethods: make(map[uuid.UUID]struct{}, len(w.paymentMethods)),
		movements:      make(map[uuid.UUID]*movement.Movement, len(w.movements)),
	}

	for pm := range w.paymentMethods {
		out.paymentMethods[pm] = struct{}{}
	}

	for id, m := range w.movements {
		out.movements[id] = m.Clone()
	}

	return out
}

// RestoreParams carries persisted wallet state, identity included.
type RestoreParams struct {
	ID             uuid.UUID
	Name           string
	Description    string
	Currency       string
	PaymentMethods []uuid.UUID
	Movements      []*movement.Movement
}

// Restore rebuilds a Wallet from persisted state without validation.
// For use by persistence adapters only; it takes ownership of the given
// movements.
func Restore(p RestoreParams) *Wallet {
	w := &Wallet{
		id:             p.ID,
		name:           p.Name,
		description:    p.Description,
		currency:       p.Currency,
		paymentMethods: make(map[uuid.UUID]struct{}, len(p.PaymentMethods)),
		movements:      make(map[uuid.UUID]*movement.Movement, len(p.Movements)),
	}

	for _, pm := range p.PaymentMethods {
		w.paymentMethods[pm] = struct{}{}
	}

	for _, m := range p.Movements {
		w.movements[m.ID()] = m
	}

	return w
}
