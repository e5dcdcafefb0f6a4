// Package movement implements the planned-operation entity of the ledger:
// a financial record with a lifecycle (active/accomplished), a repetition
// frequency and a group id linking sibling occurrences.
package movement

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sversluys/walleto/internal/operation"
)

// Type tells whether a movement takes money out of or brings money into the
// wallet. It exists solely to normalize the sign of the amount.
type Type string

const (
	TypeDebit  Type = "DEBIT"
	TypeCredit Type = "CREDIT"
)

// Valid reports whether t is one of the two known types.
func (t Type) Valid() bool {
	return t == TypeDebit || t == TypeCredit
}

// Frequency is the repetition step of a recurrent movement or of an
// installment series.
type Frequency string

const (
	FrequencyNone        Frequency = "NONE"
	FrequencyWeekly      Frequency = "WEEKLY"
	FrequencyFortnightly Frequency = "FORTNIGHTLY"
	FrequencyMonthly     Frequency = "MONTHLY"
	FrequencyQuarterly   Frequency = "QUARTERLY"
	FrequencyYearly      Frequency = "YEARLY"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyNone, FrequencyWeekly, FrequencyFortnightly,
		FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	}

	return false
}

// Repeats reports whether f describes an actual repetition step.
func (f Frequency) Repeats() bool {
	return f.Valid() && f != FrequencyNone
}

// Next advances a due date by one frequency step.
func (f Frequency) Next(d time.Time) time.Time {
	switch f {
	case FrequencyWeekly:
		return d.AddDate(0, 0, 7)
	case FrequencyFortnightly:
		return d.AddDate(0, 0, 15)
	case FrequencyMonthly:
		return d.AddDate(0, 1, 0)
	case FrequencyQuarterly:
		return d.AddDate(0, 3, 0)
	case FrequencyYearly:
		return d.AddDate(1, 0, 0)
	}

	return d
}

// Movement is a planned financial operation. A movement with accomplished
// set is what the rest of the system calls a transaction; there is no
// separate entity for realized history.
type Movement struct {
	operation.Operation

	movementType   Type
	frequency      Frequency
	groupID        uuid.UUID
	active         bool
	accomplished   bool
	accomplishDate *time.Time
}

// Params carries the caller-supplied fields for a new Movement.
type Params struct {
	Name          string
	Description   string
	Amount        decimal.Decimal
	DueDate       time.Time
	PaymentMethod uuid.UUID
	Payee         uuid.UUID
	Category      uuid.UUID
	Attachments   []operation.Attachment
	Type          Type
	Frequency     Frequency

	// GroupID links an installment to its series. Leaving it empty creates
	// a common movement; it is ignored for recurrent movements, whose group
	// id is always their own id.
	GroupID uuid.UUID
}

// New validates the params and returns an active, unaccomplished Movement
// with its amount sign normalized to the movement type.
func New(p Params) (*Movement, error) {
	if !p.Type.Valid() {
		return nil, fmt.Errorf("%w: movement type", operation.ErrNilArgument)
	}

	freq := p.Frequency
	if freq == "" {
		freq = FrequencyNone
	}

	if !freq.Valid() {
		return nil, fmt.Errorf("%w: frequency", operation.ErrNilArgument)
	}

	op, err := operation.New(operation.Params{
		Name:          p.Name,
		Description:   p.Description,
		Amount:        p.Amount,
		DueDate:       p.DueDate,
		PaymentMethod: p.PaymentMethod,
		Payee:         p.Payee,
		Category:      p.Category,
		Attachments:   p.Attachments,
	})
	if err != nil {
		return nil, err
	}

	m := &Movement{
		Operation:    op,
		movementType: p.Type,
		frequency:    freq,
		active:       true,
	}

	switch {
	case freq != FrequencyNone:
		// A recurrence origin is its own group.
		m.groupID = m.ID()
	case p.GroupID != uuid.Nil:
		m.groupID = p.GroupID
	default:
		m.groupID = m.ID()
	}

	m.normalizeSign()

	return m, nil
}

func (m *Movement) Type() Type           { return m.movementType }
func (m *Movement) Frequency() Frequency { return m.frequency }
func (m *Movement) GroupID() uuid.UUID   { return m.groupID }
func (m *Movement) Active() bool         { return m.active }
func (m *Movement) Accomplished() bool   { return m.accomplished }

// AccomplishDate returns the confirmation date, if any.
func (m *Movement) AccomplishDate() (time.Time, bool) {
	if m.accomplishDate == nil {
		return time.Time{}, false
	}

	return *m.accomplishDate, true
}

// IsRecurrent reports whether the movement repeats on a frequency, spawning
// its next occurrence lazily when confirmed.
func (m *Movement) IsRecurrent() bool {
	return m.frequency != FrequencyNone
}

// IsInstallment reports whether the movement belongs to a fixed-count series
// generated eagerly at creation time.
func (m *Movement) IsInstallment() bool {
	return m.frequency == FrequencyNone && m.groupID != m.ID()
}

// IsCommon reports whether the movement is a plain one-off.
func (m *Movement) IsCommon() bool {
	return m.frequency == FrequencyNone && m.groupID == m.ID()
}

// UpdateAmount replaces the amount and re-normalizes its sign.
func (m *Movement) UpdateAmount(amount decimal.Decimal) error {
	if err := m.Operation.UpdateAmount(amount); err != nil {
		return err
	}

	m.normalizeSign()

	return nil
}

// UpdateType replaces the movement type and re-normalizes the amount sign.
func (m *Movement) UpdateType(t Type) error {
	if !t.Valid() {
		return fmt.Errorf("%w: movement type", operation.ErrNilArgument)
	}

	m.movementType = t
	m.normalizeSign()

	return nil
}

// normalizeSign keeps the stored amount negative for debits and positive for
// credits, whatever sign the caller supplied.
func (m *Movement) normalizeSign() {
	a := m.Amount()

	flip := (m.movementType == TypeCredit && a.IsNegative()) ||
		(m.movementType == TypeDebit && a.IsPositive())
	if flip {
		// Amount is non-zero here; the base setter rejects zero.
		_ = m.Operation.UpdateAmount(a.Neg())
	}
}

// Accomplish marks the movement as realized on the given date. The
// transition is one-way; the wallet guards against repeats.
func (m *Movement) Accomplish(date time.Time) error {
	if date.IsZero() {
		return fmt.Errorf("%w: accomplish date", operation.ErrNilArgument)
	}

	d := operation.DateOf(date)
	m.accomplished = true
	m.accomplishDate = &d

	return nil
}

// Inactivate soft-deletes the movement. There is no way back.
func (m *Movement) Inactivate() {
	m.active = false
}

// SyncFrom copies every caller-editable field from src: name, type, form of
// payment, amount, payee, category and description, plus any attachment not
// yet present. Lifecycle flags, dates, frequency and group are untouched.
func (m *Movement) SyncFrom(src *Movement) {
	_ = m.Operation.UpdateName(src.Name())
	m.movementType = src.movementType
	_ = m.Operation.UpdatePaymentMethod(src.PaymentMethod())
	_ = m.Operation.UpdateAmount(src.Amount())
	_ = m.Operation.UpdatePayee(src.Payee())
	_ = m.Operation.UpdateCategory(src.Category())
	_ = m.Operation.UpdateDescription(src.Description())

	for _, a := range src.Attachments() {
		_ = m.AddAttachment(a)
	}

	m.normalizeSign()
}

// NextOccurrence derives the pending successor of a recurrent movement: a
// fresh copy one frequency step later, sharing the group id and frequency.
func (m *Movement) NextOccurrence() *Movement {
	next := m.Clone()
	next.Operation.Reissue()
	_ = next.Operation.UpdateDueDate(m.frequency.Next(m.DueDate()))
	next.active = true
	next.accomplished = false
	next.accomplishDate = nil

	return next
}

// SiblingDue derives an installment sibling due on the given date: a fresh
// pending copy with frequency NONE sharing the group id.
func (m *Movement) SiblingDue(due time.Time) *Movement {
	sib := m.Clone()
	sib.Operation.Reissue()
	_ = sib.Operation.UpdateDueDate(due)
	sib.frequency = FrequencyNone
	sib.active = true
	sib.accomplished = false
	sib.accomplishDate = nil

	return sib
}

// Clone returns a copy sharing no mutable state with the original.
func (m *Movement) Clone() *Movement {
	out := *m
	out.Operation = m.Operation.Clone()

	if m.accomplishDate != nil {
		d := *m.accomplishDate
		out.accomplishDate = &d
	}

	return &out
}

// Equal compares by identity only.
func (m *Movement) Equal(other *Movement) bool {
	return other != nil && m.Operation.Equal(&other.Operation)
}

// DeepEqual compares every field, lifecycle flags included.
func (m *Movement) DeepEqual(other *Movement) bool {
	if other == nil {
		return false
	}

	if !m.Operation.DeepEqual(&other.Operation) {
		return false
	}

	if m.movementType != other.movementType ||
		m.frequency != other.frequency ||
		m.groupID != other.groupID ||
		m.active != other.active ||
		m.accomplished != other.accomplished {
		return false
	}

	switch {
	case m.accomplishDate == nil && other.accomplishDate == nil:
		return true
	case m.accomplishDate == nil || other.accomplishDate == nil:
		return false
	}

	return m.accomplishDate.Equal(*other.accomplishDate)
}

// RestoreParams carries persisted fields, identity and flags included.
type RestoreParams struct {
	Operation      operation.RestoreParams
	Type           Type
	Frequency      Frequency
	GroupID        uuid.UUID
	Active         bool
	Accomplished   bool
	AccomplishDate *time.Time
}

// Restore rebuilds a Movement from persisted state without validation.
// For use by persistence adapters only.
func Restore(p RestoreParams) *Movement {
	m := &Movement{
		Operation:    operation.Restore(p.Operation),
		movementType: p.Type,
		frequency:    p.Frequency,
		groupID:      p.GroupID,
		active:       p.Active,
		accomplished: p.Accomplished,
	}

	if p.AccomplishDate != nil {
		d := operation.DateOf(*p.AccomplishDate)
		m.accomplishDate = &d
	}

	return m
}
