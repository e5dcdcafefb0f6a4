// Package operation holds the behavior shared by every financial record:
// identity, field validation, the attachment set and chronological ordering.
package operation

import (
	"errors"
	"fmt"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrNilArgument signals that a required argument is absent.
	ErrNilArgument = errors.New("required argument is missing")
	// ErrNameSize signals a name outside the 3-30 character range.
	ErrNameSize = errors.New("name must be between 3 and 30 characters")
	// ErrDescriptionSize signals a non-empty description outside the 3-250 character range.
	ErrDescriptionSize = errors.New("description must be empty or between 3 and 250 characters")
	// ErrZeroAmount signals an amount of exactly zero.
	ErrZeroAmount = errors.New("amount must not be zero")
)

// Attachment is a document linked to an operation, unique by URI.
type Attachment struct {
	Name string
	URI  string
}

// Operation is the common shape of a financial record. It is meant to be
// embedded; the embedding type owns lifecycle and sign conventions.
type Operation struct {
	id            uuid.UUID
	name          string
	description   string
	amount        decimal.Decimal
	dueDate       time.Time
	paymentMethod uuid.UUID
	payee         uuid.UUID
	category      uuid.UUID
	attachments   map[string]Attachment
}

// Params carries the caller-supplied fields for a new Operation.
type Params struct {
	Name          string
	Description   string
	Amount        decimal.Decimal
	DueDate       time.Time
	PaymentMethod uuid.UUID
	Payee         uuid.UUID
	Category      uuid.UUID
	Attachments   []Attachment
}

// New validates the params and returns an Operation with a fresh identity.
func New(p Params) (Operation, error) {
	var o Operation

	if err := ValidateName(p.Name); err != nil {
		return o, err
	}

	if err := ValidateDescription(p.Description); err != nil {
		return o, err
	}

	if p.Amount.IsZero() {
		return o, ErrZeroAmount
	}

	if p.DueDate.IsZero() {
		return o, fmt.Errorf("%w: due date", ErrNilArgument)
	}

	if p.PaymentMethod == uuid.Nil {
		return o, fmt.Errorf("%w: form of payment", ErrNilArgument)
	}

	if p.Payee == uuid.Nil {
		return o, fmt.Errorf("%w: payee", ErrNilArgument)
	}

	if p.Category == uuid.Nil {
		return o, fmt.Errorf("%w: category", ErrNilArgument)
	}

	o = Operation{
		id:            uuid.New(),
		name:          p.Name,
		description:   p.Description,
		amount:        p.Amount,
		dueDate:       DateOf(p.DueDate),
		paymentMethod: p.PaymentMethod,
		payee:         p.Payee,
		category:      p.Category,
		attachments:   make(map[string]Attachment, len(p.Attachments)),
	}

	for _, a := range p.Attachments {
		if err := o.AddAttachment(a); err != nil {
			return Operation{}, err
		}
	}

	return o, nil
}

// ValidateName checks the 3-30 character rule shared by operations and wallets.
func ValidateName(name string) error {
	if n := utf8.RuneCountInString(name); n < 3 || n > 30 {
		return ErrNameSize
	}

	return nil
}

// ValidateDescription checks the empty-or-3-250 character rule.
func ValidateDescription(description string) error {
	if description == "" {
		return nil
	}

	if n := utf8.RuneCountInString(description); n < 3 || n > 250 {
		return ErrDescriptionSize
	}

	return nil
}

// DateOf strips the time-of-day component; all dates in the ledger are
// calendar dates in UTC.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (o *Operation) ID() uuid.UUID            { return o.id }
func (o *Operation) Name() string             { return o.name }
func (o *Operation) Description() string      { return o.description }
func (o *Operation) Amount() decimal.Decimal  { return o.amount }
func (o *Operation) DueDate() time.Time       { return o.dueDate }
func (o *Operation) PaymentMethod() uuid.UUID { return o.paymentMethod }
func (o *Operation) Payee() uuid.UUID         { return o.payee }
func (o *Operation) Category() uuid.UUID      { return o.category }

// Attachments returns a copy of the attachment set.
func (o *Operation) Attachments() []Attachment {
	out := make([]Attachment, 0, len(o.attachments))
	for _, a := range o.attachments {
		out = append(out, a)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].URI < out[j].URI })

	return out
}

// UpdateName replaces the name after validating it.
func (o *Operation) UpdateName(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	o.name = name

	return nil
}

// UpdateDescription replaces the description after validating it.
func (o *Operation) UpdateDescription(description string) error {
	if err := ValidateDescription(description); err != nil {
		return err
	}

	o.description = description

	return nil
}

// UpdateAmount replaces the amount. The caller re-applies its own sign
// convention afterwards.
func (o *Operation) UpdateAmount(amount decimal.Decimal) error {
	if amount.IsZero() {
		return ErrZeroAmount
	}

	o.amount = amount

	return nil
}

// UpdateDueDate replaces the due date.
func (o *Operation) UpdateDueDate(dueDate time.Time) error {
	if dueDate.IsZero() {
		return fmt.Errorf("%w: due date", ErrNilArgument)
	}

	o.dueDate = DateOf(dueDate)

	return nil
}

// UpdatePaymentMethod replaces the form of payment reference.
func (o *Operation) UpdatePaymentMethod(id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("%w: form of payment", ErrNilArgument)
	}

	o.paymentMethod = id

	return nil
}

// UpdatePayee replaces the payee reference.
func (o *Operation) UpdatePayee(id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("%w: payee", ErrNilArgument)
	}

	o.payee = id

	return nil
}

// UpdateCategory replaces the category reference.
func (o *Operation) UpdateCategory(id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("%w: category", ErrNilArgument)
	}

	o.category = id

	return nil
}

// AddAttachment adds an attachment to the set. Adding the same URI twice
// keeps the latest entry; attachments are never removed.
func (o *Operation) AddAttachment(a Attachment) error {
	if a.URI == "" {
		return fmt.Errorf("%w: attachment uri", ErrNilArgument)
	}

	if o.attachments == nil {
		o.attachments = make(map[string]Attachment, 1)
	}

	o.attachments[a.URI] = a

	return nil
}

// Before reports whether o comes first in chronological (due date) order.
func (o *Operation) Before(other *Operation) bool {
	return o.dueDate.Before(other.dueDate)
}

// Equal compares by identity only.
func (o *Operation) Equal(other *Operation) bool {
	return other != nil && o.id == other.id
}

// DeepEqual compares every field.
func (o *Operation) DeepEqual(other *Operation) bool {
	if other == nil {
		return false
	}

	if o.id != other.id ||
		o.name != other.name ||
		o.description != other.description ||
		!o.amount.Equal(other.amount) ||
		!o.dueDate.Equal(other.dueDate) ||
		o.paymentMethod != other.paymentMethod ||
		o.payee != other.payee ||
		o.category != other.category {
		return false
	}

	if len(o.attachments) != len(other.attachments) {
		return false
	}

	for uri, a := range o.attachments {
		if b, ok := other.attachments[uri]; !ok || a != b {
			return false
		}
	}

	return true
}

// Clone returns a copy that shares no mutable state with the original.
func (o *Operation) Clone() Operation {
	out := *o

	out.attachments = make(map[string]Attachment, len(o.attachments))
	for uri, a := range o.attachments {
		out.attachments[uri] = a
	}

	return out
}

// Reissue assigns a fresh identity; used when deriving a new record from an
// existing one (installment siblings, recurrence successors).
func (o *Operation) Reissue() {
	o.id = uuid.New()
}

// RestoreParams carries persisted fields, identity included.
type RestoreParams struct {
	ID            uuid.UUID
	Name          string
	Description   string
	Amount        decimal.Decimal
	DueDate       time.Time
	PaymentMethod uuid.UUID
	Payee         uuid.UUID
	Category      uuid.UUID
	Attachments   []Attachment
}

// Restore rebuilds an Operation from persisted state without validation.
// For use by persistence adapters only.
func Restore(p RestoreParams) Operation {
	o := Operation{
		id:            p.ID,
		name:          p.Name,
		description:   p.Description,
		amount:        p.Amount,
		dueDate:       DateOf(p.DueDate),
		paymentMethod: p.PaymentMethod,
		payee:         p.Payee,
		category:      p.Category,
		attachments:   make(map[string]Attachment, len(p.Attachments)),
	}

	for _, a := range p.Attachments {
		o.attachments[a.URI] = a
	}

	return o
}
