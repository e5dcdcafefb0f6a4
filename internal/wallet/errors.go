package wallet

import "errors"

// ErrNotFound is returned when a wallet id resolves to nothing.
var ErrNotFound = errors.New("wallet not found")

// Lifecycle conflicts: the operation contradicts the movement's current state.
var (
	ErrInactiveMovement    = errors.New("movement is inactive")
	ErrMovementExcluded    = errors.New("movement was excluded and cannot be used again")
	ErrAlreadyAccomplished = errors.New("movement is already accomplished")
	ErrMovementExists      = errors.New("movement already exists in the wallet")
	ErrMovementNotFound    = errors.New("movement does not exist in the wallet")
)

// Structural conflicts: the operation targets the wrong movement category.
var (
	ErrInstallmentForbidden = errors.New("installments must use the installment operations")
	ErrNotAnInstallment     = errors.New("movement is not an installment")
	ErrHandlingModeRequired = errors.New("installment operations require a handling mode")
	ErrUnknownHandlingMode  = errors.New("unknown handling mode")
)

// Business rule violations: the operation would break a wallet invariant.
var (
	ErrPaymentMethodNotAccepted = errors.New("form of payment is not accepted by the wallet")
	ErrInsufficientFunds        = errors.New("insufficient funds")
	ErrLastPaymentMethod        = errors.New("a wallet must accept at least one form of payment")
	ErrInstallmentQuantity      = errors.New("an installment series needs at least two occurrences")
)
