package wallet

import (
	"fmt"

	"github.com/sversluys/walleto/internal/movement"
	"github.com/sversluys/walleto/internal/operation"
)

// HandlingMode selects which siblings of an installment series a bulk update
// or removal applies to, relative to the pivot movement's due date.
type HandlingMode string

const (
	HandleJustThisOne     HandlingMode = "JUST_THIS_ONE"
	HandleAll             HandlingMode = "ALL"
	HandleThisAndNext     HandlingMode = "THIS_AND_NEXT"
	HandleNext            HandlingMode = "NEXT"
	HandleThisAndPrevious HandlingMode = "THIS_AND_PREVIOUS"
	HandlePrevious        HandlingMode = "PREVIOUS"
)

// applyToInstallment runs action over the stored siblings of the pivot's
// series selected by mode. Accomplished siblings are never touched: realized
// history is immutable, so bulk edits only reach pending occurrences.
func (w *Wallet) applyToInstallment(pivot *movement.Movement, mode HandlingMode, action func(*movement.Movement)) error {
	if pivot == nil {
		return fmt.Errorf("%w: movement", operation.ErrNilArgument)
	}

	if !pivot.IsInstallment() {
		return ErrNotAnInstallment
	}

	if mode == "" {
		return ErrHandlingModeRequired
	}

	if _, ok := w.movements[pivot.ID()]; !ok {
		return ErrMovementNotFound
	}

	if mode == HandleJustThisOne {
		stored := w.movements[pivot.ID()]
		if stored.Accomplished() {
			return ErrAlreadyAccomplished
		}

		action(stored)

		return nil
	}

	selected, err := siblingPredicate(mode, pivot)
	if err != nil {
		return err
	}

	for _, stored := range w.movements {
		if stored.GroupID() != pivot.GroupID() || stored.Accomplished() {
			continue
		}

		if selected(stored) {
			action(stored)
		}
	}

	return nil
}

// siblingPredicate maps a handling mode to its date predicate relative to
// the pivot. The pivot itself matches the THIS_AND_* modes by identity, so
// it is included even when another sibling shares its due date ordering.
func siblingPredicate(mode HandlingMode, pivot *movement.Movement) (func(*movement.Movement) bool, error) {
	due := pivot.DueDate()

	switch mode {
	case HandleAll:
		return func(*movement.Movement) bool { return true }, nil
	case HandleThisAndNext:
		return func(m *movement.Movement) bool {
			return !m.DueDate().Before(due) || m.ID() == pivot.ID()
		}, nil
	case HandleNext:
		return func(m *movement.Movement) bool {
			return m.DueDate().After(due)
		}, nil
	case HandleThisAndPrevious:
		return func(m *movement.Movement) bool {
			return !m.DueDate().After(due) || m.ID() == pivot.ID()
		}, nil
	case HandlePrevious:
		return func(m *movement.Movement) bool {
			return m.DueDate().Before(due)
		}, nil
	}

	return nil, ErrUnknownHandlingMode
}
