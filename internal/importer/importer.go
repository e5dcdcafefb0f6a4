// Package importer turns bank statement exports into planned movements.
package importer

import (
	"io"

	"github.com/sversluys/walleto/internal/movement"
)

// Parser reads one statement format into movement params. Parsers fill the
// date, name, description, amount and type; the caller supplies the wallet
// references (payee, category, form of payment) before constructing
// movements.
type Parser interface {
	Parse(r io.Reader) ([]movement.Params, error)
}
