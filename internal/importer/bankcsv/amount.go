package bankcsv

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount reads a statement amount into an exact decimal. Profiles with
// a decimal comma use '.' as a thousands separator ("1.234,56" is 1234.56);
// the rest parse as plain decimals.
func parseAmount(p *Profile, s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)

	if p.DecimalComma {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	} else {
		clean = strings.ReplaceAll(clean, ",", "")
	}

	return decimal.NewFromString(clean)
}
