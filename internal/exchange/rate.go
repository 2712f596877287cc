package exchange

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseRate parses a locale-formatted rate string. A comma decimal
// separator ("211,50") is normalized to a period before parsing.
func ParseRate(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.Replace(s, ",", ".", 1))
}
