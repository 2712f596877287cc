package store

import "github.com/shopspring/decimal"

// Total sums price*quantity over an order's details in fixed-point
// arithmetic. Details without a loaded product are skipped.
func Total(details []OrderDetail) decimal.Decimal {
	total := decimal.Zero
	for _, d := range details {
		if d.Product == nil {
			continue
		}
		total = total.Add(d.Product.Price.Mul(decimal.NewFromInt(int64(d.Quantity))))
	}
	return total
}

// TotalInSecondary converts a native-currency total using the supplied
// units-per-secondary-unit rate, rounded half-up to 2 decimal places.
// Callers decide how to render the no-rate case.
func TotalInSecondary(total, rate decimal.Decimal) decimal.Decimal {
	return total.Div(rate).Round(2)
}
