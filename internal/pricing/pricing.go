// Package pricing computes the price breakdown stored on a booking.
package pricing

// Quote is the breakdown for one booking: subtotal = unit price * quantity,
// taxes = subtotal * tax rate, total = subtotal + taxes. No rounding is
// applied here; presentation layers format to two decimals.
type Quote struct {
	Subtotal float64 `json:"subtotal"`
	Taxes    float64 `json:"taxes"`
	Total    float64 `json:"total"`
}

// Compute returns the quote for the given unit price, quantity and tax rate.
// Input constraints (quantity >= 1, taxRate in [0,1]) are enforced by callers.
func Compute(unitPrice float64, quantity int, taxRate float64) Quote {
	subtotal := unitPrice * float64(quantity)
	taxes := subtotal * taxRate
	return Quote{
		Subtotal: subtotal,
		Taxes:    taxes,
		Total:    subtotal + taxes,
	}
}
