package pricing_test

import (
	"testing"

	"github.com/omegaopinmthechat/highwaydelite/internal/pricing"

	"github.com/stretchr/testify/assert"
)

func TestCompute(t *testing.T) {
	t.Run("basic breakdown", func(t *testing.T) {
		quote := pricing.Compute(100, 2, 0.05)

		assert.Equal(t, 200.0, quote.Subtotal)
		assert.Equal(t, 10.0, quote.Taxes)
		assert.Equal(t, 210.0, quote.Total)
	})

	t.Run("single unit", func(t *testing.T) {
		quote := pricing.Compute(49.99, 1, 0.05)

		assert.InDelta(t, 49.99, quote.Subtotal, 1e-9)
		assert.InDelta(t, 2.4995, quote.Taxes, 1e-9)
		assert.InDelta(t, 52.4895, quote.Total, 1e-9)
	})

	t.Run("zero tax rate", func(t *testing.T) {
		quote := pricing.Compute(80, 3, 0)

		assert.Equal(t, 240.0, quote.Subtotal)
		assert.Equal(t, 0.0, quote.Taxes)
		assert.Equal(t, 240.0, quote.Total)
	})

	t.Run("free experience", func(t *testing.T) {
		quote := pricing.Compute(0, 5, 0.05)

		assert.Equal(t, 0.0, quote.Subtotal)
		assert.Equal(t, 0.0, quote.Taxes)
		assert.Equal(t, 0.0, quote.Total)
	})

	t.Run("total always equals subtotal plus taxes", func(t *testing.T) {
		for _, qty := range []int{1, 2, 7, 100} {
			quote := pricing.Compute(123.45, qty, 0.18)
			assert.InDelta(t, quote.Subtotal+quote.Taxes, quote.Total, 1e-9)
		}
	})
}
