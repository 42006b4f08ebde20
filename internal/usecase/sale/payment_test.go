package sale

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/storetrack/backoffice/internal/domain"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestSettle_CashWithChange(t *testing.T) {
	paid, change, err := Settle(150.0, domain.PaymentCash, floatPtr(200.0))

	assert.NoError(t, err)
	assert.Equal(t, 200.0, paid)
	assert.Equal(t, 50.0, change)
}

func TestSettle_CashExactAmount(t *testing.T) {
	paid, change, err := Settle(150.0, domain.PaymentCash, floatPtr(150.0))

	assert.NoError(t, err)
	assert.Equal(t, 150.0, paid)
	assert.Equal(t, 0.0, change)
}

func TestSettle_CashMissingTendered(t *testing.T) {
	_, _, err := Settle(150.0, domain.PaymentCash, nil)

	assert.ErrorIs(t, err, domain.ErrPaymentRequired)
}

func TestSettle_CashInsufficient(t *testing.T) {
	_, _, err := Settle(150.0, domain.PaymentCash, floatPtr(100.0))

	assert.ErrorIs(t, err, domain.ErrInsufficientPayment)
}

func TestSettle_NonCashIgnoresTendered(t *testing.T) {
	for _, method := range []domain.PaymentMethod{
		domain.PaymentCreditCard,
		domain.PaymentDebitCard,
		domain.PaymentPix,
	} {
		paid, change, err := Settle(99.9, method, floatPtr(500.0))

		assert.NoError(t, err)
		assert.Equal(t, 99.9, paid)
		assert.Equal(t, 0.0, change)
	}
}

func TestSettle_NonCashWithoutTendered(t *testing.T) {
	paid, change, err := Settle(42.0, domain.PaymentPix, nil)

	assert.NoError(t, err)
	assert.Equal(t, 42.0, paid)
	assert.Equal(t, 0.0, change)
}

func TestSettle_ZeroTotalCash(t *testing.T) {
	paid, change, err := Settle(0.0, domain.PaymentCash, floatPtr(0.0))

	assert.NoError(t, err)
	assert.Equal(t, 0.0, paid)
	assert.Equal(t, 0.0, change)
}

func TestSettle_ValidationErrorsAreInvalidInput(t *testing.T) {
	_, _, err := Settle(10.0, domain.PaymentCash, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = Settle(10.0, domain.PaymentCash, floatPtr(5.0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
