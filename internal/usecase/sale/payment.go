package sale

import (
	"github.com/storetrack/backoffice/internal/domain"
)

// moneyEpsilon absorbs float representation noise in currency comparisons
const moneyEpsilon = 1e-9

// Settle validates payment sufficiency against the sale total and computes
// the change due. Pure function of its inputs, no persistence.
//
// Cash requires a tendered amount covering the total; every other method
// ignores the tendered amount and settles at exactly the total with no
// change.
func Settle(total float64, method domain.PaymentMethod, tendered *float64) (paid, change float64, err error) {
	if method == domain.PaymentCash {
		if tendered == nil {
			return 0, 0, domain.ErrPaymentRequired
		}
		if *tendered < total-moneyEpsilon {
			return 0, 0, domain.ErrInsufficientPayment
		}
		return *tendered, *tendered - total, nil
	}

	return total, 0, nil
}
