package split

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hamadsh/billsplit/pkg/apperr"
)

// PaymentShare represents one payer's recorded contribution to a bill
type PaymentShare struct {
	UserID     uuid.UUID       `json:"user_id"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
}

var (
	ErrPaymentsMismatch     = apperr.Validation("payer amounts must sum to total")
	ErrMissingPayerAmount   = apperr.Validation("amount required for every payer")
	ErrNegativePayerAmount  = apperr.Validation("payer amounts cannot be negative")
)

// ComputePayments attributes the total to the given payers. A single payer
// covers the whole total; multiple payers need explicit amounts that
// reconcile to the total within epsilon. Zero payers is allowed — the bill
// is recorded as unpaid until later reconciliation.
func ComputePayments(total decimal.Decimal, payers []uuid.UUID, payerAmounts map[uuid.UUID]decimal.Decimal) ([]PaymentShare, error) {
	if !total.IsPositive() {
		return nil, ErrNonPositiveTotal
	}

	switch len(payers) {
	case 0:
		return []PaymentShare{}, nil
	case 1:
		return []PaymentShare{{UserID: payers[0], AmountPaid: total.Round(2)}}, nil
	}

	shares := make([]PaymentShare, len(payers))
	sum := decimal.Zero
	for i, payer := range payers {
		amount, ok := payerAmounts[payer]
		if !ok {
			return nil, ErrMissingPayerAmount
		}
		if amount.IsNegative() {
			return nil, ErrNegativePayerAmount
		}
		sum = sum.Add(amount)
		shares[i] = PaymentShare{UserID: payer, AmountPaid: amount.Round(2)}
	}

	if !withinEpsilon(sum, total) {
		return nil, ErrPaymentsMismatch
	}

	return shares, nil
}
