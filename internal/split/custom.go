package split

import "github.com/shopspring/decimal"

// CustomStrategy takes each participant's claimed amount verbatim
// (must sum to the total)
type CustomStrategy struct{}

// Method returns the split method identifier
func (s *CustomStrategy) Method() Method {
	return MethodCustom
}

// Validate checks that every participant claims a non-negative amount
// and the claims reconcile to the total within epsilon
func (s *CustomStrategy) Validate(total decimal.Decimal, participants []Input) error {
	if err := validateCommon(total, participants); err != nil {
		return err
	}

	sum := decimal.Zero
	for _, p := range participants {
		if p.Amount == nil {
			return ErrMissingAmount
		}
		if p.Amount.IsNegative() {
			return ErrNegativeAmount
		}
		sum = sum.Add(*p.Amount)
	}

	if !withinEpsilon(sum, total) {
		return ErrAmountsMismatch
	}

	return nil
}

// Calculate returns the claimed amounts as obligations
func (s *CustomStrategy) Calculate(total decimal.Decimal, participants []Input) ([]Output, error) {
	if err := s.Validate(total, participants); err != nil {
		return nil, err
	}

	outputs := make([]Output, len(participants))
	for i, p := range participants {
		outputs[i] = Output{
			UserID:     p.UserID,
			AmountOwed: p.Amount.Round(2),
		}
	}

	return outputs, nil
}
