package split

import "github.com/shopspring/decimal"

// PercentageStrategy divides the total based on each participant's
// claimed percentage (must sum to 100)
type PercentageStrategy struct{}

// Method returns the split method identifier
func (s *PercentageStrategy) Method() Method {
	return MethodPercentage
}

// Validate checks that every participant claims a percentage in [0,100]
// and the claims sum to 100 within epsilon
func (s *PercentageStrategy) Validate(total decimal.Decimal, participants []Input) error {
	if err := validateCommon(total, participants); err != nil {
		return err
	}

	sum := decimal.Zero
	for _, p := range participants {
		if p.Percentage == nil {
			return ErrMissingPercentage
		}
		if p.Percentage.IsNegative() || p.Percentage.GreaterThan(hundred) {
			return ErrPercentageRange
		}
		sum = sum.Add(*p.Percentage)
	}

	if !withinEpsilon(sum, hundred) {
		return ErrPercentageMismatch
	}

	return nil
}

// Calculate converts each percentage into a rounded amount. Any residual
// cent left by per-participant rounding is folded into the last
// participant so the obligations reconcile to the total.
func (s *PercentageStrategy) Calculate(total decimal.Decimal, participants []Input) ([]Output, error) {
	if err := s.Validate(total, participants); err != nil {
		return nil, err
	}

	outputs := make([]Output, len(participants))
	distributed := decimal.Zero
	for i, p := range participants {
		amount := total.Mul(*p.Percentage).Div(hundred).Round(2)
		distributed = distributed.Add(amount)
		outputs[i] = Output{
			UserID:     p.UserID,
			AmountOwed: amount,
		}
	}

	residual := total.Round(2).Sub(distributed)
	if !residual.IsZero() {
		last := len(outputs) - 1
		outputs[last].AmountOwed = outputs[last].AmountOwed.Add(residual)
	}

	return outputs, nil
}
