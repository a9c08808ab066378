package split

import "github.com/shopspring/decimal"

// EqualStrategy divides the total evenly among all participants
type EqualStrategy struct{}

// Method returns the split method identifier
func (s *EqualStrategy) Method() Method {
	return MethodEqual
}

// Validate checks if the inputs are valid for an equal split
func (s *EqualStrategy) Validate(total decimal.Decimal, participants []Input) error {
	return validateCommon(total, participants)
}

// Calculate gives every participant the same rounded share. The rounding
// remainder is assigned to the first participant so the shares reconcile
// exactly to the total.
func (s *EqualStrategy) Calculate(total decimal.Decimal, participants []Input) ([]Output, error) {
	if err := s.Validate(total, participants); err != nil {
		return nil, err
	}

	count := decimal.NewFromInt(int64(len(participants)))
	share := total.Div(count).Round(2)
	remainder := total.Sub(share.Mul(count))

	outputs := make([]Output, len(participants))
	for i, p := range participants {
		amount := share
		if i == 0 {
			amount = share.Add(remainder)
		}
		outputs[i] = Output{
			UserID:     p.UserID,
			AmountOwed: amount,
		}
	}

	return outputs, nil
}
