package split

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hamadsh/billsplit/pkg/apperr"
)

// Method defines how a bill total is divided among participants
type Method string

const (
	MethodEqual      Method = "equal"
	MethodCustom     Method = "custom"
	MethodPercentage Method = "percentage"
)

// Input represents a participant in a split with method-specific values
type Input struct {
	UserID     uuid.UUID        `json:"user_id"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`     // For custom split
	Percentage *decimal.Decimal `json:"percentage,omitempty"` // For percentage split
}

// Output represents the calculated obligation for a single participant
type Output struct {
	UserID     uuid.UUID       `json:"user_id"`
	AmountOwed decimal.Decimal `json:"amount_owed"`
}

// Strategy is the interface that all split strategies must implement
type Strategy interface {
	// Calculate computes the per-participant obligations for the total
	Calculate(total decimal.Decimal, participants []Input) ([]Output, error)

	// Method returns the method identifier for this strategy
	Method() Method

	// Validate checks if the inputs are valid for this strategy
	Validate(total decimal.Decimal, participants []Input) error
}

// Factory creates split strategies based on the requested method
type Factory struct{}

// NewFactory creates a new factory instance
func NewFactory() *Factory {
	return &Factory{}
}

// Create returns the appropriate strategy implementation for the method
func (f *Factory) Create(method Method) (Strategy, error) {
	switch method {
	case MethodEqual:
		return &EqualStrategy{}, nil
	case MethodCustom:
		return &CustomStrategy{}, nil
	case MethodPercentage:
		return &PercentageStrategy{}, nil
	default:
		return nil, apperr.Validation(fmt.Sprintf("unknown split method: %s", method))
	}
}

// CreateFromString creates a strategy from a string method (useful for API requests)
func (f *Factory) CreateFromString(method string) (Strategy, error) {
	return f.Create(Method(method))
}

// Validation failures share identity through these sentinels while still
// satisfying apperr.IsValidation.
var (
	ErrNoParticipants     = apperr.Validation("at least one participant is required")
	ErrNonPositiveTotal   = apperr.Validation("total amount must be positive")
	ErrAmountsMismatch    = apperr.Validation("amounts must sum to total")
	ErrPercentageMismatch = apperr.Validation("percentages must sum to 100")
	ErrNegativeAmount     = apperr.Validation("amounts cannot be negative")
	ErrMissingAmount      = apperr.Validation("amount required for all participants")
	ErrMissingPercentage  = apperr.Validation("percentage value required for all participants")
	ErrPercentageRange    = apperr.Validation("percentage must be between 0 and 100")
)

// epsilon is the reconciliation tolerance in currency units
var epsilon = decimal.RequireFromString("0.01")

var hundred = decimal.NewFromInt(100)

// withinEpsilon reports whether a and b differ by at most epsilon
func withinEpsilon(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(epsilon)
}

// validateCommon covers the checks shared by every strategy
func validateCommon(total decimal.Decimal, participants []Input) error {
	if len(participants) == 0 {
		return ErrNoParticipants
	}
	if !total.IsPositive() {
		return ErrNonPositiveTotal
	}
	return nil
}
