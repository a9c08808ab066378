package split

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamadsh/billsplit/pkg/apperr"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dp(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

var (
	userA = uuid.MustParse("9b2f0a31-27a3-4c3e-9a64-111111111111")
	userB = uuid.MustParse("9b2f0a31-27a3-4c3e-9a64-222222222222")
	userC = uuid.MustParse("9b2f0a31-27a3-4c3e-9a64-333333333333")
)

func TestFactoryCreate(t *testing.T) {
	f := NewFactory()

	for _, method := range []Method{MethodEqual, MethodCustom, MethodPercentage} {
		s, err := f.Create(method)
		require.NoError(t, err)
		assert.Equal(t, method, s.Method())
	}

	_, err := f.CreateFromString("shotgun")
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestEqualStrategy(t *testing.T) {
	tests := []struct {
		name         string
		total        decimal.Decimal
		participants []Input
		want         []string
		wantErr      error
	}{
		{
			name:         "three way even",
			total:        d("30.00"),
			participants: []Input{{UserID: userA}, {UserID: userB}, {UserID: userC}},
			want:         []string{"10.00", "10.00", "10.00"},
		},
		{
			name:         "remainder goes to first participant",
			total:        d("100.00"),
			participants: []Input{{UserID: userA}, {UserID: userB}, {UserID: userC}},
			want:         []string{"33.34", "33.33", "33.33"},
		},
		{
			name:         "single participant",
			total:        d("19.99"),
			participants: []Input{{UserID: userA}},
			want:         []string{"19.99"},
		},
		{
			name:    "no participants",
			total:   d("10.00"),
			wantErr: ErrNoParticipants,
		},
		{
			name:         "zero total",
			total:        decimal.Zero,
			participants: []Input{{UserID: userA}},
			wantErr:      ErrNonPositiveTotal,
		},
		{
			name:         "negative total",
			total:        d("-5.00"),
			participants: []Input{{UserID: userA}},
			wantErr:      ErrNonPositiveTotal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outputs, err := (&EqualStrategy{}).Calculate(tt.total, tt.participants)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.True(t, apperr.IsValidation(err))
				return
			}
			require.NoError(t, err)
			requireAmounts(t, tt.want, outputs)
			requireReconciles(t, tt.total, outputs)
		})
	}
}

func TestCustomStrategy(t *testing.T) {
	tests := []struct {
		name         string
		total        decimal.Decimal
		participants []Input
		want         []string
		wantErr      error
	}{
		{
			name:  "claims sum to total",
			total: d("100.00"),
			participants: []Input{
				{UserID: userA, Amount: dp("40")},
				{UserID: userB, Amount: dp("60")},
			},
			want: []string{"40.00", "60.00"},
		},
		{
			name:  "claims within epsilon",
			total: d("100.00"),
			participants: []Input{
				{UserID: userA, Amount: dp("40.00")},
				{UserID: userB, Amount: dp("60.01")},
			},
			want: []string{"40.00", "60.01"},
		},
		{
			name:  "claims do not reconcile",
			total: d("100.00"),
			participants: []Input{
				{UserID: userA, Amount: dp("40")},
				{UserID: userB, Amount: dp("50")},
			},
			wantErr: ErrAmountsMismatch,
		},
		{
			name:  "missing claim",
			total: d("100.00"),
			participants: []Input{
				{UserID: userA, Amount: dp("100")},
				{UserID: userB},
			},
			wantErr: ErrMissingAmount,
		},
		{
			name:  "negative claim",
			total: d("100.00"),
			participants: []Input{
				{UserID: userA, Amount: dp("110")},
				{UserID: userB, Amount: dp("-10")},
			},
			wantErr: ErrNegativeAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outputs, err := (&CustomStrategy{}).Calculate(tt.total, tt.participants)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			requireAmounts(t, tt.want, outputs)
		})
	}
}

func TestPercentageStrategy(t *testing.T) {
	tests := []struct {
		name         string
		total        decimal.Decimal
		participants []Input
		want         []string
		wantErr      error
	}{
		{
			name:  "fifty fifty",
			total: d("50.00"),
			participants: []Input{
				{UserID: userA, Percentage: dp("50")},
				{UserID: userB, Percentage: dp("50")},
			},
			want: []string{"25.00", "25.00"},
		},
		{
			name:  "uneven thirds fold residual into last",
			total: d("100.00"),
			participants: []Input{
				{UserID: userA, Percentage: dp("33.33")},
				{UserID: userB, Percentage: dp("33.33")},
				{UserID: userC, Percentage: dp("33.34")},
			},
			want: []string{"33.33", "33.33", "33.34"},
		},
		{
			name:  "percentages do not reach 100",
			total: d("50.00"),
			participants: []Input{
				{UserID: userA, Percentage: dp("50")},
				{UserID: userB, Percentage: dp("40")},
			},
			wantErr: ErrPercentageMismatch,
		},
		{
			name:  "missing percentage",
			total: d("50.00"),
			participants: []Input{
				{UserID: userA, Percentage: dp("100")},
				{UserID: userB},
			},
			wantErr: ErrMissingPercentage,
		},
		{
			name:  "percentage above 100",
			total: d("50.00"),
			participants: []Input{
				{UserID: userA, Percentage: dp("150")},
				{UserID: userB, Percentage: dp("-50")},
			},
			wantErr: ErrPercentageRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outputs, err := (&PercentageStrategy{}).Calculate(tt.total, tt.participants)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			requireAmounts(t, tt.want, outputs)
			requireReconciles(t, tt.total, outputs)
		})
	}
}

func requireAmounts(t *testing.T, want []string, outputs []Output) {
	t.Helper()
	require.Len(t, outputs, len(want))
	for i, w := range want {
		assert.True(t, outputs[i].AmountOwed.Equal(d(w)),
			"participant %d owes %s, want %s", i, outputs[i].AmountOwed, w)
	}
}

func requireReconciles(t *testing.T, total decimal.Decimal, outputs []Output) {
	t.Helper()
	sum := decimal.Zero
	for _, o := range outputs {
		sum = sum.Add(o.AmountOwed)
	}
	assert.True(t, sum.Equal(total.Round(2)), "shares sum to %s, want %s", sum, total)
}
