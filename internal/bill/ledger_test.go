package bill

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var (
	alice = uuid.MustParse("4f2c9d10-5a7e-4b6f-8c1d-aaaaaaaaaaaa")
	bob   = uuid.MustParse("4f2c9d10-5a7e-4b6f-8c1d-bbbbbbbbbbbb")
	carol = uuid.MustParse("4f2c9d10-5a7e-4b6f-8c1d-cccccccccccc")
)

func TestClassify(t *testing.T) {
	owed := decimal.RequireFromString("10.00")

	tests := []struct {
		name     string
		splits   []*Split
		payments []*Payment
		user     uuid.UUID
		want     Bucket
	}{
		{
			name:   "outstanding split lands in owe",
			splits: []*Split{{UserID: alice, AmountOwed: owed}},
			user:   alice,
			want:   BucketOwe,
		},
		{
			name:     "payer without a split lands in paid",
			splits:   []*Split{{UserID: alice, AmountOwed: owed}},
			payments: []*Payment{{UserID: bob, AmountPaid: owed}},
			user:     bob,
			want:     BucketPaid,
		},
		{
			name:     "settled split wins over payer status",
			splits:   []*Split{{UserID: alice, AmountOwed: owed, Settled: true}},
			payments: []*Payment{{UserID: alice, AmountPaid: owed}},
			user:     alice,
			want:     BucketSettled,
		},
		{
			name:   "payer with an outstanding split lands in paid",
			splits: []*Split{{UserID: alice, AmountOwed: owed}},
			payments: []*Payment{
				{UserID: alice, AmountPaid: owed},
			},
			user: alice,
			want: BucketPaid,
		},
		{
			name:   "removed split falls through to all",
			splits: []*Split{{UserID: alice, AmountOwed: owed, Removed: true}},
			user:   alice,
			want:   BucketAll,
		},
		{
			name:   "zero obligation falls through to all",
			splits: []*Split{{UserID: alice, AmountOwed: decimal.Zero}},
			user:   alice,
			want:   BucketAll,
		},
		{
			name:     "uninvolved user lands in all",
			splits:   []*Split{{UserID: alice, AmountOwed: owed}},
			payments: []*Payment{{UserID: bob, AmountPaid: owed}},
			user:     carol,
			want:     BucketAll,
		},
		{
			name: "only the user's own split counts",
			splits: []*Split{
				{UserID: alice, AmountOwed: owed, Settled: true},
				{UserID: bob, AmountOwed: owed},
			},
			user: bob,
			want: BucketOwe,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.splits, tt.payments, tt.user)
			assert.Equal(t, tt.want, got)

			// classification is a pure read, repeating it changes nothing
			assert.Equal(t, got, Classify(tt.splits, tt.payments, tt.user))
		})
	}
}
