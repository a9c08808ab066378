package bill

import "github.com/google/uuid"

// Bucket classifies a bill from one user's point of view
type Bucket string

const (
	BucketAll     Bucket = "all"
	BucketPaid    Bucket = "paid"
	BucketOwe     Bucket = "owe"
	BucketSettled Bucket = "settled"
)

// Classify answers which bucket a bill lands in for the given user.
// A settled split wins over payer status; a payer who never settled is
// "paid"; an outstanding positive, non-removed split is "owe"; bills the
// user is not financially involved in fall through to "all". The same
// bill can classify differently for different users.
func Classify(splits []*Split, payments []*Payment, userID uuid.UUID) Bucket {
	var userSplit *Split
	for _, s := range splits {
		if s.UserID == userID {
			userSplit = s
			break
		}
	}

	if userSplit != nil && userSplit.Settled {
		return BucketSettled
	}

	for _, p := range payments {
		if p.UserID == userID {
			return BucketPaid
		}
	}

	if userSplit != nil && !userSplit.Removed && userSplit.AmountOwed.IsPositive() {
		return BucketOwe
	}

	return BucketAll
}
