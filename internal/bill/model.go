package bill

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Bill represents a recorded group expense
type Bill struct {
	ID        uuid.UUID       `json:"id"`
	TeamID    uuid.UUID       `json:"team_id"`
	Title     string          `json:"title"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedBy uuid.UUID       `json:"created_by"`
	CreatedAt time.Time       `json:"created_at"`

	// Populated via JOIN
	TeamName string `json:"team_name,omitempty"`
}

// Split represents one participant's obligation for a bill.
// Settlement and removal are independent axes: a split moves
// Unsettled -> Settled (terminal) and Active -> Removed (no un-remove),
// in any combination.
type Split struct {
	ID         uuid.UUID       `json:"id"`
	BillID     uuid.UUID       `json:"bill_id"`
	UserID     uuid.UUID       `json:"user_id"`
	AmountOwed decimal.Decimal `json:"amount_owed"`
	Settled    bool            `json:"settled"`
	SettledAt  *time.Time      `json:"settled_at,omitempty"`
	SettledBy  *uuid.UUID      `json:"settled_by,omitempty"`
	Removed    bool            `json:"removed"`
}

// Payment represents one participant's recorded contribution toward a bill
type Payment struct {
	ID         uuid.UUID       `json:"id"`
	BillID     uuid.UUID       `json:"bill_id"`
	UserID     uuid.UUID       `json:"user_id"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
}

// BillDetail combines a bill with its splits and payments
type BillDetail struct {
	Bill     *Bill
	Splits   []*Split
	Payments []*Payment
}
