package bill

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hamadsh/billsplit/internal/split"
	"github.com/hamadsh/billsplit/pkg/apperr"
)

// Participant is one member selected for a bill, with method-specific input
type Participant struct {
	UserID     uuid.UUID        `json:"user_id"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`     // For custom split
	Percentage *decimal.Decimal `json:"percentage,omitempty"` // For percentage split
}

// ToSplitInput converts to the split package's input type
func (p *Participant) ToSplitInput() split.Input {
	return split.Input{
		UserID:     p.UserID,
		Amount:     p.Amount,
		Percentage: p.Percentage,
	}
}

// CreateBillRequest represents the request to create a bill
type CreateBillRequest struct {
	TeamID       uuid.UUID                     `json:"team_id"`
	Title        string                        `json:"title"`
	Amount       decimal.Decimal               `json:"amount"`
	Date         string                        `json:"date"` // YYYY-MM-DD
	SplitMethod  string                        `json:"split_method"`
	Participants []*Participant                `json:"participants"`
	Payers       []uuid.UUID                   `json:"payers"`
	PayerAmounts map[uuid.UUID]decimal.Decimal `json:"payer_amounts,omitempty"`
}

// Validate checks required fields and parses the bill date
func (r *CreateBillRequest) Validate() (time.Time, error) {
	if r.TeamID == uuid.Nil {
		return time.Time{}, apperr.Validation("team_id is required")
	}
	return validateBillFields(r.Title, r.Amount, r.Date, r.SplitMethod, r.Participants)
}

// EditBillRequest replaces a bill's fields together with its entire
// split and payment collections
type EditBillRequest struct {
	Title        string                        `json:"title"`
	Amount       decimal.Decimal               `json:"amount"`
	Date         string                        `json:"date"` // YYYY-MM-DD
	SplitMethod  string                        `json:"split_method"`
	Participants []*Participant                `json:"participants"`
	Payers       []uuid.UUID                   `json:"payers"`
	PayerAmounts map[uuid.UUID]decimal.Decimal `json:"payer_amounts,omitempty"`
}

// Validate checks required fields and parses the bill date
func (r *EditBillRequest) Validate() (time.Time, error) {
	return validateBillFields(r.Title, r.Amount, r.Date, r.SplitMethod, r.Participants)
}

func validateBillFields(title string, amount decimal.Decimal, date, method string, participants []*Participant) (time.Time, error) {
	if title == "" {
		return time.Time{}, apperr.Validation("title is required")
	}
	if !amount.IsPositive() {
		return time.Time{}, apperr.Validation("amount must be positive")
	}
	if len(participants) == 0 {
		return time.Time{}, apperr.Validation("at least one participant is required")
	}
	if method == "" {
		return time.Time{}, apperr.Validation("split_method is required")
	}
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, apperr.Validation("date must be YYYY-MM-DD")
	}
	return parsed, nil
}

// BillResponse represents the response for a bill
type BillResponse struct {
	ID        uuid.UUID          `json:"id"`
	TeamID    uuid.UUID          `json:"team_id"`
	TeamName  string             `json:"team_name,omitempty"`
	Title     string             `json:"title"`
	Amount    decimal.Decimal    `json:"amount"`
	CreatedBy uuid.UUID          `json:"created_by"`
	CreatedAt string             `json:"created_at"`
	Splits    []*SplitResponse   `json:"splits,omitempty"`
	Payments  []*PaymentResponse `json:"payments,omitempty"`
}

// SplitResponse represents the response for a split
type SplitResponse struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	AmountOwed decimal.Decimal `json:"amount_owed"`
	Settled    bool            `json:"settled"`
	SettledAt  *string         `json:"settled_at,omitempty"`
	SettledBy  *uuid.UUID      `json:"settled_by,omitempty"`
	Removed    bool            `json:"removed"`
}

// PaymentResponse represents the response for a payment
type PaymentResponse struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
}

// HistoryEntry is one bill in a user's history with its per-user bucket
type HistoryEntry struct {
	Bill   *BillResponse `json:"bill"`
	Bucket Bucket        `json:"bucket"`
}

// StatsResponse aggregates a user's dashboard numbers
type StatsResponse struct {
	TotalSpent   decimal.Decimal `json:"total_spent"`
	ActiveTeams  int             `json:"active_teams"`
	BillsCreated int             `json:"bills_created"`
}

// ToResponse converts a Bill model to a BillResponse DTO
func (b *Bill) ToResponse() *BillResponse {
	return &BillResponse{
		ID:        b.ID,
		TeamID:    b.TeamID,
		TeamName:  b.TeamName,
		Title:     b.Title,
		Amount:    b.Amount,
		CreatedBy: b.CreatedBy,
		CreatedAt: b.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts a Split model to a SplitResponse DTO
func (s *Split) ToResponse() *SplitResponse {
	resp := &SplitResponse{
		ID:         s.ID,
		UserID:     s.UserID,
		AmountOwed: s.AmountOwed,
		Settled:    s.Settled,
		SettledBy:  s.SettledBy,
		Removed:    s.Removed,
	}
	if s.SettledAt != nil {
		formatted := s.SettledAt.Format("2006-01-02T15:04:05Z")
		resp.SettledAt = &formatted
	}
	return resp
}

// ToResponse converts a Payment model to a PaymentResponse DTO
func (p *Payment) ToResponse() *PaymentResponse {
	return &PaymentResponse{
		ID:         p.ID,
		UserID:     p.UserID,
		AmountPaid: p.AmountPaid,
	}
}

// ToResponse converts a BillDetail to a BillResponse with nested splits
// and payments
func (d *BillDetail) ToResponse() *BillResponse {
	resp := d.Bill.ToResponse()
	resp.Splits = make([]*SplitResponse, len(d.Splits))
	for i, s := range d.Splits {
		resp.Splits[i] = s.ToResponse()
	}
	resp.Payments = make([]*PaymentResponse, len(d.Payments))
	for i, p := range d.Payments {
		resp.Payments[i] = p.ToResponse()
	}
	return resp
}
