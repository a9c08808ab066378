package bill

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hamadsh/billsplit/internal/split"
	"github.com/hamadsh/billsplit/pkg/apperr"
)

// Common errors
var (
	ErrBillNotFound   = apperr.NotFound("bill not found")
	ErrSplitNotFound  = apperr.NotFound("split not found")
	ErrTeamNotFound   = apperr.NotFound("team not found")
	ErrNotTeamCreator = apperr.Forbidden("only the team creator can add a bill")
	ErrNotBillEditor  = apperr.Forbidden("not allowed to edit this bill")
)

// recentLimit bounds the dashboard's recent-bills listing
const recentLimit = 5

// Service handles bill business logic
type Service struct {
	repo    *Repository
	factory *split.Factory
}

// NewService creates a new bill service with dependencies injected
func NewService(repo *Repository, factory *split.Factory) *Service {
	return &Service{repo: repo, factory: factory}
}

// Create computes splits and payments for a new bill and persists the
// whole unit in one transaction. Only the team creator may add a bill.
func (s *Service) Create(ctx context.Context, actorID uuid.UUID, req *CreateBillRequest) (*BillDetail, error) {
	date, err := req.Validate()
	if err != nil {
		return nil, err
	}

	creator, found, err := s.repo.GetTeamCreator(ctx, req.TeamID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrTeamNotFound
	}
	if creator != actorID {
		return nil, ErrNotTeamCreator
	}

	obligations, shares, err := s.compute(req.SplitMethod, req.Amount, req.Participants, req.Payers, req.PayerAmounts)
	if err != nil {
		return nil, err
	}

	detail, err := s.repo.CreateBill(ctx, actorID, req, date, obligations, shares)
	if err != nil {
		return nil, err
	}

	slog.Info("bill created",
		"bill_id", detail.Bill.ID,
		"team_id", detail.Bill.TeamID,
		"splits", len(detail.Splits),
		"payments", len(detail.Payments),
	)

	return detail, nil
}

// Edit replaces a bill's fields and its entire split and payment
// collections atomically. The bill creator or any recorded payer may edit.
func (s *Service) Edit(ctx context.Context, actorID, billID uuid.UUID, req *EditBillRequest) (*BillDetail, error) {
	date, err := req.Validate()
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetBillByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrBillNotFound
	}

	if existing.CreatedBy != actorID {
		isPayer, err := s.repo.IsPayer(ctx, billID, actorID)
		if err != nil {
			return nil, err
		}
		if !isPayer {
			return nil, ErrNotBillEditor
		}
	}

	obligations, shares, err := s.compute(req.SplitMethod, req.Amount, req.Participants, req.Payers, req.PayerAmounts)
	if err != nil {
		return nil, err
	}

	detail, err := s.repo.ReplaceBill(ctx, billID, req, date, obligations, shares)
	if err != nil {
		return nil, err
	}

	slog.Info("bill edited", "bill_id", billID, "actor_id", actorID)

	return detail, nil
}

// GetByID retrieves a bill with its splits and payments
func (s *Service) GetByID(ctx context.Context, billID uuid.UUID) (*BillDetail, error) {
	b, err := s.repo.GetBillByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBillNotFound
	}

	splits, err := s.repo.GetSplitsByBillID(ctx, billID)
	if err != nil {
		return nil, err
	}
	payments, err := s.repo.GetPaymentsByBillID(ctx, billID)
	if err != nil {
		return nil, err
	}

	return &BillDetail{Bill: b, Splits: splits, Payments: payments}, nil
}

// ListByTeam retrieves all bills for a team, newest first
func (s *Service) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]*Bill, error) {
	return s.repo.ListByTeam(ctx, teamID)
}

// Recent retrieves the user's most recent bills across all their teams
func (s *Service) Recent(ctx context.Context, userID uuid.UUID) ([]*Bill, error) {
	return s.repo.ListForUser(ctx, userID, recentLimit)
}

// History retrieves every bill in the user's teams, each classified into
// the bucket it lands in for that user
func (s *Service) History(ctx context.Context, userID uuid.UUID) ([]*HistoryEntry, error) {
	bills, err := s.repo.ListForUser(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	if len(bills) == 0 {
		return []*HistoryEntry{}, nil
	}

	ids := make([]uuid.UUID, len(bills))
	for i, b := range bills {
		ids[i] = b.ID
	}

	splitsByBill, err := s.repo.GetSplitsByBillIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	paymentsByBill, err := s.repo.GetPaymentsByBillIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	entries := make([]*HistoryEntry, len(bills))
	for i, b := range bills {
		entries[i] = &HistoryEntry{
			Bill:   b.ToResponse(),
			Bucket: Classify(splitsByBill[b.ID], paymentsByBill[b.ID], userID),
		}
	}

	return entries, nil
}

// Settle marks the acting user's split on a bill as settled, recording
// when and by whom. Settling an already-settled split updates the row in
// place and is accepted as a no-op.
func (s *Service) Settle(ctx context.Context, billID, userID uuid.UUID) error {
	affected, err := s.repo.SettleSplit(ctx, billID, userID, time.Now().UTC())
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSplitNotFound
	}

	slog.Info("split settled", "bill_id", billID, "user_id", userID)

	return nil
}

// Stats aggregates the user's dashboard numbers
func (s *Service) Stats(ctx context.Context, userID uuid.UUID) (*StatsResponse, error) {
	return s.repo.GetStats(ctx, userID)
}

// compute runs the split calculator and the payments companion for the
// given method and inputs. Pure computation; persistence stays with the
// caller.
func (s *Service) compute(method string, amount decimal.Decimal, participants []*Participant, payers []uuid.UUID, payerAmounts map[uuid.UUID]decimal.Decimal) ([]split.Output, []split.PaymentShare, error) {
	strategy, err := s.factory.CreateFromString(method)
	if err != nil {
		return nil, nil, err
	}

	inputs := make([]split.Input, len(participants))
	for i, p := range participants {
		inputs[i] = p.ToSplitInput()
	}

	obligations, err := strategy.Calculate(amount, inputs)
	if err != nil {
		return nil, nil, err
	}

	shares, err := split.ComputePayments(amount, payers, payerAmounts)
	if err != nil {
		return nil, nil, err
	}

	return obligations, shares, nil
}
