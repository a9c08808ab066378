package bill

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/hamadsh/billsplit/internal/split"
)

// Repository handles bill, split, and payment data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new bill repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// GetTeamCreator returns the creator of a team, with found=false when the
// team does not exist
func (r *Repository) GetTeamCreator(ctx context.Context, teamID uuid.UUID) (uuid.UUID, bool, error) {
	query := `SELECT created_by FROM teams WHERE id = $1`

	var creator uuid.UUID
	err := r.db.QueryRowContext(ctx, query, teamID).Scan(&creator)
	if err != nil {
		if err == sql.ErrNoRows {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, fmt.Errorf("failed to get team creator: %w", err)
	}

	return creator, true, nil
}

// CreateBill inserts a bill together with its splits and payments as one
// transaction; a failed insert leaves nothing behind
func (r *Repository) CreateBill(ctx context.Context, creatorID uuid.UUID, req *CreateBillRequest, date time.Time, obligations []split.Output, shares []split.PaymentShare) (*BillDetail, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO bills (team_id, title, amount, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, team_id, title, amount, created_by, created_at
	`

	b := &Bill{}
	err = tx.QueryRowContext(ctx, query, req.TeamID, req.Title, req.Amount, creatorID, date).Scan(
		&b.ID,
		&b.TeamID,
		&b.Title,
		&b.Amount,
		&b.CreatedBy,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create bill: %w", err)
	}

	splits, err := insertSplits(ctx, tx, b.ID, obligations)
	if err != nil {
		return nil, err
	}
	payments, err := insertPayments(ctx, tx, b.ID, shares)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit bill: %w", err)
	}

	return &BillDetail{Bill: b, Splits: splits, Payments: payments}, nil
}

// ReplaceBill updates the bill row and swaps its entire split and payment
// collections inside one transaction (delete-then-insert). A partial
// replacement is never observable.
func (r *Repository) ReplaceBill(ctx context.Context, billID uuid.UUID, req *EditBillRequest, date time.Time, obligations []split.Output, shares []split.PaymentShare) (*BillDetail, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE bills
		SET title = $2, amount = $3, created_at = $4
		WHERE id = $1
		RETURNING id, team_id, title, amount, created_by, created_at
	`

	b := &Bill{}
	err = tx.QueryRowContext(ctx, query, billID, req.Title, req.Amount, date).Scan(
		&b.ID,
		&b.TeamID,
		&b.Title,
		&b.Amount,
		&b.CreatedBy,
		&b.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrBillNotFound
		}
		return nil, fmt.Errorf("failed to update bill: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM splits WHERE bill_id = $1`, billID); err != nil {
		return nil, fmt.Errorf("failed to delete old splits: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM payments WHERE bill_id = $1`, billID); err != nil {
		return nil, fmt.Errorf("failed to delete old payments: %w", err)
	}

	splits, err := insertSplits(ctx, tx, billID, obligations)
	if err != nil {
		return nil, err
	}
	payments, err := insertPayments(ctx, tx, billID, shares)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit bill edit: %w", err)
	}

	return &BillDetail{Bill: b, Splits: splits, Payments: payments}, nil
}

func insertSplits(ctx context.Context, tx *sql.Tx, billID uuid.UUID, obligations []split.Output) ([]*Split, error) {
	query := `
		INSERT INTO splits (bill_id, user_id, amount_owed)
		VALUES ($1, $2, $3)
		RETURNING id, bill_id, user_id, amount_owed, settled, settled_at, settled_by, is_removed
	`

	splits := make([]*Split, len(obligations))
	for i, o := range obligations {
		s := &Split{}
		var settledAt sql.NullTime
		var settledBy uuid.NullUUID
		err := tx.QueryRowContext(ctx, query, billID, o.UserID, o.AmountOwed).Scan(
			&s.ID,
			&s.BillID,
			&s.UserID,
			&s.AmountOwed,
			&s.Settled,
			&settledAt,
			&settledBy,
			&s.Removed,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create split: %w", err)
		}
		setSettlement(s, settledAt, settledBy)
		splits[i] = s
	}

	return splits, nil
}

func insertPayments(ctx context.Context, tx *sql.Tx, billID uuid.UUID, shares []split.PaymentShare) ([]*Payment, error) {
	query := `
		INSERT INTO payments (bill_id, user_id, amount_paid)
		VALUES ($1, $2, $3)
		RETURNING id, bill_id, user_id, amount_paid
	`

	payments := make([]*Payment, len(shares))
	for i, share := range shares {
		p := &Payment{}
		err := tx.QueryRowContext(ctx, query, billID, share.UserID, share.AmountPaid).Scan(
			&p.ID,
			&p.BillID,
			&p.UserID,
			&p.AmountPaid,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create payment: %w", err)
		}
		payments[i] = p
	}

	return payments, nil
}

// GetBillByID retrieves a bill by its ID, nil when it does not exist
func (r *Repository) GetBillByID(ctx context.Context, id uuid.UUID) (*Bill, error) {
	query := `
		SELECT b.id, b.team_id, b.title, b.amount, b.created_by, b.created_at, t.name
		FROM bills b
		JOIN teams t ON b.team_id = t.id
		WHERE b.id = $1
	`

	b := &Bill{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID,
		&b.TeamID,
		&b.Title,
		&b.Amount,
		&b.CreatedBy,
		&b.CreatedAt,
		&b.TeamName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	return b, nil
}

// IsPayer reports whether the user has a recorded payment on the bill
func (r *Repository) IsPayer(ctx context.Context, billID, userID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM payments WHERE bill_id = $1 AND user_id = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, billID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check payer: %w", err)
	}

	return exists, nil
}

// GetSplitsByBillID retrieves all splits for a bill
func (r *Repository) GetSplitsByBillID(ctx context.Context, billID uuid.UUID) ([]*Split, error) {
	query := `
		SELECT id, bill_id, user_id, amount_owed, settled, settled_at, settled_by, is_removed
		FROM splits
		WHERE bill_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	return scanSplits(rows)
}

// GetPaymentsByBillID retrieves all payments for a bill
func (r *Repository) GetPaymentsByBillID(ctx context.Context, billID uuid.UUID) ([]*Payment, error) {
	query := `
		SELECT id, bill_id, user_id, amount_paid
		FROM payments
		WHERE bill_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}
	defer rows.Close()

	return scanPayments(rows)
}

// GetSplitsByBillIDs retrieves splits for many bills at once, grouped by bill
func (r *Repository) GetSplitsByBillIDs(ctx context.Context, billIDs []uuid.UUID) (map[uuid.UUID][]*Split, error) {
	query := `
		SELECT id, bill_id, user_id, amount_owed, settled, settled_at, settled_by, is_removed
		FROM splits
		WHERE bill_id = ANY($1::uuid[])
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(uuidStrings(billIDs)))
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	splits, err := scanSplits(rows)
	if err != nil {
		return nil, err
	}

	grouped := make(map[uuid.UUID][]*Split)
	for _, s := range splits {
		grouped[s.BillID] = append(grouped[s.BillID], s)
	}

	return grouped, nil
}

// GetPaymentsByBillIDs retrieves payments for many bills at once, grouped by bill
func (r *Repository) GetPaymentsByBillIDs(ctx context.Context, billIDs []uuid.UUID) (map[uuid.UUID][]*Payment, error) {
	query := `
		SELECT id, bill_id, user_id, amount_paid
		FROM payments
		WHERE bill_id = ANY($1::uuid[])
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(uuidStrings(billIDs)))
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}
	defer rows.Close()

	payments, err := scanPayments(rows)
	if err != nil {
		return nil, err
	}

	grouped := make(map[uuid.UUID][]*Payment)
	for _, p := range payments {
		grouped[p.BillID] = append(grouped[p.BillID], p)
	}

	return grouped, nil
}

// ListByTeam retrieves all bills for a team, newest first
func (r *Repository) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]*Bill, error) {
	query := `
		SELECT b.id, b.team_id, b.title, b.amount, b.created_by, b.created_at, t.name
		FROM bills b
		JOIN teams t ON b.team_id = t.id
		WHERE b.team_id = $1
		ORDER BY b.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	return scanBills(rows)
}

// ListForUser retrieves bills across all teams the user is an active member
// of, newest first. limit <= 0 means no limit.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*Bill, error) {
	query := `
		SELECT b.id, b.team_id, b.title, b.amount, b.created_by, b.created_at, t.name
		FROM bills b
		JOIN teams t ON b.team_id = t.id
		JOIN team_members tm ON tm.team_id = b.team_id
		WHERE tm.user_id = $1 AND tm.is_removed = FALSE
		ORDER BY b.created_at DESC
	`

	args := []interface{}{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	return scanBills(rows)
}

// SettleSplit marks the (bill, user) split settled, returning the number of
// rows touched. A second settle rewrites the same row; zero rows means
// there is no such split.
func (r *Repository) SettleSplit(ctx context.Context, billID, userID uuid.UUID, settledAt time.Time) (int64, error) {
	query := `
		UPDATE splits
		SET settled = TRUE, settled_at = $3, settled_by = $2
		WHERE bill_id = $1 AND user_id = $2
	`

	result, err := r.db.ExecContext(ctx, query, billID, userID, settledAt)
	if err != nil {
		return 0, fmt.Errorf("failed to settle split: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return affected, nil
}

// GetStats aggregates the user's dashboard numbers: spend across their
// active teams, active team count, and bills they created
func (r *Repository) GetStats(ctx context.Context, userID uuid.UUID) (*StatsResponse, error) {
	query := `
		SELECT
			COALESCE((
				SELECT SUM(b.amount)
				FROM bills b
				JOIN team_members tm ON tm.team_id = b.team_id
				WHERE tm.user_id = $1 AND tm.is_removed = FALSE
			), 0),
			(SELECT COUNT(*) FROM team_members WHERE user_id = $1 AND is_removed = FALSE),
			(SELECT COUNT(*) FROM bills WHERE created_by = $1)
	`

	stats := &StatsResponse{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&stats.TotalSpent,
		&stats.ActiveTeams,
		&stats.BillsCreated,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	return stats, nil
}

func scanBills(rows *sql.Rows) ([]*Bill, error) {
	var bills []*Bill
	for rows.Next() {
		b := &Bill{}
		if err := rows.Scan(
			&b.ID,
			&b.TeamID,
			&b.Title,
			&b.Amount,
			&b.CreatedBy,
			&b.CreatedAt,
			&b.TeamName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

func scanSplits(rows *sql.Rows) ([]*Split, error) {
	var splits []*Split
	for rows.Next() {
		s := &Split{}
		var settledAt sql.NullTime
		var settledBy uuid.NullUUID
		if err := rows.Scan(
			&s.ID,
			&s.BillID,
			&s.UserID,
			&s.AmountOwed,
			&s.Settled,
			&settledAt,
			&settledBy,
			&s.Removed,
		); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		setSettlement(s, settledAt, settledBy)
		splits = append(splits, s)
	}
	return splits, rows.Err()
}

func setSettlement(s *Split, settledAt sql.NullTime, settledBy uuid.NullUUID) {
	if settledAt.Valid {
		t := settledAt.Time
		s.SettledAt = &t
	}
	if settledBy.Valid {
		id := settledBy.UUID
		s.SettledBy = &id
	}
}

func scanPayments(rows *sql.Rows) ([]*Payment, error) {
	var payments []*Payment
	for rows.Next() {
		p := &Payment{}
		if err := rows.Scan(
			&p.ID,
			&p.BillID,
			&p.UserID,
			&p.AmountPaid,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func uuidStrings(ids []uuid.UUID) []string {
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}
	return strs
}
