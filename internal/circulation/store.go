package circulation

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Repository is read-only; loans and fines are written by an external process.
type Repository interface {
	// asOf is compared by date (return_date >= asOf).
	ListActiveLoans(ctx context.Context, asOf time.Time) ([]Loan, error)
	ListCheckedOutLoans(ctx context.Context, asOf time.Time) ([]CheckedOutLoan, error)
	SummarizeUnpaidFines(ctx context.Context) ([]FineSummary, error)
}

type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store { return &Store{db: db} }

const loanJoin = `
	FROM loans l
	JOIN receipts rc ON rc.receipt_id = l.receipt_id
	JOIN books b ON b.book_id = rc.book_id
	JOIN memberships m ON m.membership_id = rc.member_id
	JOIN users u ON u.user_id = m.user_id`

func (s *Store) ListActiveLoans(ctx context.Context, asOf time.Time) ([]Loan, error) {
	q := `
	SELECT l.loan_id, rc.receipt_id, l.loan_date, l.return_date,
		b.title AS book_title, u.full_name AS member_name` + loanJoin + `
	WHERE l.return_date >= ?
	ORDER BY l.loan_id ASC`
	out := make([]Loan, 0, 16)
	if err := s.db.SelectContext(ctx, &out, q, asOf.Format(time.DateOnly)); err != nil {
		return nil, fmt.Errorf("list active loans: %w", err)
	}
	return out, nil
}

func (s *Store) ListCheckedOutLoans(ctx context.Context, asOf time.Time) ([]CheckedOutLoan, error) {
	q := `
	SELECT l.loan_id, rc.receipt_id, l.loan_date, l.return_date,
		b.title AS book_title, u.full_name AS member_name,
		b.availability_status` + loanJoin + `
	WHERE l.return_date >= ?
	ORDER BY l.return_date ASC, l.loan_id ASC`
	out := make([]CheckedOutLoan, 0, 16)
	if err := s.db.SelectContext(ctx, &out, q, asOf.Format(time.DateOnly)); err != nil {
		return nil, fmt.Errorf("list checked out loans: %w", err)
	}
	return out, nil
}

func (s *Store) SummarizeUnpaidFines(ctx context.Context) ([]FineSummary, error) {
	const q = `
	SELECT u.user_id, u.full_name,
		COUNT(f.fine_id) AS pending_fines_count,
		SUM(f.amount)    AS total_fine_amount
	FROM fines f
	JOIN loans l ON l.loan_id = f.loan_id
	JOIN receipts rc ON rc.receipt_id = l.receipt_id
	JOIN memberships m ON m.membership_id = rc.member_id
	JOIN users u ON u.user_id = m.user_id
	WHERE f.is_paid = 0 OR f.is_paid IS NULL
	GROUP BY u.user_id, u.full_name
	ORDER BY total_fine_amount DESC, u.user_id ASC`
	out := make([]FineSummary, 0, 16)
	if err := s.db.SelectContext(ctx, &out, q); err != nil {
		return nil, fmt.Errorf("summarize fines: %w", err)
	}
	return out, nil
}
