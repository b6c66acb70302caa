package circulation

import (
	"time"

	"library-backend/internal/catalog"
)

// Loan は loans に receipts / books / users を結合した1行
type Loan struct {
	LoanID     int64     `db:"loan_id"`
	ReceiptID  int64     `db:"receipt_id"`
	LoanDate   time.Time `db:"loan_date"`
	ReturnDate time.Time `db:"return_date"`
	BookTitle  string    `db:"book_title"`
	MemberName string    `db:"member_name"`
}

// CheckedOutLoan は Loan に本の現在の状態を加えたもの
type CheckedOutLoan struct {
	Loan
	AvailabilityStatus catalog.AvailabilityStatus `db:"availability_status"`
}

// FineSummary は会員ごとの未払い罰金の集計
type FineSummary struct {
	UserID            int64   `db:"user_id"`
	FullName          string  `db:"full_name"`
	PendingFinesCount int64   `db:"pending_fines_count"`
	TotalFineAmount   float64 `db:"total_fine_amount"`
}
