package circulation

import "time"

type LoanResponse struct {
	LoanID     int64     `json:"loanId"`
	ReceiptID  int64     `json:"receiptId"`
	LoanDate   time.Time `json:"loanDate"`
	ReturnDate time.Time `json:"returnDate"`
	BookTitle  string    `json:"bookTitle"`
	MemberName string    `json:"memberName"`
}

type CheckedOutLoanResponse struct {
	LoanID             int64     `json:"loanId"`
	BookTitle          string    `json:"bookTitle"`
	MemberName         string    `json:"memberName"`
	LoanDate           time.Time `json:"loanDate"`
	ReturnDate         time.Time `json:"returnDate"`
	AvailabilityStatus string    `json:"availabilityStatus"`
}

type FineSummaryResponse struct {
	UserID            int64   `json:"userId"`
	FullName          string  `json:"fullName"`
	PendingFinesCount int64   `json:"pendingFinesCount"`
	TotalFineAmount   float64 `json:"totalFineAmount"`
}

func toLoanResponses(in []Loan) []LoanResponse {
	out := make([]LoanResponse, 0, len(in))
	for _, l := range in {
		out = append(out, LoanResponse{
			LoanID:     l.LoanID,
			ReceiptID:  l.ReceiptID,
			LoanDate:   l.LoanDate,
			ReturnDate: l.ReturnDate,
			BookTitle:  l.BookTitle,
			MemberName: l.MemberName,
		})
	}
	return out
}

func toCheckedOutResponses(in []CheckedOutLoan) []CheckedOutLoanResponse {
	out := make([]CheckedOutLoanResponse, 0, len(in))
	for _, l := range in {
		out = append(out, CheckedOutLoanResponse{
			LoanID:             l.LoanID,
			BookTitle:          l.BookTitle,
			MemberName:         l.MemberName,
			LoanDate:           l.LoanDate,
			ReturnDate:         l.ReturnDate,
			AvailabilityStatus: string(l.AvailabilityStatus),
		})
	}
	return out
}

func toFineResponses(in []FineSummary) []FineSummaryResponse {
	out := make([]FineSummaryResponse, 0, len(in))
	for _, f := range in {
		out = append(out, FineSummaryResponse(f))
	}
	return out
}
