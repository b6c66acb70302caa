package stubs

import (
	"context"
	"sort"
	"time"

	"library-backend/internal/analytics"
	"library-backend/internal/catalog"
	"library-backend/internal/circulation"
)

// ---- circulation.Repository ----

func (m *MemoryDB) loanRow(l loan) (circulation.CheckedOutLoan, bool) {
	rc, ok := m.receipts[l.ReceiptID]
	if !ok {
		return circulation.CheckedOutLoan{}, false
	}
	b, ok := m.books[rc.BookID]
	if !ok {
		return circulation.CheckedOutLoan{}, false
	}
	name, ok := m.memberName(rc.MemberID)
	if !ok {
		return circulation.CheckedOutLoan{}, false
	}
	return circulation.CheckedOutLoan{
		Loan: circulation.Loan{
			LoanID:     l.ID,
			ReceiptID:  rc.ID,
			LoanDate:   l.LoanDate,
			ReturnDate: l.ReturnDate,
			BookTitle:  b.Title,
			MemberName: name,
		},
		AvailabilityStatus: b.AvailabilityStatus,
	}, true
}

func (m *MemoryDB) activeLoans(asOf time.Time) []circulation.CheckedOutLoan {
	out := make([]circulation.CheckedOutLoan, 0)
	for _, id := range sortedKeys(m.loans) {
		l := m.loans[id]
		if l.ReturnDate.Before(asOf) {
			continue
		}
		if row, ok := m.loanRow(l); ok {
			out = append(out, row)
		}
	}
	return out
}

func (m *MemoryDB) ListActiveLoans(ctx context.Context, asOf time.Time) ([]circulation.Loan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := m.activeLoans(asOf)
	out := make([]circulation.Loan, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Loan)
	}
	return out, nil
}

func (m *MemoryDB) ListCheckedOutLoans(ctx context.Context, asOf time.Time) ([]circulation.CheckedOutLoan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := m.activeLoans(asOf)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ReturnDate.Before(out[j].ReturnDate) })
	return out, nil
}

func (m *MemoryDB) SummarizeUnpaidFines(ctx context.Context) ([]circulation.FineSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byUser := make(map[int64]*circulation.FineSummary)
	for _, id := range sortedKeys(m.fines) {
		f := m.fines[id]
		if f.IsPaid != nil && *f.IsPaid {
			continue
		}
		l, ok := m.loans[f.LoanID]
		if !ok {
			continue
		}
		rc, ok := m.receipts[l.ReceiptID]
		if !ok {
			continue
		}
		ms, ok := m.memberships[rc.MemberID]
		if !ok {
			continue
		}
		s, ok := byUser[ms.UserID]
		if !ok {
			s = &circulation.FineSummary{UserID: ms.UserID, FullName: m.users[ms.UserID]}
			byUser[ms.UserID] = s
		}
		s.PendingFinesCount++
		s.TotalFineAmount += f.Amount
	}

	out := make([]circulation.FineSummary, 0, len(byUser))
	for _, s := range byUser {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalFineAmount != out[j].TotalFineAmount {
			return out[i].TotalFineAmount > out[j].TotalFineAmount
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

// ---- analytics.Repository ----

func (m *MemoryDB) GenreDistribution(ctx context.Context) ([]analytics.GenreCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[string]int64)
	for _, b := range m.books {
		if !b.GenreID.Valid {
			continue
		}
		if g, ok := m.genres[b.GenreID.Int64]; ok {
			counts[g.GenreName]++
		}
	}
	out := make([]analytics.GenreCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, analytics.GenreCount{GenreName: name, BookCount: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BookCount != out[j].BookCount {
			return out[i].BookCount > out[j].BookCount
		}
		return out[i].GenreName < out[j].GenreName
	})
	return out, nil
}

func (m *MemoryDB) TopBorrowedBooks(ctx context.Context, limit uint) ([]analytics.BorrowCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[int64]int64)
	for _, rc := range m.receipts {
		if _, ok := m.books[rc.BookID]; ok {
			counts[rc.BookID]++
		}
	}
	out := make([]analytics.BorrowCount, 0, len(counts))
	for id, n := range counts {
		out = append(out, analytics.BorrowCount{BookID: id, Title: m.books[id].Title, TimesBorrowed: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TimesBorrowed != out[j].TimesBorrowed {
			return out[i].TimesBorrowed > out[j].TimesBorrowed
		}
		return out[i].BookID < out[j].BookID
	})
	if uint(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryDB) StatusCounts(ctx context.Context) ([]analytics.StatusCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[catalog.AvailabilityStatus]int64)
	for _, b := range m.books {
		counts[b.AvailabilityStatus]++
	}
	out := make([]analytics.StatusCount, 0, len(counts))
	for st, n := range counts {
		out = append(out, analytics.StatusCount{AvailabilityStatus: st, Total: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AvailabilityStatus < out[j].AvailabilityStatus })
	return out, nil
}
