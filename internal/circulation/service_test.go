package circulation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/circulation"
	"library-backend/internal/stubs"
)

func TestListActiveLoans(t *testing.T) {
	svc := circulation.NewService(stubs.NewSeededMemoryDB(time.Now().UTC()))
	ctx := context.Background()

	loans, err := svc.ListActiveLoans(ctx)
	require.NoError(t, err)
	require.Len(t, loans, 2)
	assert.Equal(t, int64(1), loans[0].LoanID)
	assert.Equal(t, "Alice Tan", loans[0].MemberName)
	assert.Equal(t, "A Brief History of Time", loans[0].BookTitle)

	again, err := svc.ListActiveLoans(ctx)
	require.NoError(t, err)
	assert.Equal(t, loans, again)
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func loanIDs(loans []circulation.LoanResponse) []int64 {
	ids := make([]int64, 0, len(loans))
	for _, l := range loans {
		ids = append(ids, l.LoanID)
	}
	return ids
}

func TestListActiveLoans_ReturnDateBoundary(t *testing.T) {
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	db := stubs.NewSeededMemoryDB(today)
	// 返却期限が今日なら貸出中，昨日なら対象外
	db.PutLoan(5, 1, today.AddDate(0, 0, -2), today)
	db.PutLoan(6, 2, today.AddDate(0, 0, -9), today.AddDate(0, 0, -1))
	svc := circulation.NewService(db).WithClock(fixedClock{today.Add(23 * time.Hour)})
	ctx := context.Background()

	active, err := svc.ListActiveLoans(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 5}, loanIDs(active))

	out, err := svc.ListCheckedOutLoans(ctx)
	require.NoError(t, err)
	require.Len(t, out, 3)
	// 期限の近い順なので今日期限の 5 が先頭
	assert.Equal(t, int64(5), out[0].LoanID)
	for _, l := range out {
		assert.NotEqual(t, int64(6), l.LoanID)
	}
}

func TestListCheckedOutLoans_DueDateAscending(t *testing.T) {
	svc := circulation.NewService(stubs.NewSeededMemoryDB(time.Now().UTC()))

	loans, err := svc.ListCheckedOutLoans(context.Background())
	require.NoError(t, err)
	require.Len(t, loans, 2)
	assert.Equal(t, int64(2), loans[0].LoanID)
	assert.Equal(t, int64(1), loans[1].LoanID)
	assert.Equal(t, "CheckedOut", loans[0].AvailabilityStatus)
}

func TestSummarizeFinesByMember(t *testing.T) {
	svc := circulation.NewService(stubs.NewSeededMemoryDB(time.Now().UTC()))

	fines, err := svc.SummarizeFinesByMember(context.Background())
	require.NoError(t, err)
	require.Len(t, fines, 2)

	// 支払済みの 1.25 は含まれない
	assert.Equal(t, circulation.FineSummaryResponse{UserID: 2, FullName: "Bob Silva", PendingFinesCount: 1, TotalFineAmount: 4.50}, fines[0])
	assert.Equal(t, circulation.FineSummaryResponse{UserID: 3, FullName: "Chen Wei", PendingFinesCount: 1, TotalFineAmount: 2.00}, fines[1])
}

func TestExportCheckedOutCSV(t *testing.T) {
	svc := circulation.NewService(stubs.NewSeededMemoryDB(time.Now().UTC()))

	body, err := svc.ExportCheckedOutCSV(context.Background(), circulation.EncodingUTF8)
	require.NoError(t, err)
	assert.Contains(t, string(body), "The Go Programming Language,Bob Silva")
}
