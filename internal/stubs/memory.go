// Package stubs holds an in-memory implementation of every repository. It
// backs `database.driver: memory` and the HTTP tests.
package stubs

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"library-backend/internal/analytics"
	"library-backend/internal/catalog"
	"library-backend/internal/circulation"
	"library-backend/internal/platform/apierr"
	"library-backend/internal/reservations"
)

type membership struct {
	ID     int64
	UserID int64
}

type receipt struct {
	ID       int64
	MemberID int64
	BookID   int64
}

type loan struct {
	ID         int64
	ReceiptID  int64
	LoanDate   time.Time
	ReturnDate time.Time
}

type fine struct {
	ID     int64
	LoanID int64
	Amount float64
	IsPaid *bool
}

// MemoryDB keeps all tables in maps guarded by one RWMutex. Workflow
// transactions hold the write lock for their whole duration.
type MemoryDB struct {
	mu sync.RWMutex

	genres       map[int64]catalog.Genre
	users        map[int64]string
	memberships  map[int64]membership
	books        map[int64]catalog.Book
	reservations map[int64]reservations.Reservation
	receipts     map[int64]receipt
	loans        map[int64]loan
	fines        map[int64]fine

	nextReservationID int64
}

var (
	_ catalog.Repository      = (*MemoryDB)(nil)
	_ reservations.Repository = (*MemoryDB)(nil)
	_ circulation.Repository  = (*MemoryDB)(nil)
	_ analytics.Repository    = (*MemoryDB)(nil)
)

// NewMemoryDB returns an empty database.
func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		genres:            make(map[int64]catalog.Genre),
		users:             make(map[int64]string),
		memberships:       make(map[int64]membership),
		books:             make(map[int64]catalog.Book),
		reservations:      make(map[int64]reservations.Reservation),
		receipts:          make(map[int64]receipt),
		loans:             make(map[int64]loan),
		fines:             make(map[int64]fine),
		nextReservationID: 1,
	}
}

// NewSeededMemoryDB returns a database holding the same rows as the seed
// migration. Loan dates are relative to today.
func NewSeededMemoryDB(today time.Time) *MemoryDB {
	m := NewMemoryDB()
	m.Seed(today)
	return m
}

func (m *MemoryDB) Seed(today time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	day := func(offset int) time.Time {
		t := today.UTC()
		return time.Date(t.Year(), t.Month(), t.Day()+offset, 0, 0, 0, 0, time.UTC)
	}
	str := func(s string) sql.NullString { return sql.NullString{String: s, Valid: true} }
	num := func(n int64) sql.NullInt64 { return sql.NullInt64{Int64: n, Valid: true} }
	paid := func(b bool) *bool { return &b }

	for id, name := range map[int64]string{1: "Fiction", 2: "Science", 3: "History", 4: "Computing"} {
		m.genres[id] = catalog.Genre{GenreID: id, GenreName: name}
	}
	m.users[1] = "Alice Tan"
	m.users[2] = "Bob Silva"
	m.users[3] = "Chen Wei"
	m.memberships[201] = membership{ID: 201, UserID: 1}
	m.memberships[202] = membership{ID: 202, UserID: 2}
	m.memberships[203] = membership{ID: 203, UserID: 3}

	for _, b := range []catalog.Book{
		{BookID: 1, Title: "The Left Hand of Darkness", Edition: str("1st"), PublicationYear: num(1969), Price: 12.50, AvailabilityStatus: catalog.StatusAvailable, GenreID: num(1)},
		{BookID: 2, Title: "A Brief History of Time", Edition: str("10th"), PublicationYear: num(1998), Price: 18.00, AvailabilityStatus: catalog.StatusCheckedOut, GenreID: num(2)},
		{BookID: 3, Title: "The Guns of August", Edition: str("2nd"), PublicationYear: num(1994), Price: 15.75, AvailabilityStatus: catalog.StatusAvailable, GenreID: num(3)},
		{BookID: 4, Title: "The Go Programming Language", Edition: str("1st"), PublicationYear: num(2015), Price: 39.99, AvailabilityStatus: catalog.StatusCheckedOut, GenreID: num(4)},
		{BookID: 5, Title: "Structure and Interpretation of Computer Programs", Edition: str("2nd"), PublicationYear: num(1996), Price: 45.00, AvailabilityStatus: catalog.StatusAvailable, GenreID: num(4)},
		{BookID: 6, Title: "Dune", Edition: str("40th Anniversary"), PublicationYear: num(2005), Price: 11.20, AvailabilityStatus: catalog.StatusReserved, GenreID: num(1)},
	} {
		m.books[b.BookID] = b
	}

	m.reservations[1] = reservations.Reservation{
		ReservationID: 1, MemberID: 203, BookID: 6,
		ReservationDate: day(0), ExpiryDate: day(7), Status: reservations.StatusAccepted,
	}
	m.nextReservationID = 2

	m.receipts[1] = receipt{ID: 1, MemberID: 201, BookID: 2}
	m.receipts[2] = receipt{ID: 2, MemberID: 202, BookID: 4}
	m.receipts[3] = receipt{ID: 3, MemberID: 202, BookID: 2}
	m.receipts[4] = receipt{ID: 4, MemberID: 203, BookID: 1}

	m.loans[1] = loan{ID: 1, ReceiptID: 1, LoanDate: day(-3), ReturnDate: day(11)}
	m.loans[2] = loan{ID: 2, ReceiptID: 2, LoanDate: day(-10), ReturnDate: day(4)}
	m.loans[3] = loan{ID: 3, ReceiptID: 3, LoanDate: day(-60), ReturnDate: day(-46)}
	m.loans[4] = loan{ID: 4, ReceiptID: 4, LoanDate: day(-40), ReturnDate: day(-26)}

	m.fines[1] = fine{ID: 1, LoanID: 3, Amount: 4.50, IsPaid: paid(false)}
	m.fines[2] = fine{ID: 2, LoanID: 4, Amount: 2.00}
	m.fines[3] = fine{ID: 3, LoanID: 4, Amount: 1.25, IsPaid: paid(true)}
}

// PutBook inserts or replaces a book row.
func (m *MemoryDB) PutBook(b catalog.Book) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.books[b.BookID] = b
}

// PutLoan inserts or replaces a loan row. The receipt must already exist for
// the loan to show up in the reports.
func (m *MemoryDB) PutLoan(loanID, receiptID int64, loanDate, returnDate time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loans[loanID] = loan{ID: loanID, ReceiptID: receiptID, LoanDate: loanDate, ReturnDate: returnDate}
}

// ReservationCount lets tests check that no row was added.
func (m *MemoryDB) ReservationCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.reservations)
}

func (m *MemoryDB) memberName(memberID int64) (string, bool) {
	ms, ok := m.memberships[memberID]
	if !ok {
		return "", false
	}
	name, ok := m.users[ms.UserID]
	return name, ok
}

func sortedKeys[V any](mp map[int64]V) []int64 {
	keys := make([]int64, 0, len(mp))
	for k := range mp {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// ---- catalog.Repository ----

func (m *MemoryDB) ListBooks(ctx context.Context) ([]catalog.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]catalog.Book, 0, len(m.books))
	for _, id := range sortedKeys(m.books) {
		out = append(out, m.books[id])
	}
	return out, nil
}

// SearchBooksByTitle ignores case, like utf8mb4_0900_ai_ci.
func (m *MemoryDB) SearchBooksByTitle(ctx context.Context, substring string) ([]catalog.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	needle := strings.ToLower(substring)
	out := make([]catalog.Book, 0)
	for _, id := range sortedKeys(m.books) {
		if b := m.books[id]; strings.Contains(strings.ToLower(b.Title), needle) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *MemoryDB) GetBook(ctx context.Context, bookID int64) (*catalog.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.books[bookID]
	if !ok {
		return nil, apierr.ErrNotFound("book not found")
	}
	return &b, nil
}

func (m *MemoryDB) ListGenres(ctx context.Context) ([]catalog.Genre, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]catalog.Genre, 0, len(m.genres))
	for _, g := range m.genres {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GenreName < out[j].GenreName })
	return out, nil
}
