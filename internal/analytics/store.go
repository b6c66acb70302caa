package analytics

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"
	"github.com/jmoiron/sqlx"
)

type Repository interface {
	GenreDistribution(ctx context.Context) ([]GenreCount, error)
	TopBorrowedBooks(ctx context.Context, limit uint) ([]BorrowCount, error)
	StatusCounts(ctx context.Context) ([]StatusCount, error)
}

var dialect = goqu.Dialect("mysql")

type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store { return &Store{db: db} }

func genreDistributionQuery() *goqu.SelectDataset {
	return dialect.From(goqu.T("books").As("b")).Prepared(true).
		Join(goqu.T("genres").As("g"), goqu.On(goqu.I("b.genre_id").Eq(goqu.I("g.genre_id")))).
		Select(
			goqu.I("g.genre_name"),
			goqu.COUNT(goqu.I("b.book_id")).As("book_count"),
		).
		GroupBy(goqu.I("g.genre_name")).
		Order(goqu.C("book_count").Desc(), goqu.I("g.genre_name").Asc())
}

// 貸出回数は receipts の件数で数える
func topBorrowedQuery(limit uint) *goqu.SelectDataset {
	return dialect.From(goqu.T("receipts").As("rc")).Prepared(true).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("rc.book_id").Eq(goqu.I("b.book_id")))).
		Select(
			goqu.I("b.book_id"),
			goqu.I("b.title"),
			goqu.COUNT(goqu.I("rc.receipt_id")).As("times_borrowed"),
		).
		GroupBy(goqu.I("b.book_id"), goqu.I("b.title")).
		Order(goqu.C("times_borrowed").Desc(), goqu.I("b.book_id").Asc()).
		Limit(limit)
}

func statusCountsQuery() *goqu.SelectDataset {
	return dialect.From("books").Prepared(true).
		Select(
			goqu.C("availability_status"),
			goqu.COUNT(goqu.C("book_id")).As("total"),
		).
		GroupBy(goqu.C("availability_status")).
		Order(goqu.C("availability_status").Asc())
}

func selectInto[T any](ctx context.Context, db *sqlx.DB, ds *goqu.SelectDataset, what string) ([]T, error) {
	q, args, err := ds.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", what, err)
	}
	out := make([]T, 0, 16)
	if err := db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, fmt.Errorf("select %s: %w", what, err)
	}
	return out, nil
}

func (s *Store) GenreDistribution(ctx context.Context) ([]GenreCount, error) {
	return selectInto[GenreCount](ctx, s.db, genreDistributionQuery(), "genre distribution")
}

func (s *Store) TopBorrowedBooks(ctx context.Context, limit uint) ([]BorrowCount, error) {
	return selectInto[BorrowCount](ctx, s.db, topBorrowedQuery(limit), "top borrowed books")
}

func (s *Store) StatusCounts(ctx context.Context) ([]StatusCount, error) {
	return selectInto[StatusCount](ctx, s.db, statusCountsQuery(), "status counts")
}
