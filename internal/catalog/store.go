package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"
	"github.com/jmoiron/sqlx"

	"library-backend/internal/platform/apierr"
)

// Repository is the read side of the catalog.
type Repository interface {
	ListBooks(ctx context.Context) ([]Book, error)
	SearchBooksByTitle(ctx context.Context, substring string) ([]Book, error)
	GetBook(ctx context.Context, bookID int64) (*Book, error)
	ListGenres(ctx context.Context) ([]Genre, error)
}

var dialect = goqu.Dialect("mysql")

var bookColumns = []any{
	"book_id", "title", "edition", "publication_year", "price", "availability_status", "genre_id",
}

type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store { return &Store{db: db} }

func (s *Store) books() *goqu.SelectDataset {
	return dialect.From("books").Prepared(true).Select(bookColumns...)
}

func (s *Store) selectBooks(ctx context.Context, ds *goqu.SelectDataset) ([]Book, error) {
	q, args, err := ds.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build books query: %w", err)
	}
	out := make([]Book, 0, 32)
	if err := s.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, fmt.Errorf("select books: %w", err)
	}
	return out, nil
}

func (s *Store) ListBooks(ctx context.Context) ([]Book, error) {
	return s.selectBooks(ctx, s.books().Order(goqu.C("book_id").Asc()))
}

// SearchBooksByTitle is a substring match. Case handling follows the column collation
// (the goqu mysql dialect renders Like as LIKE BINARY, so ILike is used).
func (s *Store) SearchBooksByTitle(ctx context.Context, substring string) ([]Book, error) {
	ds := s.books().
		Where(goqu.C("title").ILike("%" + escapeLike(substring) + "%")).
		Order(goqu.C("book_id").Asc())
	return s.selectBooks(ctx, ds)
}

func (s *Store) GetBook(ctx context.Context, bookID int64) (*Book, error) {
	q, args, err := s.books().Where(goqu.C("book_id").Eq(bookID)).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build book query: %w", err)
	}
	var b Book
	if err := s.db.GetContext(ctx, &b, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierr.ErrNotFound("book not found")
		}
		return nil, fmt.Errorf("get book %d: %w", bookID, err)
	}
	return &b, nil
}

func (s *Store) ListGenres(ctx context.Context) ([]Genre, error) {
	q, args, err := dialect.From("genres").Prepared(true).
		Select("genre_id", "genre_name").
		Order(goqu.C("genre_name").Asc()).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build genres query: %w", err)
	}
	out := make([]Genre, 0, 16)
	if err := s.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, fmt.Errorf("select genres: %w", err)
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in user input match literally.
func escapeLike(s string) string { return likeEscaper.Replace(s) }
