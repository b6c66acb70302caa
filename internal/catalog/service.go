package catalog

import (
	"context"
	"strings"

	"library-backend/internal/platform/apierr"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service { return &Service{repo: repo} }

func (s *Service) ListAllBooks(ctx context.Context) ([]BookResponse, error) {
	books, err := s.repo.ListBooks(ctx)
	if err != nil {
		return nil, err
	}
	return toBookResponses(books), nil
}

func (s *Service) SearchBooksByTitle(ctx context.Context, title string) ([]BookResponse, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apierr.ErrInvalid("title is required")
	}
	books, err := s.repo.SearchBooksByTitle(ctx, title)
	if err != nil {
		return nil, err
	}
	return toBookResponses(books), nil
}

func (s *Service) GetBook(ctx context.Context, bookID int64) (BookResponse, error) {
	if bookID <= 0 {
		return BookResponse{}, apierr.ErrInvalid("book id must be > 0")
	}
	b, err := s.repo.GetBook(ctx, bookID)
	if err != nil {
		return BookResponse{}, err
	}
	return b.toDTO(), nil
}

func (s *Service) ListGenres(ctx context.Context) ([]GenreResponse, error) {
	genres, err := s.repo.ListGenres(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]GenreResponse, 0, len(genres))
	for _, g := range genres {
		out = append(out, GenreResponse{GenreID: g.GenreID, GenreName: g.GenreName})
	}
	return out, nil
}
