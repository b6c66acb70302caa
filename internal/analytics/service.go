package analytics

import (
	"context"

	"library-backend/internal/platform/apierr"
)

const (
	DefaultTopBorrowedLimit = 10
	MaxTopBorrowedLimit     = 100
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service { return &Service{repo: repo} }

func (s *Service) GenreDistribution(ctx context.Context) ([]GenreCount, error) {
	return s.repo.GenreDistribution(ctx)
}

// TopBorrowedBooks returns at most limit books ordered by receipt count.
func (s *Service) TopBorrowedBooks(ctx context.Context, limit int) ([]BorrowCount, error) {
	if limit < 1 || limit > MaxTopBorrowedLimit {
		return nil, apierr.ErrInvalid("limit must be between 1 and 100")
	}
	return s.repo.TopBorrowedBooks(ctx, uint(limit))
}

func (s *Service) StatusCounts(ctx context.Context) ([]StatusCount, error) {
	return s.repo.StatusCounts(ctx)
}
