package circulation

import (
	"bytes"
	"context"
	"fmt"
	"time"
)

type Clock interface{ Now() time.Time }
type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

type Service struct {
	repo  Repository
	clock Clock
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: realClock{}}
}

// WithClock replaces the time source used to decide which loans are still out.
func (s *Service) WithClock(c Clock) *Service {
	s.clock = c
	return s
}

// today is the current UTC date at midnight.
func (s *Service) today() time.Time {
	t := s.clock.Now().UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// GET /loans/active
func (s *Service) ListActiveLoans(ctx context.Context) ([]LoanResponse, error) {
	loans, err := s.repo.ListActiveLoans(ctx, s.today())
	if err != nil {
		return nil, err
	}
	return toLoanResponses(loans), nil
}

// GET /staff/loans/checkedout
func (s *Service) ListCheckedOutLoans(ctx context.Context) ([]CheckedOutLoanResponse, error) {
	loans, err := s.repo.ListCheckedOutLoans(ctx, s.today())
	if err != nil {
		return nil, err
	}
	return toCheckedOutResponses(loans), nil
}

// GET /staff/fines/summary
func (s *Service) SummarizeFinesByMember(ctx context.Context) ([]FineSummaryResponse, error) {
	fines, err := s.repo.SummarizeUnpaidFines(ctx)
	if err != nil {
		return nil, err
	}
	return toFineResponses(fines), nil
}

// ExportCheckedOutCSV renders the checked-out report. The whole file is built
// in memory so an encoding failure never produces a truncated download.
func (s *Service) ExportCheckedOutCSV(ctx context.Context, enc Encoding) ([]byte, error) {
	loans, err := s.repo.ListCheckedOutLoans(ctx, s.today())
	if err != nil {
		return nil, err
	}
	var b bytes.Buffer
	if err := WriteCheckedOutCSV(&b, enc, loans); err != nil {
		return nil, fmt.Errorf("export checked out loans: %w", err)
	}
	return b.Bytes(), nil
}
