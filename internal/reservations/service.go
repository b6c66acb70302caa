package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"library-backend/internal/catalog"
	"library-backend/internal/platform/apierr"
	"library-backend/internal/platform/session"
)

type Clock interface{ Now() time.Time }
type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

type Service struct {
	repo   Repository
	clock  Clock
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, clock: realClock{}, logger: logger}
}

// WithClock replaces the time source.
func (s *Service) WithClock(c Clock) *Service {
	s.clock = c
	return s
}

// POST /reserve
func (s *Service) CreateReservation(ctx context.Context, sess session.Session, in CreateReservationRequest) (CreatedResponse, error) {
	if in.MemberID <= 0 || in.BookID <= 0 {
		return CreatedResponse{}, apierr.ErrInvalid("memberId and bookId are required")
	}
	if !sess.ActsFor(in.MemberID) {
		return CreatedResponse{}, apierr.ErrForbidden("cannot reserve for another member")
	}

	// The reservation date is a calendar date; the deadline is exactly 7 days later.
	today := truncateDay(s.clock.Now())
	r := &Reservation{
		MemberID:        in.MemberID,
		BookID:          in.BookID,
		ReservationDate: today,
		ExpiryDate:      today.Add(holdPeriod),
		Status:          StatusPending,
	}

	err := s.repo.InTx(ctx, func(ctx context.Context, tx Tx) error {
		st, err := tx.BookStatusForUpdate(ctx, in.BookID)
		if err != nil {
			if apierr.Is(err, apierr.CodeNotFound) {
				return apierr.ErrConflict("book is not available")
			}
			return err
		}
		if st != catalog.StatusAvailable {
			return apierr.ErrConflict("book is not available")
		}
		open, err := tx.HasOpenReservation(ctx, in.BookID)
		if err != nil {
			return err
		}
		if open {
			return apierr.ErrConflict("book is not available")
		}
		return tx.InsertReservation(ctx, r)
	})
	if err != nil {
		return CreatedResponse{}, err
	}

	s.logger.Info("reservation created",
		zap.Int64("reservation_id", r.ReservationID),
		zap.Int64("member_id", r.MemberID),
		zap.Int64("book_id", r.BookID),
	)
	return CreatedResponse{
		Message:       "Reservation requested. Waiting for staff approval.",
		ReservationID: r.ReservationID,
	}, nil
}

// GET /members/:id/reservations
func (s *Service) ListReservationsForMember(ctx context.Context, sess session.Session, memberID int64) ([]ReservationResponse, error) {
	if memberID <= 0 {
		return nil, apierr.ErrInvalid("member id must be > 0")
	}
	if !sess.ActsFor(memberID) {
		return nil, apierr.ErrForbidden("cannot view another member's reservations")
	}
	views, err := s.repo.ListByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return toResponses(views), nil
}

// GET /staff/reservations/all
func (s *Service) ListAllReservations(ctx context.Context) ([]ReservationResponse, error) {
	views, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return toResponses(views), nil
}

// GET /reservations/:id
func (s *Service) GetReservation(ctx context.Context, sess session.Session, reservationID int64) (ReservationResponse, error) {
	if reservationID <= 0 {
		return ReservationResponse{}, apierr.ErrInvalid("reservation id must be > 0")
	}
	v, err := s.repo.Get(ctx, reservationID)
	if err != nil {
		return ReservationResponse{}, err
	}
	if !sess.ActsFor(v.MemberID) {
		return ReservationResponse{}, apierr.ErrForbidden("cannot view another member's reservation")
	}
	return v.toDTO(), nil
}

// DELETE /reserve/:id
func (s *Service) CancelReservation(ctx context.Context, sess session.Session, reservationID int64) error {
	if reservationID <= 0 {
		return apierr.ErrInvalid("reservation id must be > 0")
	}

	var reverted bool
	var bookID int64
	err := s.repo.InTx(ctx, func(ctx context.Context, tx Tx) error {
		r, err := tx.ReservationForUpdate(ctx, reservationID)
		if err != nil {
			return err
		}
		if !sess.ActsFor(r.MemberID) {
			return apierr.ErrForbidden("cannot cancel another member's reservation")
		}
		if _, err := Next(r.Status, EventCancel); err != nil {
			return transitionConflict(r, err)
		}
		if err := tx.DeleteReservation(ctx, r.ReservationID); err != nil {
			return err
		}
		bookID = r.BookID
		// Only a book held by the reservation is released. Cancelling a Pending one touches nothing.
		reverted, err = tx.UpdateBookStatus(ctx, r.BookID, catalog.StatusAvailable, catalog.StatusReserved)
		return err
	})
	if err != nil {
		return err
	}

	s.logger.Info("reservation cancelled",
		zap.Int64("reservation_id", reservationID),
		zap.Int64("book_id", bookID),
		zap.Bool("book_released", reverted),
	)
	return nil
}

// PUT /staff/reservations/:id
func (s *Service) ResolveReservation(ctx context.Context, reservationID int64, decision string) (string, error) {
	if reservationID <= 0 {
		return "", apierr.ErrInvalid("reservation id must be > 0")
	}
	ev, ok := ParseDecision(decision)
	if !ok {
		s.logger.Warn("unrecognized reservation decision",
			zap.Int64("reservation_id", reservationID),
			zap.String("status", decision),
		)
		return "", apierr.ErrInvalid("status must be Accepted or Declined")
	}

	var to Status
	err := s.repo.InTx(ctx, func(ctx context.Context, tx Tx) error {
		r, err := tx.ReservationForUpdate(ctx, reservationID)
		if err != nil {
			return err
		}
		to, err = Next(r.Status, ev)
		if err != nil {
			return transitionConflict(r, err)
		}
		if to == StatusAccepted {
			st, err := tx.BookStatusForUpdate(ctx, r.BookID)
			if err != nil {
				return err
			}
			if st == catalog.StatusCheckedOut {
				return apierr.ErrConflict("book is checked out")
			}
		}
		if err := tx.UpdateReservationStatus(ctx, r.ReservationID, to); err != nil {
			return err
		}
		if to == StatusAccepted {
			_, err = tx.UpdateBookStatus(ctx, r.BookID, catalog.StatusReserved, "")
			return err
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	s.logger.Info("reservation resolved",
		zap.Int64("reservation_id", reservationID),
		zap.String("status", string(to)),
	)
	return fmt.Sprintf("Reservation %s.", to), nil
}

func transitionConflict(r *Reservation, err error) error {
	if errors.Is(err, ErrNoTransition) {
		return apierr.ErrConflict(fmt.Sprintf("reservation is already %s", r.Status))
	}
	return err
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
