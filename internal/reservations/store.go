package reservations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"library-backend/internal/catalog"
	"library-backend/internal/platform/apierr"
	"library-backend/internal/platform/db"
)

// Tx is the set of row operations the workflow performs inside one transaction.
// The *ForUpdate reads lock the row until the transaction ends.
type Tx interface {
	BookStatusForUpdate(ctx context.Context, bookID int64) (catalog.AvailabilityStatus, error)
	HasOpenReservation(ctx context.Context, bookID int64) (bool, error)
	InsertReservation(ctx context.Context, r *Reservation) error
	ReservationForUpdate(ctx context.Context, reservationID int64) (*Reservation, error)
	UpdateReservationStatus(ctx context.Context, reservationID int64, status Status) error
	DeleteReservation(ctx context.Context, reservationID int64) error
	// UpdateBookStatus sets the book to `to`. When onlyIf is non-empty the
	// update happens only if the current status equals it.
	UpdateBookStatus(ctx context.Context, bookID int64, to, onlyIf catalog.AvailabilityStatus) (bool, error)
}

type Repository interface {
	InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	ListByMember(ctx context.Context, memberID int64) ([]View, error)
	ListAll(ctx context.Context) ([]View, error)
	Get(ctx context.Context, reservationID int64) (*View, error)
}

type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store { return &Store{db: db} }

func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	return db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &sqlTx{tx: tx})
	})
}

const viewSelect = `
	SELECT
		r.reservation_id, r.member_id, r.book_id, r.reservation_date, r.expiry_date, r.status,
		b.title AS book_title,
		u.full_name AS member_name
	FROM reservations r
	JOIN books b ON b.book_id = r.book_id
	LEFT JOIN memberships m ON m.membership_id = r.member_id
	LEFT JOIN users u ON u.user_id = m.user_id`

func (s *Store) ListByMember(ctx context.Context, memberID int64) ([]View, error) {
	q := viewSelect + `
	WHERE r.member_id = ?
	ORDER BY r.reservation_date DESC, r.reservation_id DESC`
	out := make([]View, 0, 8)
	if err := s.db.SelectContext(ctx, &out, q, memberID); err != nil {
		return nil, fmt.Errorf("list reservations of member %d: %w", memberID, err)
	}
	return out, nil
}

func (s *Store) ListAll(ctx context.Context) ([]View, error) {
	q := viewSelect + `
	ORDER BY r.reservation_date ASC, r.reservation_id ASC`
	out := make([]View, 0, 32)
	if err := s.db.SelectContext(ctx, &out, q); err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, reservationID int64) (*View, error) {
	q := viewSelect + `
	WHERE r.reservation_id = ?`
	var v View
	if err := s.db.GetContext(ctx, &v, q, reservationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierr.ErrNotFound("reservation not found")
		}
		return nil, fmt.Errorf("get reservation %d: %w", reservationID, err)
	}
	return &v, nil
}

// ---- Transactional Methods ----

type sqlTx struct {
	tx db.DBTX
}

func (t *sqlTx) BookStatusForUpdate(ctx context.Context, bookID int64) (catalog.AvailabilityStatus, error) {
	const q = `SELECT availability_status FROM books WHERE book_id = ? FOR UPDATE`
	var st catalog.AvailabilityStatus
	if err := t.tx.QueryRowContext(ctx, q, bookID).Scan(&st); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apierr.ErrNotFound("book not found")
		}
		return "", fmt.Errorf("lock book %d: %w", bookID, err)
	}
	return st, nil
}

func (t *sqlTx) HasOpenReservation(ctx context.Context, bookID int64) (bool, error) {
	const q = `
	SELECT EXISTS (
		SELECT 1 FROM reservations
		WHERE book_id = ? AND status IN ('Pending', 'Accepted')
	)`
	var exists bool
	if err := t.tx.QueryRowContext(ctx, q, bookID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check open reservation of book %d: %w", bookID, err)
	}
	return exists, nil
}

func (t *sqlTx) InsertReservation(ctx context.Context, r *Reservation) error {
	const q = `
	INSERT INTO reservations
	(member_id, book_id, reservation_date, expiry_date, status)
	VALUES
	(?, ?, ?, ?, ?)`
	res, err := t.tx.ExecContext(ctx, q, r.MemberID, r.BookID, r.ReservationDate, r.ExpiryDate, r.Status)
	if err != nil {
		// Hitting uq_reservations_open_book means another reservation won the race.
		if db.IsDuplicateKey(err) {
			return apierr.ErrConflict("book is not available")
		}
		if db.IsForeignKeyViolation(err) {
			return apierr.ErrNotFound("member not found")
		}
		return fmt.Errorf("insert reservation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	r.ReservationID = id
	return nil
}

func (t *sqlTx) ReservationForUpdate(ctx context.Context, reservationID int64) (*Reservation, error) {
	const q = `
	SELECT reservation_id, member_id, book_id, reservation_date, expiry_date, status
	FROM reservations WHERE reservation_id = ? FOR UPDATE`
	var r Reservation
	err := t.tx.QueryRowContext(ctx, q, reservationID).Scan(
		&r.ReservationID, &r.MemberID, &r.BookID, &r.ReservationDate, &r.ExpiryDate, &r.Status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierr.ErrNotFound("reservation not found")
		}
		return nil, fmt.Errorf("lock reservation %d: %w", reservationID, err)
	}
	return &r, nil
}

func (t *sqlTx) UpdateReservationStatus(ctx context.Context, reservationID int64, status Status) error {
	const q = `UPDATE reservations SET status = ? WHERE reservation_id = ?`
	res, err := t.tx.ExecContext(ctx, q, status, reservationID)
	if err != nil {
		if db.IsDuplicateKey(err) {
			return apierr.ErrConflict("book already has an open reservation")
		}
		return fmt.Errorf("update reservation %d: %w", reservationID, err)
	}
	if aff, _ := res.RowsAffected(); aff != 1 {
		return apierr.ErrNotFound("reservation not found")
	}
	return nil
}

func (t *sqlTx) DeleteReservation(ctx context.Context, reservationID int64) error {
	const q = `DELETE FROM reservations WHERE reservation_id = ?`
	res, err := t.tx.ExecContext(ctx, q, reservationID)
	if err != nil {
		return fmt.Errorf("delete reservation %d: %w", reservationID, err)
	}
	if aff, _ := res.RowsAffected(); aff != 1 {
		return apierr.ErrNotFound("reservation not found")
	}
	return nil
}

func (t *sqlTx) UpdateBookStatus(ctx context.Context, bookID int64, to, onlyIf catalog.AvailabilityStatus) (bool, error) {
	q := `UPDATE books SET availability_status = ? WHERE book_id = ?`
	args := []any{to, bookID}
	if onlyIf != "" {
		q += ` AND availability_status = ?`
		args = append(args, onlyIf)
	}
	res, err := t.tx.ExecContext(ctx, q, args...)
	if err != nil {
		return false, fmt.Errorf("update book %d status: %w", bookID, err)
	}
	// RowsAffected=0 means either the condition failed or the value was already set.
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}
