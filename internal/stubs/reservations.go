package stubs

import (
	"context"
	"maps"
	"sort"

	"library-backend/internal/catalog"
	"library-backend/internal/platform/apierr"
	"library-backend/internal/reservations"
)

// InTx runs fn under the write lock. On error the books and reservations
// tables are restored, which is all a workflow transaction can touch.
func (m *MemoryDB) InTx(ctx context.Context, fn func(ctx context.Context, tx reservations.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	books := maps.Clone(m.books)
	res := maps.Clone(m.reservations)
	next := m.nextReservationID

	if err := fn(ctx, &memTx{m: m}); err != nil {
		m.books = books
		m.reservations = res
		m.nextReservationID = next
		return err
	}
	return nil
}

func (m *MemoryDB) view(r reservations.Reservation) reservations.View {
	v := reservations.View{Reservation: r, BookTitle: m.books[r.BookID].Title}
	if name, ok := m.memberName(r.MemberID); ok {
		v.MemberName.String = name
		v.MemberName.Valid = true
	}
	return v
}

func (m *MemoryDB) ListByMember(ctx context.Context, memberID int64) ([]reservations.View, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]reservations.View, 0)
	for _, r := range m.reservations {
		if r.MemberID == memberID {
			out = append(out, m.view(r))
		}
	}
	// newest first
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ReservationDate.Equal(out[j].ReservationDate) {
			return out[i].ReservationDate.After(out[j].ReservationDate)
		}
		return out[i].ReservationID > out[j].ReservationID
	})
	return out, nil
}

func (m *MemoryDB) ListAll(ctx context.Context) ([]reservations.View, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]reservations.View, 0, len(m.reservations))
	for _, r := range m.reservations {
		out = append(out, m.view(r))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ReservationDate.Equal(out[j].ReservationDate) {
			return out[i].ReservationDate.Before(out[j].ReservationDate)
		}
		return out[i].ReservationID < out[j].ReservationID
	})
	return out, nil
}

func (m *MemoryDB) Get(ctx context.Context, reservationID int64) (*reservations.View, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.reservations[reservationID]
	if !ok {
		return nil, apierr.ErrNotFound("reservation not found")
	}
	v := m.view(r)
	return &v, nil
}

// memTx runs with m.mu held by InTx.
type memTx struct {
	m *MemoryDB
}

func (t *memTx) BookStatusForUpdate(ctx context.Context, bookID int64) (catalog.AvailabilityStatus, error) {
	b, ok := t.m.books[bookID]
	if !ok {
		return "", apierr.ErrNotFound("book not found")
	}
	return b.AvailabilityStatus, nil
}

func (t *memTx) HasOpenReservation(ctx context.Context, bookID int64) (bool, error) {
	for _, r := range t.m.reservations {
		if r.BookID == bookID && isOpen(r.Status) {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) InsertReservation(ctx context.Context, r *reservations.Reservation) error {
	if _, ok := t.m.memberships[r.MemberID]; !ok {
		return apierr.ErrNotFound("member not found")
	}
	if isOpen(r.Status) {
		if open, _ := t.HasOpenReservation(ctx, r.BookID); open {
			return apierr.ErrConflict("book is not available")
		}
	}
	r.ReservationID = t.m.nextReservationID
	t.m.nextReservationID++
	t.m.reservations[r.ReservationID] = *r
	return nil
}

func (t *memTx) ReservationForUpdate(ctx context.Context, reservationID int64) (*reservations.Reservation, error) {
	r, ok := t.m.reservations[reservationID]
	if !ok {
		return nil, apierr.ErrNotFound("reservation not found")
	}
	return &r, nil
}

func (t *memTx) UpdateReservationStatus(ctx context.Context, reservationID int64, status reservations.Status) error {
	r, ok := t.m.reservations[reservationID]
	if !ok {
		return apierr.ErrNotFound("reservation not found")
	}
	r.Status = status
	t.m.reservations[reservationID] = r
	return nil
}

func (t *memTx) DeleteReservation(ctx context.Context, reservationID int64) error {
	if _, ok := t.m.reservations[reservationID]; !ok {
		return apierr.ErrNotFound("reservation not found")
	}
	delete(t.m.reservations, reservationID)
	return nil
}

func (t *memTx) UpdateBookStatus(ctx context.Context, bookID int64, to, onlyIf catalog.AvailabilityStatus) (bool, error) {
	b, ok := t.m.books[bookID]
	if !ok || (onlyIf != "" && b.AvailabilityStatus != onlyIf) || b.AvailabilityStatus == to {
		return false, nil
	}
	b.AvailabilityStatus = to
	t.m.books[bookID] = b
	return true, nil
}

func isOpen(s reservations.Status) bool {
	return s == reservations.StatusPending || s == reservations.StatusAccepted
}
