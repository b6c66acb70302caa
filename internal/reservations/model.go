package reservations

import (
	"database/sql"
	"time"
)

type Status string

const (
	StatusPending  Status = "Pending"
	StatusAccepted Status = "Accepted"
	StatusDeclined Status = "Declined"
	// StatusDeleted never reaches the database; it names the state after cancellation.
	StatusDeleted Status = "Deleted"
)

// How long a reservation stays valid.
const holdPeriod = 7 * 24 * time.Hour

// Reservation is one row of the reservations table.
type Reservation struct {
	ReservationID   int64     `db:"reservation_id"`
	MemberID        int64     `db:"member_id"`
	BookID          int64     `db:"book_id"`
	ReservationDate time.Time `db:"reservation_date"`
	ExpiryDate      time.Time `db:"expiry_date"`
	Status          Status    `db:"status"`
}

// View is a reservation joined with its book title and member name.
type View struct {
	Reservation
	BookTitle  string         `db:"book_title"`
	MemberName sql.NullString `db:"member_name"`
}
