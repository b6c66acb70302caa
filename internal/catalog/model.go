package catalog

import "database/sql"

type AvailabilityStatus string

const (
	StatusAvailable  AvailabilityStatus = "Available"
	StatusReserved   AvailabilityStatus = "Reserved"
	StatusCheckedOut AvailabilityStatus = "CheckedOut"
)

func (s AvailabilityStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusReserved, StatusCheckedOut:
		return true
	}
	return false
}

// Book は books テーブルの1行を表す
type Book struct {
	BookID             int64              `db:"book_id"`
	Title              string             `db:"title"`
	Edition            sql.NullString     `db:"edition"`
	PublicationYear    sql.NullInt64      `db:"publication_year"`
	Price              float64            `db:"price"`
	AvailabilityStatus AvailabilityStatus `db:"availability_status"`
	GenreID            sql.NullInt64      `db:"genre_id"`
}

type Genre struct {
	GenreID   int64  `db:"genre_id"`
	GenreName string `db:"genre_name"`
}
