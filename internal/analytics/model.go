package analytics

import "library-backend/internal/catalog"

type GenreCount struct {
	GenreName string `db:"genre_name" json:"genreName"`
	BookCount int64  `db:"book_count" json:"bookCount"`
}

type BorrowCount struct {
	BookID        int64  `db:"book_id" json:"bookId"`
	Title         string `db:"title" json:"title"`
	TimesBorrowed int64  `db:"times_borrowed" json:"timesBorrowed"`
}

type StatusCount struct {
	AvailabilityStatus catalog.AvailabilityStatus `db:"availability_status" json:"availabilityStatus"`
	Total              int64                      `db:"total" json:"total"`
}
