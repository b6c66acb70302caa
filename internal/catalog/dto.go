package catalog

type BookResponse struct {
	BookID             int64              `json:"bookId"`
	Title              string             `json:"title"`
	Edition            *string            `json:"edition"`
	PublicationYear    *int64             `json:"publicationYear"`
	Price              float64            `json:"price"`
	AvailabilityStatus AvailabilityStatus `json:"availabilityStatus"`
	GenreID            *int64             `json:"genreId,omitempty"`
}

type GenreResponse struct {
	GenreID   int64  `json:"genreId"`
	GenreName string `json:"genreName"`
}

func (b Book) toDTO() BookResponse {
	resp := BookResponse{
		BookID:             b.BookID,
		Title:              b.Title,
		Price:              b.Price,
		AvailabilityStatus: b.AvailabilityStatus,
	}
	if b.Edition.Valid {
		v := b.Edition.String
		resp.Edition = &v
	}
	if b.PublicationYear.Valid {
		v := b.PublicationYear.Int64
		resp.PublicationYear = &v
	}
	if b.GenreID.Valid {
		v := b.GenreID.Int64
		resp.GenreID = &v
	}
	return resp
}

func toBookResponses(books []Book) []BookResponse {
	out := make([]BookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, b.toDTO())
	}
	return out
}
