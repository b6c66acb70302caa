package reservations

import "time"

// 予約登録リクエスト
type CreateReservationRequest struct {
	MemberID int64 `json:"memberId" binding:"required"`
	BookID   int64 `json:"bookId" binding:"required"`
}

// スタッフによる承認・却下
type ResolveReservationRequest struct {
	Status string `json:"status" binding:"required"`
}

type CreatedResponse struct {
	Message       string `json:"message"`
	ReservationID int64  `json:"reservationId"`
}

type ReservationResponse struct {
	ReservationID   int64     `json:"reservationId"`
	MemberID        int64     `json:"memberId"`
	BookID          int64     `json:"bookId"`
	Title           string    `json:"title"`
	MemberName      *string   `json:"memberName,omitempty"`
	ReservationDate time.Time `json:"reservationDate"`
	ExpiryDate      time.Time `json:"expiryDate"`
	Status          Status    `json:"status"`
}

func (v View) toDTO() ReservationResponse {
	resp := ReservationResponse{
		ReservationID:   v.ReservationID,
		MemberID:        v.MemberID,
		BookID:          v.BookID,
		Title:           v.BookTitle,
		ReservationDate: v.ReservationDate,
		ExpiryDate:      v.ExpiryDate,
		Status:          v.Status,
	}
	if v.MemberName.Valid {
		name := v.MemberName.String
		resp.MemberName = &name
	}
	return resp
}

func toResponses(views []View) []ReservationResponse {
	out := make([]ReservationResponse, 0, len(views))
	for _, v := range views {
		out = append(out, v.toDTO())
	}
	return out
}
