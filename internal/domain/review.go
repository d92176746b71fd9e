package domain

import "time"

type Review struct {
	ID        int64
	UserID    int64
	HotelID   int64
	Rating    int
	Comment   *string
	CreatedAt time.Time
}

type ReviewView struct {
	ID        int64     `json:"id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UserName  string    `json:"userName"`
}

type ReviewsPage struct {
	Items []ReviewView `json:"items"`
}
