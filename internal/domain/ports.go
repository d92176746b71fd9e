package domain

import (
	"context"
	"time"
)

// HotelFilter narrows ListHotels. City is a case-insensitive substring match;
// empty means any city.
type HotelFilter struct {
	City       string
	ActiveOnly bool
}

type HotelStore interface {
	CreateHotel(ctx context.Context, h *Hotel) error
	UpdateHotel(ctx context.Context, h Hotel) error
	SetHotelActive(ctx context.Context, id int64, active bool) error
	GetHotel(ctx context.Context, id int64) (Hotel, error)
	ListHotels(ctx context.Context, f HotelFilter) ([]Hotel, error)
	HotelRatings(ctx context.Context, hotelID int64) (RatingStats, error)
}

type RoomStore interface {
	CreateRoom(ctx context.Context, r *Room) error
	UpdateRoom(ctx context.Context, r Room) error
	SetRoomAvailability(ctx context.Context, id int64, available bool) error
	GetRoom(ctx context.Context, id int64) (Room, error)
	// ListRooms returns every room of hotelID, or all rooms when hotelID is 0.
	ListRooms(ctx context.Context, hotelID int64) ([]Room, error)
}

type BookingStore interface {
	// ActiveBookingsForRoom returns the room's bookings whose status is not Cancelled.
	ActiveBookingsForRoom(ctx context.Context, roomID int64) ([]Booking, error)
	// InsertBooking persists b in one atomic step that re-checks the room is
	// enabled and that no active booking overlaps b. It fails with
	// ErrRoomNotAvailable when it loses a race, and sets b.ID on success.
	InsertBooking(ctx context.Context, b *Booking) error
	GetBooking(ctx context.Context, id int64) (Booking, error)
	GetBookingDetails(ctx context.Context, id int64) (BookingDetails, error)
	ListBookingsByUser(ctx context.Context, userID int64) ([]BookingDetails, error)
	ListAllBookings(ctx context.Context) ([]BookingDetails, error)
	// CancelBooking flips an active booking to Cancelled. ErrAlreadyCancelled
	// when it was cancelled in the meantime.
	CancelBooking(ctx context.Context, id int64, at time.Time) error
	BookingStats(ctx context.Context, from, to time.Time) (BookingStats, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id int64) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}

type ReviewStore interface {
	CreateReview(ctx context.Context, r *Review) error
	ListReviews(ctx context.Context, hotelID int64, limit int) ([]ReviewView, error)
}

type Store interface {
	HotelStore
	RoomStore
	BookingStore
	UserStore
	ReviewStore
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenIssuer interface {
	Issue(u User) (token string, expiresAt time.Time, err error)
}
