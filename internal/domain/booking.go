package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "Pending"
	BookingConfirmed BookingStatus = "Confirmed"
	BookingCancelled BookingStatus = "Cancelled"
)

// Active reports whether the booking still holds its room.
func (s BookingStatus) Active() bool { return s != BookingCancelled }

type Booking struct {
	ID             int64
	UserID         int64
	RoomID         int64
	CheckIn        time.Time
	CheckOut       time.Time
	GuestsCount    int
	TotalPrice     float64
	Status         BookingStatus
	SpecialRequest *string
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

// BookingDetails is a booking with the room and hotel context needed for display.
type BookingDetails struct {
	Booking
	RoomNumber    string
	RoomType      string
	PricePerNight float64
	HotelID       int64
	HotelName     string
	HotelCity     string
}

type GuestDetail struct {
	FirstName      string `json:"firstName" validate:"required,max=50"`
	LastName       string `json:"lastName" validate:"required,max=50"`
	DocumentType   string `json:"documentType" validate:"max=30"`
	DocumentNumber string `json:"documentNumber" validate:"max=50"`
	IsPrimary      bool   `json:"isPrimary"`
}

type BookingStats struct {
	TotalBookings     int     `json:"totalBookings"`
	ConfirmedBookings int     `json:"confirmedBookings"`
	CancelledBookings int     `json:"cancelledBookings"`
	TotalRevenue      float64 `json:"totalRevenue"`
}

// Overlaps is the half-open interval test [aIn, aOut) ∩ [bIn, bOut) ≠ ∅.
// A stay ending on the day another begins does not overlap it.
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && aOut.After(bIn)
}

// Day truncates t to midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Nights counts whole days between check-in and check-out; partial days are dropped.
func Nights(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn).Hours() / 24)
}
