package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_booking/internal/domain"
)

// BookingRequest is the input of CreateBooking. Dates are truncated to UTC days.
type BookingRequest struct {
	UserID         int64                `json:"-"`
	RoomID         int64                `json:"roomId"`
	CheckIn        time.Time            `json:"checkIn"`
	CheckOut       time.Time            `json:"checkOut"`
	GuestsCount    int                  `json:"guestsCount"`
	GuestDetails   []domain.GuestDetail `json:"guestDetails" validate:"omitempty,dive"`
	SpecialRequest *string              `json:"specialRequest" validate:"omitempty,max=500"`
}

// Quote is a priced, availability-checked stay that has not been booked.
type Quote struct {
	RoomID        int64     `json:"roomId"`
	HotelID       int64     `json:"hotelId"`
	HotelName     string    `json:"hotelName"`
	RoomType      string    `json:"roomType"`
	CheckIn       time.Time `json:"checkIn"`
	CheckOut      time.Time `json:"checkOut"`
	Guests        int       `json:"guests"`
	Nights        int       `json:"nights"`
	PricePerNight float64   `json:"pricePerNight"`
	TotalPrice    float64   `json:"totalPrice"`
}

type BookingService struct {
	store  domain.Store
	avail  *AvailabilityChecker
	cutoff time.Duration
	now    func() time.Time
}

type BookingOption func(*BookingService)

// WithClock overrides the wall clock used for "today" and the cancellation cutoff.
func WithClock(now func() time.Time) BookingOption {
	return func(s *BookingService) { s.now = now }
}

// NewBookingService builds the booking workflow. cutoff is the minimum time
// left before check-in for a cancellation to be accepted.
func NewBookingService(store domain.Store, avail *AvailabilityChecker, cutoff time.Duration, opts ...BookingOption) *BookingService {
	s := &BookingService{store: store, avail: avail, cutoff: cutoff, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// CreateBooking validates req in a fixed order (room, capacity, dates, guest
// details, availability) and persists a Confirmed booking. The store insert
// re-checks overlap, so a lost race also ends in ErrRoomNotAvailable.
func (s *BookingService) CreateBooking(ctx context.Context, req BookingRequest) (domain.BookingDetails, error) {
	room, err := s.store.GetRoom(ctx, req.RoomID)
	if err != nil {
		return domain.BookingDetails{}, domain.StoreFailure(err)
	}
	if !room.IsAvailable {
		return domain.BookingDetails{}, domain.ErrRoomDisabled
	}

	if req.GuestsCount < 1 || req.GuestsCount > room.Capacity {
		return domain.BookingDetails{}, domain.ErrCapacityExceeded.With("room %s takes 1 to %d guests", room.RoomNumber, room.Capacity)
	}

	now := s.now().UTC()
	checkIn, checkOut := domain.Day(req.CheckIn), domain.Day(req.CheckOut)
	if !checkOut.After(checkIn) || checkIn.Before(domain.Day(now)) {
		return domain.BookingDetails{}, domain.ErrInvalidDateRange
	}

	if len(req.GuestDetails) > 0 {
		if len(req.GuestDetails) != req.GuestsCount {
			return domain.BookingDetails{}, domain.ErrGuestDetailMismatch
		}
		if !hasPrimary(req.GuestDetails) {
			return domain.BookingDetails{}, domain.ErrMissingPrimaryGuest
		}
	}
	if err := validateInput(req); err != nil {
		return domain.BookingDetails{}, err
	}

	ok, err := s.avail.IsAvailable(ctx, room.ID, checkIn, checkOut)
	if err != nil {
		return domain.BookingDetails{}, err
	}
	if !ok {
		return domain.BookingDetails{}, domain.ErrRoomNotAvailable
	}

	_, total := stayPrice(room.PricePerNight, checkIn, checkOut)
	b := domain.Booking{
		UserID:         req.UserID,
		RoomID:         room.ID,
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		GuestsCount:    req.GuestsCount,
		TotalPrice:     total,
		Status:         domain.BookingConfirmed,
		SpecialRequest: req.SpecialRequest,
		CreatedAt:      now,
	}
	if err := s.store.InsertBooking(ctx, &b); err != nil {
		return domain.BookingDetails{}, domain.StoreFailure(err)
	}

	log.Info().
		Int64("booking_id", b.ID).
		Int64("room_id", b.RoomID).
		Int64("user_id", b.UserID).
		Str("check_in", checkIn.Format(time.DateOnly)).
		Str("check_out", checkOut.Format(time.DateOnly)).
		Float64("total", b.TotalPrice).
		Msg("booking confirmed")

	d, err := s.store.GetBookingDetails(ctx, b.ID)
	if err != nil {
		// the booking is committed; return what we know rather than fail the call
		log.Warn().Err(err).Int64("booking_id", b.ID).Msg("booking details lookup failed")
		return domain.BookingDetails{
			Booking:       b,
			RoomNumber:    room.RoomNumber,
			RoomType:      room.RoomType,
			PricePerNight: room.PricePerNight,
			HotelID:       room.HotelID,
		}, nil
	}
	return d, nil
}

func hasPrimary(gs []domain.GuestDetail) bool {
	for _, g := range gs {
		if g.IsPrimary {
			return true
		}
	}
	return false
}

// Cancel moves a booking to Cancelled. Owners and admins may cancel, and only
// while check-in is at least the configured cutoff away.
func (s *BookingService) Cancel(ctx context.Context, bookingID, requesterID int64, requesterIsAdmin bool) error {
	b, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return domain.StoreFailure(err)
	}
	if b.UserID != requesterID && !requesterIsAdmin {
		return domain.ErrUnauthorized
	}
	if !b.Status.Active() {
		return domain.ErrAlreadyCancelled
	}
	now := s.now().UTC()
	if b.CheckIn.Before(now.Add(s.cutoff)) {
		return domain.ErrCancellationWindowPassed.With("bookings can be cancelled up to %s before check-in", s.cutoff)
	}
	if err := s.store.CancelBooking(ctx, bookingID, now); err != nil {
		return domain.StoreFailure(err)
	}
	log.Info().
		Int64("booking_id", bookingID).
		Int64("requested_by", requesterID).
		Bool("admin", requesterIsAdmin).
		Msg("booking cancelled")
	return nil
}

// Quote prices a stay without booking it.
func (s *BookingService) Quote(ctx context.Context, roomID int64, checkIn, checkOut time.Time, guests int) (Quote, error) {
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return Quote{}, domain.StoreFailure(err)
	}
	// checks run in CreateBooking order
	if !room.IsAvailable {
		return Quote{}, domain.ErrRoomDisabled
	}
	if guests < 1 {
		guests = 1
	}
	if guests > room.Capacity {
		return Quote{}, domain.ErrCapacityExceeded.With("room %s takes 1 to %d guests", room.RoomNumber, room.Capacity)
	}
	checkIn, checkOut = domain.Day(checkIn), domain.Day(checkOut)
	if !checkOut.After(checkIn) || checkIn.Before(domain.Day(s.now())) {
		return Quote{}, domain.ErrInvalidDateRange
	}
	ok, err := s.avail.IsAvailable(ctx, room.ID, checkIn, checkOut)
	if err != nil {
		return Quote{}, err
	}
	if !ok {
		return Quote{}, domain.ErrRoomNotAvailable
	}
	hotel, err := s.store.GetHotel(ctx, room.HotelID)
	if err != nil {
		return Quote{}, domain.StoreFailure(err)
	}
	nights, total := stayPrice(room.PricePerNight, checkIn, checkOut)
	return Quote{
		RoomID:        room.ID,
		HotelID:       hotel.ID,
		HotelName:     hotel.Name,
		RoomType:      room.RoomType,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Guests:        guests,
		Nights:        nights,
		PricePerNight: room.PricePerNight,
		TotalPrice:    total,
	}, nil
}

// GetBooking returns a booking to its owner or an admin. Anyone else gets
// ErrBookingNotFound so ids cannot be probed.
func (s *BookingService) GetBooking(ctx context.Context, bookingID, requesterID int64, requesterIsAdmin bool) (domain.BookingDetails, error) {
	d, err := s.store.GetBookingDetails(ctx, bookingID)
	if err != nil {
		return domain.BookingDetails{}, domain.StoreFailure(err)
	}
	if d.UserID != requesterID && !requesterIsAdmin {
		return domain.BookingDetails{}, domain.ErrBookingNotFound
	}
	return d, nil
}

func (s *BookingService) MyBookings(ctx context.Context, userID int64) ([]domain.BookingDetails, error) {
	out, err := s.store.ListBookingsByUser(ctx, userID)
	if err != nil {
		return nil, domain.StoreFailure(err)
	}
	return out, nil
}

func (s *BookingService) AllBookings(ctx context.Context) ([]domain.BookingDetails, error) {
	out, err := s.store.ListAllBookings(ctx)
	if err != nil {
		return nil, domain.StoreFailure(err)
	}
	return out, nil
}

// Stats aggregates bookings created between from and to (whole UTC days,
// inclusive). Zero values default to the last 30 days.
func (s *BookingService) Stats(ctx context.Context, from, to time.Time) (domain.BookingStats, error) {
	today := domain.Day(s.now())
	if to.IsZero() {
		to = today
	}
	if from.IsZero() {
		from = domain.Day(to).AddDate(0, 0, -30)
	}
	from, to = domain.Day(from), domain.Day(to).Add(24*time.Hour-time.Nanosecond)
	if to.Before(from) {
		return domain.BookingStats{}, domain.ErrInvalidDateRange
	}
	st, err := s.store.BookingStats(ctx, from, to)
	if err != nil {
		return domain.BookingStats{}, domain.StoreFailure(err)
	}
	st.TotalRevenue = roundMoney(st.TotalRevenue)
	return st, nil
}
