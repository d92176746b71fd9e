package app

import (
	"context"
	"time"

	"hotel_booking/internal/domain"
)

// AvailabilityChecker answers date-range questions about rooms. It only reads,
// so it is safe for concurrent use; the authoritative re-check happens inside
// BookingStore.InsertBooking.
type AvailabilityChecker struct {
	rooms    domain.RoomStore
	bookings domain.BookingStore
}

func NewAvailabilityChecker(rooms domain.RoomStore, bookings domain.BookingStore) *AvailabilityChecker {
	return &AvailabilityChecker{rooms: rooms, bookings: bookings}
}

// IsAvailable reports whether no active booking on roomID overlaps
// [checkIn, checkOut). It ignores the room's administrative flag.
func (a *AvailabilityChecker) IsAvailable(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (bool, error) {
	checkIn, checkOut = domain.Day(checkIn), domain.Day(checkOut)
	if !checkOut.After(checkIn) {
		return false, domain.ErrInvalidDateRange
	}
	bs, err := a.bookings.ActiveBookingsForRoom(ctx, roomID)
	if err != nil {
		return false, domain.StoreFailure(err)
	}
	return free(bs, checkIn, checkOut), nil
}

func free(active []domain.Booking, checkIn, checkOut time.Time) bool {
	for _, b := range active {
		if b.Status.Active() && domain.Overlaps(b.CheckIn, b.CheckOut, checkIn, checkOut) {
			return false
		}
	}
	return true
}

// AvailableRooms lists the hotel's enabled rooms that are free for the range,
// priced for the stay.
func (a *AvailabilityChecker) AvailableRooms(ctx context.Context, hotelID int64, checkIn, checkOut time.Time) ([]domain.RoomInfo, error) {
	checkIn, checkOut = domain.Day(checkIn), domain.Day(checkOut)
	if !checkOut.After(checkIn) {
		return nil, domain.ErrInvalidDateRange
	}
	rooms, err := a.rooms.ListRooms(ctx, hotelID)
	if err != nil {
		return nil, domain.StoreFailure(err)
	}
	out := make([]domain.RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		if !r.IsAvailable {
			continue
		}
		ok, err := a.IsAvailable(ctx, r.ID, checkIn, checkOut)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, pricedRoomInfo(r, checkIn, checkOut))
		}
	}
	return out, nil
}
