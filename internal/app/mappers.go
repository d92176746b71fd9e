package app

import (
	"math"
	"time"

	"hotel_booking/internal/domain"
)

/********** small helpers **********/

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// roundMoney keeps prices at cent precision.
func roundMoney(v float64) float64 { return math.Round(v*100) / 100 }

func stayPrice(rate float64, checkIn, checkOut time.Time) (int, float64) {
	n := domain.Nights(checkIn, checkOut)
	return n, roundMoney(rate * float64(n))
}

/********** room mappers **********/

func roomInfo(r domain.Room) domain.RoomInfo {
	return domain.RoomInfo{
		ID:            r.ID,
		HotelID:       r.HotelID,
		RoomNumber:    r.RoomNumber,
		RoomType:      r.RoomType,
		Description:   r.Description,
		Capacity:      r.Capacity,
		PricePerNight: r.PricePerNight,
		ImageURL:      r.ImageURL,
		Amenities:     r.Amenities,
		IsAvailable:   r.IsAvailable,
	}
}

func pricedRoomInfo(r domain.Room, checkIn, checkOut time.Time) domain.RoomInfo {
	ri := roomInfo(r)
	ri.Nights, ri.TotalPrice = stayPrice(r.PricePerNight, checkIn, checkOut)
	return ri
}

/********** hotel mappers **********/

// summarize builds a search hit from the rooms that passed the availability
// check. free must not be empty.
func summarize(h domain.Hotel, free []domain.Room, rs domain.RatingStats) domain.HotelSummary {
	minP, maxP := free[0].PricePerNight, free[0].PricePerNight
	for _, r := range free[1:] {
		minP = math.Min(minP, r.PricePerNight)
		maxP = math.Max(maxP, r.PricePerNight)
	}
	return domain.HotelSummary{
		ID:             h.ID,
		Name:           h.Name,
		City:           h.City,
		Address:        h.Address,
		Description:    h.Description,
		StarRating:     h.StarRating,
		MainImageURL:   deref(h.MainImageURL),
		Amenities:      h.Amenities,
		MinPrice:       minP,
		MaxPrice:       maxP,
		AvailableRooms: len(free),
		AverageRating:  math.Round(rs.Average*10) / 10,
		ReviewCount:    rs.Count,
	}
}

func hotelDetails(h domain.Hotel, rooms []domain.Room, reviews []domain.ReviewView, rs domain.RatingStats) domain.HotelDetails {
	d := domain.HotelDetails{
		ID:            h.ID,
		Name:          h.Name,
		City:          h.City,
		Address:       h.Address,
		Description:   h.Description,
		StarRating:    h.StarRating,
		MainImageURL:  h.MainImageURL,
		Amenities:     h.Amenities,
		Rooms:         make([]domain.RoomInfo, 0, len(rooms)),
		Reviews:       reviews,
		AverageRating: math.Round(rs.Average*10) / 10,
		ReviewCount:   rs.Count,
	}
	if d.Reviews == nil {
		d.Reviews = []domain.ReviewView{}
	}
	for _, r := range rooms {
		if r.IsAvailable {
			d.Rooms = append(d.Rooms, roomInfo(r))
		}
	}
	return d
}
