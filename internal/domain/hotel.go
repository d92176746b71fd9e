package domain

import "time"

type HotelAmenities struct {
	Pool       bool `json:"pool"`
	Spa        bool `json:"spa"`
	Restaurant bool `json:"restaurant"`
	FreeWiFi   bool `json:"freeWifi"`
	Parking    bool `json:"parking"`
}

type Hotel struct {
	ID           int64          `json:"id"`
	Name         string         `json:"name"`
	City         string         `json:"city"`
	Address      string         `json:"address"`
	Description  string         `json:"description"`
	StarRating   int            `json:"starRating"`
	MainImageURL *string        `json:"mainImageUrl,omitempty"`
	Amenities    HotelAmenities `json:"amenities"`
	IsActive     bool           `json:"isActive"`
	CreatedAt    time.Time      `json:"createdAt"`
}

type RoomAmenities struct {
	Breakfast bool `json:"breakfast"`
	AC        bool `json:"ac"`
	TV        bool `json:"tv"`
	MiniBar   bool `json:"miniBar"`
	Balcony   bool `json:"balcony"`
}

// Room.IsAvailable is the administrative on/off switch. It says nothing about
// bookings; see AvailabilityChecker for date-range availability.
type Room struct {
	ID            int64         `json:"id"`
	HotelID       int64         `json:"hotelId"`
	RoomNumber    string        `json:"roomNumber"`
	RoomType      string        `json:"roomType"`
	Description   string        `json:"description"`
	PricePerNight float64       `json:"pricePerNight"`
	Capacity      int           `json:"capacity"`
	ImageURL      *string       `json:"imageUrl,omitempty"`
	Amenities     RoomAmenities `json:"amenities"`
	IsAvailable   bool          `json:"isAvailable"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     *time.Time    `json:"updatedAt,omitempty"`
}

// Read models

// HotelSummary is one search hit. Price and room figures cover only the rooms
// that are free for the searched range.
type HotelSummary struct {
	ID             int64          `json:"id"`
	Name           string         `json:"name"`
	City           string         `json:"city"`
	Address        string         `json:"address"`
	Description    string         `json:"description"`
	StarRating     int            `json:"starRating"`
	MainImageURL   string         `json:"mainImageUrl"`
	Amenities      HotelAmenities `json:"amenities"`
	MinPrice       float64        `json:"minPrice"`
	MaxPrice       float64        `json:"maxPrice"`
	AvailableRooms int            `json:"availableRooms"`
	AverageRating  float64        `json:"averageRating"`
	ReviewCount    int            `json:"reviewCount"`
}

type RoomInfo struct {
	ID            int64         `json:"id"`
	HotelID       int64         `json:"hotelId"`
	RoomNumber    string        `json:"roomNumber"`
	RoomType      string        `json:"roomType"`
	Description   string        `json:"description"`
	Capacity      int           `json:"capacity"`
	PricePerNight float64       `json:"pricePerNight"`
	ImageURL      *string       `json:"imageUrl,omitempty"`
	Amenities     RoomAmenities `json:"amenities"`
	IsAvailable   bool          `json:"isAvailable"`
	Nights        int           `json:"nights,omitempty"`
	TotalPrice    float64       `json:"totalPrice,omitempty"`
}

type HotelDetails struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	City          string         `json:"city"`
	Address       string         `json:"address"`
	Description   string         `json:"description"`
	StarRating    int            `json:"starRating"`
	MainImageURL  *string        `json:"mainImageUrl,omitempty"`
	Amenities     HotelAmenities `json:"amenities"`
	Rooms         []RoomInfo     `json:"rooms"`
	Reviews       []ReviewView   `json:"reviews"`
	AverageRating float64        `json:"averageRating"`
	ReviewCount   int            `json:"reviewCount"`
}

// RatingStats aggregates a hotel's reviews. Average is 0 when Count is 0.
type RatingStats struct {
	Average float64
	Count   int
}
