package app

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"hotel_booking/internal/domain"
)

type HotelInput struct {
	Name         string                `json:"name" validate:"required,max=100"`
	City         string                `json:"city" validate:"required,max=100"`
	Address      string                `json:"address" validate:"required,max=200"`
	Description  string                `json:"description" validate:"max=500"`
	StarRating   int                   `json:"starRating" validate:"min=1,max=5"`
	MainImageURL *string               `json:"mainImageUrl" validate:"omitempty,url,max=500"`
	Amenities    domain.HotelAmenities `json:"amenities"`
	IsActive     *bool                 `json:"isActive"`
}

type RoomInput struct {
	HotelID       int64                `json:"hotelId" validate:"gt=0"`
	RoomNumber    string               `json:"roomNumber" validate:"required,max=10"`
	RoomType      string               `json:"roomType" validate:"required,max=50"`
	Description   string               `json:"description" validate:"max=500"`
	PricePerNight float64              `json:"pricePerNight" validate:"gt=0"`
	Capacity      int                  `json:"capacity" validate:"min=1,max=10"`
	ImageURL      *string              `json:"imageUrl" validate:"omitempty,url,max=500"`
	Amenities     domain.RoomAmenities `json:"amenities"`
	IsAvailable   *bool                `json:"isAvailable"`
}

// CatalogService owns admin writes to hotels and rooms. Every write drops the
// cached details of the hotels it touched.
type CatalogService struct {
	store domain.Store
	cache domain.Cache
}

func NewCatalogService(s domain.Store, c domain.Cache) *CatalogService {
	if c == nil {
		c = nopCache{}
	}
	return &CatalogService{store: s, cache: c}
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func (in HotelInput) apply(h *domain.Hotel) {
	h.Name = strings.TrimSpace(in.Name)
	h.City = strings.TrimSpace(in.City)
	h.Address = strings.TrimSpace(in.Address)
	h.Description = in.Description
	h.StarRating = in.StarRating
	h.MainImageURL = in.MainImageURL
	h.Amenities = in.Amenities
	h.IsActive = boolOr(in.IsActive, h.IsActive)
}

func (in RoomInput) apply(r *domain.Room) {
	r.HotelID = in.HotelID
	r.RoomNumber = strings.TrimSpace(in.RoomNumber)
	r.RoomType = strings.TrimSpace(in.RoomType)
	r.Description = in.Description
	r.PricePerNight = in.PricePerNight
	r.Capacity = in.Capacity
	r.ImageURL = in.ImageURL
	r.Amenities = in.Amenities
	r.IsAvailable = boolOr(in.IsAvailable, r.IsAvailable)
}

// ---- hotels ----

func (s *CatalogService) CreateHotel(ctx context.Context, in HotelInput) (domain.Hotel, error) {
	if err := validateInput(in); err != nil {
		return domain.Hotel{}, err
	}
	h := domain.Hotel{IsActive: true}
	in.apply(&h)
	if err := s.store.CreateHotel(ctx, &h); err != nil {
		return domain.Hotel{}, domain.StoreFailure(err)
	}
	log.Info().Int64("hotel_id", h.ID).Str("city", h.City).Msg("hotel created")
	return h, nil
}

func (s *CatalogService) UpdateHotel(ctx context.Context, id int64, in HotelInput) (domain.Hotel, error) {
	if err := validateInput(in); err != nil {
		return domain.Hotel{}, err
	}
	h, err := s.store.GetHotel(ctx, id)
	if err != nil {
		return domain.Hotel{}, domain.StoreFailure(err)
	}
	in.apply(&h)
	if err := s.store.UpdateHotel(ctx, h); err != nil {
		return domain.Hotel{}, domain.StoreFailure(err)
	}
	s.invalidateHotel(ctx, id)
	return h, nil
}

// DeactivateHotel hides a hotel from search and details. Rows are kept since
// bookings may still reference its rooms.
func (s *CatalogService) DeactivateHotel(ctx context.Context, id int64) error {
	if err := s.store.SetHotelActive(ctx, id, false); err != nil {
		return domain.StoreFailure(err)
	}
	s.invalidateHotel(ctx, id)
	log.Info().Int64("hotel_id", id).Msg("hotel deactivated")
	return nil
}

func (s *CatalogService) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	h, err := s.store.GetHotel(ctx, id)
	return h, domain.StoreFailure(err)
}

func (s *CatalogService) ListHotels(ctx context.Context, city string) ([]domain.Hotel, error) {
	hs, err := s.store.ListHotels(ctx, domain.HotelFilter{City: city})
	if err != nil {
		return nil, domain.StoreFailure(err)
	}
	return hs, nil
}

// ---- rooms ----

func (s *CatalogService) CreateRoom(ctx context.Context, in RoomInput) (domain.Room, error) {
	if err := validateInput(in); err != nil {
		return domain.Room{}, err
	}
	if _, err := s.store.GetHotel(ctx, in.HotelID); err != nil {
		return domain.Room{}, domain.StoreFailure(err)
	}
	r := domain.Room{IsAvailable: true}
	in.apply(&r)
	if err := s.store.CreateRoom(ctx, &r); err != nil {
		return domain.Room{}, domain.StoreFailure(err)
	}
	s.invalidateHotel(ctx, r.HotelID)
	log.Info().Int64("room_id", r.ID).Int64("hotel_id", r.HotelID).Msg("room created")
	return r, nil
}

func (s *CatalogService) UpdateRoom(ctx context.Context, id int64, in RoomInput) (domain.Room, error) {
	if err := validateInput(in); err != nil {
		return domain.Room{}, err
	}
	r, err := s.store.GetRoom(ctx, id)
	if err != nil {
		return domain.Room{}, domain.StoreFailure(err)
	}
	prevHotel := r.HotelID
	in.apply(&r)
	if err := s.store.UpdateRoom(ctx, r); err != nil {
		return domain.Room{}, domain.StoreFailure(err)
	}
	s.invalidateHotel(ctx, prevHotel)
	if r.HotelID != prevHotel {
		s.invalidateHotel(ctx, r.HotelID)
	}
	return s.GetRoom(ctx, id)
}

// SetRoomAvailability flips the administrative switch. Existing bookings are
// left alone; the room just stops being offered.
func (s *CatalogService) SetRoomAvailability(ctx context.Context, id int64, available bool) (domain.Room, error) {
	if err := s.store.SetRoomAvailability(ctx, id, available); err != nil {
		return domain.Room{}, domain.StoreFailure(err)
	}
	r, err := s.GetRoom(ctx, id)
	if err != nil {
		return domain.Room{}, err
	}
	s.invalidateHotel(ctx, r.HotelID)
	log.Info().Int64("room_id", id).Bool("available", available).Msg("room availability changed")
	return r, nil
}

func (s *CatalogService) GetRoom(ctx context.Context, id int64) (domain.Room, error) {
	r, err := s.store.GetRoom(ctx, id)
	return r, domain.StoreFailure(err)
}

func (s *CatalogService) ListRooms(ctx context.Context, hotelID int64) ([]domain.Room, error) {
	rs, err := s.store.ListRooms(ctx, hotelID)
	if err != nil {
		return nil, domain.StoreFailure(err)
	}
	return rs, nil
}

// invalidate cached hotel views
func (s *CatalogService) invalidateHotel(ctx context.Context, id int64) {
	if err := s.cache.Del(ctx, hotelKey(id)); err != nil {
		log.Warn().Err(err).Int64("hotel_id", id).Msg("cache invalidation failed")
	}
}
