package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/adapters/security"
	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
	"hotel_booking/internal/shared"
	"hotel_booking/internal/storage"
)

type seedHotel struct {
	hotel app.HotelInput
	rooms []app.RoomInput
}

func rooms(prefix int, kinds ...app.RoomInput) []app.RoomInput {
	out := make([]app.RoomInput, 0, len(kinds))
	for i, k := range kinds {
		k.RoomNumber = fmt.Sprintf("%d%02d", prefix, i+1)
		out = append(out, k)
	}
	return out
}

var (
	single = app.RoomInput{RoomType: "Single", Description: "Single bed, city view", PricePerNight: 60, Capacity: 1, Amenities: domain.RoomAmenities{TV: true}}
	double = app.RoomInput{RoomType: "Double", Description: "Queen bed", PricePerNight: 95, Capacity: 2, Amenities: domain.RoomAmenities{TV: true, AC: true}}
	suite  = app.RoomInput{RoomType: "Suite", Description: "Separate living room", PricePerNight: 180, Capacity: 4, Amenities: domain.RoomAmenities{Breakfast: true, AC: true, TV: true, MiniBar: true, Balcony: true}}
)

var catalog = []seedHotel{
	{
		hotel: app.HotelInput{Name: "Dnipro Riverside", City: "Kyiv", Address: "Naberezhno-Khreshchatytska 10", Description: "Riverside hotel close to Podil", StarRating: 4,
			Amenities: domain.HotelAmenities{Restaurant: true, FreeWiFi: true, Parking: true}},
		rooms: rooms(1, single, double, double, suite),
	},
	{
		hotel: app.HotelInput{Name: "Golden Gate Boutique", City: "Kyiv", Address: "Volodymyrska 40", Description: "Boutique rooms in the old town", StarRating: 5,
			Amenities: domain.HotelAmenities{Spa: true, Restaurant: true, FreeWiFi: true}},
		rooms: rooms(2, double, suite),
	},
	{
		hotel: app.HotelInput{Name: "Rynok Square Inn", City: "Lviv", Address: "Rynok Square 7", Description: "Historic building on the main square", StarRating: 3,
			Amenities: domain.HotelAmenities{FreeWiFi: true}},
		rooms: rooms(1, single, single, double),
	},
	{
		hotel: app.HotelInput{Name: "Black Sea Resort", City: "Odesa", Address: "Frantsuzkyi Blvd 33", Description: "Seaside resort with a pool", StarRating: 5,
			Amenities: domain.HotelAmenities{Pool: true, Spa: true, Restaurant: true, FreeWiFi: true, Parking: true}},
		rooms: rooms(3, double, double, suite, suite),
	},
	{
		hotel: app.HotelInput{Name: "Freedom Square Hotel", City: "Kharkiv", Address: "Svobody Square 2", Description: "Business hotel in the centre", StarRating: 4,
			Amenities: domain.HotelAmenities{Restaurant: true, FreeWiFi: true, Parking: true}},
		rooms: rooms(4, single, double, suite),
	},
}

// seed ensures the admin account exists and fills an empty catalog with demo
// hotels. Re-running it against a populated store only re-checks the admin.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	defer backend.Close()
	store := backend.Store

	if cfg.SeedAdminPass == "" {
		log.Warn().Msg("SEED_ADMIN_PASSWORD is empty; skipping admin account")
	} else {
		auth := app.NewAuthService(store, security.NewBcryptHasher(0), security.NewTokenService(cfg.JWTSecret, cfg.JWTTTL))
		u, created, err := auth.EnsureAdmin(ctx, cfg.SeedAdminEmail, cfg.SeedAdminPass, "System", "Admin")
		if err != nil {
			log.Fatal().Err(err).Msg("ensure admin failed")
		}
		log.Info().Int64("id", u.ID).Str("email", u.Email).Bool("created", created).Msg("admin account ready")
	}

	existing, err := store.ListHotels(ctx, domain.HotelFilter{})
	if err != nil {
		log.Fatal().Err(err).Msg("list hotels failed")
	}
	if len(existing) > 0 {
		log.Info().Int("hotels", len(existing)).Msg("catalog not empty; nothing to seed")
		return
	}

	svc := app.NewCatalogService(store, nil)
	sem := semaphore.NewWeighted(int64(max(cfg.SearchWorkers, 1)))
	var wg sync.WaitGroup

	for _, sh := range catalog {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}
		wg.Add(1)
		go func(sh seedHotel) {
			defer wg.Done()
			defer sem.Release(1)

			h, err := svc.CreateHotel(ctx, sh.hotel)
			if err != nil {
				log.Warn().Err(err).Str("hotel", sh.hotel.Name).Msg("seed hotel failed")
				return
			}
			for _, r := range sh.rooms {
				r.HotelID = h.ID
				if _, err := svc.CreateRoom(ctx, r); err != nil {
					log.Warn().Err(err).Int64("hotel_id", h.ID).Str("room", r.RoomNumber).Msg("seed room failed")
				}
			}
			log.Info().Int64("id", h.ID).Str("city", h.City).Int("rooms", len(sh.rooms)).Msg("hotel seeded")
		}(sh)
	}

	wg.Wait()
	log.Info().Int("hotels", len(catalog)).Msg("seeding completed")
}
