package app

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"hotel_booking/internal/domain"
)

type SearchService struct {
	hotels   domain.HotelStore
	rooms    domain.RoomStore
	avail    *AvailabilityChecker
	workers  int
	featured []string
	now      func() time.Time
}

// NewSearchService evaluates up to workers hotels concurrently. featured lists
// the cities Featured picks from.
func NewSearchService(h domain.HotelStore, r domain.RoomStore, a *AvailabilityChecker, workers int, featured []string) *SearchService {
	if workers < 1 {
		workers = 1
	}
	return &SearchService{hotels: h, rooms: r, avail: a, workers: workers, featured: featured, now: time.Now}
}

// Search returns the active hotels in city (case-insensitive substring; empty
// or "null" means any) with at least one enabled room free for the range.
// Price and room figures cover only those free rooms. Store failures degrade
// to an empty result; only a bad range is reported.
func (s *SearchService) Search(ctx context.Context, city string, checkIn, checkOut time.Time) ([]domain.HotelSummary, error) {
	checkIn, checkOut = domain.Day(checkIn), domain.Day(checkOut)
	if !checkOut.After(checkIn) {
		return nil, domain.ErrInvalidDateRange
	}
	city = strings.TrimSpace(city)
	if strings.EqualFold(city, "null") {
		city = ""
	}

	hs, err := s.hotels.ListHotels(ctx, domain.HotelFilter{City: city, ActiveOnly: true})
	if err != nil {
		log.Warn().Err(err).Str("city", city).Msg("search: hotel scan failed, returning no results")
		return []domain.HotelSummary{}, nil
	}

	hits := make([]*domain.HotelSummary, len(hs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, h := range hs {
		g.Go(func() error {
			sum, ok, err := s.evaluate(gctx, h, checkIn, checkOut)
			if err != nil {
				return err
			}
			if ok {
				hits[i] = &sum
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn().Err(err).Str("city", city).Msg("search: availability scan failed, returning no results")
		return []domain.HotelSummary{}, nil
	}

	out := make([]domain.HotelSummary, 0, len(hits))
	for _, h := range hits {
		if h != nil {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (s *SearchService) evaluate(ctx context.Context, h domain.Hotel, checkIn, checkOut time.Time) (domain.HotelSummary, bool, error) {
	rooms, err := s.rooms.ListRooms(ctx, h.ID)
	if err != nil {
		return domain.HotelSummary{}, false, err
	}
	var freeRooms []domain.Room
	for _, r := range rooms {
		if !r.IsAvailable {
			continue
		}
		ok, err := s.avail.IsAvailable(ctx, r.ID, checkIn, checkOut)
		if err != nil {
			return domain.HotelSummary{}, false, err
		}
		if ok {
			freeRooms = append(freeRooms, r)
		}
	}
	if len(freeRooms) == 0 {
		return domain.HotelSummary{}, false, nil
	}
	rs, err := s.hotels.HotelRatings(ctx, h.ID)
	if err != nil {
		return domain.HotelSummary{}, false, err
	}
	return summarize(h, freeRooms, rs), true, nil
}

// nextFriday is the first Friday strictly after today.
func nextFriday(now time.Time) time.Time {
	today := domain.Day(now)
	days := (int(time.Friday) - int(today.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return today.AddDate(0, 0, days)
}

// Featured searches next weekend (Friday to Sunday) in every featured city
// and keeps the best hotel of each, ranked by stars then average rating.
func (s *SearchService) Featured(ctx context.Context) ([]domain.HotelSummary, error) {
	checkIn := nextFriday(s.now())
	checkOut := checkIn.AddDate(0, 0, 2)

	out := make([]domain.HotelSummary, 0, len(s.featured))
	for _, city := range s.featured {
		hits, err := s.Search(ctx, city, checkIn, checkOut)
		if err != nil {
			log.Warn().Err(err).Str("city", city).Msg("featured: search failed")
			continue
		}
		if len(hits) == 0 {
			continue
		}
		sort.SliceStable(hits, func(i, j int) bool {
			if hits[i].StarRating != hits[j].StarRating {
				return hits[i].StarRating > hits[j].StarRating
			}
			return hits[i].AverageRating > hits[j].AverageRating
		})
		out = append(out, hits[0])
	}
	return out, nil
}
