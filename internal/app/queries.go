package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_booking/internal/domain"
)

const (
	defaultReviewLimit = 20
	maxReviewLimit     = 100
	detailsReviewLimit = 10
)

// list sizes reviews are cached under, ascending
var cachedReviewLimits = []int{detailsReviewLimit, defaultReviewLimit, 50, maxReviewLimit}

func hotelKey(id int64) string              { return fmt.Sprintf("hotel:%d", id) }
func reviewsKey(id int64, limit int) string { return fmt.Sprintf("reviews:%d:%d", id, limit) }

type nopCache struct{}

func (nopCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (nopCache) Set(context.Context, string, any, int) error    { return nil }
func (nopCache) Del(context.Context, string) error              { return nil }

type ReviewInput struct {
	UserID  int64   `json:"-"`
	HotelID int64   `json:"-"`
	Rating  int     `json:"rating" validate:"min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=1000"`
}

// QueryService serves the public read side: hotel details and reviews, both
// cached for cacheTTL. It also accepts new reviews since they invalidate the
// same entries.
type QueryService struct {
	store    domain.Store
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(s domain.Store, c domain.Cache, ttl time.Duration) *QueryService {
	if c == nil {
		c = nopCache{}
	}
	return &QueryService{store: s, cache: c, cacheTTL: ttl}
}

// HotelDetails returns an active hotel with its enabled rooms, latest reviews
// and rating aggregate.
func (s *QueryService) HotelDetails(ctx context.Context, id int64) (domain.HotelDetails, error) {
	key := hotelKey(id)
	var hd domain.HotelDetails
	if ok, _ := s.cache.Get(ctx, key, &hd); ok {
		return hd, nil
	}

	h, err := s.store.GetHotel(ctx, id)
	if err != nil {
		return domain.HotelDetails{}, domain.StoreFailure(err)
	}
	if !h.IsActive {
		return domain.HotelDetails{}, domain.ErrHotelNotFound
	}
	rooms, err := s.store.ListRooms(ctx, id)
	if err != nil {
		return domain.HotelDetails{}, domain.StoreFailure(err)
	}
	reviews, err := s.store.ListReviews(ctx, id, detailsReviewLimit)
	if err != nil {
		return domain.HotelDetails{}, domain.StoreFailure(err)
	}
	rs, err := s.store.HotelRatings(ctx, id)
	if err != nil {
		return domain.HotelDetails{}, domain.StoreFailure(err)
	}

	hd = hotelDetails(h, rooms, reviews, rs)
	if err := s.cache.Set(ctx, key, hd, int(s.cacheTTL.Seconds())); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
	return hd, nil
}

// ListReviews returns up to limit reviews of a hotel, newest first.
func (s *QueryService) ListReviews(ctx context.Context, hotelID int64, limit int) (domain.ReviewsPage, error) {
	if limit <= 0 {
		limit = defaultReviewLimit
	}
	if limit > maxReviewLimit {
		limit = maxReviewLimit
	}
	bucket := reviewBucket(limit)
	key := reviewsKey(hotelID, bucket)
	var out domain.ReviewsPage
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return truncateReviews(out, limit), nil
	}

	if _, err := s.store.GetHotel(ctx, hotelID); err != nil {
		return domain.ReviewsPage{}, domain.StoreFailure(err)
	}
	rs, err := s.store.ListReviews(ctx, hotelID, bucket)
	if err != nil {
		return domain.ReviewsPage{}, domain.StoreFailure(err)
	}

	// copy so later mutation of the store's slice cannot leak into the cache
	page := domain.ReviewsPage{Items: make([]domain.ReviewView, len(rs))}
	copy(page.Items, rs)

	if err := s.cache.Set(ctx, key, page, int(s.cacheTTL.Seconds())); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
	return truncateReviews(page, limit), nil
}

// reviewBucket rounds limit up to a cached list size so invalidation can
// enumerate every key.
func reviewBucket(limit int) int {
	for _, b := range cachedReviewLimits {
		if limit <= b {
			return b
		}
	}
	return maxReviewLimit
}

func truncateReviews(p domain.ReviewsPage, limit int) domain.ReviewsPage {
	if len(p.Items) > limit {
		p.Items = p.Items[:limit]
	}
	return p
}

func (s *QueryService) AddReview(ctx context.Context, in ReviewInput) (domain.ReviewView, error) {
	if err := validateInput(in); err != nil {
		return domain.ReviewView{}, err
	}
	h, err := s.store.GetHotel(ctx, in.HotelID)
	if err != nil {
		return domain.ReviewView{}, domain.StoreFailure(err)
	}
	if !h.IsActive {
		return domain.ReviewView{}, domain.ErrHotelNotFound
	}
	u, err := s.store.GetUser(ctx, in.UserID)
	if err != nil {
		return domain.ReviewView{}, domain.StoreFailure(err)
	}

	rv := domain.Review{UserID: u.ID, HotelID: h.ID, Rating: in.Rating, Comment: in.Comment, CreatedAt: time.Now().UTC()}
	if err := s.store.CreateReview(ctx, &rv); err != nil {
		return domain.ReviewView{}, domain.StoreFailure(err)
	}
	s.invalidateHotel(ctx, h.ID)
	s.invalidateReviews(ctx, h.ID)

	return domain.ReviewView{ID: rv.ID, Rating: rv.Rating, Comment: rv.Comment, CreatedAt: rv.CreatedAt, UserName: u.FullName()}, nil
}

func (s *QueryService) invalidateHotel(ctx context.Context, id int64) {
	_ = s.cache.Del(ctx, hotelKey(id))
}

func (s *QueryService) invalidateReviews(ctx context.Context, id int64) {
	for _, lim := range cachedReviewLimits {
		_ = s.cache.Del(ctx, reviewsKey(id, lim))
	}
}
