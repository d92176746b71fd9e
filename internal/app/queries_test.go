package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
	"hotel_booking/internal/storage/memory"
)

// ---- fakes ----

// countingStore records reads that a cache hit should avoid.
type countingStore struct {
	*memory.Store
	hotelReads  int
	reviewReads int
}

func (c *countingStore) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	c.hotelReads++
	return c.Store.GetHotel(ctx, id)
}

func (c *countingStore) ListReviews(ctx context.Context, hotelID int64, limit int) ([]domain.ReviewView, error) {
	c.reviewReads++
	return c.Store.ListReviews(ctx, hotelID, limit)
}

// fakeCache keeps JSON like the real adapters do, so cached values are copies.
type fakeCache struct {
	store  map[string][]byte
	setErr error
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.setErr != nil {
		return c.setErr
	}
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	return nil
}

func ptr[T any](v T) *T { return &v }

type queryFixture struct {
	store *countingStore
	cache *fakeCache
	q     *app.QueryService
	cat   *app.CatalogService
	hotel domain.Hotel
	user  domain.User
}

func newQueryFixture(t *testing.T) *queryFixture {
	t.Helper()
	ctx := context.Background()
	store := &countingStore{Store: memory.New()}
	cache := &fakeCache{}

	cat := app.NewCatalogService(store, cache)
	h, err := cat.CreateHotel(ctx, app.HotelInput{Name: "Dnipro View", City: "Kyiv", Address: "Khreshchatyk 1", StarRating: 4})
	require.NoError(t, err)
	_, err = cat.CreateRoom(ctx, app.RoomInput{HotelID: h.ID, RoomNumber: "101", RoomType: "Double", PricePerNight: 100, Capacity: 2})
	require.NoError(t, err)
	_, err = cat.CreateRoom(ctx, app.RoomInput{HotelID: h.ID, RoomNumber: "102", RoomType: "Single", PricePerNight: 60, Capacity: 1, IsAvailable: ptr(false)})
	require.NoError(t, err)

	u := domain.User{Email: "r@test.io", FirstName: "Rita", LastName: "Shevchenko", Role: domain.RoleCustomer, IsActive: true}
	require.NoError(t, store.CreateUser(ctx, &u))

	store.hotelReads, store.reviewReads = 0, 0
	return &queryFixture{store: store, cache: cache, q: app.NewQueryService(store, cache, 10*time.Minute), cat: cat, hotel: h, user: u}
}

// ---- tests ----

func TestHotelDetails_CacheMissThenHit(t *testing.T) {
	f := newQueryFixture(t)
	ctx := context.Background()

	hd, err := f.q.HotelDetails(ctx, f.hotel.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dnipro View", hd.Name)
	require.Len(t, hd.Rooms, 1, "disabled rooms are hidden")
	assert.Equal(t, "101", hd.Rooms[0].RoomNumber)
	assert.NotNil(t, hd.Reviews)
	assert.Equal(t, 1, f.store.hotelReads)

	_, err = f.q.HotelDetails(ctx, f.hotel.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.store.hotelReads, "second read served from cache")

	// an admin edit drops the entry
	_, err = f.cat.UpdateHotel(ctx, f.hotel.ID, app.HotelInput{Name: "Dnipro View II", City: "Kyiv", Address: "Khreshchatyk 1", StarRating: 5})
	require.NoError(t, err)
	hd, err = f.q.HotelDetails(ctx, f.hotel.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dnipro View II", hd.Name)
	assert.Equal(t, 5, hd.StarRating)
}

func TestHotelDetails_InactiveOrMissing(t *testing.T) {
	f := newQueryFixture(t)
	ctx := context.Background()

	_, err := f.q.HotelDetails(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrHotelNotFound)

	_, err = f.q.HotelDetails(ctx, f.hotel.ID)
	require.NoError(t, err)
	require.NoError(t, f.cat.DeactivateHotel(ctx, f.hotel.ID))
	_, err = f.q.HotelDetails(ctx, f.hotel.ID)
	assert.ErrorIs(t, err, domain.ErrHotelNotFound)
}

func TestListReviews_BucketsAndInvalidation(t *testing.T) {
	f := newQueryFixture(t)
	ctx := context.Background()

	for i := 1; i <= 12; i++ {
		_, err := f.q.AddReview(ctx, app.ReviewInput{UserID: f.user.ID, HotelID: f.hotel.ID, Rating: 1 + i%5, Comment: ptr(fmt.Sprintf("stay %d", i))})
		require.NoError(t, err)
	}
	f.store.reviewReads = 0

	out, err := f.q.ListReviews(ctx, f.hotel.ID, 5)
	require.NoError(t, err)
	require.Len(t, out.Items, 5)
	assert.Equal(t, "Rita Shevchenko", out.Items[0].UserName)
	assert.Equal(t, "stay 12", *out.Items[0].Comment, "newest first")

	// 5 and 10 share a bucket
	out, err = f.q.ListReviews(ctx, f.hotel.ID, 10)
	require.NoError(t, err)
	assert.Len(t, out.Items, 10)
	assert.Equal(t, 1, f.store.reviewReads)

	out, err = f.q.ListReviews(ctx, f.hotel.ID, 0)
	require.NoError(t, err)
	assert.Len(t, out.Items, 12, "default limit is 20")
	assert.Equal(t, 2, f.store.reviewReads)

	_, err = f.q.AddReview(ctx, app.ReviewInput{UserID: f.user.ID, HotelID: f.hotel.ID, Rating: 5, Comment: ptr("latest")})
	require.NoError(t, err)
	out, err = f.q.ListReviews(ctx, f.hotel.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, "latest", *out.Items[0].Comment, "new review invalidates every bucket")

	_, err = f.q.ListReviews(ctx, 999, 5)
	assert.ErrorIs(t, err, domain.ErrHotelNotFound)
}

func TestListReviews_CacheWriteFailureIsNotFatal(t *testing.T) {
	f := newQueryFixture(t)
	ctx := context.Background()
	_, err := f.q.AddReview(ctx, app.ReviewInput{UserID: f.user.ID, HotelID: f.hotel.ID, Rating: 4, Comment: ptr("quiet room")})
	require.NoError(t, err)
	f.cache.setErr = errors.New("cache down")
	f.store.reviewReads = 0

	for i := 0; i < 2; i++ {
		out, err := f.q.ListReviews(ctx, f.hotel.ID, 5)
		require.NoError(t, err)
		require.Len(t, out.Items, 1)
		assert.Equal(t, "quiet room", *out.Items[0].Comment)
	}
	assert.Equal(t, 2, f.store.reviewReads, "nothing cached, every call reads the store")
	assert.Empty(t, f.cache.store)
}

func TestAddReview_Validation(t *testing.T) {
	f := newQueryFixture(t)
	ctx := context.Background()

	_, err := f.q.AddReview(ctx, app.ReviewInput{UserID: f.user.ID, HotelID: f.hotel.ID, Rating: 6})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.q.AddReview(ctx, app.ReviewInput{UserID: f.user.ID, HotelID: 999, Rating: 4})
	assert.ErrorIs(t, err, domain.ErrHotelNotFound)

	rv, err := f.q.AddReview(ctx, app.ReviewInput{UserID: f.user.ID, HotelID: f.hotel.ID, Rating: 4})
	require.NoError(t, err)
	assert.Nil(t, rv.Comment)

	hd, err := f.q.HotelDetails(ctx, f.hotel.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, hd.AverageRating)
	assert.Equal(t, 1, hd.ReviewCount)
}

func TestCatalog_RoomValidationAndHotelCheck(t *testing.T) {
	f := newQueryFixture(t)
	ctx := context.Background()

	_, err := f.cat.CreateRoom(ctx, app.RoomInput{HotelID: 999, RoomNumber: "1", RoomType: "Single", PricePerNight: 10, Capacity: 1})
	assert.ErrorIs(t, err, domain.ErrHotelNotFound)
	_, err = f.cat.CreateRoom(ctx, app.RoomInput{HotelID: f.hotel.ID, RoomNumber: "1", RoomType: "Single", PricePerNight: 0, Capacity: 1})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.cat.CreateHotel(ctx, app.HotelInput{Name: "x", City: "y", Address: "z", StarRating: 6})
	assert.ErrorIs(t, err, domain.ErrValidation)

	rooms, err := f.cat.ListRooms(ctx, f.hotel.ID)
	require.NoError(t, err)
	require.Len(t, rooms, 2)

	r, err := f.cat.SetRoomAvailability(ctx, rooms[1].ID, true)
	require.NoError(t, err)
	assert.True(t, r.IsAvailable)
	hd, err := f.q.HotelDetails(ctx, f.hotel.ID)
	require.NoError(t, err)
	assert.Len(t, hd.Rooms, 2)

	_, err = f.cat.SetRoomAvailability(ctx, 999, false)
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}
