package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	httpserver "hotel_booking/internal/adapters/http_server"
	"hotel_booking/internal/adapters/security"
	"hotel_booking/internal/app"
	"hotel_booking/internal/storage/memory"
)

type apiEnv struct {
	ts      *httptest.Server
	auth    *app.AuthService
	catalog *app.CatalogService
	admin   string
	hotelID int64
	roomID  int64
}

func newAPI(t *testing.T, rps float64, burst int, trusted ...netip.Prefix) *apiEnv {
	t.Helper()
	ctx := context.Background()

	store := memory.New()
	tokens := security.NewTokenService("test-secret", time.Hour)
	avail := app.NewAvailabilityChecker(store, store)
	auth := app.NewAuthService(store, security.NewBcryptHasher(bcrypt.MinCost), tokens)
	catalog := app.NewCatalogService(store, nil)

	h := &httpserver.Handlers{
		Auth:          auth,
		Search:        app.NewSearchService(store, store, avail, 4, []string{"Kyiv", "Lviv"}),
		Avail:         avail,
		Bookings:      app.NewBookingService(store, avail, 24*time.Hour),
		Catalog:       catalog,
		Q:             app.NewQueryService(store, nil, time.Minute),
		Tokens:        tokens,
		AuthRateRPS:   rps,
		AuthRateBurst: burst,

		TrustedProxies: trusted,
	}
	s := httpserver.New(5 * time.Second)
	s.MountHandlers(h)
	ts := httptest.NewServer(s.Mux())
	t.Cleanup(ts.Close)

	_, _, err := auth.EnsureAdmin(ctx, "admin@test.io", "adminpass", "Ada", "Admin")
	require.NoError(t, err)
	adm, err := auth.Login(ctx, "admin@test.io", "adminpass")
	require.NoError(t, err)

	hotel, err := catalog.CreateHotel(ctx, app.HotelInput{Name: "Dnipro View", City: "Kyiv", Address: "Khreshchatyk 1", StarRating: 4})
	require.NoError(t, err)
	room, err := catalog.CreateRoom(ctx, app.RoomInput{HotelID: hotel.ID, RoomNumber: "101", RoomType: "Double", PricePerNight: 100, Capacity: 2})
	require.NoError(t, err)

	return &apiEnv{ts: ts, auth: auth, catalog: catalog, admin: adm.Token, hotelID: hotel.ID, roomID: room.ID}
}

func (e *apiEnv) do(t *testing.T, method, path, token string, body any, hdr ...string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, e.ts.URL+path, rd)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func (e *apiEnv) register(t *testing.T, email string) string {
	t.Helper()
	resp, body := e.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email": email, "password": "secret1", "firstName": "Olena", "lastName": "Koval",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var res app.AuthResult
	require.NoError(t, json.Unmarshal(body, &res))
	require.NotEmpty(t, res.Token)
	return res.Token
}

func dayFromNow(n int) string {
	return time.Now().UTC().AddDate(0, 0, n).Format(time.DateOnly)
}

type problemBody struct {
	Status int    `json:"status"`
	Code   string `json:"code"`
}

func codeOf(t *testing.T, body []byte) string {
	t.Helper()
	var p problemBody
	require.NoError(t, json.Unmarshal(body, &p), string(body))
	return p.Code
}

type bookingBody struct {
	ID         int64   `json:"id"`
	CheckIn    string  `json:"checkIn"`
	CheckOut   string  `json:"checkOut"`
	Nights     int     `json:"nights"`
	TotalPrice float64 `json:"totalPrice"`
	Status     string  `json:"status"`
	HotelName  string  `json:"hotelName"`
}

func TestHealthz(t *testing.T) {
	e := newAPI(t, 100, 100)
	resp, body := e.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestBookingFlow(t *testing.T) {
	e := newAPI(t, 100, 100)
	alice := e.register(t, "alice@test.io")
	bob := e.register(t, "Bob@Test.io")

	req := map[string]any{"roomId": e.roomID, "checkIn": dayFromNow(10), "checkOut": dayFromNow(13), "guestsCount": 2}
	resp, body := e.do(t, http.MethodPost, "/v1/bookings", alice, req)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var b bookingBody
	require.NoError(t, json.Unmarshal(body, &b))
	assert.Equal(t, 300.0, b.TotalPrice)
	assert.Equal(t, 3, b.Nights)
	assert.Equal(t, "Confirmed", b.Status)
	assert.Equal(t, dayFromNow(10), b.CheckIn)
	assert.Equal(t, "Dnipro View", b.HotelName)
	assert.Equal(t, fmt.Sprintf("/v1/bookings/%d", b.ID), resp.Header.Get("Location"))

	// overlapping stay
	resp, body = e.do(t, http.MethodPost, "/v1/bookings", bob, map[string]any{
		"roomId": e.roomID, "checkIn": dayFromNow(12), "checkOut": dayFromNow(14), "guestsCount": 1,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "room_not_available", codeOf(t, body))

	// back-to-back stay
	resp, body = e.do(t, http.MethodPost, "/v1/bookings", bob, map[string]any{
		"roomId": e.roomID, "checkIn": dayFromNow(13), "checkOut": dayFromNow(15), "guestsCount": 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	// capacity
	resp, body = e.do(t, http.MethodPost, "/v1/bookings", bob, map[string]any{
		"roomId": e.roomID, "checkIn": dayFromNow(20), "checkOut": dayFromNow(21), "guestsCount": 3,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "capacity_exceeded", codeOf(t, body))

	resp, body = e.do(t, http.MethodGet, "/v1/bookings/my", alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var mine []bookingBody
	require.NoError(t, json.Unmarshal(body, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, b.ID, mine[0].ID)

	// another customer cannot see or cancel it
	resp, _ = e.do(t, http.MethodGet, fmt.Sprintf("/v1/bookings/%d", b.ID), bob, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, body = e.do(t, http.MethodPost, fmt.Sprintf("/v1/bookings/%d/cancel", b.ID), bob, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "unauthorized", codeOf(t, body))

	resp, body = e.do(t, http.MethodPost, fmt.Sprintf("/v1/bookings/%d/cancel", b.ID), alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &b))
	assert.Equal(t, "Cancelled", b.Status)

	resp, body = e.do(t, http.MethodPost, fmt.Sprintf("/v1/bookings/%d/cancel", b.ID), alice, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "booking_already_cancelled", codeOf(t, body))

	// the freed range is bookable again
	resp, body = e.do(t, http.MethodPost, "/v1/bookings", bob, map[string]any{
		"roomId": e.roomID, "checkIn": dayFromNow(10), "checkOut": dayFromNow(13), "guestsCount": 1,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
}

func TestBookingValidation(t *testing.T) {
	e := newAPI(t, 100, 100)
	tok := e.register(t, "val@test.io")

	cases := []struct {
		name string
		body any
		code string
	}{
		{"malformed date", map[string]any{"roomId": e.roomID, "checkIn": "10/01/2030", "checkOut": dayFromNow(3), "guestsCount": 1}, "validation_failed"},
		{"checkout before checkin", map[string]any{"roomId": e.roomID, "checkIn": dayFromNow(5), "checkOut": dayFromNow(5), "guestsCount": 1}, "invalid_date_range"},
		{"past checkin", map[string]any{"roomId": e.roomID, "checkIn": dayFromNow(-2), "checkOut": dayFromNow(1), "guestsCount": 1}, "invalid_date_range"},
		{"guest detail count", map[string]any{
			"roomId": e.roomID, "checkIn": dayFromNow(5), "checkOut": dayFromNow(6), "guestsCount": 2,
			"guestDetails": []map[string]any{{"firstName": "A", "lastName": "B", "isPrimary": true}},
		}, "guest_detail_mismatch"},
		{"no primary guest", map[string]any{
			"roomId": e.roomID, "checkIn": dayFromNow(5), "checkOut": dayFromNow(6), "guestsCount": 1,
			"guestDetails": []map[string]any{{"firstName": "A", "lastName": "B"}},
		}, "missing_primary_guest"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			resp, body := e.do(t, http.MethodPost, "/v1/bookings", tok, c.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))
			assert.Equal(t, c.code, codeOf(t, body))
		})
	}

	resp, body := e.do(t, http.MethodPost, "/v1/bookings", tok, map[string]any{
		"roomId": 999, "checkIn": dayFromNow(5), "checkOut": dayFromNow(6), "guestsCount": 1,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "room_not_found", codeOf(t, body))
}

func TestAuthGuards(t *testing.T) {
	e := newAPI(t, 100, 100)
	tok := e.register(t, "guard@test.io")

	resp, body := e.do(t, http.MethodGet, "/v1/bookings/my", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "unauthenticated", codeOf(t, body))

	resp, body = e.do(t, http.MethodGet, "/v1/bookings/my", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalid_token", codeOf(t, body))

	resp, body = e.do(t, http.MethodGet, "/v1/admin/hotels", tok, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "forbidden", codeOf(t, body))

	resp, body = e.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{"email": "guard@test.io", "password": "wrong!"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalid_credentials", codeOf(t, body))

	resp, body = e.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email": "GUARD@test.io", "password": "secret1", "firstName": "G", "lastName": "H",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "email_taken", codeOf(t, body))

	resp, _ = e.do(t, http.MethodGet, "/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAuthRateLimited(t *testing.T) {
	e := newAPI(t, 0.01, 1)
	creds := map[string]string{"email": "admin@test.io", "password": "adminpass"}

	resp, _ := e.do(t, http.MethodPost, "/v1/auth/login", "", creds)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, body := e.do(t, http.MethodPost, "/v1/auth/login", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "rate_limited", codeOf(t, body))
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
}

func TestAuthRateLimited_IgnoresForwardedHeaders(t *testing.T) {
	e := newAPI(t, 0.01, 1)
	creds := map[string]string{"email": "admin@test.io", "password": "wrong"}

	resp, _ := e.do(t, http.MethodPost, "/v1/auth/login", "", creds, "X-Forwarded-For", "10.0.0.1")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	for i := 2; i <= 5; i++ {
		ip := fmt.Sprintf("10.0.0.%d", i)
		resp, body := e.do(t, http.MethodPost, "/v1/auth/login", "", creds, "X-Forwarded-For", ip, "X-Real-IP", ip)
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode, "XFF %s", ip)
		assert.Equal(t, "rate_limited", codeOf(t, body))
	}
}

func TestAuthRateLimited_TrustedProxyForwardsClient(t *testing.T) {
	e := newAPI(t, 0.01, 1, netip.MustParsePrefix("127.0.0.0/8"), netip.MustParsePrefix("::1/128"))
	creds := map[string]string{"email": "admin@test.io", "password": "wrong"}

	// each forwarded client has its own bucket
	for i := 1; i <= 3; i++ {
		resp, _ := e.do(t, http.MethodPost, "/v1/auth/login", "", creds, "X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
	resp, _ := e.do(t, http.MethodPost, "/v1/auth/login", "", creds, "X-Forwarded-For", "203.0.113.1")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	// a client cannot prepend its way out through the proxy
	resp, _ = e.do(t, http.MethodPost, "/v1/auth/login", "", creds, "X-Forwarded-For", "198.51.100.7, 203.0.113.2")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestSearchAndAvailability(t *testing.T) {
	e := newAPI(t, 100, 100)
	tok := e.register(t, "search@test.io")

	q := fmt.Sprintf("/v1/search?city=kyiv&checkIn=%s&checkOut=%s", dayFromNow(30), dayFromNow(32))
	resp, body := e.do(t, http.MethodGet, q, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var sr struct {
		Nights int `json:"nights"`
		Hotels []struct {
			ID             int64   `json:"id"`
			MinPrice       float64 `json:"minPrice"`
			AvailableRooms int     `json:"availableRooms"`
		} `json:"hotels"`
	}
	require.NoError(t, json.Unmarshal(body, &sr))
	assert.Equal(t, 2, sr.Nights)
	require.Len(t, sr.Hotels, 1)
	assert.Equal(t, 100.0, sr.Hotels[0].MinPrice)

	resp, body = e.do(t, http.MethodPost, "/v1/bookings", tok, map[string]any{
		"roomId": e.roomID, "checkIn": dayFromNow(30), "checkOut": dayFromNow(32), "guestsCount": 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = e.do(t, http.MethodGet, q, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &sr))
	assert.Empty(t, sr.Hotels, "the only room is taken")

	resp, body = e.do(t, http.MethodGet, fmt.Sprintf("/v1/rooms/%d/availability?checkIn=%s&checkOut=%s", e.roomID, dayFromNow(31), dayFromNow(33)), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var av struct {
		Available bool `json:"available"`
	}
	require.NoError(t, json.Unmarshal(body, &av))
	assert.False(t, av.Available)

	resp, body = e.do(t, http.MethodGet, fmt.Sprintf("/v1/rooms/%d/availability?checkIn=%s&checkOut=%s", e.roomID, dayFromNow(32), dayFromNow(33)), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &av))
	assert.True(t, av.Available, "check-in on the previous check-out day")

	resp, body = e.do(t, http.MethodGet, fmt.Sprintf("/v1/search?checkIn=%s&checkOut=%s", dayFromNow(5), dayFromNow(4)), "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_date_range", codeOf(t, body))

	resp, body = e.do(t, http.MethodGet, fmt.Sprintf("/v1/rooms/%d/quote?checkIn=%s&checkOut=%s&guests=2", e.roomID, dayFromNow(40), dayFromNow(44)), tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var qt app.Quote
	require.NoError(t, json.Unmarshal(body, &qt))
	assert.Equal(t, 4, qt.Nights)
	assert.Equal(t, 400.0, qt.TotalPrice)
}

func TestHotelDetailsETagAndReviews(t *testing.T) {
	e := newAPI(t, 100, 100)
	tok := e.register(t, "review@test.io")
	path := fmt.Sprintf("/v1/hotels/%d", e.hotelID)

	resp, body := e.do(t, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	etag := resp.Header.Get("ETag")
	require.NotEmpty(t, etag)

	resp, _ = e.do(t, http.MethodGet, path, "", nil, "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)

	resp, body = e.do(t, http.MethodPost, path+"/reviews", tok, map[string]any{"rating": 5, "comment": "Great view"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = e.do(t, http.MethodPost, path+"/reviews", tok, map[string]any{"rating": 9})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation_failed", codeOf(t, body))

	resp, body = e.do(t, http.MethodGet, path, "", nil, "If-None-Match", etag)
	require.Equal(t, http.StatusOK, resp.StatusCode, "a new review changes the representation")
	var hd struct {
		AverageRating float64 `json:"averageRating"`
		ReviewCount   int     `json:"reviewCount"`
		Rooms         []any   `json:"rooms"`
	}
	require.NoError(t, json.Unmarshal(body, &hd))
	assert.Equal(t, 5.0, hd.AverageRating)
	assert.Equal(t, 1, hd.ReviewCount)
	assert.Len(t, hd.Rooms, 1)

	resp, body = e.do(t, http.MethodGet, path+"/reviews?limit=5", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page struct {
		Items []struct {
			Rating   int    `json:"rating"`
			UserName string `json:"userName"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(body, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Olena Koval", page.Items[0].UserName)

	resp, _ = e.do(t, http.MethodGet, path+"/reviews?limit=0", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = e.do(t, http.MethodGet, "/v1/hotels/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation_failed", codeOf(t, body))
}

func TestAdminCatalogAndStats(t *testing.T) {
	e := newAPI(t, 100, 100)
	tok := e.register(t, "guest@test.io")

	resp, body := e.do(t, http.MethodPost, "/v1/admin/hotels", e.admin, map[string]any{
		"name": "Old Town Inn", "city": "Lviv", "address": "Rynok 5", "starRating": 3,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var hotel struct {
		ID       int64 `json:"id"`
		IsActive bool  `json:"isActive"`
	}
	require.NoError(t, json.Unmarshal(body, &hotel))
	assert.True(t, hotel.IsActive)

	resp, body = e.do(t, http.MethodPost, "/v1/admin/hotels", e.admin, map[string]any{"name": "No City", "starRating": 7})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation_failed", codeOf(t, body))

	resp, body = e.do(t, http.MethodPost, "/v1/admin/rooms", e.admin, map[string]any{
		"hotelId": hotel.ID, "roomNumber": "1", "roomType": "Single", "pricePerNight": 55.5, "capacity": 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var room struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &room))

	avail := fmt.Sprintf("/v1/hotels/%d/rooms/available?checkIn=%s&checkOut=%s", hotel.ID, dayFromNow(3), dayFromNow(5))
	resp, body = e.do(t, http.MethodGet, avail, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rooms []struct {
		ID         int64   `json:"id"`
		TotalPrice float64 `json:"totalPrice"`
	}
	require.NoError(t, json.Unmarshal(body, &rooms))
	require.Len(t, rooms, 1)
	assert.Equal(t, 111.0, rooms[0].TotalPrice)

	resp, body = e.do(t, http.MethodPatch, fmt.Sprintf("/v1/admin/rooms/%d/availability", room.ID), e.admin, map[string]any{"isAvailable": false})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	resp, body = e.do(t, http.MethodGet, avail, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &rooms))
	assert.Empty(t, rooms)

	resp, body = e.do(t, http.MethodPost, "/v1/bookings", tok, map[string]any{
		"roomId": room.ID, "checkIn": dayFromNow(3), "checkOut": dayFromNow(5), "guestsCount": 1,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "room_disabled", codeOf(t, body))

	resp, _ = e.do(t, http.MethodDelete, fmt.Sprintf("/v1/admin/hotels/%d", hotel.ID), e.admin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = e.do(t, http.MethodGet, fmt.Sprintf("/v1/hotels/%d", hotel.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = e.do(t, http.MethodGet, avail, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = e.do(t, http.MethodPost, "/v1/bookings", tok, map[string]any{
		"roomId": e.roomID, "checkIn": dayFromNow(3), "checkOut": dayFromNow(5), "guestsCount": 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = e.do(t, http.MethodGet, "/v1/admin/bookings", e.admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var all []bookingBody
	require.NoError(t, json.Unmarshal(body, &all))
	assert.Len(t, all, 1)

	resp, body = e.do(t, http.MethodGet, "/v1/admin/bookings/stats", e.admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var st struct {
		TotalBookings int     `json:"totalBookings"`
		TotalRevenue  float64 `json:"totalRevenue"`
	}
	require.NoError(t, json.Unmarshal(body, &st))
	assert.Equal(t, 1, st.TotalBookings)
	assert.Equal(t, 200.0, st.TotalRevenue)

	resp, _ = e.do(t, http.MethodGet, "/v1/admin/bookings/stats?from=2024-13-01", e.admin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
