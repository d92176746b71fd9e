package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

const maxBodyBytes = 1 << 20

type Handlers struct {
	Auth     *app.AuthService
	Search   *app.SearchService
	Avail    *app.AvailabilityChecker
	Bookings *app.BookingService
	Catalog  *app.CatalogService
	Q        *app.QueryService
	Tokens   TokenValidator

	AuthRateRPS   float64
	AuthRateBurst int
	// TrustedProxies may set X-Forwarded-For for the auth rate limiter.
	TrustedProxies []netip.Prefix

	// Ready reports backend health for /healthz; nil means always healthy.
	Ready func(ctx context.Context) error
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", h.health)

	s.mux.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(RateLimit(h.AuthRateRPS, h.AuthRateBurst, h.TrustedProxies))
			r.Post("/auth/register", h.register)
			r.Post("/auth/login", h.login)
		})

		r.Get("/search", h.search)
		r.Get("/hotels/featured", h.featured)
		r.Get("/hotels/{id}", h.getHotel)
		r.Get("/hotels/{id}/rooms/available", h.availableRooms)
		r.Get("/hotels/{id}/reviews", h.listReviews)
		r.Get("/rooms/{id}/availability", h.roomAvailability)

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(h.Tokens))
			r.Post("/hotels/{id}/reviews", h.addReview)
			r.Get("/rooms/{id}/quote", h.quote)
			r.With(RequireRole(domain.RoleCustomer, domain.RoleAdmin)).Post("/bookings", h.createBooking)
			r.Get("/bookings/my", h.myBookings)
			r.Get("/bookings/{id}", h.getBooking)
			r.Post("/bookings/{id}/cancel", h.cancelBooking)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(Authenticate(h.Tokens), RequireRole(domain.RoleAdmin))
			r.Get("/hotels", h.adminListHotels)
			r.Post("/hotels", h.adminCreateHotel)
			r.Get("/hotels/{id}", h.adminGetHotel)
			r.Put("/hotels/{id}", h.adminUpdateHotel)
			r.Delete("/hotels/{id}", h.adminDeactivateHotel)
			r.Get("/rooms", h.adminListRooms)
			r.Post("/rooms", h.adminCreateRoom)
			r.Get("/rooms/{id}", h.adminGetRoom)
			r.Put("/rooms/{id}", h.adminUpdateRoom)
			r.Patch("/rooms/{id}/availability", h.adminSetRoomAvailability)
			r.Get("/bookings", h.adminListBookings)
			r.Get("/bookings/stats", h.adminBookingStats)
		})
	})
}

/********** request helpers **********/

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrValidation.With("id must be a positive integer")
	}
	return id, nil
}

// queryDate parses a YYYY-MM-DD query parameter; def is used when it is absent.
func queryDate(r *http.Request, name string, def time.Time) (time.Time, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return def, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, domain.ErrValidation.With("%s must be a date in YYYY-MM-DD format", name)
	}
	return t, nil
}

// stayDates reads checkIn/checkOut, defaulting to tomorrow for one night.
func stayDates(r *http.Request) (time.Time, time.Time, error) {
	ci, err := queryDate(r, "checkIn", domain.Day(time.Now()).AddDate(0, 0, 1))
	if err != nil {
		return ci, ci, err
	}
	co, err := queryDate(r, "checkOut", ci.AddDate(0, 0, 1))
	return ci, co, err
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.ErrValidation.With("request body is empty")
		}
		return domain.ErrValidation.With("malformed JSON body: %v", err)
	}
	return nil
}

func mustClaims(r *http.Request) (userID int64, isAdmin bool) {
	c, _ := ClaimsFrom(r.Context())
	if c == nil {
		return 0, false
	}
	return c.UserID, c.IsAdmin()
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCacheable serves v with a weak ETag and honours If-None-Match.
func writeCacheable(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "encoding failed", "internal")
		return
	}
	w.Header().Set("ETag", etag)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

/********** health **********/

func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	if h.Ready != nil {
		if err := h.Ready(r.Context()); err != nil {
			log.Warn().Err(err).Msg("health check failed")
			writeProblem(w, http.StatusServiceUnavailable, "Service Unavailable", "backend unavailable", "store_failure")
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

/********** public catalog **********/

type searchResponse struct {
	City     string                `json:"city"`
	CheckIn  string                `json:"checkIn"`
	CheckOut string                `json:"checkOut"`
	Nights   int                   `json:"nights"`
	Hotels   []domain.HotelSummary `json:"hotels"`
}

func (h *Handlers) search(w http.ResponseWriter, r *http.Request) {
	ci, co, err := stayDates(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	city := r.URL.Query().Get("city")
	start := time.Now()
	hits, err := h.Search.Search(r.Context(), city, ci, co)
	observability.ObserveSearch("search", time.Since(start))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{
		City:     city,
		CheckIn:  ci.Format(time.DateOnly),
		CheckOut: co.Format(time.DateOnly),
		Nights:   domain.Nights(ci, co),
		Hotels:   hits,
	})
}

func (h *Handlers) featured(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	hits, err := h.Search.Featured(r.Context())
	observability.ObserveSearch("featured", time.Since(start))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hits)
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := h.Q.HotelDetails(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, resp)
}

func (h *Handlers) availableRooms(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ci, co, err := stayDates(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	hotel, err := h.Catalog.GetHotel(r.Context(), id)
	if err == nil && !hotel.IsActive {
		err = domain.ErrHotelNotFound
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	rooms, err := h.Avail.AvailableRooms(r.Context(), id, ci, co)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	limit := 0
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 100 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 100", domain.ErrValidation.Code)
			return
		}
		limit = l
	}
	out, err := h.Q.ListReviews(r.Context(), id, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, out)
}

func (h *Handlers) addReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in app.ReviewInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.HotelID = id
	in.UserID, _ = mustClaims(r)
	rv, err := h.Q.AddReview(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rv)
}

type availabilityResponse struct {
	RoomID    int64  `json:"roomId"`
	CheckIn   string `json:"checkIn"`
	CheckOut  string `json:"checkOut"`
	Available bool   `json:"available"`
}

func (h *Handlers) roomAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ci, co, err := stayDates(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	room, err := h.Catalog.GetRoom(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	free, err := h.Avail.IsAvailable(r.Context(), id, ci, co)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, availabilityResponse{
		RoomID:    id,
		CheckIn:   ci.Format(time.DateOnly),
		CheckOut:  co.Format(time.DateOnly),
		Available: free && room.IsAvailable,
	})
}

/********** auth **********/

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var in app.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.Auth.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var in loginBody
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.Auth.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
