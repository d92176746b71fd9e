package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

type createBookingBody struct {
	RoomID         int64                `json:"roomId"`
	CheckIn        string               `json:"checkIn"`
	CheckOut       string               `json:"checkOut"`
	GuestsCount    int                  `json:"guestsCount"`
	GuestDetails   []domain.GuestDetail `json:"guestDetails"`
	SpecialRequest *string              `json:"specialRequest"`
}

// bookingView is the wire shape of a booking; stay dates are plain days.
type bookingView struct {
	ID             int64                `json:"id"`
	UserID         int64                `json:"userId"`
	RoomID         int64                `json:"roomId"`
	RoomNumber     string               `json:"roomNumber"`
	RoomType       string               `json:"roomType"`
	HotelID        int64                `json:"hotelId"`
	HotelName      string               `json:"hotelName"`
	HotelCity      string               `json:"hotelCity"`
	CheckIn        string               `json:"checkIn"`
	CheckOut       string               `json:"checkOut"`
	Nights         int                  `json:"nights"`
	GuestsCount    int                  `json:"guestsCount"`
	PricePerNight  float64              `json:"pricePerNight"`
	TotalPrice     float64              `json:"totalPrice"`
	Status         domain.BookingStatus `json:"status"`
	SpecialRequest *string              `json:"specialRequest,omitempty"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      *time.Time           `json:"updatedAt,omitempty"`
}

func toBookingView(d domain.BookingDetails) bookingView {
	return bookingView{
		ID:             d.ID,
		UserID:         d.UserID,
		RoomID:         d.RoomID,
		RoomNumber:     d.RoomNumber,
		RoomType:       d.RoomType,
		HotelID:        d.HotelID,
		HotelName:      d.HotelName,
		HotelCity:      d.HotelCity,
		CheckIn:        d.CheckIn.Format(time.DateOnly),
		CheckOut:       d.CheckOut.Format(time.DateOnly),
		Nights:         domain.Nights(d.CheckIn, d.CheckOut),
		GuestsCount:    d.GuestsCount,
		PricePerNight:  d.PricePerNight,
		TotalPrice:     d.TotalPrice,
		Status:         d.Status,
		SpecialRequest: d.SpecialRequest,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func toBookingViews(ds []domain.BookingDetails) []bookingView {
	out := make([]bookingView, 0, len(ds))
	for _, d := range ds {
		out = append(out, toBookingView(d))
	}
	return out
}

func parseDay(name, v string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, domain.ErrValidation.With("%s must be a date in YYYY-MM-DD format", name)
	}
	return t, nil
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	var body createBookingBody
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	ci, err := parseDay("checkIn", body.CheckIn)
	if err != nil {
		writeError(w, r, err)
		return
	}
	co, err := parseDay("checkOut", body.CheckOut)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if body.RoomID <= 0 {
		writeError(w, r, domain.ErrValidation.With("roomId is required"))
		return
	}
	userID, _ := mustClaims(r)

	d, err := h.Bookings.CreateBooking(r.Context(), app.BookingRequest{
		UserID:         userID,
		RoomID:         body.RoomID,
		CheckIn:        ci,
		CheckOut:       co,
		GuestsCount:    body.GuestsCount,
		GuestDetails:   body.GuestDetails,
		SpecialRequest: body.SpecialRequest,
	})
	observability.ObserveBooking("create", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/bookings/"+strconv.FormatInt(d.ID, 10))
	writeJSON(w, http.StatusCreated, toBookingView(d))
}

func (h *Handlers) cancelBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	userID, isAdmin := mustClaims(r)
	err = h.Bookings.Cancel(r.Context(), id, userID, isAdmin)
	observability.ObserveBooking("cancel", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	d, err := h.Bookings.GetBooking(r.Context(), id, userID, isAdmin)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingView(d))
}

func (h *Handlers) getBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	userID, isAdmin := mustClaims(r)
	d, err := h.Bookings.GetBooking(r.Context(), id, userID, isAdmin)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingView(d))
}

func (h *Handlers) myBookings(w http.ResponseWriter, r *http.Request) {
	userID, _ := mustClaims(r)
	ds, err := h.Bookings.MyBookings(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingViews(ds))
}

func (h *Handlers) quote(w http.ResponseWriter, r *http.Request) {
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
	guests := 1
	if g := r.URL.Query().Get("guests"); g != "" {
		if guests, err = strconv.Atoi(g); err != nil {
			writeError(w, r, domain.ErrValidation.With("guests must be an integer"))
			return
		}
	}
	q, err := h.Bookings.Quote(r.Context(), id, ci, co, guests)
	observability.ObserveBooking("quote", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}
