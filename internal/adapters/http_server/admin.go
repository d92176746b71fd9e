package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

func (h *Handlers) adminListHotels(w http.ResponseWriter, r *http.Request) {
	hs, err := h.Catalog.ListHotels(r.Context(), r.URL.Query().Get("city"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hs)
}

func (h *Handlers) adminCreateHotel(w http.ResponseWriter, r *http.Request) {
	var in app.HotelInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	hotel, err := h.Catalog.CreateHotel(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/admin/hotels/"+strconv.FormatInt(hotel.ID, 10))
	writeJSON(w, http.StatusCreated, hotel)
}

func (h *Handlers) adminGetHotel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	hotel, err := h.Catalog.GetHotel(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hotel)
}

func (h *Handlers) adminUpdateHotel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in app.HotelInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	hotel, err := h.Catalog.UpdateHotel(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hotel)
}

// adminDeactivateHotel hides the hotel; its rooms and bookings stay.
func (h *Handlers) adminDeactivateHotel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Catalog.DeactivateHotel(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) adminListRooms(w http.ResponseWriter, r *http.Request) {
	var hotelID int64
	if v := r.URL.Query().Get("hotelId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			writeError(w, r, domain.ErrValidation.With("hotelId must be a positive integer"))
			return
		}
		hotelID = id
	}
	rooms, err := h.Catalog.ListRooms(r.Context(), hotelID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

func (h *Handlers) adminCreateRoom(w http.ResponseWriter, r *http.Request) {
	var in app.RoomInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	room, err := h.Catalog.CreateRoom(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/admin/rooms/"+strconv.FormatInt(room.ID, 10))
	writeJSON(w, http.StatusCreated, room)
}

func (h *Handlers) adminGetRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	room, err := h.Catalog.GetRoom(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (h *Handlers) adminUpdateRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in app.RoomInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	room, err := h.Catalog.UpdateRoom(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

type roomAvailabilityBody struct {
	IsAvailable *bool `json:"isAvailable"`
}

func (h *Handlers) adminSetRoomAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body roomAvailabilityBody
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	if body.IsAvailable == nil {
		writeError(w, r, domain.ErrValidation.With("isAvailable is required"))
		return
	}
	room, err := h.Catalog.SetRoomAvailability(r.Context(), id, *body.IsAvailable)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (h *Handlers) adminListBookings(w http.ResponseWriter, r *http.Request) {
	ds, err := h.Bookings.AllBookings(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingViews(ds))
}

type statsResponse struct {
	From string `json:"from"`
	To   string `json:"to"`
	domain.BookingStats
}

func (h *Handlers) adminBookingStats(w http.ResponseWriter, r *http.Request) {
	from, err := queryDate(r, "from", time.Time{})
	if err != nil {
		writeError(w, r, err)
		return
	}
	to, err := queryDate(r, "to", time.Time{})
	if err != nil {
		writeError(w, r, err)
		return
	}
	st, err := h.Bookings.Stats(r.Context(), from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := statsResponse{BookingStats: st}
	if !from.IsZero() {
		resp.From = from.Format(time.DateOnly)
	}
	if !to.IsZero() {
		resp.To = to.Format(time.DateOnly)
	}
	writeJSON(w, http.StatusOK, resp)
}
