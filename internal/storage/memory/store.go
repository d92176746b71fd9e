// Package memory is an in-process implementation of domain.Store. It backs
// STORE_BACKEND=memory and the app-level tests; a single mutex gives the same
// all-or-nothing booking insert the MySQL repo gets from row locks.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"hotel_booking/internal/domain"
)

type Store struct {
	mu       sync.RWMutex
	seq      int64
	hotels   map[int64]domain.Hotel
	rooms    map[int64]domain.Room
	bookings map[int64]domain.Booking
	users    map[int64]domain.User
	reviews  map[int64]domain.Review
}

func New() *Store {
	return &Store{
		hotels:   map[int64]domain.Hotel{},
		rooms:    map[int64]domain.Room{},
		bookings: map[int64]domain.Booking{},
		users:    map[int64]domain.User{},
		reviews:  map[int64]domain.Review{},
	}
}

func (s *Store) next() int64 { s.seq++; return s.seq }

// ---- hotels ----

func (s *Store) CreateHotel(_ context.Context, h *domain.Hotel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h.ID = s.next()
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now().UTC()
	}
	s.hotels[h.ID] = *h
	return nil
}

func (s *Store) UpdateHotel(_ context.Context, h domain.Hotel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.hotels[h.ID]
	if !ok {
		return domain.ErrHotelNotFound
	}
	h.CreatedAt = old.CreatedAt
	s.hotels[h.ID] = h
	return nil
}

func (s *Store) SetHotelActive(_ context.Context, id int64, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.hotels[id]
	if !ok {
		return domain.ErrHotelNotFound
	}
	h.IsActive = active
	s.hotels[id] = h
	return nil
}

func (s *Store) GetHotel(_ context.Context, id int64) (domain.Hotel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.hotels[id]
	if !ok {
		return domain.Hotel{}, domain.ErrHotelNotFound
	}
	return h, nil
}

func (s *Store) ListHotels(_ context.Context, f domain.HotelFilter) ([]domain.Hotel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	city := strings.ToLower(f.City)
	var out []domain.Hotel
	for _, h := range s.hotels {
		if f.ActiveOnly && !h.IsActive {
			continue
		}
		if city != "" && !strings.Contains(strings.ToLower(h.City), city) {
			continue
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) HotelRatings(_ context.Context, hotelID int64) (domain.RatingStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var st domain.RatingStats
	sum := 0
	for _, r := range s.reviews {
		if r.HotelID == hotelID {
			st.Count++
			sum += r.Rating
		}
	}
	if st.Count > 0 {
		st.Average = float64(sum) / float64(st.Count)
	}
	return st, nil
}

// ---- rooms ----

func (s *Store) CreateRoom(_ context.Context, r *domain.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.hotels[r.HotelID]; !ok {
		return domain.ErrHotelNotFound
	}
	if s.roomNumberTaken(r.HotelID, r.RoomNumber, 0) {
		return domain.ErrValidation.With("room number %s already exists in this hotel", r.RoomNumber)
	}
	r.ID = s.next()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	s.rooms[r.ID] = *r
	return nil
}

func (s *Store) UpdateRoom(_ context.Context, r domain.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.rooms[r.ID]
	if !ok {
		return domain.ErrRoomNotFound
	}
	if _, ok := s.hotels[r.HotelID]; !ok {
		return domain.ErrHotelNotFound
	}
	if s.roomNumberTaken(r.HotelID, r.RoomNumber, r.ID) {
		return domain.ErrValidation.With("room number %s already exists in this hotel", r.RoomNumber)
	}
	now := time.Now().UTC()
	r.CreatedAt = old.CreatedAt
	r.UpdatedAt = &now
	s.rooms[r.ID] = r
	return nil
}

func (s *Store) roomNumberTaken(hotelID int64, number string, except int64) bool {
	for _, r := range s.rooms {
		if r.ID != except && r.HotelID == hotelID && r.RoomNumber == number {
			return true
		}
	}
	return false
}

func (s *Store) SetRoomAvailability(_ context.Context, id int64, available bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	if !ok {
		return domain.ErrRoomNotFound
	}
	now := time.Now().UTC()
	r.IsAvailable = available
	r.UpdatedAt = &now
	s.rooms[id] = r
	return nil
}

func (s *Store) GetRoom(_ context.Context, id int64) (domain.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	return r, nil
}

func (s *Store) ListRooms(_ context.Context, hotelID int64) ([]domain.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Room
	for _, r := range s.rooms {
		if hotelID == 0 || r.HotelID == hotelID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ---- bookings ----

func (s *Store) ActiveBookingsForRoom(_ context.Context, roomID int64) ([]domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeFor(roomID), nil
}

func (s *Store) activeFor(roomID int64) []domain.Booking {
	var out []domain.Booking
	for _, b := range s.bookings {
		if b.RoomID == roomID && b.Status.Active() {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.Before(out[j].CheckIn) })
	return out
}

func (s *Store) InsertBooking(_ context.Context, b *domain.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[b.RoomID]
	if !ok {
		return domain.ErrRoomNotFound
	}
	if !room.IsAvailable {
		return domain.ErrRoomDisabled
	}
	if _, ok := s.users[b.UserID]; !ok {
		return domain.ErrUserNotFound
	}
	for _, ex := range s.activeFor(b.RoomID) {
		if domain.Overlaps(ex.CheckIn, ex.CheckOut, b.CheckIn, b.CheckOut) {
			return domain.ErrRoomNotAvailable
		}
	}
	b.ID = s.next()
	s.bookings[b.ID] = *b
	return nil
}

func (s *Store) GetBooking(_ context.Context, id int64) (domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[id]
	if !ok {
		return domain.Booking{}, domain.ErrBookingNotFound
	}
	return b, nil
}

func (s *Store) details(b domain.Booking) domain.BookingDetails {
	d := domain.BookingDetails{Booking: b}
	if r, ok := s.rooms[b.RoomID]; ok {
		d.RoomNumber, d.RoomType, d.PricePerNight, d.HotelID = r.RoomNumber, r.RoomType, r.PricePerNight, r.HotelID
		if h, ok := s.hotels[r.HotelID]; ok {
			d.HotelName, d.HotelCity = h.Name, h.City
		}
	}
	return d
}

func (s *Store) GetBookingDetails(_ context.Context, id int64) (domain.BookingDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[id]
	if !ok {
		return domain.BookingDetails{}, domain.ErrBookingNotFound
	}
	return s.details(b), nil
}

func (s *Store) listDetails(keep func(domain.Booking) bool) []domain.BookingDetails {
	var out []domain.BookingDetails
	for _, b := range s.bookings {
		if keep(b) {
			out = append(out, s.details(b))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *Store) ListBookingsByUser(_ context.Context, userID int64) ([]domain.BookingDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listDetails(func(b domain.Booking) bool { return b.UserID == userID }), nil
}

func (s *Store) ListAllBookings(_ context.Context) ([]domain.BookingDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listDetails(func(domain.Booking) bool { return true }), nil
}

func (s *Store) CancelBooking(_ context.Context, id int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return domain.ErrBookingNotFound
	}
	if !b.Status.Active() {
		return domain.ErrAlreadyCancelled
	}
	b.Status = domain.BookingCancelled
	b.UpdatedAt = &at
	s.bookings[id] = b
	return nil
}

func (s *Store) BookingStats(_ context.Context, from, to time.Time) (domain.BookingStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var st domain.BookingStats
	for _, b := range s.bookings {
		if b.CreatedAt.Before(from) || b.CreatedAt.After(to) {
			continue
		}
		st.TotalBookings++
		switch b.Status {
		case domain.BookingConfirmed:
			st.ConfirmedBookings++
		case domain.BookingCancelled:
			st.CancelledBookings++
		}
		if b.Status.Active() {
			st.TotalRevenue += b.TotalPrice
		}
	}
	return st, nil
}

// ---- users ----

func (s *Store) CreateUser(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ex := range s.users {
		if strings.EqualFold(ex.Email, u.Email) {
			return domain.ErrEmailTaken
		}
	}
	u.ID = s.next()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	s.users[u.ID] = *u
	return nil
}

func (s *Store) GetUser(_ context.Context, id int64) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (s *Store) TouchLastLogin(_ context.Context, id int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LastLogin = &at
	s.users[id] = u
	return nil
}

// ---- reviews ----

func (s *Store) CreateReview(_ context.Context, r *domain.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.hotels[r.HotelID]; !ok {
		return domain.ErrHotelNotFound
	}
	if _, ok := s.users[r.UserID]; !ok {
		return domain.ErrUserNotFound
	}
	r.ID = s.next()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	s.reviews[r.ID] = *r
	return nil
}

func (s *Store) ListReviews(_ context.Context, hotelID int64, limit int) ([]domain.ReviewView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var rs []domain.Review
	for _, r := range s.reviews {
		if r.HotelID == hotelID {
			rs = append(rs, r)
		}
	}
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].CreatedAt.Equal(rs[j].CreatedAt) {
			return rs[i].ID > rs[j].ID
		}
		return rs[i].CreatedAt.After(rs[j].CreatedAt)
	})
	if limit > 0 && len(rs) > limit {
		rs = rs[:limit]
	}
	out := make([]domain.ReviewView, 0, len(rs))
	for _, r := range rs {
		name := "Anonymous"
		if u, ok := s.users[r.UserID]; ok {
			name = u.FullName()
		}
		out = append(out, domain.ReviewView{ID: r.ID, Rating: r.Rating, Comment: r.Comment, CreatedAt: r.CreatedAt, UserName: name})
	}
	return out, nil
}

var _ domain.Store = (*Store)(nil)
