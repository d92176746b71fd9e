package mysql

const hotelCols = `h.id, h.name, h.city, h.address, h.description, h.star_rating, h.main_image_url,
  h.has_pool, h.has_spa, h.has_restaurant, h.has_free_wifi, h.has_parking, h.is_active, h.created_at`

const roomCols = `r.id, r.hotel_id, r.room_number, r.room_type, r.description, r.price_per_night, r.capacity,
  r.image_url, r.has_breakfast, r.has_ac, r.has_tv, r.has_mini_bar, r.has_balcony, r.is_available,
  r.created_at, r.updated_at`

const bookingCols = `b.id, b.user_id, b.room_id, b.check_in, b.check_out, b.guests_count, b.total_price,
  b.status, b.special_request, b.created_at, b.updated_at`

const insertHotelSQL = `
INSERT INTO hotels
  (name, city, address, description, star_rating, main_image_url,
   has_pool, has_spa, has_restaurant, has_free_wifi, has_parking, is_active, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const updateHotelSQL = `
UPDATE hotels SET
  name = ?, city = ?, address = ?, description = ?, star_rating = ?, main_image_url = ?,
  has_pool = ?, has_spa = ?, has_restaurant = ?, has_free_wifi = ?, has_parking = ?, is_active = ?
WHERE id = ?
`

const setHotelActiveSQL = `UPDATE hotels SET is_active = ? WHERE id = ?`

const getHotelSQL = `SELECT ` + hotelCols + ` FROM hotels h WHERE h.id = ?`

// Filters are appended by ListHotels.
const listHotelsSQL = `SELECT ` + hotelCols + ` FROM hotels h WHERE 1=1`

const hotelRatingsSQL = `SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM reviews WHERE hotel_id = ?`

const insertRoomSQL = `
INSERT INTO rooms
  (hotel_id, room_number, room_type, description, price_per_night, capacity, image_url,
   has_breakfast, has_ac, has_tv, has_mini_bar, has_balcony, is_available, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const updateRoomSQL = `
UPDATE rooms SET
  hotel_id = ?, room_number = ?, room_type = ?, description = ?, price_per_night = ?, capacity = ?,
  image_url = ?, has_breakfast = ?, has_ac = ?, has_tv = ?, has_mini_bar = ?, has_balcony = ?,
  is_available = ?, updated_at = CURRENT_TIMESTAMP(6)
WHERE id = ?
`

const setRoomAvailabilitySQL = `UPDATE rooms SET is_available = ?, updated_at = CURRENT_TIMESTAMP(6) WHERE id = ?`

const getRoomSQL = `SELECT ` + roomCols + ` FROM rooms r WHERE r.id = ?`

const listRoomsSQL = `SELECT ` + roomCols + ` FROM rooms r WHERE (? = 0 OR r.hotel_id = ?) ORDER BY r.id`

// -----------------------------------------------------------------------------
// BOOKINGS
// -----------------------------------------------------------------------------

const activeBookingsForRoomSQL = `
SELECT ` + bookingCols + `
FROM bookings b
WHERE b.room_id = ? AND b.status <> 'Cancelled'
ORDER BY b.check_in
`

// Serialises booking inserts per room: every writer takes this row lock first.
const lockRoomSQL = `SELECT is_available FROM rooms WHERE id = ? FOR UPDATE`

const countOverlapsSQL = `
SELECT COUNT(*)
FROM bookings
WHERE room_id = ? AND status <> 'Cancelled' AND check_in < ? AND check_out > ?
`

const insertBookingSQL = `
INSERT INTO bookings
  (user_id, room_id, check_in, check_out, guests_count, total_price, status, special_request, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const getBookingSQL = `SELECT ` + bookingCols + ` FROM bookings b WHERE b.id = ?`

const bookingDetailsSQL = `
SELECT ` + bookingCols + `,
  r.room_number, r.room_type, r.price_per_night, h.id, h.name, h.city
FROM bookings b
JOIN rooms r  ON r.id = b.room_id
JOIN hotels h ON h.id = r.hotel_id
`

const cancelBookingSQL = `
UPDATE bookings SET status = 'Cancelled', updated_at = ?
WHERE id = ? AND status <> 'Cancelled'
`

const bookingStatsSQL = `
SELECT
  COUNT(*),
  COALESCE(SUM(status = 'Confirmed'), 0),
  COALESCE(SUM(status = 'Cancelled'), 0),
  COALESCE(SUM(CASE WHEN status <> 'Cancelled' THEN total_price ELSE 0 END), 0)
FROM bookings
WHERE created_at BETWEEN ? AND ?
`

// -----------------------------------------------------------------------------
// USERS & REVIEWS
// -----------------------------------------------------------------------------

const userCols = `id, email, password_hash, first_name, last_name, role, is_active, created_at, last_login`

const insertUserSQL = `
INSERT INTO users (email, password_hash, first_name, last_name, role, is_active, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

const getUserSQL = `SELECT ` + userCols + ` FROM users WHERE id = ?`

const getUserByEmailSQL = `SELECT ` + userCols + ` FROM users WHERE email = ?`

const touchLastLoginSQL = `UPDATE users SET last_login = ? WHERE id = ?`

// Note: `comment` is quoted to stay clear of reserved-word parsing.
const insertReviewSQL = "INSERT INTO reviews (user_id, hotel_id, rating, `comment`, created_at) VALUES (?, ?, ?, ?, ?)"

const listReviewsSQL = "SELECT rv.id, rv.rating, rv.`comment`, rv.created_at, u.first_name, u.last_name\n" +
	"FROM reviews rv\n" +
	"LEFT JOIN users u ON u.id = rv.user_id\n" +
	"WHERE rv.hotel_id = ?\n" +
	"ORDER BY rv.created_at DESC, rv.id DESC\n" +
	"LIMIT ?"
