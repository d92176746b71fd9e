package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"

	"hotel_booking/internal/domain"
)

// MySQL server error numbers the repo reacts to.
const (
	errDupEntry        = 1062
	errLockWaitTimeout = 1205
	errDeadlock        = 1213
	errNoReferencedRow = 1452
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}

func mysqlCode(err error) uint16 {
	var me *mysqldrv.MySQLError
	if errors.As(err, &me) {
		return me.Number
	}
	return 0
}

// likeEscaper neutralises LIKE wildcards in user input.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// Ping lets the health endpoint probe the pool.
func (r *Repo) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

// -----------------------------------------------------------------------------
// HOTELS
// -----------------------------------------------------------------------------

func scanHotel(s rowScanner) (domain.Hotel, error) {
	var h domain.Hotel
	var img sql.NullString
	err := s.Scan(
		&h.ID, &h.Name, &h.City, &h.Address, &h.Description, &h.StarRating, &img,
		&h.Amenities.Pool, &h.Amenities.Spa, &h.Amenities.Restaurant, &h.Amenities.FreeWiFi, &h.Amenities.Parking,
		&h.IsActive, &h.CreatedAt,
	)
	h.MainImageURL = strPtr(img)
	h.CreatedAt = h.CreatedAt.UTC()
	return h, err
}

func (r *Repo) CreateHotel(ctx context.Context, h *domain.Hotel) error {
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, insertHotelSQL,
		h.Name, h.City, h.Address, h.Description, h.StarRating, valStr(h.MainImageURL),
		h.Amenities.Pool, h.Amenities.Spa, h.Amenities.Restaurant, h.Amenities.FreeWiFi, h.Amenities.Parking,
		h.IsActive, h.CreatedAt,
	)
	if err != nil {
		return domain.StoreFailure(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.StoreFailure(err)
	}
	h.ID = id
	return nil
}

func (r *Repo) UpdateHotel(ctx context.Context, h domain.Hotel) error {
	res, err := r.db.ExecContext(ctx, updateHotelSQL,
		h.Name, h.City, h.Address, h.Description, h.StarRating, valStr(h.MainImageURL),
		h.Amenities.Pool, h.Amenities.Spa, h.Amenities.Restaurant, h.Amenities.FreeWiFi, h.Amenities.Parking,
		h.IsActive, h.ID,
	)
	if err != nil {
		return domain.StoreFailure(err)
	}
	return r.mustExist(ctx, res, getHotelSQL, h.ID, domain.ErrHotelNotFound)
}

func (r *Repo) SetHotelActive(ctx context.Context, id int64, active bool) error {
	res, err := r.db.ExecContext(ctx, setHotelActiveSQL, active, id)
	if err != nil {
		return domain.StoreFailure(err)
	}
	return r.mustExist(ctx, res, getHotelSQL, id, domain.ErrHotelNotFound)
}

// mustExist turns a zero-row UPDATE into notFound. MySQL reports 0 affected
// rows when values are unchanged, so a miss is confirmed with a lookup.
func (r *Repo) mustExist(ctx context.Context, res sql.Result, lookup string, id int64, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return domain.StoreFailure(err)
	}
	if n > 0 {
		return nil
	}
	rows, err := r.db.QueryContext(ctx, lookup, id)
	if err != nil {
		return domain.StoreFailure(err)
	}
	defer rows.Close()
	if !rows.Next() {
		return notFound
	}
	return nil
}

func (r *Repo) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	h, err := scanHotel(r.db.QueryRowContext(ctx, getHotelSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Hotel{}, domain.ErrHotelNotFound
	}
	if err != nil {
		return domain.Hotel{}, domain.StoreFailure(err)
	}
	return h, nil
}

func (r *Repo) ListHotels(ctx context.Context, f domain.HotelFilter) ([]domain.Hotel, error) {
	q := listHotelsSQL
	var args []any
	if f.ActiveOnly {
		q += ` AND h.is_active = 1`
	}
	if c := strings.TrimSpace(f.City); c != "" {
		q += ` AND LOWER(h.city) LIKE ?`
		args = append(args, "%"+likeEscaper.Replace(strings.ToLower(c))+"%")
	}
	q += ` ORDER BY h.id`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, domain.StoreFailure(err)
	}
	defer rows.Close()

	var out []domain.Hotel
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, domain.StoreFailure(err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreFailure(err)
	}
	return out, nil
}

func (r *Repo) HotelRatings(ctx context.Context, hotelID int64) (domain.RatingStats, error) {
	var st domain.RatingStats
	if err := r.db.QueryRowContext(ctx, hotelRatingsSQL, hotelID).Scan(&st.Average, &st.Count); err != nil {
		return domain.RatingStats{}, domain.StoreFailure(err)
	}
	return st, nil
}

// -----------------------------------------------------------------------------
// ROOMS
// -----------------------------------------------------------------------------

func scanRoom(s rowScanner) (domain.Room, error) {
	var rm domain.Room
	var img sql.NullString
	var upd sql.NullTime
	err := s.Scan(
		&rm.ID, &rm.HotelID, &rm.RoomNumber, &rm.RoomType, &rm.Description, &rm.PricePerNight, &rm.Capacity,
		&img, &rm.Amenities.Breakfast, &rm.Amenities.AC, &rm.Amenities.TV, &rm.Amenities.MiniBar, &rm.Amenities.Balcony,
		&rm.IsAvailable, &rm.CreatedAt, &upd,
	)
	rm.ImageURL = strPtr(img)
	rm.UpdatedAt = timePtr(upd)
	rm.CreatedAt = rm.CreatedAt.UTC()
	return rm, err
}

func roomWriteErr(err error) error {
	switch mysqlCode(err) {
	case errNoReferencedRow:
		return domain.ErrHotelNotFound
	case errDupEntry:
		return domain.ErrValidation.With("room number already exists in this hotel")
	}
	return domain.StoreFailure(err)
}

func (r *Repo) CreateRoom(ctx context.Context, rm *domain.Room) error {
	if rm.CreatedAt.IsZero() {
		rm.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, insertRoomSQL,
		rm.HotelID, rm.RoomNumber, rm.RoomType, rm.Description, rm.PricePerNight, rm.Capacity, valStr(rm.ImageURL),
		rm.Amenities.Breakfast, rm.Amenities.AC, rm.Amenities.TV, rm.Amenities.MiniBar, rm.Amenities.Balcony,
		rm.IsAvailable, rm.CreatedAt,
	)
	if err != nil {
		return roomWriteErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.StoreFailure(err)
	}
	rm.ID = id
	return nil
}

func (r *Repo) UpdateRoom(ctx context.Context, rm domain.Room) error {
	res, err := r.db.ExecContext(ctx, updateRoomSQL,
		rm.HotelID, rm.RoomNumber, rm.RoomType, rm.Description, rm.PricePerNight, rm.Capacity, valStr(rm.ImageURL),
		rm.Amenities.Breakfast, rm.Amenities.AC, rm.Amenities.TV, rm.Amenities.MiniBar, rm.Amenities.Balcony,
		rm.IsAvailable, rm.ID,
	)
	if err != nil {
		return roomWriteErr(err)
	}
	return r.mustExist(ctx, res, getRoomSQL, rm.ID, domain.ErrRoomNotFound)
}

func (r *Repo) SetRoomAvailability(ctx context.Context, id int64, available bool) error {
	res, err := r.db.ExecContext(ctx, setRoomAvailabilitySQL, available, id)
	if err != nil {
		return domain.StoreFailure(err)
	}
	return r.mustExist(ctx, res, getRoomSQL, id, domain.ErrRoomNotFound)
}

func (r *Repo) GetRoom(ctx context.Context, id int64) (domain.Room, error) {
	rm, err := scanRoom(r.db.QueryRowContext(ctx, getRoomSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	if err != nil {
		return domain.Room{}, domain.StoreFailure(err)
	}
	return rm, nil
}

func (r *Repo) ListRooms(ctx context.Context, hotelID int64) ([]domain.Room, error) {
	rows, err := r.db.QueryContext(ctx, listRoomsSQL, hotelID, hotelID)
	if err != nil {
		return nil, domain.StoreFailure(err)
	}
	defer rows.Close()

	var out []domain.Room
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, domain.StoreFailure(err)
		}
		out = append(out, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreFailure(err)
	}
	return out, nil
}

// -----------------------------------------------------------------------------
// USERS
// -----------------------------------------------------------------------------

func scanUser(s rowScanner) (domain.User, error) {
	var u domain.User
	var role string
	var last sql.NullTime
	err := s.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &role, &u.IsActive, &u.CreatedAt, &last)
	u.Role = domain.Role(role)
	u.LastLogin = timePtr(last)
	u.CreatedAt = u.CreatedAt.UTC()
	return u, err
}

func (r *Repo) CreateUser(ctx context.Context, u *domain.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, insertUserSQL,
		u.Email, u.PasswordHash, u.FirstName, u.LastName, string(u.Role), u.IsActive, u.CreatedAt)
	if err != nil {
		if mysqlCode(err) == errDupEntry {
			return domain.ErrEmailTaken
		}
		return domain.StoreFailure(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.StoreFailure(err)
	}
	u.ID = id
	return nil
}

func (r *Repo) GetUser(ctx context.Context, id int64) (domain.User, error) {
	return r.getUser(ctx, getUserSQL, id)
}

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getUser(ctx, getUserByEmailSQL, email)
}

func (r *Repo) getUser(ctx context.Context, q string, arg any) (domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, q, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, domain.StoreFailure(err)
	}
	return u, nil
}

func (r *Repo) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	if _, err := r.db.ExecContext(ctx, touchLastLoginSQL, at, id); err != nil {
		return domain.StoreFailure(err)
	}
	return nil
}

// -----------------------------------------------------------------------------
// REVIEWS
// -----------------------------------------------------------------------------

func (r *Repo) CreateReview(ctx context.Context, rv *domain.Review) error {
	if rv.CreatedAt.IsZero() {
		rv.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, insertReviewSQL, rv.UserID, rv.HotelID, rv.Rating, valStr(rv.Comment), rv.CreatedAt)
	if err != nil {
		if mysqlCode(err) == errNoReferencedRow {
			return domain.ErrNotFound.With("hotel or user not found")
		}
		return domain.StoreFailure(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.StoreFailure(err)
	}
	rv.ID = id
	return nil
}

func (r *Repo) ListReviews(ctx context.Context, hotelID int64, limit int) ([]domain.ReviewView, error) {
	rows, err := r.db.QueryContext(ctx, listReviewsSQL, hotelID, limit)
	if err != nil {
		return nil, domain.StoreFailure(err)
	}
	defer rows.Close()

	var out []domain.ReviewView
	for rows.Next() {
		var (
			rv          domain.ReviewView
			comment     sql.NullString
			first, last sql.NullString
		)
		if err := rows.Scan(&rv.ID, &rv.Rating, &comment, &rv.CreatedAt, &first, &last); err != nil {
			return nil, domain.StoreFailure(err)
		}
		rv.Comment = strPtr(comment)
		rv.CreatedAt = rv.CreatedAt.UTC()
		rv.UserName = "Anonymous"
		if first.Valid {
			rv.UserName = first.String + " " + last.String
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreFailure(err)
	}
	return out, nil
}

var _ domain.Store = (*Repo)(nil)
