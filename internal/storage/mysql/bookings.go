package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"hotel_booking/internal/domain"
)

func scanBooking(dst *domain.Booking, extra ...any) []any {
	return append([]any{
		&dst.ID, &dst.UserID, &dst.RoomID, &dst.CheckIn, &dst.CheckOut, &dst.GuestsCount, &dst.TotalPrice,
	}, extra...)
}

type bookingNulls struct {
	status  string
	request sql.NullString
	updated sql.NullTime
}

func (n *bookingNulls) fill(b *domain.Booking) {
	b.Status = domain.BookingStatus(n.status)
	b.SpecialRequest = strPtr(n.request)
	b.UpdatedAt = timePtr(n.updated)
	b.CheckIn = domain.Day(b.CheckIn)
	b.CheckOut = domain.Day(b.CheckOut)
	b.CreatedAt = b.CreatedAt.UTC()
}

func scanBookingRow(s rowScanner) (domain.Booking, error) {
	var b domain.Booking
	var n bookingNulls
	err := s.Scan(scanBooking(&b, &n.status, &n.request, &b.CreatedAt, &n.updated)...)
	n.fill(&b)
	return b, err
}

func scanDetailsRow(s rowScanner) (domain.BookingDetails, error) {
	var d domain.BookingDetails
	var n bookingNulls
	err := s.Scan(scanBooking(&d.Booking, &n.status, &n.request, &d.CreatedAt, &n.updated,
		&d.RoomNumber, &d.RoomType, &d.PricePerNight, &d.HotelID, &d.HotelName, &d.HotelCity)...)
	n.fill(&d.Booking)
	return d, err
}

func (r *Repo) ActiveBookingsForRoom(ctx context.Context, roomID int64) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, activeBookingsForRoomSQL, roomID)
	if err != nil {
		return nil, domain.StoreFailure(err)
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		b, err := scanBookingRow(rows)
		if err != nil {
			return nil, domain.StoreFailure(err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreFailure(err)
	}
	return out, nil
}

// InsertBooking locks the room row, re-checks overlap against committed
// bookings and inserts, all in one transaction. Concurrent inserts for the same
// room queue on the row lock, so only the first of two overlapping requests
// commits. Deadlocks and lock timeouts surface as ErrRoomNotAvailable.
func (r *Repo) InsertBooking(ctx context.Context, b *domain.Booking) (err error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return domain.StoreFailure(err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var enabled bool
	switch err = tx.QueryRowContext(ctx, lockRoomSQL, b.RoomID).Scan(&enabled); {
	case errors.Is(err, sql.ErrNoRows):
		return domain.ErrRoomNotFound
	case err != nil:
		return bookingTxErr(err)
	}
	if !enabled {
		return domain.ErrRoomDisabled
	}

	var clashes int
	if err = tx.QueryRowContext(ctx, countOverlapsSQL, b.RoomID, b.CheckOut, b.CheckIn).Scan(&clashes); err != nil {
		return bookingTxErr(err)
	}
	if clashes > 0 {
		err = domain.ErrRoomNotAvailable
		return err
	}

	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	res, err := tx.ExecContext(ctx, insertBookingSQL,
		b.UserID, b.RoomID, b.CheckIn, b.CheckOut, b.GuestsCount, b.TotalPrice,
		string(b.Status), valStr(b.SpecialRequest), b.CreatedAt)
	if err != nil {
		return bookingTxErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.StoreFailure(err)
	}
	if err = tx.Commit(); err != nil {
		return bookingTxErr(err)
	}
	b.ID = id
	return nil
}

func bookingTxErr(err error) error {
	switch mysqlCode(err) {
	case errDeadlock, errLockWaitTimeout:
		return domain.ErrRoomNotAvailable
	case errNoReferencedRow:
		return domain.ErrUserNotFound
	}
	return domain.StoreFailure(err)
}

func (r *Repo) GetBooking(ctx context.Context, id int64) (domain.Booking, error) {
	b, err := scanBookingRow(r.db.QueryRowContext(ctx, getBookingSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Booking{}, domain.ErrBookingNotFound
	}
	if err != nil {
		return domain.Booking{}, domain.StoreFailure(err)
	}
	return b, nil
}

func (r *Repo) GetBookingDetails(ctx context.Context, id int64) (domain.BookingDetails, error) {
	d, err := scanDetailsRow(r.db.QueryRowContext(ctx, bookingDetailsSQL+` WHERE b.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.BookingDetails{}, domain.ErrBookingNotFound
	}
	if err != nil {
		return domain.BookingDetails{}, domain.StoreFailure(err)
	}
	return d, nil
}

func (r *Repo) ListBookingsByUser(ctx context.Context, userID int64) ([]domain.BookingDetails, error) {
	return r.listDetails(ctx, bookingDetailsSQL+` WHERE b.user_id = ? ORDER BY b.created_at DESC, b.id DESC`, userID)
}

func (r *Repo) ListAllBookings(ctx context.Context) ([]domain.BookingDetails, error) {
	return r.listDetails(ctx, bookingDetailsSQL+` ORDER BY b.created_at DESC, b.id DESC`)
}

func (r *Repo) listDetails(ctx context.Context, q string, args ...any) ([]domain.BookingDetails, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, domain.StoreFailure(err)
	}
	defer rows.Close()

	var out []domain.BookingDetails
	for rows.Next() {
		d, err := scanDetailsRow(rows)
		if err != nil {
			return nil, domain.StoreFailure(err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreFailure(err)
	}
	return out, nil
}

func (r *Repo) CancelBooking(ctx context.Context, id int64, at time.Time) error {
	res, err := r.db.ExecContext(ctx, cancelBookingSQL, at, id)
	if err != nil {
		return domain.StoreFailure(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.StoreFailure(err)
	}
	if n > 0 {
		return nil
	}
	if _, err := r.GetBooking(ctx, id); err != nil {
		return err
	}
	return domain.ErrAlreadyCancelled
}

func (r *Repo) BookingStats(ctx context.Context, from, to time.Time) (domain.BookingStats, error) {
	var st domain.BookingStats
	err := r.db.QueryRowContext(ctx, bookingStatsSQL, from, to).
		Scan(&st.TotalBookings, &st.ConfirmedBookings, &st.CancelledBookings, &st.TotalRevenue)
	if err != nil {
		return domain.BookingStats{}, domain.StoreFailure(err)
	}
	return st, nil
}
