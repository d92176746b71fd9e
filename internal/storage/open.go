// Package storage selects the persistence backend named in the config.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"hotel_booking/internal/domain"
	"hotel_booking/internal/shared"
	"hotel_booking/internal/storage/memory"
	mysqlrepo "hotel_booking/internal/storage/mysql"
)

// Backend is an opened store plus its health probe and cleanup.
type Backend struct {
	Store domain.Store
	Ping  func(ctx context.Context) error
	Close func() error
}

// Open connects to cfg.StoreBackend. The mysql backend is pinged before it is
// returned.
func Open(ctx context.Context, cfg shared.Config) (Backend, error) {
	switch cfg.StoreBackend {
	case "memory":
		log.Warn().Msg("using in-memory store; data is lost on exit")
		return Backend{
			Store: memory.New(),
			Ping:  func(context.Context) error { return nil },
			Close: func() error { return nil },
		}, nil
	case "mysql", "":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return Backend{}, fmt.Errorf("sql.Open: %w", err)
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)

		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := db.PingContext(pctx); err != nil {
			_ = db.Close()
			return Backend{}, fmt.Errorf("db.Ping: %w", err)
		}
		log.Info().Msg("database connection ok")
		repo := mysqlrepo.New(db)
		return Backend{Store: repo, Ping: repo.Ping, Close: db.Close}, nil
	default:
		return Backend{}, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
}
