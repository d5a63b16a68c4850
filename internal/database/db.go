package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	db, err := sql.Open("mysql", DSN(user, pass, host, port, name))
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// DSN builds the driver connection string.
func DSN(user, pass, host, port, name string) string {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	// clientFoundRows=true -> UPDATE reports matched rows, not changed rows
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
		auth, host, port, name)
}

// schema creates the booking tables when they are missing.  The unique
// key on venue_bookings is the last guard against double booking.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS venues (
		id              CHAR(36)     NOT NULL PRIMARY KEY,
		name            VARCHAR(255) NOT NULL,
		description     TEXT         NULL,
		capacity        INT UNSIGNED NOT NULL DEFAULT 0,
		opening_hours   VARCHAR(16)  NOT NULL,
		is_child_venue  TINYINT(1)   NOT NULL DEFAULT 0,
		parent_venue_id CHAR(36)     NULL,
		visible         TINYINT(1)   NOT NULL DEFAULT 1,
		is_instant_book TINYINT(1)   NOT NULL DEFAULT 0,
		created_at      DATETIME     NOT NULL,
		updated_at      DATETIME     NOT NULL,
		KEY idx_venues_parent (parent_venue_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS booking_requests (
		id         CHAR(36)     NOT NULL PRIMARY KEY,
		email      VARCHAR(255) NOT NULL,
		venue_id   CHAR(36)     NOT NULL,
		date       BIGINT       NOT NULL,
		time_slots VARCHAR(512) NOT NULL,
		cca        VARCHAR(255) NOT NULL,
		purpose    TEXT         NOT NULL,
		status     ENUM('PENDING','APPROVED','REJECTED','CANCELLED') NOT NULL DEFAULT 'PENDING',
		editable   TINYINT(1)   NOT NULL DEFAULT 1,
		reason     TEXT         NULL,
		created_at DATETIME     NOT NULL,
		updated_at DATETIME     NOT NULL,
		KEY idx_requests_email (email),
		KEY idx_requests_venue_date_status (venue_id, date, status),
		KEY idx_requests_status (status)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS venue_bookings (
		id                 CHAR(36)     NOT NULL PRIMARY KEY,
		booking_request_id CHAR(36)     NOT NULL,
		email              VARCHAR(255) NOT NULL,
		venue_id           CHAR(36)     NOT NULL,
		date               BIGINT       NOT NULL,
		slot               INT          NOT NULL,
		cca                VARCHAR(255) NOT NULL,
		purpose            TEXT         NOT NULL,
		created_at         DATETIME     NOT NULL,
		UNIQUE KEY uq_venue_date_slot (venue_id, date, slot),
		KEY idx_bookings_request (booking_request_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate applies the schema statements in order.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
