package main

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// openDB connects to Postgres, waiting for the container to come up. The URL
// is normalized the same way the dashboard's deploy scripts emit it.
func openDB(databaseURL string) (*sql.DB, error) {
	// Replace postgresql:// with postgres:// for compatibility.
	if strings.HasPrefix(databaseURL, "postgresql:") {
		databaseURL = "postgres" + databaseURL[len("postgresql"):]
	}
	if !strings.Contains(databaseURL, "sslmode=") {
		separator := "?"
		if strings.Contains(databaseURL, "?") {
			separator = "&"
		}
		databaseURL = databaseURL + separator + "sslmode=disable"
	}

	config, err := pgx.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Wait for the database to be ready with retries.
	const maxRetries = 60
	const retryDelay = 2 * time.Second

	var db *sql.DB
	for i := 0; i < maxRetries; i++ {
		db = stdlib.OpenDB(*config)
		if err := db.Ping(); err != nil {
			db.Close()
			if i < maxRetries-1 {
				if i%10 == 0 {
					logger.Warn().Err(err).Int("attempt", i+1).Msg("database not ready, retrying")
				}
				time.Sleep(retryDelay)
				continue
			}
			return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
		}
		logger.Info().Msg("database connection established")
		break
	}
	return db, nil
}
