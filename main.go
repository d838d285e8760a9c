package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

func main() {
	migrateCmd := flag.Bool("migrate", false, "Run database migration and exit")
	flag.Parse()

	cfg := loadConfig()

	store, prices, err := buildStore(cfg, *migrateCmd)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize store")
	}
	if *migrateCmd {
		logger.Info().Msg("migration completed")
		os.Exit(0)
	}
	defer store.Close()

	// The cache is optional; run uncached when Redis is not around.
	var c *cache
	if rdb, err := initRedis(cfg.RedisURL); err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, continuing without cache")
	} else {
		c = &cache{rdb: rdb}
	}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	newServer(store, prices, c).routes(r)

	logger.Info().Str("port", cfg.Port).Str("store", cfg.Store).Msg("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}

// buildStore selects the persistence gateway: Postgres for deployments, a
// local CSV file for the spreadsheet-style single-user setup.
func buildStore(cfg Config, migrate bool) (Store, PriceStore, error) {
	switch cfg.Store {
	case "postgres":
		db, err := openDB(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := ensureSchema(db); err != nil {
			db.Close()
			return nil, nil, err
		}
		s := NewPostgresStore(db)
		return s, s, nil
	case "csv":
		if migrate {
			return nil, nil, fmt.Errorf("csv store has no migrations")
		}
		s := NewCSVStore(cfg.CSVPath, cfg.PricesPath)
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q, want postgres or csv", cfg.Store)
	}
}
