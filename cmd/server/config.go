package main

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	LogLevel           string        `env:"LOG_LEVEL,default=INFO"`
	Host               string        `env:"HOST,default=0.0.0.0"`
	Port               int           `env:"PORT,default=3001"`
	GRPCPort           int           `env:"GRPC_PORT,default=3002"`
	BadgerFilepath     string        `env:"BADGER_FILEPATH,default=./data/rooms"`
	SaveDebounce       time.Duration `env:"SAVE_DEBOUNCE,default=1s"`
	CleanupInterval    time.Duration `env:"CLEANUP_INTERVAL,default=30m"`
	RoomMaxAge         time.Duration `env:"ROOM_MAX_AGE,default=24h"`
	CatalogTTL         time.Duration `env:"CATALOG_TTL,default=1h"`
	CatalogFetchImages bool          `env:"CATALOG_FETCH_IMAGES,default=true"`
	CatalogTimeout     time.Duration `env:"CATALOG_TIMEOUT,default=15s"`
	MonitoringInterval time.Duration `env:"MONITORING_INTERVAL,default=1m"`
	AllowedOrigins     string        `env:"ALLOWED_ORIGINS,default=*"`
	RateLimitPerSecond float64       `env:"RATE_LIMIT_PER_SECOND,default=5"`
	RateLimitBurst     int           `env:"RATE_LIMIT_BURST,default=10"`
	RestartInterval    time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	CharReplacement    string        `env:"CHARACTER_REPLACEMENT,default=*"`
}

func (c Config) CharacterRune() (rune, error) {
	r := []rune(c.CharReplacement)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			c.CharReplacement,
		)
	}
	return r[0], nil
}

// Origins splits ALLOWED_ORIGINS on commas.
func (c Config) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
