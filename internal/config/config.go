package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Port        int
	DataDir     string
	RedisAddr   string
	CatalogURL  string
	ImageCDNURL string
	BatchDelay  time.Duration
	StatsEvery  time.Duration
	TMDBAPIKey  string // optional bootstrap key, normally set via the API
	ConfigFile  string
}

func Load() *Config {
	cfg := &Config{
		Port:        envInt("PORT", 8080),
		DataDir:     env("DATA_DIR", "/data"),
		RedisAddr:   env("REDIS_ADDR", "redis:6379"),
		CatalogURL:  env("CATALOG_URL", ""),
		ImageCDNURL: env("IMAGE_CDN_URL", ""),
		BatchDelay:  time.Duration(envInt("BATCH_DELAY_MS", 250)) * time.Millisecond,
		StatsEvery:  time.Duration(envInt("STATS_INTERVAL_SEC", 60)) * time.Second,
		TMDBAPIKey:  env("TMDB_API_KEY", ""),
		ConfigFile:  env("CONFIG_FILE", ""),
	}
	cfg.MergeFromFile(cfg.ConfigFile)
	return cfg
}

// fileDoc mirrors the optional TOML config file. Every field is a pointer so
// an absent key leaves the env/default value alone.
type fileDoc struct {
	Port         *int    `toml:"port"`
	DataDir      *string `toml:"data_dir"`
	RedisAddr    *string `toml:"redis_addr"`
	CatalogURL   *string `toml:"catalog_url"`
	ImageCDNURL  *string `toml:"image_cdn_url"`
	BatchDelayMS *int    `toml:"batch_delay_ms"`
	StatsSec     *int    `toml:"stats_interval_sec"`
	TMDBAPIKey   *string `toml:"tmdb_api_key"`
}

// MergeFromFile overlays settings from a TOML file when one is configured.
// A missing or unreadable file is skipped, not fatal.
func (c *Config) MergeFromFile(path string) {
	if path == "" {
		return
	}
	var doc fileDoc
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		log.Printf("config: skipping file merge: %v", err)
		return
	}

	if doc.Port != nil {
		c.Port = *doc.Port
	}
	if doc.DataDir != nil {
		c.DataDir = *doc.DataDir
	}
	if doc.RedisAddr != nil {
		c.RedisAddr = *doc.RedisAddr
	}
	if doc.CatalogURL != nil {
		c.CatalogURL = *doc.CatalogURL
	}
	if doc.ImageCDNURL != nil {
		c.ImageCDNURL = *doc.ImageCDNURL
	}
	if doc.BatchDelayMS != nil {
		c.BatchDelay = time.Duration(*doc.BatchDelayMS) * time.Millisecond
	}
	if doc.StatsSec != nil {
		c.StatsEvery = time.Duration(*doc.StatsSec) * time.Second
	}
	if doc.TMDBAPIKey != nil {
		c.TMDBAPIKey = *doc.TMDBAPIKey
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
