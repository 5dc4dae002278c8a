// Package config loads process configuration from the environment and holds
// the domain constants shared by the bot, the store and the lookup API.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

var ErrMissing = errors.New("required setting is missing")

// Config aggregates everything the bot process needs.
type Config struct {
	Discord DiscordConfig
	Store   StoreConfig
	Redis   RedisConfig
	API     APIConfig
	Debug   bool
}

type DiscordConfig struct {
	Token          string
	CommandPrefix  string
	Language       string
	CommandTimeout time.Duration
	APIBase        string
	CDNBase        string
}

type StoreConfig struct {
	Driver        string
	MongoURI      string
	MongoDatabase string
	PostgresDSN   string
}

// RedisConfig is optional; an empty Addr disables moderation events.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// APIConfig is optional; an empty Addr disables the lookup API.
type APIConfig struct {
	Addr      string
	JWTSecret string
}

// Load reads the full bot configuration.
func Load() (Config, error) {
	discord, err := LoadDiscord()
	if err != nil {
		return Config{}, err
	}
	store, err := LoadStore()
	if err != nil {
		return Config{}, err
	}
	api, err := LoadAPI()
	if err != nil {
		return Config{}, err
	}
	return Config{
		Discord: discord,
		Store:   store,
		Redis:   LoadRedis(),
		API:     api,
		Debug:   getenvBool("DEBUG", false),
	}, nil
}

func LoadDiscord() (DiscordConfig, error) {
	token := strings.TrimSpace(os.Getenv("DISCORD_TOKEN"))
	if token == "" {
		return DiscordConfig{}, fmt.Errorf("DISCORD_TOKEN: %w", ErrMissing)
	}
	prefix := getenv("COMMAND_PREFIX", "!")
	if strings.ContainsAny(prefix, " \t\n") {
		return DiscordConfig{}, fmt.Errorf("invalid COMMAND_PREFIX value: %q", prefix)
	}
	return DiscordConfig{
		Token:          token,
		CommandPrefix:  prefix,
		Language:       getenv("BOT_LANGUAGE", "en"),
		CommandTimeout: getenvDuration("COMMAND_TIMEOUT", 15*time.Second),
		APIBase:        strings.TrimRight(getenv("DISCORD_API_BASE", "https://discord.com/api/v10"), "/"),
		CDNBase:        strings.TrimRight(getenv("DISCORD_CDN_BASE", "https://cdn.discordapp.com"), "/"),
	}, nil
}

// LoadStore reads the record store settings. The operator CLI uses it on its own.
func LoadStore() (StoreConfig, error) {
	cfg := StoreConfig{
		Driver:        strings.ToLower(getenv("STORE_DRIVER", DriverMongo)),
		MongoURI:      strings.TrimSpace(os.Getenv("MONGO_URI")),
		MongoDatabase: getenv("MONGO_DATABASE", DefaultDatabase),
		PostgresDSN:   strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
	}
	switch cfg.Driver {
	case DriverMongo:
		if cfg.MongoURI == "" {
			return StoreConfig{}, fmt.Errorf("MONGO_URI: %w", ErrMissing)
		}
	case DriverPostgres:
		if cfg.PostgresDSN == "" {
			return StoreConfig{}, fmt.Errorf("POSTGRES_DSN: %w", ErrMissing)
		}
	case DriverMemory:
	default:
		return StoreConfig{}, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Driver)
	}
	return cfg, nil
}

func LoadRedis() RedisConfig {
	return RedisConfig{
		Addr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       getenvInt("REDIS_DB", 0),
	}
}

func LoadAPI() (APIConfig, error) {
	cfg := APIConfig{
		Addr:      strings.TrimSpace(os.Getenv("API_ADDR")),
		JWTSecret: os.Getenv("API_JWT_SECRET"),
	}
	if cfg.Addr != "" && cfg.JWTSecret == "" {
		return APIConfig{}, fmt.Errorf("API_JWT_SECRET: %w", ErrMissing)
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}
