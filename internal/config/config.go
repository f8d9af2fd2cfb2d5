package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable read by the configuration.
const EnvPrefix = "TENNIS_"

type Config struct {
	// DBDriver is either sqlite3 or postgres.
	DBDriver string `json:"db_driver" env:"DB_DRIVER"`
	DBDSN    string `json:"db_dsn" env:"DB_DSN"`

	HTTPAddr    string   `json:"http_addr" env:"HTTP_ADDR"`
	CORSOrigins []string `json:"cors_origins" env:"CORS_ORIGINS" envSeparator:","`
	// RateLimit is the number of requests allowed per minute and per IP, 0
	// disables limiting.
	RateLimit int `json:"rate_limit" env:"RATE_LIMIT"`

	KFactor int `json:"k_factor" env:"K_FACTOR"`

	// Match announcements are disabled if either is empty.
	DiscordToken     string `json:"discord_token" env:"DISCORD_TOKEN"`
	DiscordChannelID string `json:"discord_channel_id" env:"DISCORD_CHANNEL_ID"`

	Storage StorageConfig `json:"storage" envPrefix:"STORAGE_"`
}

// StorageConfig points to the S3 compatible bucket exports are uploaded to.
type StorageConfig struct {
	// Endpoint overrides the AWS endpoint, set it to use R2 or MinIO.
	Endpoint        string `json:"endpoint" env:"ENDPOINT"`
	Region          string `json:"region" env:"REGION"`
	AccessKeyID     string `json:"access_key_id" env:"ACCESS_KEY_ID"`
	SecretAccessKey string `json:"secret_access_key" env:"SECRET_ACCESS_KEY"`
	Bucket          string `json:"bucket" env:"BUCKET"`
	PublicBaseURL   string `json:"public_base_url" env:"PUBLIC_BASE_URL"`
}

func (c StorageConfig) Enabled() bool {
	return c.Bucket != ""
}

func Default() Config {
	return Config{
		DBDriver:  "sqlite3",
		HTTPAddr:  "127.0.0.1:3001",
		RateLimit: 120,
		KFactor:   32,
		Storage: StorageConfig{
			Region: "auto",
		},
	}
}

// Load reads the configuration file from the user config dir if it exists,
// then overrides it with the environment. A .env file in the working
// directory is loaded into the environment first.
func Load() (*Config, error) {
	c := Default()

	path, err := getOrCreateUserConfigPath()
	if err != nil {
		return nil, err
	}

	if err := c.readFile(path); err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("warning: unable to load .env: %s", err)
	}

	if err := c.expandFromEnv(); err != nil {
		return nil, err
	}

	return &c, c.Validate()
}

func (c *Config) expandFromEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("unable to read environment: %w", err)
	}

	return nil
}

func (c *Config) readFile(path string) error {
	log.Printf("debug: reading conf from %s", path)

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(c); err != nil {
		return fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("invalid db_driver %q, expected sqlite3 or postgres", c.DBDriver)
	}

	if c.DBDriver == "postgres" && c.DBDSN == "" {
		return errors.New("db_dsn is required with postgres")
	}

	if c.KFactor <= 0 {
		return fmt.Errorf("k_factor must be positive, got %d", c.KFactor)
	}

	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit can't be negative, got %d", c.RateLimit)
	}

	return nil
}

func getOrCreateUserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(configDir, "tennistinder")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}

	return filepath.Join(dir, "config.json"), nil
}

// Write saves the configuration to the user config dir, secrets included.
func (c *Config) Write() (string, error) {
	path, err := getOrCreateUserConfigPath()
	if err != nil {
		return "", err
	}
	log.Printf("debug: writing conf to %s", path)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return "", err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		if err2 := f.Close(); err2 != nil {
			return "", fmt.Errorf("unable to close file (%s) after error: %w", err2, err)
		}

		return "", err
	}

	return path, f.Close()
}
