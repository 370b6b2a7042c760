// /internal/config/config.go
package config

import (
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, falling back to system environment variables")
	}
}

// Config holds process-wide settings resolved once at startup.
// Skills never read the environment directly.
type Config struct {
	Token       string `env:"TOKEN,required"`
	GroupChatID int64  `env:"CHAT_ID,required"`
	StoragePath string `env:"STORAGE_PATH" envDefault:"datastore.json"`
	Debug       bool   `env:"DEBUG" envDefault:"false"`

	QuarantineMinutes int    `env:"QUARANTINE_MINUTES" envDefault:"60"`
	PrayerSourceURL   string `env:"PRAYER_SOURCE_URL" envDefault:"https://namazvakitleri.diyanet.gov.tr/en-US/9228/prayer-time-for-finike"`
}

func New() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
