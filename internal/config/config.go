package config

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds the service configuration, read from the environment
// with an optional .env file.
type Config struct {
	Port        string
	MongoURI    string
	MongoDB     string
	StorePath   string
	CatalogMode string // "local" or "remote"
	MQTTBroker  string // empty disables notifications
}

// Load reads the configuration. A missing .env file is fine; the
// process environment always wins.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using process environment")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		MongoURI:    getEnv("MONGO_URI", ""),
		MongoDB:     getEnv("MONGO_DB", "storefront"),
		StorePath:   getEnv("STORE_PATH", "data/catalog.json"),
		CatalogMode: getEnv("CATALOG_MODE", "local"),
		MQTTBroker:  getEnv("MQTT_BROKER", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
