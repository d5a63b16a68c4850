package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env       string // application environment (e.g. "dev", "prod")
	Port      string // HTTP port to listen on
	DBUser    string // database username
	DBPass    string // database password (optional)
	DBHost    string // database host address
	DBPort    string // database port number
	DBName    string // database name
	JWTSecret string // secret that session tokens are signed with

	Timezone    string // IANA zone booking days are anchored in
	SlotMinutes int    // length of one booking slot
	AutoMigrate bool   // create missing tables on startup

	AMQPURL        string // RabbitMQ URL; empty disables queued notifications
	NotifyConsumer bool   // run the booking.decision consumer in this process

	Telegram TelegramConfig
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	cfg := Config{
		Env:       must("APP_ENV"),
		Port:      must("APP_PORT"),
		DBUser:    must("DB_USER"),
		DBPass:    os.Getenv("DB_PASS"),
		DBHost:    must("DB_HOST"),
		DBPort:    must("DB_PORT"),
		DBName:    must("DB_NAME"),
		JWTSecret: must("JWT_SECRET"),

		Timezone:    envStr("APP_TIMEZONE", "Asia/Singapore"),
		SlotMinutes: envInt("SLOT_MINUTES", 30),
		AutoMigrate: envBool("DB_AUTO_MIGRATE", false),

		AMQPURL:        envStr("RABBITMQ_URL", os.Getenv("AMQP_URL")),
		NotifyConsumer: envBool("NOTIFY_CONSUMER", false),
	}
	tg, err := LoadTelegramConfig()
	if err != nil {
		log.Fatalf("invalid telegram config: %v", err)
	}
	cfg.Telegram = tg
	if cfg.Telegram.Enabled && (cfg.Telegram.Token == "" || cfg.Telegram.ChannelID == "") {
		log.Printf("[config] SEND_TELEGRAM set without TELEGRAM_BOT_TOKEN/TELEGRAM_BOT_CHANNEL_ID; disabling")
		cfg.Telegram.Enabled = false
	}
	return cfg
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
