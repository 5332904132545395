package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config is the full runtime configuration, read from the environment with
// sensible local-dev defaults.
type Config struct {
	MongoURI      string
	MongoDatabase string
	RedisAddr     string
	Port          string

	// Scoring surface: every correct answer earns BasePoints, the round's
	// earliest correct answer earns FirstBonus on top.
	BasePoints int
	FirstBonus int

	// Rooms idle longer than this are reaped.
	RoomIdleTTL time.Duration
}

// Load reads configuration from the environment.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "quizzone")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("PORT", "8080")
	v.SetDefault("BASE_POINTS", 100)
	v.SetDefault("FIRST_BONUS", 50)
	v.SetDefault("ROOM_IDLE_TTL", "2h")

	return &Config{
		MongoURI:      v.GetString("MONGO_URI"),
		MongoDatabase: v.GetString("MONGO_DATABASE"),
		RedisAddr:     v.GetString("REDIS_ADDR"),
		Port:          v.GetString("PORT"),
		BasePoints:    v.GetInt("BASE_POINTS"),
		FirstBonus:    v.GetInt("FIRST_BONUS"),
		RoomIdleTTL:   v.GetDuration("ROOM_IDLE_TTL"),
	}
}
