package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	Timezone          string `mapstructure:"TIMEZONE"`

	// Redis configuration.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisDraftDB         int    `mapstructure:"REDIS_DRAFT_DB"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`

	// Google services.
	GeminiAPIKey             string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel              string `mapstructure:"GEMINI_MODEL"`
	GoogleServiceAccountFile string `mapstructure:"GOOGLE_SERVICE_ACCOUNT_FILE"`
	SpeechLanguage           string `mapstructure:"SPEECH_LANGUAGE"`

	// Scheduling.
	WorkStartHour        int           `mapstructure:"WORK_START_HOUR"`
	WorkEndHour          int           `mapstructure:"WORK_END_HOUR"`
	MaxSlotSuggestions   int           `mapstructure:"MAX_SLOT_SUGGESTIONS"`
	SlotCacheSize        int           `mapstructure:"SLOT_CACHE_SIZE"`
	ReminderLead         time.Duration `mapstructure:"REMINDER_LEAD"`
	SeedDemoAppointments bool          `mapstructure:"SEED_DEMO_APPOINTMENTS"`

	// Voice capture.
	CaptureMinTranscriptLen   int           `mapstructure:"CAPTURE_MIN_TRANSCRIPT_LEN"`
	CaptureErrorDelay         time.Duration `mapstructure:"CAPTURE_ERROR_DELAY"`
	CaptureProviderErrorDelay time.Duration `mapstructure:"CAPTURE_PROVIDER_ERROR_DELAY"`
	DraftTTL                  time.Duration `mapstructure:"DRAFT_TTL"`
}

var AppConfig Config

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("TIMEZONE", "Local")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DRAFT_DB", 0)
	viper.SetDefault("REDIS_REMINDER_QUEUE_DB", 1)
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GEMINI_MODEL", "models/gemini-1.5-flash")
	viper.SetDefault("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	viper.SetDefault("SPEECH_LANGUAGE", "es-ES")
	viper.SetDefault("WORK_START_HOUR", 8)
	viper.SetDefault("WORK_END_HOUR", 18)
	viper.SetDefault("MAX_SLOT_SUGGESTIONS", 5)
	viper.SetDefault("SLOT_CACHE_SIZE", 256)
	viper.SetDefault("REMINDER_LEAD", "1h")
	viper.SetDefault("SEED_DEMO_APPOINTMENTS", true)
	viper.SetDefault("CAPTURE_MIN_TRANSCRIPT_LEN", 3)
	viper.SetDefault("CAPTURE_ERROR_DELAY", "3s")
	viper.SetDefault("CAPTURE_PROVIDER_ERROR_DELAY", "2s")
	viper.SetDefault("DRAFT_TTL", "30m")
}

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if AppConfig.WorkEndHour <= AppConfig.WorkStartHour {
		log.Fatalf("Invalid working hours: WORK_END_HOUR (%d) must be after WORK_START_HOUR (%d)",
			AppConfig.WorkEndHour, AppConfig.WorkStartHour)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// Location resolves TIMEZONE, falling back to the host zone.
func Location() *time.Location {
	if AppConfig.Timezone == "" || AppConfig.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(AppConfig.Timezone)
	if err != nil {
		log.Printf("Unknown TIMEZONE %q, using local time", AppConfig.Timezone)
		return time.Local
	}
	return loc
}
