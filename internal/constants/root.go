package constants

import "time"

// Timeframe selects the aggregation granularity for stats and insights
type Timeframe string

// CustomMode selects how custom range bounds are interpreted
type CustomMode string

// ReflectionMode is the active reflection form for a date
type ReflectionMode string

const (
	AppName            = "hustle"
	Version            = "v0.3.0"
	DefaultConfigDir   = "~/.config/hustle"
	DefaultConfigPath  = "~/.config/hustle/hustle.db"
	DefaultConfigFile  = "~/.config/hustle/config.yaml"
	DefaultOwner       = "local"
	DefaultKeyringUser = "database-connection"
	GeminiKeyringUser  = "gemini-api-key"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// MonthFormat is used for monthly custom ranges (YYYY-MM)
	MonthFormat = "2006-01"

	// HabitGoalDays is the fixed length of every habit window
	HabitGoalDays = 21

	// HoursPerDay bounds hourly tasks and hourly reflections to [0, HoursPerDay)
	HoursPerDay = 24

	// Timeframes
	TimeframeWeek   Timeframe = "week"
	TimeframeMonth  Timeframe = "month"
	TimeframeCustom Timeframe = "custom"

	// Custom range modes
	CustomModeWeekly  CustomMode = "weekly"
	CustomModeMonthly CustomMode = "monthly"

	// Reflection modes
	ReflectionJournal ReflectionMode = "journal"
	ReflectionHourly  ReflectionMode = "hourly"

	// Generation service defaults
	DefaultGeminiEndpoint = "https://generativelanguage.googleapis.com"
	DefaultGeminiModel    = "gemini-2.0-flash"
	DefaultInsightTimeout = 30 * time.Second

	// Server defaults
	DefaultListenAddr = ":8080"

	// Event exchange
	EventsExchange = "hustle.events"

	// Lock defaults
	DefaultLockTTL          = 10 * time.Second
	DefaultLockPollInterval = 25 * time.Millisecond
)

// Environment variables
const (
	EnvDB             = "HUSTLE_DB"
	EnvOwner          = "HUSTLE_OWNER"
	EnvTimezone       = "HUSTLE_TIMEZONE"
	EnvGeminiAPIKey   = "GEMINI_API_KEY"
	EnvGeminiEndpoint = "HUSTLE_GEMINI_ENDPOINT"
	EnvGeminiModel    = "HUSTLE_GEMINI_MODEL"
	EnvRedisAddr      = "HUSTLE_REDIS_ADDR"
	EnvAMQPURL        = "HUSTLE_AMQP_URL"
	EnvJWTSecret      = "HUSTLE_JWT_SECRET"
	EnvListenAddr     = "HUSTLE_LISTEN"
	EnvDBConnection   = "HUSTLE_DB_CONNECTION"
)
