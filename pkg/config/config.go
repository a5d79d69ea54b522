package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "sliceops"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	OpenAI       OpenAIConfig
	Weather      WeatherConfig
	Traffic      TrafficConfig
	Events       EventsConfig
	Holidays     HolidaysConfig
	Intel        IntelConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SLICEOPS_APP_ENV" required:"true"`
	Port         string `envconfig:"SLICEOPS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SLICEOPS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SLICEOPS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"SLICEOPS_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"SLICEOPS_DB_DSN"`
	Driver string `envconfig:"SLICEOPS_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"SLICEOPS_DB_HOST"`
	Port     int    `envconfig:"SLICEOPS_DB_PORT" default:"5432"`
	User     string `envconfig:"SLICEOPS_DB_USER"`
	Password string `envconfig:"SLICEOPS_DB_PASSWORD"`
	Name     string `envconfig:"SLICEOPS_DB_NAME"`
	SSLMode  string `envconfig:"SLICEOPS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SLICEOPS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SLICEOPS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SLICEOPS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SLICEOPS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("db config: either SLICEOPS_DB_DSN or host/user/name are required")
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"SLICEOPS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SLICEOPS_REDIS_ADDR"`
	Password     string        `envconfig:"SLICEOPS_REDIS_PASSWORD"`
	DB           int           `envconfig:"SLICEOPS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SLICEOPS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SLICEOPS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SLICEOPS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SLICEOPS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SLICEOPS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SLICEOPS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SLICEOPS_AUTO_MIGRATE" default:"false"`
}

type OpenAIConfig struct {
	APIKey  string        `envconfig:"SLICEOPS_OPENAI_API_KEY"`
	Model   string        `envconfig:"SLICEOPS_OPENAI_MODEL" default:"gpt-4o-mini"`
	Timeout time.Duration `envconfig:"SLICEOPS_OPENAI_TIMEOUT" default:"20s"`
}

type WeatherConfig struct {
	APIKey string `envconfig:"SLICEOPS_OPENWEATHER_API_KEY"`
}

type TrafficConfig struct {
	APIKey string `envconfig:"SLICEOPS_GOOGLE_MAPS_API_KEY"`
}

// EventsConfig holds credentials and query bounds for the four independent
// event-listing providers. A missing key disables that provider.
type EventsConfig struct {
	TicketmasterAPIKey string `envconfig:"SLICEOPS_TICKETMASTER_API_KEY"`
	SeatGeekClientID   string `envconfig:"SLICEOPS_SEATGEEK_CLIENT_ID"`
	PredictHQToken     string `envconfig:"SLICEOPS_PREDICTHQ_TOKEN"`
	EventbriteToken    string `envconfig:"SLICEOPS_EVENTBRITE_TOKEN"`

	RadiusMiles   int `envconfig:"SLICEOPS_EVENTS_RADIUS_MILES" default:"10"`
	LookaheadDays int `envconfig:"SLICEOPS_EVENTS_LOOKAHEAD_DAYS" default:"7"`
}

type HolidaysConfig struct {
	CountryCode string `envconfig:"SLICEOPS_HOLIDAY_COUNTRY" default:"US"`
}

// IntelConfig tunes the store-intelligence engine: per-signal cache TTLs,
// upstream call timeouts, and minimum inter-call delays per provider class.
type IntelConfig struct {
	WeatherTTL        time.Duration `envconfig:"SLICEOPS_INTEL_WEATHER_TTL" default:"10m"`
	TrafficTTL        time.Duration `envconfig:"SLICEOPS_INTEL_TRAFFIC_TTL" default:"5m"`
	EventsTTL         time.Duration `envconfig:"SLICEOPS_INTEL_EVENTS_TTL" default:"30m"`
	HolidaysTTL       time.Duration `envconfig:"SLICEOPS_INTEL_HOLIDAYS_TTL" default:"720h"`
	BoostWeekTTL      time.Duration `envconfig:"SLICEOPS_INTEL_BOOST_WEEK_TTL" default:"6h"`
	ClassificationTTL time.Duration `envconfig:"SLICEOPS_INTEL_CLASSIFICATION_TTL" default:"168h"`
	CooldownTTL       time.Duration `envconfig:"SLICEOPS_INTEL_COOLDOWN_TTL" default:"5m"`

	ProviderTimeout time.Duration `envconfig:"SLICEOPS_INTEL_PROVIDER_TIMEOUT" default:"5s"`

	GeneralMinDelay   time.Duration `envconfig:"SLICEOPS_INTEL_GENERAL_MIN_DELAY" default:"100ms"`
	TicketingMinDelay time.Duration `envconfig:"SLICEOPS_INTEL_TICKETING_MIN_DELAY" default:"1s"`
	MappingMinDelay   time.Duration `envconfig:"SLICEOPS_INTEL_MAPPING_MIN_DELAY" default:"100ms"`
}
