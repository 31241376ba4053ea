package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelvins/geocoder"

	"github.com/i474232898/irrigation-predictor/internal/weather"
)

var validate = validator.New()

// Default field position used when no location is configured.
const (
	DefaultLat = 21.1458
	DefaultLon = 79.0882
)

type AppConfig struct {
	Port string `validate:"required,numeric"`

	// Forecast provider selection and credentials.
	WeatherProvider   string `validate:"oneof=openweather openmeteo weatherapi"`
	OpenWeatherAPIKey string
	WeatherAPIKey     string
	ForecastTimeout   time.Duration `validate:"gt=0"`

	Location weather.Location

	// Storage.
	DatabaseURL     string
	DecisionLogPath string
	ModelPath       string
	DefaultUserID   int64 `validate:"gt=0"`

	// SinkTimeout bounds each decision log write.
	SinkTimeout time.Duration `validate:"gt=0"`

	// HealthCheckInterval controls how often the decision store is probed.
	HealthCheckInterval time.Duration `validate:"gt=0"`

	MQTT   MQTTConfig
	Influx InfluxConfig
}

// MQTTConfig enables the MQTT bridge when Broker is set.
type MQTTConfig struct {
	Broker        string `validate:"omitempty,url"`
	ClientID      string
	Username      string
	Password      string
	SensorTopic   string `validate:"required_with=Broker"`
	DecisionTopic string `validate:"required_with=Broker"`
}

func (c MQTTConfig) Enabled() bool {
	return c.Broker != ""
}

// InfluxConfig enables the time-series decision sink when URL and Token are set.
type InfluxConfig struct {
	URL    string `validate:"omitempty,url"`
	Token  string
	Org    string `validate:"required_with=URL"`
	Bucket string `validate:"required_with=URL"`
}

func (c InfluxConfig) Enabled() bool {
	return c.URL != "" && c.Token != ""
}

// geocode resolves a city/country pair. Replaced in tests.
var geocode = func(apiKey, city, country string) (weather.Location, error) {
	geocoder.ApiKey = apiKey
	loc, err := geocoder.Geocoding(geocoder.Address{City: city, Country: country})
	if err != nil {
		return weather.Location{}, err
	}
	return weather.Location{Lat: loc.Latitude, Lon: loc.Longitude}, nil
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "5000")

	cfg.WeatherProvider = getenvDefault("WEATHER_PROVIDER", "openweather")
	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.WeatherAPIKey = os.Getenv("WEATHERAPI_API_KEY")

	timeout, err := getenvDuration("FORECAST_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.ForecastTimeout = timeout

	loc, err := loadLocation()
	if err != nil {
		return nil, err
	}
	cfg.Location = loc

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.DecisionLogPath = getenvDefault("DECISION_LOG_PATH", "irrigation_log.csv")
	cfg.ModelPath = os.Getenv("MODEL_PATH")
	cfg.DefaultUserID = int64(getenvInt("DEFAULT_USER_ID", 1))

	sinkTimeout, err := getenvDuration("SINK_TIMEOUT", 3*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.SinkTimeout = sinkTimeout

	interval, err := getenvDuration("HEALTH_CHECK_INTERVAL", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HealthCheckInterval = interval

	cfg.MQTT = MQTTConfig{
		Broker:        os.Getenv("MQTT_BROKER"),
		ClientID:      getenvDefault("MQTT_CLIENT_ID", "irrigation-predictor"),
		Username:      os.Getenv("MQTT_USER"),
		Password:      os.Getenv("MQTT_PASSWORD"),
		SensorTopic:   getenvDefault("MQTT_SENSOR_TOPIC", "irrigation/sensor/#"),
		DecisionTopic: getenvDefault("MQTT_DECISION_TOPIC", "irrigation/decision"),
	}

	cfg.Influx = InfluxConfig{
		URL:    os.Getenv("INFLUX_URL"),
		Token:  os.Getenv("INFLUX_TOKEN"),
		Org:    getenvDefault("INFLUX_ORG", "irrigation"),
		Bucket: getenvDefault("INFLUX_BUCKET", "decisions"),
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadLocation prefers explicit coordinates, then a geocoded city/country,
// then the default field position.
func loadLocation() (weather.Location, error) {
	_, hasLat := os.LookupEnv("WEATHER_LAT")
	_, hasLon := os.LookupEnv("WEATHER_LON")

	if !hasLat && !hasLon {
		city := os.Getenv("WEATHER_LOCATION_CITY")
		country := os.Getenv("WEATHER_LOCATION_COUNTRY")
		key := os.Getenv("GEOCODER_API_KEY")
		if city != "" && key != "" {
			loc, err := geocode(key, city, country)
			if err == nil {
				log.Printf("INFO: geocoded %s, %s to %s", city, country, loc.Key())
				return loc, nil
			}
			log.Printf("WARN: geocoding %s, %s failed, using default location: %v", city, country, err)
		}
	}

	lat, err := getenvFloat("WEATHER_LAT", DefaultLat)
	if err != nil {
		return weather.Location{}, err
	}
	lon, err := getenvFloat("WEATHER_LON", DefaultLon)
	if err != nil {
		return weather.Location{}, err
	}
	return weather.Location{Lat: lat, Lon: lon}, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
