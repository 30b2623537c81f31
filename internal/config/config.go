package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/hoopsight/nba-datalake/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for one provisioning run. It is read
// once at startup; every value the run needs must be resolved here, before
// any AWS or HTTP client is built.
type Config struct {
	AppEnv         string `validate:"required,oneof=dev stage prod"`
	ServiceName    string `validate:"required"`
	ServiceVersion string

	Region        string `validate:"required"`
	BucketName    string `validate:"required,lowercase"`
	GlueDatabase  string `validate:"required"`
	GlueTable     string `validate:"required"`
	NBAEndpoint   string `validate:"required,url"`
	SportsDataKey string `validate:"required"`

	SportsDataTimeout    time.Duration `validate:"gt=0"`
	SportsDataMaxRetries int           `validate:"gte=0"`

	BucketPropagationWait time.Duration `validate:"gte=0"`

	CloudWatchEnabled  bool
	CloudWatchLogGroup string
	CloudWatchMinLevel logging.Level
	CloudWatchTimeout  time.Duration

	StrictExit bool
	LogLevel   logging.Level
}

// DatasetKey is the fixed object key the player dataset is written to.
const DatasetKey = "raw-data/nba_player_data.jsonl"

// TableLocation is the S3 prefix the Glue table points at.
func (c Config) TableLocation() string {
	return "s3://" + c.BucketName + "/raw-data/"
}

// AthenaOutputLocation is where the query service writes result sets.
func (c Config) AthenaOutputLocation() string {
	return "s3://" + c.BucketName + "/athena-results/"
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	sportsDataTimeout, err := time.ParseDuration(getEnv("SPORTSDATA_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTSDATA_TIMEOUT: %w", err)
	}
	sportsDataMaxRetries, err := getEnvAsInt("SPORTSDATA_MAX_RETRIES", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTSDATA_MAX_RETRIES: %w", err)
	}

	bucketPropagationWait, err := time.ParseDuration(getEnv("BUCKET_PROPAGATION_WAIT", "5s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BUCKET_PROPAGATION_WAIT: %w", err)
	}
	if bucketPropagationWait < 0 {
		return Config{}, fmt.Errorf("BUCKET_PROPAGATION_WAIT must be >= 0")
	}

	cloudWatchEnabled, err := strconv.ParseBool(getEnv("CLOUDWATCH_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CLOUDWATCH_ENABLED: %w", err)
	}
	cloudWatchTimeout, err := time.ParseDuration(getEnv("CLOUDWATCH_TIMEOUT", "3s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CLOUDWATCH_TIMEOUT: %w", err)
	}
	if cloudWatchTimeout <= 0 {
		return Config{}, fmt.Errorf("CLOUDWATCH_TIMEOUT must be > 0")
	}
	cloudWatchLogGroup := strings.TrimSpace(getEnv("CLOUDWATCH_LOG_GROUP", "NBAAnalyticsLogGroup"))

	strictExit, err := strconv.ParseBool(getEnv("STRICT_EXIT", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STRICT_EXIT: %w", err)
	}

	cfg := Config{
		AppEnv:                appEnv,
		ServiceName:           getEnv("APP_SERVICE_NAME", "nba-datalake-provision"),
		ServiceVersion:        getEnv("APP_SERVICE_VERSION", "dev"),
		Region:                strings.TrimSpace(getEnv("AWS_REGION", "us-east-1")),
		BucketName:            strings.TrimSpace(getEnv("DATA_LAKE_BUCKET", "")),
		GlueDatabase:          strings.TrimSpace(getEnv("GLUE_DATABASE_NAME", "glue_nba_data_lake")),
		GlueTable:             strings.TrimSpace(getEnv("GLUE_TABLE_NAME", "nba_players")),
		NBAEndpoint:           strings.TrimSpace(getEnv("NBA_ENDPOINT", "")),
		SportsDataKey:         strings.TrimSpace(getEnv("SPORTS_DATA_API_KEY", "")),
		SportsDataTimeout:     sportsDataTimeout,
		SportsDataMaxRetries:  sportsDataMaxRetries,
		BucketPropagationWait: bucketPropagationWait,
		CloudWatchEnabled:     cloudWatchEnabled,
		CloudWatchLogGroup:    cloudWatchLogGroup,
		CloudWatchMinLevel:    parseLogLevel(getEnv("CLOUDWATCH_MIN_LEVEL", "info")),
		CloudWatchTimeout:     cloudWatchTimeout,
		StrictExit:            strictExit,
		LogLevel:              parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

var structValidator = validator.New()

func validate(cfg Config) error {
	if cfg.BucketName == "" {
		return fmt.Errorf("DATA_LAKE_BUCKET is required")
	}
	// S3 rejects uppercase bucket names; catch this before any network call.
	if cfg.BucketName != strings.ToLower(cfg.BucketName) {
		return fmt.Errorf("DATA_LAKE_BUCKET %q must be lowercase", cfg.BucketName)
	}
	if cfg.NBAEndpoint == "" {
		return fmt.Errorf("NBA_ENDPOINT is required")
	}
	parsed, err := url.Parse(cfg.NBAEndpoint)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("NBA_ENDPOINT %q must be an http(s) URL", cfg.NBAEndpoint)
	}
	if cfg.SportsDataKey == "" {
		return fmt.Errorf("SPORTS_DATA_API_KEY is required")
	}

	if err := structValidator.Struct(cfg); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	return nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}
