package config

import (
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("DATA_LAKE_BUCKET", "sports-analytics-data-lake-2144")
	t.Setenv("NBA_ENDPOINT", "https://api.sportsdata.io/v3/nba/scores/json/Players")
	t.Setenv("SPORTS_DATA_API_KEY", "test-key")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Region != "us-east-1" {
		t.Fatalf("unexpected Region: %q", cfg.Region)
	}
	if cfg.GlueDatabase != "glue_nba_data_lake" {
		t.Fatalf("unexpected GlueDatabase: %q", cfg.GlueDatabase)
	}
	if cfg.GlueTable != "nba_players" {
		t.Fatalf("unexpected GlueTable: %q", cfg.GlueTable)
	}
	if cfg.SportsDataTimeout != 20*time.Second {
		t.Fatalf("unexpected SportsDataTimeout: %s", cfg.SportsDataTimeout)
	}
	if cfg.SportsDataMaxRetries != 0 {
		t.Fatalf("unexpected SportsDataMaxRetries: %d", cfg.SportsDataMaxRetries)
	}
	if cfg.BucketPropagationWait != 5*time.Second {
		t.Fatalf("unexpected BucketPropagationWait: %s", cfg.BucketPropagationWait)
	}
	if !cfg.CloudWatchEnabled {
		t.Fatalf("expected CloudWatchEnabled=true by default")
	}
	if cfg.CloudWatchLogGroup != "NBAAnalyticsLogGroup" {
		t.Fatalf("unexpected CloudWatchLogGroup: %q", cfg.CloudWatchLogGroup)
	}
	if cfg.StrictExit {
		t.Fatalf("expected StrictExit=false by default")
	}
}

func TestLoad_AppEnvValidation(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_RequiresBucket(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DATA_LAKE_BUCKET", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when DATA_LAKE_BUCKET is missing")
	}
}

func TestLoad_RejectsUppercaseBucket(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DATA_LAKE_BUCKET", "Sports-Analytics")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for uppercase bucket name")
	}
}

func TestLoad_RequiresEndpoint(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("NBA_ENDPOINT", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when NBA_ENDPOINT is missing")
	}
}

func TestLoad_RejectsNonHTTPEndpoint(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("NBA_ENDPOINT", "ftp://api.sportsdata.io/players")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-http endpoint")
	}
}

func TestLoad_RequiresAPIKey(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SPORTS_DATA_API_KEY", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when SPORTS_DATA_API_KEY is missing")
	}
}

func TestLoad_CloudWatchLogGroupFallsBackToDefault(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("CLOUDWATCH_ENABLED", "true")
	t.Setenv("CLOUDWATCH_LOG_GROUP", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.CloudWatchLogGroup != "NBAAnalyticsLogGroup" {
		t.Fatalf("unexpected CloudWatchLogGroup: %q", cfg.CloudWatchLogGroup)
	}
}

func TestLoad_StrictExitParsing(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STRICT_EXIT", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.StrictExit {
		t.Fatalf("expected StrictExit=true")
	}
}

func TestDerivedLocations(t *testing.T) {
	cfg := Config{BucketName: "abc"}
	if got := cfg.TableLocation(); got != "s3://abc/raw-data/" {
		t.Fatalf("unexpected table location: %q", got)
	}
	if got := cfg.AthenaOutputLocation(); got != "s3://abc/athena-results/" {
		t.Fatalf("unexpected athena output location: %q", got)
	}
	if DatasetKey != "raw-data/nba_player_data.jsonl" {
		t.Fatalf("unexpected dataset key: %q", DatasetKey)
	}
}
