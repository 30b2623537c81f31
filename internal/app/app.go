package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/glue"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/hoopsight/nba-datalake/external/sportsdata"
	"github.com/hoopsight/nba-datalake/internal/config"
	"github.com/hoopsight/nba-datalake/internal/infrastructure/datalake"
	"github.com/hoopsight/nba-datalake/internal/platform/jsonl"
	"github.com/hoopsight/nba-datalake/internal/platform/logging"
	"github.com/hoopsight/nba-datalake/internal/usecase"
)

// LoadAWSConfig resolves shared AWS client configuration for the run.
func LoadAWSConfig(ctx context.Context, cfg config.Config) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return awsCfg, nil
}

// NewProvisionService wires the full provisioning pipeline: AWS service
// clients behind their provisioners, the stats provider client, and the
// orchestrator that runs them in order.
func NewProvisionService(cfg config.Config, awsCfg aws.Config, logger *logging.Logger) *usecase.ProvisionService {
	buckets := datalake.NewBucketProvisioner(s3.NewFromConfig(awsCfg), logger)
	catalog := datalake.NewCatalogProvisioner(glue.NewFromConfig(awsCfg), logger)
	query := datalake.NewQueryConfigurator(athena.NewFromConfig(awsCfg), logger)

	fetcher := sportsdata.NewClient(sportsdata.ClientConfig{
		HTTPClient: &http.Client{Timeout: cfg.SportsDataTimeout},
		Endpoint:   cfg.NBAEndpoint,
		APIKey:     cfg.SportsDataKey,
		Timeout:    cfg.SportsDataTimeout,
		MaxRetries: cfg.SportsDataMaxRetries,
		Logger:     logger,
	})

	params := usecase.ProvisionParams{
		Region:          cfg.Region,
		Bucket:          cfg.BucketName,
		Database:        cfg.GlueDatabase,
		Table:           cfg.GlueTable,
		DatasetKey:      config.DatasetKey,
		TableLocation:   cfg.TableLocation(),
		OutputLocation:  cfg.AthenaOutputLocation(),
		PropagationWait: cfg.BucketPropagationWait,
	}

	return usecase.NewProvisionService(params, buckets, catalog, query, fetcher, jsonl.Encode, logger)
}
