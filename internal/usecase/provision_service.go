package usecase

import (
	"context"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/hoopsight/nba-datalake/internal/domain/player"
	"github.com/hoopsight/nba-datalake/internal/platform/logging"
)

// BucketStore provisions object storage and writes dataset blobs.
type BucketStore interface {
	CreateBucket(ctx context.Context, name, region string) error
	PutObject(ctx context.Context, bucket, key string, body []byte) error
}

// Catalog registers databases and tables with the managed data catalog.
type Catalog interface {
	CreateDatabase(ctx context.Context, name string) error
	CreateTable(ctx context.Context, database, table, location string) error
}

// QueryConfigurator binds a result output location to the query service.
type QueryConfigurator interface {
	RegisterOutputLocation(ctx context.Context, database, outputLocation string) (string, error)
}

// PlayerFetcher retrieves the upstream player dataset.
type PlayerFetcher interface {
	FetchPlayers(ctx context.Context) ([]player.Record, error)
}

// DatasetEncoder renders fetched records into the upload payload.
type DatasetEncoder func(records []player.Record) ([]byte, error)

// ProvisionParams are the resolved resource names for one run. All of them
// are deterministic functions of configuration.
type ProvisionParams struct {
	Region         string
	Bucket         string
	Database       string
	Table          string
	DatasetKey     string
	TableLocation  string
	OutputLocation string

	// PropagationWait is how long to pause after bucket creation so the
	// bucket is visible to the steps that reference it.
	PropagationWait time.Duration
}

// Step names, in execution order.
const (
	StepCreateBucket    = "create_bucket"
	StepCreateDatabase  = "create_database"
	StepFetchDataset    = "fetch_dataset"
	StepUploadDataset   = "upload_dataset"
	StepCreateTable     = "create_table"
	StepConfigureAthena = "configure_athena"
)

// ProvisionService runs the data-lake setup sequence. Steps execute in a
// fixed order, each attempted exactly once; a failed step is recorded in the
// report and the run continues. The only inter-step dependency is the
// upload, which is skipped when the fetch produced nothing.
type ProvisionService struct {
	params  ProvisionParams
	buckets BucketStore
	catalog Catalog
	query   QueryConfigurator
	fetcher PlayerFetcher
	encode  DatasetEncoder
	logger  *logging.Logger
	now     func() time.Time
}

func NewProvisionService(
	params ProvisionParams,
	buckets BucketStore,
	catalog Catalog,
	query QueryConfigurator,
	fetcher PlayerFetcher,
	encode DatasetEncoder,
	logger *logging.Logger,
) *ProvisionService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ProvisionService{
		params:  params,
		buckets: buckets,
		catalog: catalog,
		query:   query,
		fetcher: fetcher,
		encode:  encode,
		logger:  logger,
		now:     time.Now,
	}
}

// Run executes the full provisioning sequence and returns the aggregated
// report. It never returns an error: per-step failures are outcomes, not
// aborts, and partial provisioning is an accepted end state.
func (s *ProvisionService) Run(ctx context.Context) Report {
	report := Report{Started: s.now()}
	s.logger.Info("setting up data lake for NBA sports analytics",
		"bucket", s.params.Bucket,
		"region", s.params.Region,
		"database", s.params.Database,
	)

	report.add(s.runStep(StepCreateBucket, func() (string, error) {
		return "", s.buckets.CreateBucket(ctx, s.params.Bucket, s.params.Region)
	}))

	if s.params.PropagationWait > 0 {
		timer := time.NewTimer(s.params.PropagationWait)
		select {
		case <-ctx.Done():
			timer.Stop()
		case <-timer.C:
		}
	}

	report.add(s.runStep(StepCreateDatabase, func() (string, error) {
		return "", s.catalog.CreateDatabase(ctx, s.params.Database)
	}))

	var records []player.Record
	fetchOutcome := s.runStep(StepFetchDataset, func() (string, error) {
		fetched, err := s.fetcher.FetchPlayers(ctx)
		if err != nil {
			return "", err
		}
		records = fetched
		return recordCountDetail(len(fetched)), nil
	})
	report.add(fetchOutcome)

	// An empty fetch is indistinguishable from zero valid records, so the
	// upload is skipped rather than writing an empty object.
	if fetchOutcome.Failed() || len(records) == 0 {
		report.add(s.skipStep(StepUploadDataset, "no records fetched"))
	} else {
		report.add(s.runStep(StepUploadDataset, func() (string, error) {
			payload, err := s.encode(records)
			if err != nil {
				return "", errors.Wrap(err, "encode dataset")
			}
			if err := s.buckets.PutObject(ctx, s.params.Bucket, s.params.DatasetKey, payload); err != nil {
				return "", err
			}
			return "key=" + s.params.DatasetKey, nil
		}))
	}

	report.add(s.runStep(StepCreateTable, func() (string, error) {
		return "", s.catalog.CreateTable(ctx, s.params.Database, s.params.Table, s.params.TableLocation)
	}))

	report.add(s.runStep(StepConfigureAthena, func() (string, error) {
		executionID, err := s.query.RegisterOutputLocation(ctx, s.params.Database, s.params.OutputLocation)
		if err != nil {
			return "", err
		}
		return "query_execution_id=" + executionID, nil
	}))

	report.Finished = s.now()
	s.logger.Info("data lake setup complete", "summary", report.Summary(), "failed", report.Failed())
	return report
}

func (s *ProvisionService) runStep(name string, fn func() (string, error)) Outcome {
	start := s.now()
	detail, err := fn()
	outcome := Outcome{
		Step:     name,
		Status:   StatusOK,
		Detail:   detail,
		Duration: s.now().Sub(start),
	}

	switch {
	case err == nil:
		s.logger.Info("provisioning step succeeded", "step", name, "detail", detail)
	case errors.Is(err, ErrAlreadyExists):
		outcome.Status = StatusAlreadyExists
		s.logger.Info("resource already exists", "step", name, "error", err)
	default:
		outcome.Status = StatusFailed
		outcome.Err = err
		s.logger.Error("provisioning step failed", "step", name, "error", err)
	}

	return outcome
}

func (s *ProvisionService) skipStep(name, reason string) Outcome {
	s.logger.Info("provisioning step skipped", "step", name, "reason", reason)
	return Outcome{Step: name, Status: StatusSkipped, Detail: reason}
}

func recordCountDetail(n int) string {
	if n == 1 {
		return "1 record"
	}
	return strconv.Itoa(n) + " records"
}
