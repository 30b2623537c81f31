package datalake

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	athenatypes "github.com/aws/aws-sdk-go-v2/service/athena/types"
	crerr "github.com/cockroachdb/errors"

	"github.com/hoopsight/nba-datalake/internal/platform/logging"
)

// registerQuery is a no-op statement; the submission exists only to bind the
// result output location to the workgroup-side configuration.
const registerQuery = "CREATE DATABASE IF NOT EXISTS nba_analytics"

// AthenaAPI is the slice of the Athena client the configurator needs.
type AthenaAPI interface {
	StartQueryExecution(ctx context.Context, input *athena.StartQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.StartQueryExecutionOutput, error)
}

type QueryConfigurator struct {
	api    AthenaAPI
	logger *logging.Logger
}

func NewQueryConfigurator(api AthenaAPI, logger *logging.Logger) *QueryConfigurator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &QueryConfigurator{api: api, logger: logger}
}

// RegisterOutputLocation submits a fire-and-forget query whose only purpose
// is registering the output location. The execution is never polled; the
// returned execution id is logged and forgotten.
func (c *QueryConfigurator) RegisterOutputLocation(ctx context.Context, database, outputLocation string) (string, error) {
	input := &athena.StartQueryExecutionInput{
		QueryString: aws.String(registerQuery),
		QueryExecutionContext: &athenatypes.QueryExecutionContext{
			Database: aws.String(database),
		},
		ResultConfiguration: &athenatypes.ResultConfiguration{
			OutputLocation: aws.String(outputLocation),
		},
	}

	out, err := c.api.StartQueryExecution(ctx, input)
	if err != nil {
		return "", crerr.Wrap(err, "start query execution")
	}

	executionID := aws.ToString(out.QueryExecutionId)
	c.logger.Info("athena output location configured",
		"database", database,
		"output_location", outputLocation,
		"query_execution_id", executionID,
	)
	return executionID, nil
}
