package datalake

import (
	"context"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/stretchr/testify/require"

	"github.com/hoopsight/nba-datalake/internal/platform/logging"
)

type stubAthena struct {
	input *athena.StartQueryExecutionInput
	err   error
}

func (s *stubAthena) StartQueryExecution(_ context.Context, input *athena.StartQueryExecutionInput, _ ...func(*athena.Options)) (*athena.StartQueryExecutionOutput, error) {
	s.input = input
	if s.err != nil {
		return nil, s.err
	}
	return &athena.StartQueryExecutionOutput{QueryExecutionId: aws.String("exec-42")}, nil
}

func TestRegisterOutputLocation_SubmitsFireAndForgetQuery(t *testing.T) {
	stub := &stubAthena{}
	c := NewQueryConfigurator(stub, logging.NewNop())

	executionID, err := c.RegisterOutputLocation(context.Background(), "glue_nba_data_lake", "s3://abc/athena-results/")
	require.NoError(t, err)
	require.Equal(t, "exec-42", executionID)

	require.Equal(t, "CREATE DATABASE IF NOT EXISTS nba_analytics", aws.ToString(stub.input.QueryString))
	require.Equal(t, "glue_nba_data_lake", aws.ToString(stub.input.QueryExecutionContext.Database))
	require.Equal(t, "s3://abc/athena-results/", aws.ToString(stub.input.ResultConfiguration.OutputLocation))
}

func TestRegisterOutputLocation_WrapsErrors(t *testing.T) {
	stub := &stubAthena{err: fmt.Errorf("workgroup disabled")}
	c := NewQueryConfigurator(stub, logging.NewNop())

	_, err := c.RegisterOutputLocation(context.Background(), "db", "s3://abc/athena-results/")
	require.Error(t, err)
	require.Contains(t, err.Error(), "start query execution")
}
