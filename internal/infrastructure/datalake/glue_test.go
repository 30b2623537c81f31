package datalake

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/glue"
	gluetypes "github.com/aws/aws-sdk-go-v2/service/glue/types"
	"github.com/stretchr/testify/require"

	"github.com/hoopsight/nba-datalake/internal/platform/logging"
	"github.com/hoopsight/nba-datalake/internal/usecase"
)

type stubGlue struct {
	dbInput    *glue.CreateDatabaseInput
	dbErr      error
	tableInput *glue.CreateTableInput
	tableErr   error
}

func (s *stubGlue) CreateDatabase(_ context.Context, input *glue.CreateDatabaseInput, _ ...func(*glue.Options)) (*glue.CreateDatabaseOutput, error) {
	s.dbInput = input
	if s.dbErr != nil {
		return nil, s.dbErr
	}
	return &glue.CreateDatabaseOutput{}, nil
}

func (s *stubGlue) CreateTable(_ context.Context, input *glue.CreateTableInput, _ ...func(*glue.Options)) (*glue.CreateTableOutput, error) {
	s.tableInput = input
	if s.tableErr != nil {
		return nil, s.tableErr
	}
	return &glue.CreateTableOutput{}, nil
}

func TestCreateDatabase_SendsNameAndDescription(t *testing.T) {
	stub := &stubGlue{}
	p := NewCatalogProvisioner(stub, logging.NewNop())

	err := p.CreateDatabase(context.Background(), "glue_nba_data_lake")
	require.NoError(t, err)
	require.Equal(t, "glue_nba_data_lake", aws.ToString(stub.dbInput.DatabaseInput.Name))
	require.NotEmpty(t, aws.ToString(stub.dbInput.DatabaseInput.Description))
}

func TestCreateDatabase_AlreadyExistsMapsToAlreadyExists(t *testing.T) {
	stub := &stubGlue{dbErr: &gluetypes.AlreadyExistsException{Message: aws.String("database exists")}}
	p := NewCatalogProvisioner(stub, logging.NewNop())

	err := p.CreateDatabase(context.Background(), "glue_nba_data_lake")
	require.ErrorIs(t, err, usecase.ErrAlreadyExists)
}

func TestCreateTable_DeclaresFixedSchema(t *testing.T) {
	stub := &stubGlue{}
	p := NewCatalogProvisioner(stub, logging.NewNop())

	err := p.CreateTable(context.Background(), "glue_nba_data_lake", "nba_players", "s3://abc/raw-data/")
	require.NoError(t, err)

	input := stub.tableInput
	require.Equal(t, "glue_nba_data_lake", aws.ToString(input.DatabaseName))
	require.Equal(t, "nba_players", aws.ToString(input.TableInput.Name))
	require.Equal(t, "EXTERNAL_TABLE", aws.ToString(input.TableInput.TableType))

	sd := input.TableInput.StorageDescriptor
	require.Equal(t, "s3://abc/raw-data/", aws.ToString(sd.Location))
	require.Equal(t, "org.apache.hadoop.mapred.TextInputFormat", aws.ToString(sd.InputFormat))
	require.Equal(t, "org.apache.hadoop.hive.ql.io.HiveIgnoreKeyTextOutputFormat", aws.ToString(sd.OutputFormat))
	require.Equal(t, "org.openx.data.jsonserde.JsonSerDe", aws.ToString(sd.SerdeInfo.SerializationLibrary))

	wantColumns := map[string]string{
		"PlayerID":  "int",
		"FirstName": "string",
		"LastName":  "string",
		"Team":      "string",
		"Position":  "string",
		"Points":    "int",
	}
	require.Len(t, sd.Columns, len(wantColumns))
	for _, col := range sd.Columns {
		require.Equal(t, wantColumns[aws.ToString(col.Name)], aws.ToString(col.Type),
			"column %s", aws.ToString(col.Name))
	}
}

func TestCreateTable_AlreadyExistsMapsToAlreadyExists(t *testing.T) {
	stub := &stubGlue{tableErr: &gluetypes.AlreadyExistsException{Message: aws.String("table exists")}}
	p := NewCatalogProvisioner(stub, logging.NewNop())

	err := p.CreateTable(context.Background(), "db", "nba_players", "s3://abc/raw-data/")
	require.ErrorIs(t, err, usecase.ErrAlreadyExists)
}
