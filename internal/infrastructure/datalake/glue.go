package datalake

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/glue"
	gluetypes "github.com/aws/aws-sdk-go-v2/service/glue/types"

	"github.com/hoopsight/nba-datalake/internal/domain/player"
	"github.com/hoopsight/nba-datalake/internal/platform/logging"
)

// GlueAPI is the slice of the Glue client the catalog provisioner needs.
type GlueAPI interface {
	CreateDatabase(ctx context.Context, input *glue.CreateDatabaseInput, optFns ...func(*glue.Options)) (*glue.CreateDatabaseOutput, error)
	CreateTable(ctx context.Context, input *glue.CreateTableInput, optFns ...func(*glue.Options)) (*glue.CreateTableOutput, error)
}

type CatalogProvisioner struct {
	api    GlueAPI
	logger *logging.Logger
}

func NewCatalogProvisioner(api GlueAPI, logger *logging.Logger) *CatalogProvisioner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &CatalogProvisioner{api: api, logger: logger}
}

func (p *CatalogProvisioner) CreateDatabase(ctx context.Context, name string) error {
	input := &glue.CreateDatabaseInput{
		DatabaseInput: &gluetypes.DatabaseInput{
			Name:        aws.String(name),
			Description: aws.String("Glue database for NBA sports analytics."),
		},
	}

	if _, err := p.api.CreateDatabase(ctx, input); err != nil {
		return classifyExisting(err, "create database "+name)
	}

	p.logger.Info("glue database created", "database", name)
	return nil
}

// CreateTable registers the external player table: the fixed 6-column
// schema over the raw-data prefix, JSON SerDe, plain-text input/output
// formats.
func (p *CatalogProvisioner) CreateTable(ctx context.Context, database, table, location string) error {
	columns := make([]gluetypes.Column, 0, len(player.CatalogSchema()))
	for _, col := range player.CatalogSchema() {
		columns = append(columns, gluetypes.Column{
			Name: aws.String(col.Name),
			Type: aws.String(col.Type),
		})
	}

	input := &glue.CreateTableInput{
		DatabaseName: aws.String(database),
		TableInput: &gluetypes.TableInput{
			Name:      aws.String(table),
			TableType: aws.String("EXTERNAL_TABLE"),
			StorageDescriptor: &gluetypes.StorageDescriptor{
				Columns:      columns,
				Location:     aws.String(location),
				InputFormat:  aws.String("org.apache.hadoop.mapred.TextInputFormat"),
				OutputFormat: aws.String("org.apache.hadoop.hive.ql.io.HiveIgnoreKeyTextOutputFormat"),
				SerdeInfo: &gluetypes.SerDeInfo{
					SerializationLibrary: aws.String("org.openx.data.jsonserde.JsonSerDe"),
				},
			},
		},
	}

	if _, err := p.api.CreateTable(ctx, input); err != nil {
		return classifyExisting(err, "create table "+table)
	}

	p.logger.Info("glue table created", "database", database, "table", table, "location", location)
	return nil
}
