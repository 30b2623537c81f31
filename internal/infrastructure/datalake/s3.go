package datalake

import (
	"bytes"
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/hoopsight/nba-datalake/internal/platform/logging"
)

// defaultRegion is the one region for which S3 rejects an explicit location
// constraint on bucket creation.
const defaultRegion = "us-east-1"

// S3API is the slice of the S3 client the bucket provisioner needs.
type S3API interface {
	CreateBucket(ctx context.Context, input *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	PutObject(ctx context.Context, input *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type BucketProvisioner struct {
	api    S3API
	logger *logging.Logger
}

func NewBucketProvisioner(api S3API, logger *logging.Logger) *BucketProvisioner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &BucketProvisioner{api: api, logger: logger}
}

// CreateBucket creates the data-lake bucket. The location constraint is
// omitted for us-east-1 and set for every other region; sending one for
// us-east-1 makes S3 reject the call.
func (p *BucketProvisioner) CreateBucket(ctx context.Context, name, region string) error {
	input := &s3.CreateBucketInput{Bucket: aws.String(name)}
	if region != defaultRegion {
		input.CreateBucketConfiguration = &s3types.CreateBucketConfiguration{
			LocationConstraint: s3types.BucketLocationConstraint(region),
		}
	}

	if _, err := p.api.CreateBucket(ctx, input); err != nil {
		return classifyExisting(err, "create bucket "+name)
	}

	p.logger.Info("s3 bucket created", "bucket", name, "region", region)
	return nil
}

// PutObject writes the dataset blob in a single call. The whole payload is
// in memory already; there is no chunking and no retry.
func (p *BucketProvisioner) PutObject(ctx context.Context, bucket, key string, body []byte) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/x-ndjson"),
	}

	if _, err := p.api.PutObject(ctx, input); err != nil {
		return classifyExisting(err, "put object "+key)
	}

	p.logger.Info("dataset uploaded", "bucket", bucket, "key", key, "bytes", len(body))
	return nil
}
