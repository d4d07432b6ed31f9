package source

import (
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/JonMunkholm/admindash/internal/config"
	"github.com/JonMunkholm/admindash/internal/core"
)

// NewS3Client builds a client for AWS or an S3-compatible endpoint such as MinIO.
// Static keys are used when set; otherwise the default credential chain applies.
func NewS3Client(ctx context.Context, cfg config.S3Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	}), nil
}

// ObjectKey returns <prefix>/<dataset>.json.
func ObjectKey(prefix string, def core.TableDefinition) string {
	return path.Join(prefix, def.DatasetName()+".json")
}

// S3Object loads a table from a JSON object in the same format as JSONFile.
type S3Object struct {
	Client *s3.Client
	Bucket string
	Key    string
	Def    core.TableDefinition
}

// LoadRecords downloads and decodes the object.
func (o S3Object) LoadRecords(ctx context.Context) ([]core.Record, error) {
	if o.Client == nil {
		return nil, fmt.Errorf("%w: no s3 client", core.ErrSourceUnavailable)
	}

	out, err := o.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(o.Bucket),
		Key:    aws.String(o.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", o.Bucket, o.Key, err)
	}
	defer out.Body.Close()

	return DecodeJSON(o.Def, out.Body)
}
