package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	aws_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/Hiltonrealtorsnm/frontend/internal/config"
	"github.com/Hiltonrealtorsnm/frontend/internal/export"
)

// objectAPI is the part of the S3 client the saver needs.
type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// presignAPI is the part of the presign client the saver needs.
type presignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Saver uploads exports to a bucket and returns a time limited download link.
type S3Saver struct {
	bucket  string
	linkTTL time.Duration
	objects objectAPI
	presign presignAPI
}

var _ export.Saver = (*S3Saver)(nil)

// NewS3Saver builds a saver from the AWS settings in cfg.
func NewS3Saver(ctx context.Context, cfg *config.Config) (*S3Saver, error) {
	opts := []func(*aws_config.LoadOptions) error{aws_config.WithRegion(cfg.AwsRegion)}
	if cfg.AwsAccessKeyID != "" {
		opts = append(opts, aws_config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AwsAccessKeyID,
			cfg.AwsSecretKey,
			"", // session token
		)))
	}
	awsCfg, err := aws_config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg)
	return newS3Saver(cfg.AwsS3Bucket, cfg.ExportLinkTTL, s3Client, s3.NewPresignClient(s3Client)), nil
}

func newS3Saver(bucket string, linkTTL time.Duration, objects objectAPI, presign presignAPI) *S3Saver {
	if linkTTL <= 0 {
		linkTTL = 15 * time.Minute
	}
	return &S3Saver{bucket: bucket, linkTTL: linkTTL, objects: objects, presign: presign}
}

// ObjectKey is exports/<uuid>/<filename>, so repeated exports never collide.
func ObjectKey(filename string) string {
	return fmt.Sprintf("exports/%s/%s", uuid.NewString(), path.Base(filename))
}

func (s *S3Saver) Save(ctx context.Context, filename string, payload []byte) (*export.Download, error) {
	key := ObjectKey(filename)
	_, err := s.objects.PutObject(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(s.bucket),
		Key:                aws.String(key),
		Body:               bytes.NewReader(payload),
		ContentType:        aws.String("text/csv; charset=utf-8"),
		ContentDisposition: aws.String(fmt.Sprintf(`attachment; filename="%s"`, path.Base(filename))),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload export to s3 key %s: %w", key, err)
	}

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.linkTTL))
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned GET URL for key %s: %w", key, err)
	}

	log.Printf("Uploaded export to s3://%s/%s", s.bucket, key)
	return &export.Download{Filename: path.Base(filename), Location: req.URL, Size: len(payload)}, nil
}
