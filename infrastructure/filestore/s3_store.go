package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gabriel-vasile/mimetype"

	"hootsuite-publisher/domain/model"
	"hootsuite-publisher/domain/repository"
)

// sniffBytes is how much of an object is fetched when S3 has no content type.
const sniffBytes = 3072

type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Prefix          string
}

type objectAPI interface {
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Store resolves media references to objects in an S3 compatible bucket.
type S3Store struct {
	api    objectAPI
	bucket string
	prefix string
}

func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket is not configured")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)))
	}
	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Store(client, cfg.Bucket, cfg.Prefix), nil
}

func newS3Store(api objectAPI, bucket, prefix string) *S3Store {
	return &S3Store{api: api, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

func (s *S3Store) Resolve(ctx context.Context, ref string) (*model.MediaAsset, error) {
	key := s.key(ref)

	head, err := s.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: s3://%s/%s", repository.ErrMediaNotFound, s.bucket, key)
		}
		return nil, fmt.Errorf("head s3://%s/%s: %w", s.bucket, key, err)
	}

	mimeType := aws.ToString(head.ContentType)
	if mimeType == "" || mimeType == "application/octet-stream" || mimeType == "binary/octet-stream" {
		mimeType, err = s.sniff(ctx, key)
		if err != nil {
			return nil, err
		}
	}

	return &model.MediaAsset{
		LocalID:  ref,
		MimeType: mimeType,
		ByteSize: aws.ToInt64(head.ContentLength),
		LocalURI: fmt.Sprintf("s3://%s/%s", s.bucket, key),
		Open: func() (io.ReadCloser, error) {
			out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
				Bucket: aws.String(s.bucket),
				Key:    aws.String(key),
			})
			if err != nil {
				return nil, fmt.Errorf("failed to get object from S3: %w", err)
			}
			return out.Body, nil
		},
	}, nil
}

func (s *S3Store) sniff(ctx context.Context, key string) (string, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Range:  aws.String(fmt.Sprintf("bytes=0-%d", sniffBytes-1)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get object from S3: %w", err)
	}
	defer out.Body.Close()

	mtype, err := mimetype.DetectReader(out.Body)
	if err != nil {
		return "", err
	}
	return baseMimeType(mtype), nil
}

func (s *S3Store) key(ref string) string {
	ref = strings.TrimLeft(strings.TrimPrefix(ref, "public://"), "/")
	if s.prefix == "" {
		return ref
	}
	return s.prefix + "/" + ref
}
