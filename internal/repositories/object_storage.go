package repositories

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/rohits-web03/smartstore/internal/config"
)

const DefaultObjectPrefix = "uploads/"

// objectAPI is the subset of *s3.Client the backend calls.
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

type presignAPI interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// ObjectStorage keeps blobs in an S3-compatible bucket (AWS S3, Cloudflare R2,
// MinIO).
//
// Persist is not streaming: the whole payload is buffered in memory and sent
// with a single PutObject. That is fine for moderate files; large files would
// need a multipart upload, which this backend does not do.
type ObjectStorage struct {
	client    objectAPI
	presigner presignAPI
	bucket    string
	prefix    string
}

// NewObjectStorage builds an S3 client from cfg. Static credentials are used
// when an access key is configured, otherwise the default AWS credential chain.
func NewObjectStorage(ctx context.Context, cfg config.S3Config) (*ObjectStorage, error) {
	if cfg.Bucket == "" {
		return nil, ErrBucketRequired
	}

	var awsCfg aws.Config
	if cfg.AccessKeyID != "" {
		awsCfg = aws.Config{
			Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
			Region:      cfg.Region,
		}
	} else {
		var opts []func(*awsconfig.LoadOptions) error
		if cfg.Region != "" {
			opts = append(opts, awsconfig.WithRegion(cfg.Region))
		}
		loaded, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		awsCfg = loaded
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	slog.Info("Initialized object storage client",
		slog.String("bucket", cfg.Bucket),
		slog.String("region", cfg.Region),
		slog.String("endpoint", cfg.Endpoint),
	)

	return newObjectStorage(cfg.Bucket, cfg.Prefix, client, s3.NewPresignClient(client))
}

func newObjectStorage(bucket, prefix string, client objectAPI, presigner presignAPI) (*ObjectStorage, error) {
	if bucket == "" {
		return nil, ErrBucketRequired
	}
	return &ObjectStorage{
		client:    client,
		presigner: presigner,
		bucket:    bucket,
		prefix:    normalizePrefix(prefix),
	}, nil
}

func normalizePrefix(prefix string) string {
	if prefix == "" {
		return DefaultObjectPrefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix
}

func (s *ObjectStorage) Name() string { return "s3" }

func (s *ObjectStorage) Bucket() string { return s.bucket }

func (s *ObjectStorage) Prefix() string { return s.prefix }

// Key returns the object key a file name is stored under.
func (s *ObjectStorage) Key(filename string) string {
	return s.prefix + filename
}

// Persist uploads r as one object and returns its key.
func (s *ObjectStorage) Persist(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	if err := ValidateName(filename); err != nil {
		return "", err
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	key := s.Key(filename)
	in := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("put object s3://%s/%s: %w", s.bucket, key, err)
	}
	return key, nil
}

func (s *ObjectStorage) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(location),
	})
	if err != nil {
		var nsk *s3types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, location)
		}
		return nil, fmt.Errorf("get object s3://%s/%s: %w", s.bucket, location, err)
	}
	return out.Body, nil
}

// Exists checks if a given object key exists in the bucket.
func (s *ObjectStorage) Exists(ctx context.Context, location string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(location),
	})
	if err != nil {
		var nf *s3types.NotFound
		if errors.As(err, &nf) {
			return false, nil
		}
		// auth, network, missing bucket
		return false, err
	}
	return true, nil
}

// PresignGet creates a presigned URL for downloading an object.
func (s *ObjectStorage) PresignGet(ctx context.Context, location string, expires time.Duration) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(location),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
