package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/dmitrymomot/polyglot/pkg/i18n"
)

// DefaultS3Region is used when S3Config.Region is empty.
const DefaultS3Region = "us-east-1"

// ErrInvalidS3Config is returned when required S3 settings are missing.
var ErrInvalidS3Config = errors.New("source: invalid S3 configuration")

// S3Config holds S3-compatible storage settings.
type S3Config struct {
	// Bucket is the bucket holding bundle objects (required).
	Bucket string `env:"S3_BUCKET"`

	// AccessKey and SecretKey are static credentials (required).
	AccessKey string `env:"S3_ACCESS_KEY"`
	SecretKey string `env:"S3_SECRET_KEY"`

	// Endpoint is a custom endpoint URL, e.g. for MinIO (optional).
	Endpoint string `env:"S3_ENDPOINT"`

	// Region defaults to us-east-1.
	Region string `env:"S3_REGION"`

	// Prefix is prepended to every located key, e.g. "locales".
	Prefix string `env:"S3_PREFIX"`

	// PathStyle enables path-style addressing (required for MinIO).
	PathStyle bool `env:"S3_PATH_STYLE"`
}

func (c *S3Config) applyDefaults() {
	if c.Region == "" {
		c.Region = DefaultS3Region
	}
}

func (c *S3Config) validate() error {
	if c.Bucket == "" || c.AccessKey == "" || c.SecretKey == "" {
		return ErrInvalidS3Config
	}
	return nil
}

// S3API is the subset of the S3 client used by the source.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3 serves bundles stored as objects in an S3-compatible bucket.
// NoSuchKey and NotFound responses mean the bundle does not exist.
type S3 struct {
	client      S3API
	locate      Locator
	bucket      string
	prefix      string
	maxBodySize int64
}

// NewS3 creates an S3 source with static credentials.
// A nil locator defaults to Layout(".json").
func NewS3(cfg S3Config, locate Locator) (*S3, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	opts := []func(*s3.Options){
		func(o *s3.Options) {
			o.Region = cfg.Region
			o.Credentials = credentials.NewStaticCredentialsProvider(
				cfg.AccessKey,
				cfg.SecretKey,
				"",
			)
		},
	}

	if cfg.Endpoint != "" {
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.PathStyle
		})
	}

	client := s3.New(s3.Options{}, opts...)

	return NewS3WithClient(client, cfg.Bucket, cfg.Prefix, locate), nil
}

// NewS3WithClient creates an S3 source around an existing client.
func NewS3WithClient(client S3API, bucket, prefix string, locate Locator) *S3 {
	if locate == nil {
		locate = Layout(".json")
	}
	return &S3{
		client:      client,
		locate:      locate,
		bucket:      bucket,
		prefix:      strings.Trim(prefix, "/"),
		maxBodySize: DefaultMaxBodySize,
	}
}

// Fetch implements Fetcher.
func (s *S3) Fetch(ctx context.Context, lang, namespace string) (*i18n.Bundle, error) {
	p, ok := s.locate(lang, namespace)
	if !ok {
		return nil, NotFound(lang, namespace, nil)
	}

	key := p
	if s.prefix != "" {
		key = s.prefix + "/" + strings.TrimPrefix(p, "/")
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, classifyS3Error(lang, namespace, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, s.maxBodySize+1))
	if err != nil {
		return nil, Transport(lang, namespace, err)
	}
	if int64(len(data)) > s.maxBodySize {
		return nil, Transport(lang, namespace, ErrBodyTooLarge)
	}

	contentType := ""
	if out.ContentType != nil {
		contentType = *out.ContentType
	}

	b, err := i18n.Decode(responseFormat(contentType, key), data)
	if err != nil {
		return nil, Transport(lang, namespace, fmt.Errorf("decoding s3://%s/%s: %w", s.bucket, key, err))
	}

	return b, nil
}

// classifyS3Error maps S3 errors to NotFound or Transport.
// It checks both API error codes and typed errors.
func classifyS3Error(lang, namespace string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return NotFound(lang, namespace, err)
		}
	}

	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return NotFound(lang, namespace, err)
	}

	return Transport(lang, namespace, err)
}

var _ Fetcher = (*S3)(nil)
