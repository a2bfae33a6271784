package spaces

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/DMarby/picsum-browser/internal/fetch"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// Provider implements fetching s3://bucket/key uris from an S3 compatible object storage, such as digitalocean spaces
type Provider struct {
	spaces s3iface.S3API
}

// Config configures the object storage client
type Config struct {
	Endpoint       string
	Region         string
	AccessKey      string
	SecretKey      string
	ForcePathStyle bool
}

// New returns a new Provider instance
func New(cfg Config) (*Provider, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1" // Needs to be us-east-1 for Spaces, or it'll fail
	}

	awsConfig := &aws.Config{
		Region:           aws.String(region),
		S3ForcePathStyle: aws.Bool(cfg.ForcePathStyle),
	}

	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
	}

	if cfg.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}

	spacesSession, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, err
	}

	return &Provider{
		spaces: s3.New(spacesSession),
	}, nil
}

// NewWithClient returns a Provider using the given S3 client
func NewWithClient(client s3iface.S3API) *Provider {
	return &Provider{client}
}

// Fetch returns the object the uri points to
func (p *Provider) Fetch(ctx context.Context, uri string) ([]byte, error) {
	bucket, key, err := parse(uri)
	if err != nil {
		return nil, err
	}

	object := s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}

	output, err := p.spaces.GetObjectWithContext(ctx, &object)
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == s3.ErrCodeNoSuchKey {
			return nil, fetch.ErrNotFound
		}

		return nil, err
	}
	defer output.Body.Close()

	buf := new(bytes.Buffer)
	_, err = io.Copy(buf, output.Body)
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func parse(uri string) (bucket, key string, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", err
	}

	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("%w: %q", fetch.ErrUnsupportedScheme, u.Scheme)
	}

	key = strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", fmt.Errorf("invalid object uri %q", uri)
	}

	return u.Host, key, nil
}
