package source

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStoreConfig holds S3-compatible connection settings.
type ObjectStoreConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
}

// Validate checks that the endpoint is set.
func (c ObjectStoreConfig) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return fmt.Errorf("object_store.endpoint is required")
	}
	return nil
}

// ObjectStore reads CSV objects from an S3-compatible store.
type ObjectStore struct {
	client *minio.Client
}

// NewObjectStore connects to the store described by cfg.
func NewObjectStore(cfg ObjectStoreConfig) (*ObjectStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Region:    cfg.Region,
		Transport: newTransport(),
	})
	if err != nil {
		return nil, fmt.Errorf("object store client: %w", err)
	}
	return &ObjectStore{client: client}, nil
}

// ParseURL splits s3://bucket/prefix into bucket and prefix.
func ParseURL(location string) (bucket, prefix string, err error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", fmt.Errorf("invalid object URL %q: %w", location, err)
	}
	if u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("invalid object URL %q: want s3://bucket/key", location)
	}
	return u.Host, strings.TrimPrefix(u.Path, "/"), nil
}

// List returns the objects under prefix whose base name matches pattern,
// sorted by key. A prefix ending in .csv names a single object.
func (s *ObjectStore) List(ctx context.Context, bucket, prefix, pattern string) ([]Input, error) {
	if strings.HasSuffix(strings.ToLower(prefix), ".csv") {
		return []Input{s.input(bucket, prefix)}, nil
	}

	var keys []string
	for obj := range s.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list s3://%s/%s: %w", bucket, prefix, obj.Err)
		}
		if ok, _ := path.Match(pattern, path.Base(obj.Key)); ok {
			keys = append(keys, obj.Key)
		}
	}
	sort.Strings(keys)

	inputs := make([]Input, len(keys))
	for i, k := range keys {
		inputs[i] = s.input(bucket, k)
	}
	return inputs, nil
}

func (s *ObjectStore) input(bucket, key string) Input {
	return Input{
		Name: "s3://" + bucket + "/" + key,
		open: func(ctx context.Context) (io.ReadCloser, error) {
			return s.Open(ctx, bucket, key)
		},
	}
}

// Open returns a reader for one object.
func (s *ObjectStore) Open(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", bucket, key, err)
	}
	// GetObject is lazy; Stat surfaces a missing key before reading.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		switch minio.ToErrorResponse(err).Code {
		case "NoSuchKey", "NoSuchBucket":
			return nil, fmt.Errorf("get s3://%s/%s: %w", bucket, key, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("get s3://%s/%s: %w", bucket, key, err)
	}
	return obj, nil
}

func newTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
