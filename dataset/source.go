package dataset

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog/log"

	"tube-twin/api"
)

var ErrUnsupportedLocation = errors.New("unsupported location")

// Opener resolves a dataset location to a stream of CSV bytes. Locations are
// local paths, http(s) URLs or gs://bucket/object paths. Objects ending in .gz
// are decompressed.
type Opener struct {
	HTTP    *api.HTTPClient
	Objects ObjectStore
}

// ObjectStore reads objects out of a bucket.
type ObjectStore interface {
	NewReader(ctx context.Context, bucket, object string) (io.ReadCloser, error)
}

// NewOpener builds an opener with a default HTTP client and a lazily created
// Cloud Storage client.
func NewOpener() *Opener {
	return &Opener{
		HTTP:    api.NewHTTPClient(""),
		Objects: &GCSStore{},
	}
}

func (o *Opener) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	rc, err := o.open(ctx, location)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(location, ".gz") {
		gz, err := gzip.NewReader(rc)
		if err != nil {
			rc.Close()
			return nil, fmt.Errorf("gunzip %s: %w", location, err)
		}
		return &gzipReadCloser{Reader: gz, underlying: rc}, nil
	}
	return rc, nil
}

func (o *Opener) open(ctx context.Context, location string) (io.ReadCloser, error) {
	switch {
	case location == "":
		return nil, fmt.Errorf("%w: empty location", ErrUnsupportedLocation)

	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		if o.HTTP == nil {
			return nil, fmt.Errorf("%w: no http client for %s", ErrUnsupportedLocation, location)
		}
		log.Info().Str("location", location).Msg("[Opener] Downloading dataset file")
		body, err := o.HTTP.Fetch(ctx, location)
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", location, err)
		}
		return io.NopCloser(bytes.NewReader(body)), nil

	case strings.HasPrefix(location, "gs://"):
		if o.Objects == nil {
			return nil, fmt.Errorf("%w: no object store for %s", ErrUnsupportedLocation, location)
		}
		bucket, object, ok := strings.Cut(strings.TrimPrefix(location, "gs://"), "/")
		if !ok || bucket == "" || object == "" {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedLocation, location)
		}
		log.Info().Str("bucket", bucket).Str("object", object).Msg("[Opener] Reading dataset object")
		rc, err := o.Objects.NewReader(ctx, bucket, object)
		if err != nil {
			return nil, fmt.Errorf("GCS-Open %s|%s: %w", bucket, object, err)
		}
		return rc, nil

	case strings.Contains(location, "://"):
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLocation, location)
	}

	f, err := os.Open(location)
	if err != nil {
		return nil, err
	}
	return f, nil
}

type gzipReadCloser struct {
	*gzip.Reader
	underlying io.Closer
}

func (g *gzipReadCloser) Close() error {
	err := g.Reader.Close()
	if cerr := g.underlying.Close(); err == nil {
		err = cerr
	}
	return err
}

// GCSStore reads objects from Google Cloud Storage with application default
// credentials.
type GCSStore struct {
	once   sync.Once
	client *storage.Client
	err    error
}

func (g *GCSStore) NewReader(ctx context.Context, bucket, object string) (io.ReadCloser, error) {
	g.once.Do(func() {
		g.client, g.err = storage.NewClient(ctx)
	})
	if g.err != nil {
		return nil, g.err
	}
	r, err := g.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Close releases the storage client if one was created.
func (g *GCSStore) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}
