// Package storage talks to the object-storage backend over HTTP. The
// backend is opaque to this service: upload, delete, and signed-URL minting
// are the whole contract.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ErrUnavailable is returned when the backend rejects or cannot serve a
// request. Callers treat a failed signed-URL mint as "cannot preview", never
// as something to retry in a loop.
var ErrUnavailable = errors.New("object storage unavailable")

// ObjectStore is the surface the document service consumes.
type ObjectStore interface {
	Put(ctx context.Context, path, contentType string, data []byte) error
	Delete(ctx context.Context, path string) error
	SignedURL(ctx context.Context, path string) (string, error)
}

// HTTPObjectStore implements ObjectStore against the storage service's REST
// API using a retrying resty client.
type HTTPObjectStore struct {
	client *resty.Client
	bucket string
	urlTTL time.Duration
	logger *zap.Logger
}

type signedURLResponse struct {
	URL string `json:"url"`
}

func NewHTTPObjectStore(baseURL, bucket, accessKey string, urlTTL time.Duration, logger *zap.Logger) *HTTPObjectStore {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second)
	if accessKey != "" {
		client.SetAuthToken(accessKey)
	}
	return &HTTPObjectStore{
		client: client,
		bucket: bucket,
		urlTTL: urlTTL,
		logger: logger,
	}
}

var _ ObjectStore = (*HTTPObjectStore)(nil)

func (s *HTTPObjectStore) Put(ctx context.Context, path, contentType string, data []byte) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(data).
		Put(fmt.Sprintf("/objects/%s/%s", s.bucket, path))
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	if resp.IsError() {
		s.logger.Warn("object upload rejected",
			zap.String("path", path), zap.Int("status", resp.StatusCode()))
		return fmt.Errorf("%w: upload status %d", ErrUnavailable, resp.StatusCode())
	}
	return nil
}

func (s *HTTPObjectStore) Delete(ctx context.Context, path string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		Delete(fmt.Sprintf("/objects/%s/%s", s.bucket, path))
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	if resp.IsError() && resp.StatusCode() != 404 {
		return fmt.Errorf("%w: delete status %d", ErrUnavailable, resp.StatusCode())
	}
	return nil
}

func (s *HTTPObjectStore) SignedURL(ctx context.Context, path string) (string, error) {
	var out signedURLResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("ttl", fmt.Sprintf("%d", int(s.urlTTL.Seconds()))).
		SetResult(&out).
		Get(fmt.Sprintf("/objects/%s/%s/url", s.bucket, path))
	if err != nil {
		return "", fmt.Errorf("failed to mint signed url: %w", err)
	}
	if resp.IsError() || out.URL == "" {
		return "", fmt.Errorf("%w: sign status %d", ErrUnavailable, resp.StatusCode())
	}
	return out.URL, nil
}
