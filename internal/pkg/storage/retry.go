package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"
)

type retryingStore struct {
	next     BlobStore
	attempts uint
	delay    time.Duration
}

// WithRetry wraps a store so that every call is tried at most attempts
// times, waiting delay between tries. ErrNotFound is never retried.
func WithRetry(next BlobStore, attempts int, delay time.Duration) BlobStore {
	if attempts < 1 {
		attempts = 1
	}
	return &retryingStore{next: next, attempts: uint(attempts), delay: delay}
}

func (s *retryingStore) options(ctx context.Context, op string) []retry.Option {
	return []retry.Option{
		retry.Attempts(s.attempts),
		retry.Delay(s.delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, ErrNotFound)
		}),
		retry.OnRetry(func(n uint, err error) {
			slog.Warn("Storage call failed, retrying", "op", op, "attempt", n+1, "error", err)
		}),
		retry.Context(ctx),
	}
}

func (s *retryingStore) List(ctx context.Context) ([]Object, error) {
	return retry.DoWithData(func() ([]Object, error) {
		return s.next.List(ctx)
	}, s.options(ctx, "list")...)
}

// Download buffers the body so a failed read is retried as a whole.
func (s *retryingStore) Download(ctx context.Context, id string) (io.ReadCloser, error) {
	data, err := retry.DoWithData(func() ([]byte, error) {
		return ReadAll(ctx, s.next, id)
	}, s.options(ctx, "download")...)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *retryingStore) Upload(ctx context.Context, id string, content io.Reader, contentType string) error {
	data, err := io.ReadAll(content)
	if err != nil {
		return fmt.Errorf("failed to buffer upload: %w", err)
	}
	return retry.Do(func() error {
		return s.next.Upload(ctx, id, bytes.NewReader(data), contentType)
	}, s.options(ctx, "upload")...)
}

// Create runs once; a request that timed out may still have created the file.
func (s *retryingStore) Create(ctx context.Context, name string, content io.Reader, contentType string) (Object, error) {
	return s.next.Create(ctx, name, content, contentType)
}
