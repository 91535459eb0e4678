// Package audiostore archives synthesized audio to a blob bucket so merchants
// can replay delivered voice notes from the dashboard.
package audiostore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"

	apperrors "github.com/wapas/voicerelay/internal/errors"
)

// Store writes audio artifacts to a blob bucket.
type Store struct {
	bucket *blob.Bucket
	logger *slog.Logger
}

// Open opens the bucket at the given URL (file://, mem://, or any driver
// registered by the caller). An empty URL returns a nil store, which callers
// treat as archiving disabled.
func Open(ctx context.Context, bucketURL string, logger *slog.Logger) (*Store, error) {
	if bucketURL == "" {
		return nil, nil
	}

	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open audio bucket")
	}

	return &Store{bucket: bucket, logger: logger}, nil
}

// Save writes the audio bytes under a generated key and returns the key.
func (s *Store) Save(ctx context.Context, audio []byte) (string, error) {
	key := NewObjectKey(time.Now())

	err := s.bucket.WriteAll(ctx, key, audio, &blob.WriterOptions{
		ContentType: "audio/mpeg",
	})
	if err != nil {
		return "", apperrors.Wrap(err, "failed to write audio object")
	}

	s.logger.Debug("audio archived",
		slog.String("key", key),
		slog.Int("bytes", len(audio)),
	)

	return key, nil
}

// Close releases the underlying bucket.
func (s *Store) Close() error {
	return s.bucket.Close()
}

// NewObjectKey builds the object key for an audio artifact. The millisecond
// timestamp keeps keys unique enough for one artifact per pipeline run and
// matches the naming merchants already see in their dashboard.
func NewObjectKey(now time.Time) string {
	return fmt.Sprintf("voice_%d.mp3", now.UnixMilli())
}
