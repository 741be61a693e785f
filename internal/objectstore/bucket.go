// Package objectstore lists, downloads and uploads bucket objects. GCS is
// the default backend; S3-compatible stores are reached through MinIO.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"iter"
	"path/filepath"

	"github.com/oukeidos/imgtrans/internal/config"
	"github.com/oukeidos/imgtrans/internal/files"
)

// Bucket is one named bucket on some backend.
type Bucket interface {
	Name() string
	// List yields every object name in the bucket. Iteration stops at the
	// first error.
	List(ctx context.Context) iter.Seq2[string, error]
	// Download writes the object to localPath. A failed download leaves
	// localPath untouched.
	Download(ctx context.Context, object, localPath string) error
	// Upload stores localPath as object, replacing any existing object.
	Upload(ctx context.Context, localPath, object string) error
	Close() error
}

// Open connects to the bucket named in cfg on the configured backend.
func Open(ctx context.Context, cfg *config.Config) (Bucket, error) {
	return OpenNamed(ctx, cfg, cfg.BucketName)
}

// OpenNamed is Open with an explicit bucket name.
func OpenNamed(ctx context.Context, cfg *config.Config, name string) (Bucket, error) {
	switch cfg.StoreBackend {
	case config.BackendGCS, "":
		return NewGCS(ctx, name)
	case config.BackendMinIO:
		return NewMinIO(ctx, cfg.MinIO, name)
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
	}
}

// saveObject writes a downloaded object body to localPath. Only the file
// itself is checked for links; LocalPath already refused links between the
// download root and its directory, and the root may sit behind a symlinked
// ancestor.
func saveObject(localPath string, r io.Reader) error {
	_, err := files.AtomicWriteFromUnder(filepath.Dir(localPath), localPath, r, 0o644)
	return err
}
