package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"

	"cloud.google.com/go/storage"
	"github.com/oukeidos/imgtrans/internal/apperrors"
	"github.com/oukeidos/imgtrans/internal/imagefile"
	"github.com/oukeidos/imgtrans/internal/version"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

type gcsBucket struct {
	client *storage.Client
	handle *storage.BucketHandle
}

// NewGCS opens a Google Cloud Storage bucket using application default
// credentials.
func NewGCS(ctx context.Context, name string) (Bucket, error) {
	client, err := storage.NewClient(ctx, option.WithUserAgent(version.UserAgent()))
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &gcsBucket{client: client, handle: client.Bucket(name)}, nil
}

func (b *gcsBucket) Name() string { return b.handle.BucketName() }

func (b *gcsBucket) List(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		it := b.handle.Objects(ctx, nil)
		for {
			attrs, err := it.Next()
			if errors.Is(err, iterator.Done) {
				return
			}
			if err != nil {
				yield("", gcsError("list", b.Name(), err))
				return
			}
			if !yield(attrs.Name, nil) {
				return
			}
		}
	}
}

func (b *gcsBucket) Download(ctx context.Context, object, localPath string) error {
	r, err := b.handle.Object(object).NewReader(ctx)
	if err != nil {
		return gcsError("download", object, err)
	}
	defer r.Close()
	if err := saveObject(localPath, r); err != nil {
		return gcsError("download", object, err)
	}
	return nil
}

func (b *gcsBucket) Upload(ctx context.Context, localPath, object string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer f.Close()

	// Cancelling the writer's context discards a partial upload.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := b.handle.Object(object).NewWriter(ctx)
	w.ContentType = imagefile.MIMEType(localPath)
	if _, err := io.Copy(w, f); err != nil {
		cancel()
		_ = w.Close()
		return gcsError("upload", object, err)
	}
	if err := w.Close(); err != nil {
		return gcsError("upload", object, err)
	}
	return nil
}

func (b *gcsBucket) Close() error { return b.client.Close() }

func gcsError(op, name string, err error) error {
	wrapped := fmt.Errorf("gcs %s %s: %w", op, name, err)
	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return apperrors.New(apperrors.KindNotFound, fmt.Sprintf("GCS %s failed: %s not found.", op, name), wrapped)
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return apperrors.New(apperrors.FromStatus(gerr.Code), fmt.Sprintf("GCS %s failed for %s (%d).", op, name, gerr.Code), wrapped)
	}
	return wrapped
}
