package objectstore

import (
	"context"
	"fmt"
	"iter"

	miniosdk "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/oukeidos/imgtrans/internal/apperrors"
	"github.com/oukeidos/imgtrans/internal/config"
	"github.com/oukeidos/imgtrans/internal/httpclient"
	"github.com/oukeidos/imgtrans/internal/imagefile"
)

type minioBucket struct {
	client *miniosdk.Client
	name   string
}

// NewMinIO opens an existing bucket on an S3-compatible endpoint. The
// bucket is never created.
func NewMinIO(ctx context.Context, cfg config.MinIO, name string) (Bucket, error) {
	client, err := miniosdk.New(cfg.Endpoint, &miniosdk.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Transport: httpclient.NewTransport(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, name)
	if err != nil {
		return nil, minioError("check bucket", name, err)
	}
	if !exists {
		return nil, apperrors.New(apperrors.KindNotFound, fmt.Sprintf("bucket %s does not exist", name), nil)
	}
	return &minioBucket{client: client, name: name}, nil
}

func (b *minioBucket) Name() string { return b.name }

func (b *minioBucket) List(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		// The listing goroutine exits when ctx is done.
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		for obj := range b.client.ListObjects(ctx, b.name, miniosdk.ListObjectsOptions{Recursive: true}) {
			if obj.Err != nil {
				yield("", minioError("list", b.name, obj.Err))
				return
			}
			if !yield(obj.Key, nil) {
				return
			}
		}
	}
}

func (b *minioBucket) Download(ctx context.Context, object, localPath string) error {
	obj, err := b.client.GetObject(ctx, b.name, object, miniosdk.GetObjectOptions{})
	if err != nil {
		return minioError("download", object, err)
	}
	defer obj.Close()
	if err := saveObject(localPath, obj); err != nil {
		return minioError("download", object, err)
	}
	return nil
}

func (b *minioBucket) Upload(ctx context.Context, localPath, object string) error {
	_, err := b.client.FPutObject(ctx, b.name, object, localPath, miniosdk.PutObjectOptions{
		ContentType: imagefile.MIMEType(localPath),
	})
	if err != nil {
		return minioError("upload", object, err)
	}
	return nil
}

func (b *minioBucket) Close() error { return nil }

func minioError(op, name string, err error) error {
	wrapped := fmt.Errorf("minio %s %s: %w", op, name, err)
	if resp := miniosdk.ToErrorResponse(err); resp.StatusCode != 0 {
		return apperrors.New(apperrors.FromStatus(resp.StatusCode),
			fmt.Sprintf("MinIO %s failed for %s (%d %s).", op, name, resp.StatusCode, resp.Code), wrapped)
	}
	return wrapped
}
