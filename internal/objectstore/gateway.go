package objectstore

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/oukeidos/imgtrans/internal/files"
	"github.com/oukeidos/imgtrans/internal/imagefile"
	"github.com/oukeidos/imgtrans/internal/logger"
)

// Gateway performs the bucket side of a run.
type Gateway struct {
	bucket Bucket
}

func NewGateway(b Bucket) *Gateway {
	return &Gateway{bucket: b}
}

// Bucket returns the bucket name.
func (g *Gateway) Bucket() string { return g.bucket.Name() }

// IsCandidate reports whether an object is an original image worth
// downloading: a supported image extension and no translated marker.
func IsCandidate(name string) bool {
	return imagefile.IsImage(name) && !imagefile.IsTranslated(name)
}

// LocalPath maps an object name onto a path under root, keeping the
// object's directory structure. Names that would land outside root are
// rejected.
func LocalPath(root, name string) (string, error) {
	return files.ConfinedPath(root, name)
}

// ListAndDownload downloads every candidate object into destRoot and
// returns the local paths in listing order. Listing and download errors
// abort the call.
func (g *Gateway) ListAndDownload(ctx context.Context, destRoot string) ([]string, error) {
	if err := os.MkdirAll(destRoot, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create download directory: %w", err)
	}

	var downloaded []string
	bases := make(map[string]string)
	for name, err := range g.bucket.List(ctx) {
		if err != nil {
			return downloaded, err
		}
		if !IsCandidate(name) {
			continue
		}
		localPath, err := LocalPath(destRoot, name)
		if err != nil {
			logger.Warn("Skipping object", "object", name, "error", err)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
			return downloaded, fmt.Errorf("failed to create directory for %s: %w", name, err)
		}

		// Uploads use the bare file name, so equal base names in different
		// directories overwrite each other in the bucket.
		base := path.Base(name)
		if prev, dup := bases[base]; dup {
			logger.Warn("Translated uploads will share a name", "object", name, "other", prev, "upload", imagefile.TranslatedPath(base))
		} else {
			bases[base] = name
		}

		logger.Info("Downloading", "object", name)
		if err := g.bucket.Download(ctx, name, localPath); err != nil {
			return downloaded, err
		}
		downloaded = append(downloaded, localPath)
	}

	logger.Info("Downloaded", "count", len(downloaded), "dir", destRoot)
	return downloaded, nil
}

// Upload stores localPath in the bucket as destName, or as the bare file
// name when destName is empty. Existing objects are overwritten.
func (g *Gateway) Upload(ctx context.Context, localPath, destName string) error {
	if destName == "" {
		destName = filepath.Base(localPath)
	}
	logger.Info("Uploading", "path", localPath, "bucket", g.bucket.Name(), "object", destName)
	if err := g.bucket.Upload(ctx, localPath, destName); err != nil {
		return err
	}
	logger.Info("Uploaded", "bucket", g.bucket.Name(), "object", destName)
	return nil
}
