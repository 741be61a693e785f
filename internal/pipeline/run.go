package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/oukeidos/imgtrans/internal/files"
	"github.com/oukeidos/imgtrans/internal/gemini"
	"github.com/oukeidos/imgtrans/internal/imagefile"
	"github.com/oukeidos/imgtrans/internal/language"
	"github.com/oukeidos/imgtrans/internal/logger"
)

// Store is the bucket side of a run.
type Store interface {
	Bucket() string
	ListAndDownload(ctx context.Context, destRoot string) ([]string, error)
	Upload(ctx context.Context, localPath, destName string) error
}

// Model is the generative side of a run.
type Model interface {
	DetectLanguage(ctx context.Context, image []byte, mimeType string) gemini.Detection
	TranslateImage(ctx context.Context, image []byte, mimeType, target, source string) gemini.Translation
}

const runDirLayout = "2006-01-02_15-04-05"

var now = time.Now

// NewRunDir creates (or reuses) the directory base/<t as YYYY-MM-DD_HH-MM-SS>.
func NewRunDir(base string, t time.Time) (string, error) {
	dir := filepath.Join(base, t.Format(runDirLayout))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create run directory: %w", err)
	}
	return dir, nil
}

func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Run downloads the bucket's images, detects their source language once,
// then translates and uploads each image in sorted path order.
//
// Per-image translation failures are recorded and the loop moves on.
// Download and upload errors end the run with an error. Cancellation stops
// the loop between images and is reported as RunStatusCanceled.
func Run(ctx context.Context, cfg Config, store Store, model Model) (Result, error) {
	cfg, notes := cfg.Normalize()

	rc := RunContext{
		ID:             newRunID(),
		Bucket:         store.Bucket(),
		TargetLanguage: cfg.TargetLanguage,
	}
	log := logger.With("run", rc.ID)
	for _, note := range notes {
		log.Debug("Config normalized", "detail", note)
	}

	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return Result{Run: rc}, fmt.Errorf("failed to create output directory: %w", err)
		}
		rc.OutputDir = cfg.OutputDir
	} else {
		dir, err := NewRunDir(cfg.BaseDir, now())
		if err != nil {
			return Result{Run: rc}, err
		}
		rc.OutputDir = dir
	}
	log.Info("Starting run", "bucket", rc.Bucket, "dir", rc.OutputDir, "target", rc.TargetLanguage)

	paths, err := store.ListAndDownload(ctx, rc.OutputDir)
	if err != nil {
		if ctx.Err() != nil {
			return Result{Status: RunStatusCanceled, Run: rc}, nil
		}
		return Result{Run: rc}, fmt.Errorf("failed to fetch images from bucket %s: %w", rc.Bucket, err)
	}
	if len(paths) == 0 {
		log.Info("No images to translate", "bucket", rc.Bucket)
		return Result{Status: RunStatusEmpty, Run: rc}, nil
	}
	paths = slices.Clone(paths)
	slices.Sort(paths)

	sample, err := os.ReadFile(paths[0])
	if err != nil {
		return Result{Run: rc}, fmt.Errorf("failed to read %s for language detection: %w", paths[0], err)
	}
	det := model.DetectLanguage(ctx, sample, imagefile.MIMEType(paths[0]))
	rc.SourceLanguage = det.Language
	if _, ok := language.Lookup(det.Language); !ok {
		log.Debug("Detected language is not in the language table", "language", det.Language)
	}
	log.Info("Source language", "language", rc.SourceLanguage, "defaulted", det.Defaulted)

	result := Result{Run: rc, SourceDefaulted: det.Defaulted}
	canceled := false
	for _, path := range paths {
		if ctx.Err() != nil {
			canceled = true
			log.Warn("Run canceled", "remaining", len(paths)-len(result.Images))
			break
		}
		img, err := translateOne(ctx, log, rc, store, model, path)
		result.Images = append(result.Images, img)
		if err != nil {
			if ctx.Err() != nil {
				canceled = true
				break
			}
			result.Status = statusFromImages(result.Images, false)
			return result, err
		}
	}

	result.Status = statusFromImages(result.Images, canceled)
	log.Info("All done", "dir", rc.OutputDir, "status", result.Status,
		"translated", result.Count(OutcomeTranslated),
		"skipped", result.Count(OutcomeSkipped),
		"failed", result.Count(OutcomeFailed))
	return result, nil
}

// translateOne handles a single image. The returned error is fatal to the
// run; per-image failures are reported in the ImageResult only.
func translateOne(ctx context.Context, log *slog.Logger, rc RunContext, store Store, model Model, path string) (ImageResult, error) {
	img := ImageResult{InputPath: path, OutputPath: imagefile.TranslatedPath(path)}

	if files.Exists(img.OutputPath) {
		log.Info("Already translated", "path", img.OutputPath)
		img.Outcome = OutcomeSkipped
		return img, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("Failed to read image", "path", path, "error", err)
		return failed(img, err), nil
	}

	log.Info("Translating", "path", path, "from", rc.SourceLanguage, "to", rc.TargetLanguage)
	tr := model.TranslateImage(ctx, data, imagefile.MIMEType(path), rc.TargetLanguage, rc.SourceLanguage)
	if !tr.OK() {
		err := tr.Err
		if err == nil {
			err = gemini.ErrNoImage
		}
		log.Warn("Translation failed", "path", path, "error", err)
		return failed(img, err), nil
	}

	if err := files.AtomicWriteUnder(rc.OutputDir, img.OutputPath, tr.Data, 0o644); err != nil {
		log.Warn("Failed to save translated image", "path", img.OutputPath, "error", err)
		return failed(img, err), nil
	}
	log.Info("Saved", "path", img.OutputPath, "bytes", len(tr.Data))

	if err := store.Upload(ctx, img.OutputPath, filepath.Base(img.OutputPath)); err != nil {
		// A translated file on disk means done to a resumed run.
		if rmErr := os.Remove(img.OutputPath); rmErr != nil {
			log.Warn("Failed to remove unuploaded translation", "path", img.OutputPath, "error", rmErr)
		}
		img = failed(img, err)
		return img, fmt.Errorf("failed to upload %s: %w", img.OutputPath, err)
	}
	img.Outcome = OutcomeTranslated
	return img, nil
}

func failed(img ImageResult, err error) ImageResult {
	img.Outcome = OutcomeFailed
	img.Err = err
	if !files.Exists(img.OutputPath) {
		img.OutputPath = ""
	}
	return img
}

// TranslateFile translates a single local image into outputPath. It is the
// bucket-free path used by the translate command.
func TranslateFile(ctx context.Context, model Model, inputPath, outputPath, target, source string) error {
	absIn, err := filepath.Abs(inputPath)
	if err != nil {
		return fmt.Errorf("failed to resolve input path: %w", err)
	}
	absOut, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("failed to resolve output path: %w", err)
	}
	if absIn == absOut {
		return fmt.Errorf("input and output files are the same (%s)", absIn)
	}
	if inInfo, err := os.Stat(absIn); err != nil {
		return fmt.Errorf("failed to stat input path: %w", err)
	} else if outInfo, err := os.Stat(absOut); err == nil && os.SameFile(inInfo, outInfo) {
		return fmt.Errorf("input and output files are the same (%s)", absIn)
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input image: %w", err)
	}
	logger.Info("Translating", "path", inputPath, "from", source, "to", target)
	tr := model.TranslateImage(ctx, data, imagefile.MIMEType(inputPath), target, source)
	if !tr.OK() {
		if tr.Err == nil {
			return gemini.ErrNoImage
		}
		return tr.Err
	}
	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := files.AtomicWrite(outputPath, tr.Data, 0o644); err != nil {
		return fmt.Errorf("failed to save translated image: %w", err)
	}
	logger.Info("Saved", "path", outputPath, "bytes", len(tr.Data))
	return nil
}

// IsCanceled reports whether err came from context cancellation.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
