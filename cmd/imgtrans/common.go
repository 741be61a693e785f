package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/oukeidos/imgtrans/internal/apperrors"
	"github.com/oukeidos/imgtrans/internal/auth"
	"github.com/oukeidos/imgtrans/internal/cleanup"
	"github.com/oukeidos/imgtrans/internal/config"
	"github.com/oukeidos/imgtrans/internal/files"
	"github.com/oukeidos/imgtrans/internal/gemini"
	"github.com/oukeidos/imgtrans/internal/imagefile"
	"github.com/oukeidos/imgtrans/internal/logger"
	"github.com/oukeidos/imgtrans/internal/objectstore"
	"github.com/oukeidos/imgtrans/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// imageModel is what the commands need from the Gemini client.
type imageModel interface {
	pipeline.Model
	Usage() gemini.Usage
}

var (
	getKey    = auth.GetKey
	getEnvKey = auth.GetEnvKey
	getStatus = auth.GetStatus

	openBucket = objectstore.OpenNamed
	newModel   = func(ctx context.Context, creds gemini.Credentials, opts gemini.Options) (imageModel, error) {
		return gemini.NewClient(ctx, creds, opts)
	}
)

// commonOptions are shared by every command that talks to a bucket or a model.
type commonOptions struct {
	envFile     string
	logFilePath string
	debug       bool
	envOnly     bool
	vertex      bool
}

func addCommonFlags(cmd *cobra.Command, opts *commonOptions) {
	cmd.Flags().StringVar(&opts.envFile, "env", ".env", "Path to a KEY=VALUE file loaded before reading the environment")
	cmd.Flags().StringVar(&opts.logFilePath, "log-file", "", "Path to save machine-readable JSONL logs")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	cmd.Flags().BoolVar(&opts.envOnly, "env-only", false, "Read the Gemini API key from the environment only, skipping the keychain")
	cmd.Flags().BoolVar(&opts.vertex, "vertex", false, "Use Vertex AI with application default credentials even if an API key is available")
}

// loadConfig loads the env file, reads the configuration and sets up
// logging. LOG_LEVEL applies unless --debug is given.
func loadConfig(opts *commonOptions) (*config.Config, error) {
	loaded, err := config.LoadEnvFile(opts.envFile)
	if err != nil {
		return nil, apperrors.New(apperrors.KindConfig, fmt.Sprintf("failed to load %s", opts.envFile), err)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level := logger.ParseLevel(cfg.LogLevel)
	if opts.debug {
		level = logger.LevelDebug
	}
	if err := initLogging(level, opts.logFilePath); err != nil {
		return nil, err
	}
	if loaded {
		logger.Debug("Loaded env file", "path", opts.envFile)
	}
	return cfg, nil
}

// logChangedFlags records the flags given on the command line.
func logChangedFlags(cmd *cobra.Command) {
	cmd.Flags().Visit(func(f *pflag.Flag) {
		logger.Debug("Flag set", "flag", f.Name, "value", f.Value.String())
	})
}

func initLogging(level slog.Level, logFilePath string) error {
	var logFileW io.Writer
	if logFilePath != "" {
		if err := files.RejectSymlinkPath(logFilePath); err != nil {
			return err
		}
		f, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		cleanup.Register(f.Close)
		logFileW = f
	}
	logger.Init(level, logFileW)
	return nil
}

// resolveAPIKey finds the Gemini API key: keychain first, then the
// environment. An empty key selects Vertex AI.
func resolveAPIKey(envOnly, vertex bool) (key, source string) {
	if vertex {
		return "", ""
	}
	if !envOnly {
		if key, source := getKey(false); key != "" {
			return key, source
		}
	}
	if key, ok := getEnvKey(); ok {
		return key, auth.SourceEnv
	}
	return "", ""
}

// connectModel builds the Gemini client from cfg and the resolved
// credentials.
func connectModel(ctx context.Context, cfg *config.Config, opts *commonOptions) (imageModel, error) {
	key, source := resolveAPIKey(opts.envOnly, opts.vertex)
	creds := gemini.Credentials{
		APIKey:   key,
		Project:  cfg.GoogleCloudProject,
		Location: cfg.GoogleCloudLocation,
	}
	if key != "" {
		logger.Info("Using Gemini API key", "source", source)
	} else if strings.TrimSpace(cfg.GoogleCloudProject) == "" {
		return nil, apperrors.Config("no Gemini API key found (keychain, GEMINI_API_KEY, GOOGLE_API_KEY) and GOOGLE_CLOUD_PROJECT is not set for Vertex AI")
	}

	model, err := newModel(ctx, creds, gemini.Options{
		DetectModel:      cfg.DetectModel,
		ImageModel:       cfg.ImageModel,
		ImageSize:        cfg.ImageResolution,
		FallbackLanguage: cfg.FallbackLanguage,
		Timeout:          cfg.RequestTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return model, nil
}

func validateImageExtension(kind, path string) error {
	if imagefile.IsImage(path) {
		return nil
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		ext = "(none)"
	}
	return fmt.Errorf("unsupported %s extension %q (supported: .jpg, .jpeg, .png, .webp)", kind, ext)
}

func printRunSummary(w io.Writer, res pipeline.Result, usage gemini.Usage, duration time.Duration, cfg *config.Config) {
	fmt.Fprintln(w, "\n--- Run Summary ---")
	fmt.Fprintf(w, "Status: %s\n", res.Status)
	if res.Run.OutputDir != "" {
		fmt.Fprintf(w, "Output: %s\n", res.Run.OutputDir)
	}
	if res.Run.SourceLanguage != "" {
		source := res.Run.SourceLanguage
		if res.SourceDefaulted {
			source += " (fallback)"
		}
		fmt.Fprintf(w, "Languages: %s -> %s\n", source, res.Run.TargetLanguage)
	}
	fmt.Fprintf(w, "Images: translated=%d skipped=%d failed=%d\n",
		res.Count(pipeline.OutcomeTranslated), res.Count(pipeline.OutcomeSkipped), res.Count(pipeline.OutcomeFailed))
	for _, img := range res.Images {
		if img.Outcome == pipeline.OutcomeFailed {
			fmt.Fprintf(w, "  failed: %s (%s)\n", img.InputPath, apperrors.PublicMessage(img.Err))
		}
	}
	fmt.Fprintf(w, "Time: %s\n", duration.Round(time.Millisecond))
	fmt.Fprintf(w, "Models: detect=%s image=%s (%s)\n", cfg.DetectModel, cfg.ImageModel, cfg.ImageResolution)
	if usage.Requests > 0 {
		fmt.Fprintf(w, "Requests: %d\n", usage.Requests)
	}
	if usage.TotalTokens > 0 {
		fmt.Fprintf(w, "Tokens: In=%d, Out=%d, Total=%d\n", usage.PromptTokens, usage.CandidateTokens, usage.TotalTokens)
	}
}

func signalContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("Cancellation requested")
			cancel()
		case <-ctx.Done():
		}
	}()
	stop := func() {
		signal.Stop(sigCh)
		cancel()
	}
	return ctx, stop
}
