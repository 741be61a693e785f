package main

import (
	"time"

	"github.com/oukeidos/imgtrans/internal/logger"
	"github.com/oukeidos/imgtrans/internal/objectstore"
	"github.com/oukeidos/imgtrans/internal/pipeline"
	"github.com/spf13/cobra"
)

type runOptions struct {
	commonOptions
	outputDir string
	target    string
}

func newRunCmd() *cobra.Command {
	opts := runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Download, translate and re-upload every image in the bucket (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, &opts)
		},
		SilenceUsage: true,
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	addRunFlags(cmd, &opts)
	return cmd
}

func addRunFlags(cmd *cobra.Command, opts *runOptions) {
	addCommonFlags(cmd, &opts.commonOptions)
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "Run directory to use instead of a new timestamped one; existing translations there are kept")
	cmd.Flags().StringVar(&opts.target, "target", "", "Target language (overrides TRANSLATE_LANGUAGE)")
}

func runBatch(cmd *cobra.Command, opts *runOptions) error {
	cfg, err := loadConfig(&opts.commonOptions)
	if err != nil {
		return err
	}
	logChangedFlags(cmd)
	if opts.target != "" {
		cfg.TargetLanguage = opts.target
	}
	if err := cfg.ValidateRun(); err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	model, err := connectModel(ctx, cfg, &opts.commonOptions)
	if err != nil {
		return err
	}
	bucket, err := openBucket(ctx, cfg, cfg.BucketName)
	if err != nil {
		return err
	}
	defer bucket.Close()

	startTime := time.Now()
	result, err := pipeline.Run(ctx, pipeline.Config{
		OutputDir:      opts.outputDir,
		TargetLanguage: cfg.TargetLanguage,
	}, objectstore.NewGateway(bucket), model)

	// Printed even when the run stops early.
	printRunSummary(cmd.OutOrStdout(), result, model.Usage(), time.Since(startTime), cfg)

	if err != nil {
		return err
	}
	switch result.Status {
	case pipeline.RunStatusCanceled:
		logger.Warn("Run canceled", "dir", result.Run.OutputDir)
	case pipeline.RunStatusPartialSuccess:
		logger.Warn("Some images could not be translated", "failed", result.Count(pipeline.OutcomeFailed))
	case pipeline.RunStatusFailure:
		logger.Error("No image could be translated", "failed", result.Count(pipeline.OutcomeFailed))
	}
	return nil
}
