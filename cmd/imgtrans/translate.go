package main

import (
	"fmt"
	"os"

	"github.com/oukeidos/imgtrans/internal/logger"
	"github.com/oukeidos/imgtrans/internal/pipeline"
	"github.com/oukeidos/imgtrans/internal/prompt"
	"github.com/spf13/cobra"
)

const (
	defaultSingleTarget = "French"
	defaultSingleSource = "Korean"
)

var confirmOverwrite = func(path string, force bool) (bool, error) {
	return prompt.DefaultConfirmer().ConfirmOverwrite(path, force)
}

type translateOptions struct {
	commonOptions
	source string
	yes    bool
}

func newTranslateCmd() *cobra.Command {
	opts := translateOptions{}
	cmd := &cobra.Command{
		Use:   "translate <input-image> <output-image> [language]",
		Short: "Translate a single local image (language defaults to French)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				_ = cmd.Usage()
				return fmt.Errorf("input and output images are required")
			}
			return runTranslate(cmd, args, &opts)
		},
		SilenceUsage: true,
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	addCommonFlags(cmd, &opts.commonOptions)
	cmd.Flags().StringVar(&opts.source, "source", defaultSingleSource, "Language of the text in the input image")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Overwrite output file without asking")
	return cmd
}

func runTranslate(cmd *cobra.Command, args []string, opts *translateOptions) error {
	if len(args) > 3 {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: expected at most 3 arguments but got %d. Did you forget quotes around file paths?\n", len(args))
	}
	input, output := args[0], args[1]
	target := defaultSingleTarget
	if len(args) > 2 {
		target = args[2]
	}
	if err := validateImageExtension("input", input); err != nil {
		return err
	}
	if err := validateImageExtension("output", output); err != nil {
		return err
	}

	cfg, err := loadConfig(&opts.commonOptions)
	if err != nil {
		return err
	}
	logChangedFlags(cmd)
	if err := cfg.ValidateTranslate(); err != nil {
		return err
	}

	if _, err := os.Stat(output); err == nil {
		ok, err := confirmOverwrite(output, opts.yes)
		if err != nil {
			return err
		}
		if !ok {
			logger.Info("Output file exists. Aborted by user.", "path", output)
			return nil
		}
		logger.Info("Overwriting output file", "path", output)
	}

	ctx, stop := signalContext()
	defer stop()

	model, err := connectModel(ctx, cfg, &opts.commonOptions)
	if err != nil {
		return err
	}
	if err := pipeline.TranslateFile(ctx, model, input, output, target, opts.source); err != nil {
		if pipeline.IsCanceled(err) {
			logger.Warn("Translation canceled")
			return nil
		}
		return fmt.Errorf("translation failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved translated image to: %s\n", output)
	return nil
}
