package main

import (
	"fmt"

	"github.com/oukeidos/imgtrans/internal/objectstore"
	"github.com/spf13/cobra"
)

type downloadOptions struct {
	commonOptions
}

func newDownloadCmd() *cobra.Command {
	opts := downloadOptions{}
	cmd := &cobra.Command{
		Use:   "download <bucket> <output-folder>",
		Short: "Download the untranslated images of a bucket",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				_ = cmd.Usage()
				return fmt.Errorf("bucket and output folder are required")
			}
			return runDownload(cmd, args, &opts)
		},
		SilenceUsage: true,
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	addCommonFlags(cmd, &opts.commonOptions)
	return cmd
}

func runDownload(cmd *cobra.Command, args []string, opts *downloadOptions) error {
	cfg, err := loadConfig(&opts.commonOptions)
	if err != nil {
		return err
	}
	logChangedFlags(cmd)
	cfg.BucketName = args[0]
	if err := cfg.ValidateStore(); err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	bucket, err := openBucket(ctx, cfg, cfg.BucketName)
	if err != nil {
		return err
	}
	defer bucket.Close()

	paths, err := objectstore.NewGateway(bucket).ListAndDownload(ctx, args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Downloaded %d files to: %s\n", len(paths), args[1])
	return nil
}
