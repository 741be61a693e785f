package main

import (
	"fmt"
	"os"

	"github.com/oukeidos/imgtrans/internal/apperrors"
	"github.com/oukeidos/imgtrans/internal/cleanup"
	"github.com/oukeidos/imgtrans/internal/version"
	"github.com/spf13/cobra"
)

func execute() {
	cmd := newRootCmd()
	err := cmd.Execute()
	if cleanupErr := cleanup.RunAll(); cleanupErr != nil {
		fmt.Fprintln(os.Stderr, cleanupErr)
		if err == nil {
			err = cleanupErr
		}
	}
	if err != nil {
		if hint := errorHint(err); hint != "" {
			fmt.Fprintln(os.Stderr, hint)
		}
		os.Exit(1)
	}
}

// errorHint returns a follow-up line for errors the user fixes in their
// environment rather than by retrying.
func errorHint(err error) string {
	if apperrors.IsConfig(err) {
		return "Set the variable in the environment or in the file passed with --env (default .env)."
	}
	return ""
}

func newRootCmd() *cobra.Command {
	runOpts := runOptions{}

	cmd := &cobra.Command{
		Use:   "imgtrans",
		Short: "Translate the text in product images stored in a bucket",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				_ = cmd.Usage()
				return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
			}
			return runBatch(cmd, &runOpts)
		},
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
	}

	cmd.Version = version.Info()
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.SetUsageTemplate(rootUsageTemplate)

	addRunFlags(cmd, &runOpts)

	cmd.AddCommand(
		newRunCmd(),
		newDownloadCmd(),
		newTranslateCmd(),
		newLanguagesCmd(),
		newEnvCmd(),
		newAboutCmd(),
	)

	cmd.InitDefaultCompletionCmd()
	for _, sub := range cmd.Commands() {
		if sub.Name() == "completion" {
			sub.Short = "Generate shell completion scripts"
			sub.SetUsageTemplate(subcommandUsageTemplate)
			break
		}
	}

	return cmd
}
