package main

import (
	"fmt"

	"github.com/oukeidos/imgtrans/internal/version"
	"github.com/spf13/cobra"
)

func newAboutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "about",
		Short: "Show a short description and version",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "imgtrans: translates the text in product images with Gemini, keeping the layout")
			fmt.Fprintln(out, version.Info())
			fmt.Fprintln(out, "https://github.com/oukeidos/imgtrans")
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}
