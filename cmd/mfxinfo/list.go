package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the plugins of the bundle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := opts.bundle()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "INDEX\tIDENTIFIER\tAPI\tVERSION")
			for i := 0; i < b.NumberOfPlugins(); i++ {
				p, err := b.GetPlugin(i)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%d\t%s\t%s v%d\t%s\n",
					i, p.Info.Identifier, p.Info.PluginAPI, p.Info.APIVersion, p.Info.SemVer())
			}
			return w.Flush()
		},
	}
}
