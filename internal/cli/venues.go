package cli

import (
	"github.com/spf13/cobra"
)

func (a *app) newVenuesCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "venues",
		Short: "List the registered venue sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format)
			if err != nil {
				return err
			}
			return writeSources(a.out, a.registry().All(), f)
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")
	return cmd
}
