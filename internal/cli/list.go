package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// listCommand prints the stored annotations of a source.
func (c *CLI) listCommand() *cobra.Command {
	var (
		source string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored annotations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, err := c.openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			list, err := store.List(ctx, source)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(list)
			}
			if len(list) == 0 {
				printInfo("No annotations")
				return nil
			}
			fmt.Fprintln(out, annotationTable(list))
			return nil
		},
	}
	cmd.Flags().StringVarP(&source, "source", "s", "", "only annotations on this source")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
