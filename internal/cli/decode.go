package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stylekey/pkg/pipeline"
)

// decodeCommand creates the decode command for printing a token's style.
func (c *CLI) decodeCommand() *cobra.Command {
	var (
		all     bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "decode <token>",
		Short: "Print the style a token encodes as JSON",
		Long: `Decode a token and print its style as JSON.

With --all the output also carries the matplotlib parameters and the
GeoServer SLD, CSS and REST payload, as served by the HTTP API.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			token := args[0]
			if all {
				art, err := runner.Artifact(ctx, token, pipeline.Options{Format: pipeline.FormatJSON})
				if err != nil {
					return err
				}
				fmt.Fprintln(stdout, string(art.Data))
				return nil
			}

			d, cached, err := runner.Resolve(ctx, token)
			if err != nil {
				return err
			}
			c.Logger.Debug("decoded", "token", token, "cached", cached)
			data, err := json.MarshalIndent(d, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, string(data))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "include every projection")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the cache")
	return cmd
}
