package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stylekey/pkg/symbology"
)

// encodeOpts holds the flags of the encode command.
type encodeOpts struct {
	labels      symbology.Labels
	interactive bool
	quiet       bool
	noCache     bool
}

// encodeCommand creates the encode command for turning a style into a token.
func (c *CLI) encodeCommand() *cobra.Command {
	opts := encodeOpts{
		labels: symbology.Labels{
			Geometry:    symbology.Polygon.String(),
			FillColor:   "#808080",
			FillStyle:   symbology.FillSolid.String(),
			StrokeColor: "#000000",
			StrokeStyle: symbology.StrokeSolid.String(),
			StrokeLine:  1.0,
		},
	}

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a feature style into a token",
		Long: `Encode a feature style into a 17-character token.

Colors accept #rgb, #rrggbb, rgb(r, g, b), r,g,b and CSS names. Fill styles
accept pattern names (SLASH, DOT, ...) or their hatch glyphs (/, ., ...).
Run "stylekey patterns" to list every pattern.`,
		Example: `  stylekey encode --geometry polygon --fill-color red --stroke-style dashed --width 2
  stylekey encode -i`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEncode(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.labels.Geometry, "geometry", "g", opts.labels.Geometry, "geometry: POLYGON, LINE or POINT")
	f.StringVar(&opts.labels.FillColor, "fill-color", opts.labels.FillColor, "fill color")
	f.StringVar(&opts.labels.FillStyle, "fill-style", opts.labels.FillStyle, "fill pattern name or hatch glyph")
	f.IntVar(&opts.labels.FillDensity, "density", opts.labels.FillDensity, "hatch density (0-10)")
	f.StringVar(&opts.labels.StrokeColor, "stroke-color", opts.labels.StrokeColor, "stroke color")
	f.StringVar(&opts.labels.StrokeStyle, "stroke-style", opts.labels.StrokeStyle, "stroke pattern name")
	f.Float64VarP(&opts.labels.StrokeLine, "width", "w", opts.labels.StrokeLine, "stroke width (0-50)")
	f.BoolVarP(&opts.interactive, "interactive", "i", false, "pick values in an interactive form")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "print only the token")
	f.BoolVar(&opts.noCache, "no-cache", false, "do not record the token in the cache")

	return cmd
}

func (c *CLI) runEncode(cmd *cobra.Command, opts encodeOpts) error {
	ctx := cmd.Context()
	labels := opts.labels

	if opts.interactive {
		p := tea.NewProgram(NewStyleFormModel(labels), tea.WithContext(ctx))
		finalModel, err := p.Run()
		if err != nil {
			return err
		}
		fm, ok := finalModel.(StyleFormModel)
		if !ok || !fm.Confirmed {
			printDetail("No style encoded")
			return nil
		}
		labels = fm.Labels()
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	created, err := runner.Create(ctx, labels)
	if err != nil {
		return err
	}

	if opts.quiet {
		fmt.Fprintln(stdout, created.Token)
		return nil
	}
	printSuccess("Encoded %s", StyleHighlight.Render(created.Token))
	printDescriptor(created.Descriptor)
	printNewline()
	printNextStep("Export it", "stylekey export "+created.Token)
	return nil
}

// printDescriptor lists the canonical fields of d.
func printDescriptor(d symbology.Descriptor) {
	l := d.Labels()
	printKeyValue("geometry", l.Geometry)
	printKeyValue("fill color", l.FillColor)
	printKeyValue("fill style", l.FillStyle)
	printKeyValue("fill density", fmt.Sprint(l.FillDensity))
	printKeyValue("stroke color", l.StrokeColor)
	printKeyValue("stroke style", l.StrokeStyle)
	printKeyValue("stroke width", symbology.FormatFloat(l.StrokeLine))
}
