package cli

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stylekey/pkg/pipeline"
)

// exportOpts holds the flags of the export command.
type exportOpts struct {
	formats   string
	output    string
	name      string
	layerName string
	styleName string
	size      int
	refresh   bool
	noCache   bool
}

// exportCommand creates the export command for writing artifacts to disk.
func (c *CLI) exportCommand() *cobra.Command {
	var opts exportOpts

	cmd := &cobra.Command{
		Use:   "export <token>",
		Short: "Write a token's styles and previews to files",
		Long: `Export writes one file per requested format:

  json   every projection in one document   <name>.json
  sld    OGC Styled Layer Descriptor        <name>.sld
  css    GeoServer CSS                      <name>.css
  rest   GeoServer REST upload payload      <name>.rest.json
  png    raster preview                     <name>.png
  pdf    vector preview                     <name>.pdf`,
		Example: `  stylekey export 1edV5UHMF2NcFhGXg
  stylekey export 1edV5UHMF2NcFhGXg --formats sld,png --size 400 -o styles/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.formats, "formats", "f", "all", "comma-separated formats, or all")
	f.StringVarP(&opts.output, "output", "o", ".", "output directory")
	f.StringVarP(&opts.name, "name", "n", "", "file name without extension (default: the token)")
	f.StringVar(&opts.layerName, "layer-name", "", "SLD layer name (default from config)")
	f.StringVar(&opts.styleName, "style-name", "", "REST style name (default from config)")
	f.IntVar(&opts.size, "size", 0, "preview edge length, 50-1000 (default 200)")
	f.BoolVar(&opts.refresh, "refresh", false, "re-render even if cached")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runExport(cmd *cobra.Command, token string, opts exportOpts) error {
	ctx := cmd.Context()

	formats, err := pipeline.ParseFormats(opts.formats)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	base := pipeline.Options{
		LayerName: cmp.Or(opts.layerName, c.Config.Style.DefaultLayer),
		StyleName: cmp.Or(opts.styleName, c.Config.Style.StyleName),
		Size:      opts.size,
		Refresh:   opts.refresh,
	}

	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %d formats...", len(formats)))
	spinner.Start()
	arts, err := runner.Artifacts(ctx, token, formats, base)
	spinner.Stop()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(opts.output, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	name := cmp.Or(opts.name, token)
	var total int
	allCached := true
	paths := make([]string, 0, len(arts))
	for _, art := range arts {
		path := filepath.Join(opts.output, art.Filename(name))
		if err := os.WriteFile(path, art.Data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
		total += len(art.Data)
		allCached = allCached && art.CacheHit
	}
	prog.done(fmt.Sprintf("Exported %s", token))

	printSuccess("Exported %s", StyleHighlight.Render(token))
	for _, p := range paths {
		printFile(p)
	}
	printStats(len(paths), total, allCached)
	return nil
}
