package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stylekey/pkg/symbology"
)

// patternsCommand creates the patterns command listing the enumerations.
func (c *CLI) patternsCommand() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:       "patterns [geometry|fill|stroke]",
		Short:     "List geometries, fill patterns and stroke patterns",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"geometry", "fill", "stroke"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				kind = args[0]
			}
			for _, k := range []string{"geometry", "fill", "stroke"} {
				if kind != "" && kind != k {
					continue
				}
				fmt.Fprintln(stdout, patternTable(k))
			}
			return nil
		},
	}
	return cmd
}

// patternTable renders the catalog of one enumeration.
func patternTable(kind string) string {
	var (
		title   string
		headers []string
		rows    [][]string
	)
	switch kind {
	case "geometry":
		title = "Geometries"
		headers = []string{"Code", "Name"}
		for _, g := range symbology.Geometries() {
			rows = append(rows, []string{strconv.Itoa(int(g.Code())), g.String()})
		}
	case "fill":
		title = "Fill patterns"
		headers = []string{"Code", "Name", "Glyph", "SLD mark"}
		for _, f := range symbology.FillPatterns() {
			glyph, mark := "", "-"
			if f.IsHatch() {
				glyph, mark = f.Glyph(), f.Mark()
			}
			rows = append(rows, []string{strconv.Itoa(int(f.Code())), f.String(), glyph, mark})
		}
	case "stroke":
		title = "Stroke patterns"
		headers = []string{"Code", "Name", "Glyph", "Dash array", "Line style"}
		for _, s := range symbology.StrokePatterns() {
			dash := s.DashArray()
			if dash == "" {
				dash = "-"
			}
			rows = append(rows, []string{strconv.Itoa(int(s.Code())), s.String(), s.Glyph(), dash, s.Hint().String()})
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle.Padding(0, 1)
			case col == 0:
				return cell.Inherit(StyleNumber).Align(lipgloss.Right)
			case col == 1:
				return cell.Inherit(StyleValue)
			default:
				return cell.Inherit(StyleDim)
			}
		})

	return StyleTitle.Render(title) + "\n" + t.Render()
}
