package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/stylekey/pkg/codec"
	"github.com/matzehuels/stylekey/pkg/errors"
	"github.com/matzehuels/stylekey/pkg/symbology"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// palette offers common colors in the picker. A color given on the command
// line is added in front if it is not one of these.
var palette = []string{
	"#000000", "#ffffff", "#808080", "#ff0000", "#ffa500", "#ffd700",
	"#ffff00", "#008000", "#008080", "#0000ff", "#000080", "#800080", "#a52a2a",
}

var widthSteps = []string{"0.0", "0.25", "0.5", "1.0", "1.5", "2.0", "3.0", "4.0", "5.0", "8.0", "10.0"}

// Field order in StyleFormModel.
const (
	fieldGeometry = iota
	fieldFillColor
	fieldFillStyle
	fieldDensity
	fieldStrokeColor
	fieldStrokeStyle
	fieldWidth
	fieldCount
)

// =============================================================================
// StyleFormModel - Interactive descriptor editor
// =============================================================================

type formField struct {
	label   string
	options []string
	index   int
}

func (f formField) value() string { return f.options[f.index] }

// StyleFormModel is the bubbletea model for picking every descriptor field.
// Up/down moves between fields and left/right cycles the current one.
type StyleFormModel struct {
	Fields    []formField
	Cursor    int
	Confirmed bool
}

// NewStyleFormModel seeds the form with l.
func NewStyleFormModel(l symbology.Labels) StyleFormModel {
	f := make([]formField, fieldCount)
	f[fieldGeometry] = newFormField("Geometry", names(symbology.Geometries()), l.Geometry)
	f[fieldFillColor] = newFormField("Fill color", palette, normalizeColor(l.FillColor))
	f[fieldFillStyle] = newFormField("Fill style", names(symbology.FillPatterns()), l.FillStyle)
	f[fieldDensity] = newFormField("Fill density", densitySteps(), strconv.Itoa(l.FillDensity))
	f[fieldStrokeColor] = newFormField("Stroke color", palette, normalizeColor(l.StrokeColor))
	f[fieldStrokeStyle] = newFormField("Stroke style", names(symbology.StrokePatterns()), l.StrokeStyle)
	f[fieldWidth] = newFormField("Stroke width", widthSteps, symbology.FormatFloat(l.StrokeLine))
	return StyleFormModel{Fields: f}
}

func newFormField(label string, options []string, current string) formField {
	i := slices.IndexFunc(options, func(o string) bool { return strings.EqualFold(o, current) })
	if i < 0 && current != "" {
		options = append([]string{current}, options...)
		i = 0
	}
	return formField{label: label, options: options, index: max(i, 0)}
}

func names[T fmt.Stringer](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.String()
	}
	return out
}

func densitySteps() []string {
	out := make([]string, 0, symbology.MaxFillDensity+1)
	for d := symbology.MinFillDensity; d <= symbology.MaxFillDensity; d++ {
		out = append(out, strconv.Itoa(d))
	}
	return out
}

func normalizeColor(s string) string {
	if c, err := symbology.ParseColor(s); err == nil {
		return c.Hex()
	}
	return s
}

// Labels returns the current selection.
func (m StyleFormModel) Labels() symbology.Labels {
	density, _ := strconv.Atoi(m.Fields[fieldDensity].value())
	width, _ := strconv.ParseFloat(m.Fields[fieldWidth].value(), 64)
	return symbology.Labels{
		Geometry:    m.Fields[fieldGeometry].value(),
		FillColor:   m.Fields[fieldFillColor].value(),
		FillStyle:   m.Fields[fieldFillStyle].value(),
		FillDensity: density,
		StrokeColor: m.Fields[fieldStrokeColor].value(),
		StrokeStyle: m.Fields[fieldStrokeStyle].value(),
		StrokeLine:  width,
	}
}

func (m StyleFormModel) Init() tea.Cmd {
	return nil
}

func (m StyleFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j", "tab":
		if m.Cursor < len(m.Fields)-1 {
			m.Cursor++
		}
	case "left", "h":
		m.Fields = m.cycle(-1)
	case "right", "l", " ":
		m.Fields = m.cycle(1)
	case "enter":
		if _, err := symbology.FromLabels(m.Labels()); err != nil {
			return m, nil
		}
		m.Confirmed = true
		return m, tea.Quit
	}
	return m, nil
}

// cycle returns a copy of the fields with the current one moved by step.
func (m StyleFormModel) cycle(step int) []formField {
	fields := slices.Clone(m.Fields)
	f := &fields[m.Cursor]
	n := len(f.options)
	f.index = ((f.index+step)%n + n) % n
	return fields
}

func (m StyleFormModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Build Symbology"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ field  ←/→ change  ⏎ encode  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, len(m.Fields))
	for i, f := range m.Fields {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows[i] = []string{cursor, f.label, fmt.Sprintf("‹ %s ›", f.value()), swatch(i, f.value())}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Field", "Value", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case row == m.Cursor:
				return listSelectedStyle
			default:
				return listNormalStyle
			}
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(m.status())
	b.WriteString("\n")
	return b.String()
}

// swatch draws a colored block next to color fields and the dash glyph
// next to stroke styles.
func swatch(field int, value string) string {
	switch field {
	case fieldFillColor, fieldStrokeColor:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(value)).Render("████")
	case fieldStrokeStyle:
		if s, err := symbology.ParseStrokePattern(value); err == nil {
			return listDimStyle.Render(s.Glyph())
		}
	case fieldFillStyle:
		if f, err := symbology.ParseFillPattern(value); err == nil && f.IsHatch() {
			return listDimStyle.Render(strings.Repeat(f.Glyph(), 4))
		}
	}
	return ""
}

// status previews the token the current selection encodes to.
func (m StyleFormModel) status() string {
	d, err := symbology.FromLabels(m.Labels())
	if err != nil {
		return StyleWarning.Render("  " + errors.UserMessage(err))
	}
	token, err := codec.Encode(d)
	if err != nil {
		return StyleWarning.Render("  " + errors.UserMessage(err))
	}
	return "  " + listDimStyle.Render("token ") + StyleHighlight.Render(token)
}
