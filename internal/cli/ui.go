package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/knapset/pkg/instance"
	"github.com/matzehuels/knapset/pkg/solver"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand  = lipgloss.NewStyle().Foreground(colorBlue)
	styleHeader   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleChosen   = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Reports
// =============================================================================

func fprintKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printInstanceReport lists the instance: its totals, every vertex with its
// degree and neighbors, and the edge list.
func printInstanceReport(w io.Writer, g *instance.Instance) {
	fmt.Fprintln(w, StyleTitle.Render("Instance "+g.Name))
	fprintKeyValue(w, "capacity", strconv.Itoa(g.Capacity))
	fprintKeyValue(w, "vertices", strconv.Itoa(g.VertexCount()))
	fprintKeyValue(w, "edges", strconv.Itoa(g.EdgeCount()))

	rows := make([][]string, 0, g.VertexCount())
	for _, v := range g.Vertices() {
		rows = append(rows, []string{
			v.ID,
			strconv.Itoa(v.Weight),
			strconv.Itoa(v.Value),
			formatRatio(v),
			strconv.Itoa(g.Degree(v.ID)),
			strings.Join(g.Neighbors(v.ID), " "),
		})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("Vertex", "Weight", "Value", "Ratio", "Degree", "Adjacent").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	fmt.Fprintln(w, t.Render())

	if g.EdgeCount() > 0 {
		edges := make([]string, 0, g.EdgeCount())
		for _, e := range g.Edges() {
			edges = append(edges, e.U+"-"+e.V)
		}
		fmt.Fprintln(w, StyleDim.Render("edges: "+strings.Join(edges, " ")))
	}
}

func formatRatio(v instance.Vertex) string {
	if v.Weight == 0 {
		if v.Value == 0 {
			return "0"
		}
		return "inf"
	}
	return strconv.FormatFloat(float64(v.Value)/float64(v.Weight), 'f', 2, 64)
}

// printSolution prints the chosen vertices, their totals, and search stats.
func printSolution(w io.Writer, g *instance.Instance, res solver.Result, cached bool) {
	fmt.Fprintln(w, StyleTitle.Render("Solution"))

	chosen := make(map[string]bool, len(res.Vertices))
	for _, id := range res.Vertices {
		chosen[id] = true
	}
	rows := make([][]string, 0, len(res.Vertices))
	for _, id := range res.Vertices {
		v, _ := g.Vertex(id)
		rows = append(rows, []string{v.ID, strconv.Itoa(v.Weight), strconv.Itoa(v.Value)})
	}
	if len(rows) > 0 {
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(StyleDim).
			Headers("Vertex", "Weight", "Value").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == -1 {
					return styleHeader
				}
				if col == 0 {
					return styleChosen.Padding(0, 1)
				}
				return lipgloss.NewStyle().Padding(0, 1)
			})
		fmt.Fprintln(w, t.Render())
	} else {
		fmt.Fprintln(w, StyleDim.Render("(empty set)"))
	}

	fprintKeyValue(w, "vertices", strings.Join(res.Vertices, " "))
	fprintKeyValue(w, "weight", fmt.Sprintf("%d / %d", res.Weight, g.Capacity))
	fprintKeyValue(w, "value", StyleNumber.Render(strconv.Itoa(res.Value)))
	if !res.Optimal {
		fprintKeyValue(w, "optimal", StyleWarning.Render("no (search stopped early)"))
	}
	printStats(w, res.Stats, cached)
}

// printStats prints search statistics on a single line.
func printStats(w io.Writer, s solver.Stats, cached bool) {
	parts := []string{
		fmt.Sprintf("%d steps", s.Steps),
		fmt.Sprintf("%d prunes", s.Prunes),
		fmt.Sprintf("depth %d", s.MaxDepth),
		s.Duration.Round(time.Microsecond).String(),
	}

	status, statusStyle := iconFresh, styleComputed
	if cached {
		status, statusStyle = iconCached, styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Fprintln(w, line+StyleDim.Render(" · ")+statusStyle.Render(status))
}
