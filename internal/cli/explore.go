package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dotplot/pkg/errors"
	"github.com/matzehuels/dotplot/pkg/interact"
	"github.com/matzehuels/dotplot/pkg/model"
	"github.com/matzehuels/dotplot/pkg/pipeline"
	"github.com/matzehuels/dotplot/pkg/render"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

type exploreOpts struct {
	inputOpts
	save string
}

func (c *CLI) exploreCommand() *cobra.Command {
	var opts exploreOpts

	cmd := &cobra.Command{
		Use:   "explore <data>",
		Short: "Click, hover and filter the chart in the terminal",
		Long: `Step through the dots of a chart and drive the same interaction state
the browser script uses: click to select, hover to raise a dot, number keys
to toggle legend colors, c to clear.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: dataFileArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd.Context(), args[0], &opts)
		},
	}

	opts.addFlags(cmd.Flags())
	cmd.Flags().StringVar(&opts.save, "save", "", "write the chart in its final state to this SVG file")

	return cmd
}

func (c *CLI) runExplore(ctx context.Context, input string, o *exploreOpts) error {
	dv, opts, err := c.loadInput(input, o.inputOpts)
	if err != nil {
		return err
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	runner, err := c.newRunner(false)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := runner.Update(ctx, dv, opts)
	if err != nil {
		return err
	}
	if res.Degraded != nil {
		return res.Degraded
	}

	frame := render.Frame{
		Collection: res.Collection,
		Geometry:   res.Geometry,
		Settings:   opts.Settings,
		Viewport:   opts.Viewport(),
	}
	ctl := interact.New(interact.NewMemorySelection(), interact.OptionsFrom(opts.Settings, res.Collection.Flags))
	ctl.Reset(interact.MarksFrom(res.Collection, opts.Settings, frame.PointColor), interact.LegendFrom(res.Collection))

	m := newExploreModel(ctx, input, res.Collection, ctl)
	if _, err := tea.NewProgram(m, tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("explore: %w", err)
	}

	if o.save == "" {
		return nil
	}
	snap := ctl.Snapshot()
	artifacts, err := pipeline.RenderFrame(frame, pipeline.RenderOptions{
		ElementID: pipeline.ElementID(res.InputHash),
		Formats:   []string{pipeline.FormatSVG},
		Snapshot:  &snap,
	})
	if err != nil {
		return err
	}
	if err := os.WriteFile(o.save, artifacts[pipeline.FormatSVG], 0o644); err != nil {
		return fmt.Errorf("write %s: %w", o.save, err)
	}
	printFile(o.save)
	return nil
}

// =============================================================================
// exploreModel - Interactive dot navigation
// =============================================================================

// exploreModel is the bubbletea model of the explore command. The controller
// is shared, so copies of the model see the same interaction state.
type exploreModel struct {
	ctx    context.Context
	title  string
	points []model.DataPoint
	ctl    *interact.Controller

	cursor  int
	offset  int
	height  int
	hovered bool
	status  string
}

func newExploreModel(ctx context.Context, title string, c *model.Collection, ctl *interact.Controller) exploreModel {
	return exploreModel{ctx: ctx, title: title, points: c.Points, ctl: ctl, height: 15}
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.status = ""
		switch key := msg.String(); key {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "h":
			m.hovered = !m.hovered
			if m.hovered {
				m.ctl.Hover(m.cursor)
			} else {
				m.ctl.Mouseout()
			}
		case "enter", " ":
			if len(m.points) == 0 {
				break
			}
			m.report(m.ctl.Click(m.ctx, m.cursor), "selected "+label(m.points[m.cursor]))
		case "c":
			m.hovered = false
			m.report(m.ctl.DocumentClick(m.ctx), "cleared")
		default:
			if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
				m.legendClick(int(key[0] - '1'))
			}
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m *exploreModel) move(delta int) {
	next := m.cursor + delta
	if next < 0 || next >= len(m.points) {
		return
	}
	m.cursor = next
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	if m.hovered {
		m.ctl.Mouseout()
		m.ctl.Hover(m.cursor)
	}
}

func (m *exploreModel) legendClick(i int) {
	legend := m.ctl.Snapshot().Legend
	if i >= len(legend) {
		return
	}
	m.report(m.ctl.LegendClick(m.ctx, legend[i].Label), "toggled "+legend[i].Label)
}

func (m *exploreModel) report(err error, ok string) {
	if err != nil {
		m.status = StyleWarning.Render(errors.UserMessage(err))
		return
	}
	m.status = ok
}

func (m exploreModel) View() string {
	var b strings.Builder
	snap := m.ctl.Snapshot()

	b.WriteString(StyleTitle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ move  ⏎ click  h hover  1-9 legend  c clear  q quit"))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.points))
	for i := m.offset; i < end; i++ {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-32s %10s  %s", cursor, label(m.points[i]),
			fmt.Sprintf("%g", m.points[i].Value), opacityBar(snap.Marks[i].Opacity))

		switch {
		case i == m.cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case snap.Marks[i].Opacity <= interact.DimOpacity:
			b.WriteString(listDimStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if len(snap.Legend) > 0 {
		b.WriteString("\n")
		for i, l := range snap.Legend {
			item := fmt.Sprintf("%d %s", i+1, l.Label)
			if l.Opacity < 1 {
				item = listDimStyle.Render(item)
			}
			b.WriteString(item + "   ")
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.points))))
	if snap.ClickActive {
		b.WriteString(StyleNumber.Render("  selection active"))
	}
	if m.status != "" {
		b.WriteString("  " + m.status)
	}
	return b.String()
}

// label joins the non-empty category roles of p.
func label(p model.DataPoint) string {
	var parts []string
	for _, s := range []string{p.XCategoryParent, p.CategoryGroup, p.Category} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " / ")
}

// opacityBar draws opacity as a ten-cell bar.
func opacityBar(o float64) string {
	n := int(o*10 + 0.5)
	return strings.Repeat("█", n) + strings.Repeat("·", 10-n)
}
