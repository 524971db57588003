package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/a9s/pkg/annotator"
	"github.com/matzehuels/a9s/pkg/errors"
	"github.com/matzehuels/a9s/pkg/render/term"
	"github.com/matzehuels/a9s/pkg/selector"
	"github.com/matzehuels/a9s/pkg/tool"
)

// Draw styles
var (
	drawStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
	drawErrorStyle  = lipgloss.NewStyle().Foreground(colorYellow)
	drawToolStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	drawHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// chromeRows is the number of rows below the canvas.
const chromeRows = 2

// =============================================================================
// DrawModel - Interactive annotation editor
// =============================================================================

// drawModel is the bubbletea model behind `a9s draw`. The canvas doubles as
// the annotator's coordinate mapper, so mouse cells arrive in image space.
type drawModel struct {
	ann    *annotator.Annotator
	canvas *term.Canvas
	img    selector.ImageContext
	status string
	err    error
}

func newDrawModel(source string, img selector.ImageContext, canvas *term.Canvas, opts ...annotator.Option) *drawModel {
	m := &drawModel{canvas: canvas, img: img}
	opts = append([]annotator.Option{annotator.WithImage(img), annotator.WithMapper(canvas)}, opts...)
	m.ann = annotator.New(source, canvas, opts...)
	m.ann.On(m.observe)
	return m
}

func (m *drawModel) observe(ev annotator.Event) {
	switch ev.Type {
	case annotator.EventCreate:
		m.status = "created " + shortID(ev.Annotation.ID)
	case annotator.EventUpdate:
		m.status = "updated " + shortID(ev.Annotation.ID)
	case annotator.EventDelete:
		m.status = "deleted " + shortID(ev.Annotation.ID)
	case annotator.EventSelectionChanged:
		if ev.Annotation.ID == "" {
			m.status = "selection cleared"
		} else {
			m.status = "selected " + shortID(ev.Annotation.ID)
		}
	}
}

func (m *drawModel) Init() tea.Cmd {
	return nil
}

func (m *drawModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		rows := max(msg.Height-chromeRows, 1)
		m.canvas.Resize(msg.Width, rows)
		m.canvas.SetViewport(term.Fit(m.img.Width, m.img.Height, msg.Width, rows))
	case tea.MouseMsg:
		m.mouse(msg)
	case tea.KeyMsg:
		return m, m.key(msg.String())
	}
	return m, nil
}

func (m *drawModel) mouse(msg tea.MouseMsg) {
	x, y := float64(msg.X), float64(msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.err = nil
			m.ann.PointerDown(x, y)
		}
	case tea.MouseActionMotion:
		m.ann.PointerMove(x, y)
	case tea.MouseActionRelease:
		m.ann.PointerUp(x, y)
	}
}

func (m *drawModel) key(k string) tea.Cmd {
	m.err = nil
	switch k {
	case "q", "ctrl+c":
		return tea.Quit
	case "r":
		m.err = m.ann.SetDrawingTool(tool.ToolRectangle)
	case "p":
		m.err = m.ann.SetDrawingTool(tool.ToolPolygon)
	case "m":
		mode := annotator.ModeClick
		if m.ann.DrawingMode() == annotator.ModeClick {
			mode = annotator.ModeDrag
		}
		m.err = m.ann.SetDrawingMode(mode)
	case "enter":
		_, m.err = m.ann.FinishDrawing()
	case "esc":
		if m.ann.Drawing() {
			m.ann.CancelDrawing()
			m.status = "drawing cancelled"
		} else {
			m.ann.CancelSelected()
		}
	case "d", "delete", "backspace":
		if !m.ann.DeleteSelected() {
			m.status = "nothing selected"
		}
	}
	return nil
}

func (m *drawModel) View() string {
	var b strings.Builder
	b.WriteString(m.canvas.Render())
	b.WriteString("\n")

	line := fmt.Sprintf("%s %s  %d annotations",
		drawToolStyle.Render(m.ann.DrawingTool()),
		drawStatusStyle.Render(string(m.ann.DrawingMode())),
		len(m.ann.Annotations()))
	switch {
	case m.err != nil:
		line += "  " + drawErrorStyle.Render(iconWarning+" "+errors.UserMessage(m.err))
	case m.status != "":
		line += "  " + drawStatusStyle.Render(m.status)
	}
	b.WriteString(line)
	b.WriteString("\n")
	b.WriteString(drawHelpStyle.Render("r rect  p polygon  m mode  ⏎ finish  esc cancel  d delete  q quit"))
	return b.String()
}

// =============================================================================
// Command
// =============================================================================

// drawCommand opens the interactive editor for one source.
func (c *CLI) drawCommand() *cobra.Command {
	var (
		source        string
		width, height float64
		toolName      string
		mode          string
	)
	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Draw and edit annotations in the terminal",
		Long: `Draw and edit annotations in the terminal.

Drag with the mouse to draw rectangles, or switch to the polygon tool and
click vertices. Click an annotation to select it, then drag its handles or
body to edit it. Every change is saved to the configured store.`,
		Example: `  a9s draw --source photo.jpg
  a9s draw --source photo.jpg --tool polygon --mode click`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if toolName == "" {
				toolName = cfg.Draw.Tool
			}
			if mode == "" {
				mode = cfg.Draw.Mode
			}

			img := c.resolveImage(cfg, source, width, height)
			if img.Width <= 0 || img.Height <= 0 {
				return errors.New(errors.ErrCodeInvalidInput, "image size unknown: pass --width and --height")
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

			canvas := term.NewCanvas(80, 22, term.Fit(img.Width, img.Height, 80, 22),
				term.WithColors(cfg.Style.Fill, cfg.Style.SelectedFill))
			m := newDrawModel(source, img, canvas,
				annotator.WithDrawingMode(annotator.DrawingMode(mode)),
				annotator.WithHandleRadius(cfg.Draw.HandleRadius),
				annotator.WithLogger(c.Logger),
			)
			defer m.ann.Destroy()
			if err := m.ann.SetDrawingTool(toolName); err != nil {
				return err
			}
			if err := m.ann.SetAnnotations(list); err != nil {
				return err
			}
			m.ann.On(annotator.Autosave(ctx, store, c.Logger))

			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("draw: %w", err)
			}
			printSuccess("%d annotations on %s", len(m.ann.Annotations()), source)
			return nil
		},
	}
	cmd.Flags().StringVarP(&source, "source", "s", "", "image the annotations belong to (required)")
	cmd.Flags().Float64Var(&width, "width", 0, "image width in pixels (read from the source when unset)")
	cmd.Flags().Float64Var(&height, "height", 0, "image height in pixels (read from the source when unset)")
	cmd.Flags().StringVarP(&toolName, "tool", "t", "", "drawing tool: rectangle or polygon")
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "drawing mode: drag or click")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}
