package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/a9s/pkg/annotation"
	"github.com/matzehuels/a9s/pkg/annotator"
	"github.com/matzehuels/a9s/pkg/errors"
	"github.com/matzehuels/a9s/pkg/geom"
	"github.com/matzehuels/a9s/pkg/render/svg"
	"github.com/matzehuels/a9s/pkg/selector"
)

// Replay step types.
const (
	stepDown     = "down"
	stepMove     = "move"
	stepUp       = "up"
	stepFinish   = "finish"
	stepCancel   = "cancel"
	stepTool     = "tool"
	stepMode     = "mode"
	stepDeselect = "deselect"
	stepDelete   = "delete"
)

// replayStep is one recorded input. X and Y are device coordinates.
type replayStep struct {
	Type string  `json:"type"`
	X    float64 `json:"x,omitempty"`
	Y    float64 `json:"y,omitempty"`
	Name string  `json:"name,omitempty"`
}

// replayScript is a recorded session. A bare JSON array of steps is also
// accepted.
type replayScript struct {
	Source      string                  `json:"source"`
	Image       selector.ImageContext   `json:"image"`
	Viewport    *geom.Viewport          `json:"viewport,omitempty"`
	Tool        string                  `json:"tool,omitempty"`
	Mode        annotator.DrawingMode   `json:"mode,omitempty"`
	Annotations []annotation.Annotation `json:"annotations,omitempty"`
	Steps       []replayStep            `json:"steps"`
}

func parseReplayScript(data []byte) (replayScript, error) {
	var script replayScript
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &script.Steps); err != nil {
			return script, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse replay steps")
		}
		return script, nil
	}
	if err := json.Unmarshal(data, &script); err != nil {
		return script, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse replay script")
	}
	return script, nil
}

// runReplay feeds the steps through a. Failing steps stop the replay.
func runReplay(a *annotator.Annotator, steps []replayStep) error {
	for i, s := range steps {
		var err error
		switch s.Type {
		case stepDown:
			a.PointerDown(s.X, s.Y)
		case stepMove:
			a.PointerMove(s.X, s.Y)
		case stepUp:
			a.PointerUp(s.X, s.Y)
		case stepFinish:
			_, err = a.FinishDrawing()
		case stepCancel:
			a.CancelDrawing()
		case stepTool:
			err = a.SetDrawingTool(s.Name)
		case stepMode:
			err = a.SetDrawingMode(annotator.DrawingMode(s.Name))
		case stepDeselect:
			a.CancelSelected()
		case stepDelete:
			a.DeleteSelected()
		default:
			err = errors.New(errors.ErrCodeInvalidInput, "unknown step type %q", s.Type)
		}
		if err != nil {
			return errors.Wrap(errors.GetCode(err), err, "step %d (%s)", i, s.Type)
		}
	}
	return nil
}

// replayCommand runs a recorded pointer session through a headless
// annotator.
func (c *CLI) replayCommand() *cobra.Command {
	var (
		source     string
		showEvents bool
		save       bool
		svgOut     string
	)
	cmd := &cobra.Command{
		Use:   "replay FILE",
		Short: "Replay recorded pointer events through the annotator",
		Long: `Replay recorded pointer events through the annotator.

FILE holds a JSON array of steps, or an object with "source", "image",
"viewport", "tool", "mode", "annotations" and "steps". Step types are
down, move, up (with x and y), finish, cancel, deselect, delete, and tool
or mode (with name). Use - to read stdin.

The resulting annotations are printed as JSON.`,
		Example: `  echo '[{"type":"down","x":10,"y":10},{"type":"move","x":50,"y":80},{"type":"up","x":50,"y":80}]' | a9s replay -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			var data []byte
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", args[0])
			}
			script, err := parseReplayScript(data)
			if err != nil {
				return err
			}
			if source != "" {
				script.Source = source
			}
			if script.Source == "" {
				script.Source = "replay"
			}
			if script.Image == (selector.ImageContext{}) {
				script.Image = imageContext(cfg, 0, 0, "")
			}
			if script.Mode == "" {
				script.Mode = annotator.DrawingMode(cfg.Draw.Mode)
			}
			if script.Tool == "" {
				script.Tool = cfg.Draw.Tool
			}

			scene := svg.NewScene(script.Image.Width, script.Image.Height)
			opts := []annotator.Option{
				annotator.WithImage(script.Image),
				annotator.WithLogger(c.Logger),
				annotator.WithDrawingMode(script.Mode),
				annotator.WithHandleRadius(cfg.Draw.HandleRadius),
			}
			if script.Viewport != nil {
				opts = append(opts, annotator.WithMapper(*script.Viewport))
			}
			a := annotator.New(script.Source, scene, opts...)
			defer a.Destroy()
			if err := a.SetDrawingTool(script.Tool); err != nil {
				return err
			}
			if err := a.SetAnnotations(script.Annotations); err != nil {
				return err
			}

			if showEvents {
				a.On(func(ev annotator.Event) {
					c.Logger.Info(string(ev.Type), "id", ev.Annotation.ID, "selector", ev.Annotation.Target.Selector.Value)
				})
			}
			if save {
				store, err := c.openStore(ctx, cfg)
				if err != nil {
					return err
				}
				defer store.Close()
				a.On(annotator.Autosave(ctx, store, c.Logger))
			}

			if err := runReplay(a, script.Steps); err != nil {
				return err
			}

			if svgOut != "" {
				if err := os.WriteFile(svgOut, scene.Bytes(), 0o644); err != nil {
					return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", svgOut)
				}
				c.Logger.Debug("wrote scene", "path", svgOut)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(a.Annotations()); err != nil {
				return fmt.Errorf("encode annotations: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&source, "source", "s", "", "source of new annotations (overrides the script)")
	cmd.Flags().BoolVar(&showEvents, "events", false, "log lifecycle events")
	cmd.Flags().BoolVar(&save, "save", false, "write created, updated and deleted annotations to the store")
	cmd.Flags().StringVar(&svgOut, "svg", "", "write the final scene, editor included, as SVG")
	return cmd
}
