package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/a9s/pkg/errors"
	"github.com/matzehuels/a9s/pkg/geom"
	"github.com/matzehuels/a9s/pkg/selector"
)

// selectorOpts holds the image flags shared by the selector subcommands.
type selectorOpts struct {
	width, height float64
	unit          string
	json          bool
}

func (o *selectorOpts) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&o.width, "width", 0, "image width in pixels (needed for percent)")
	cmd.Flags().Float64Var(&o.height, "height", 0, "image height in pixels (needed for percent)")
	cmd.Flags().BoolVar(&o.json, "json", false, "print JSON")
}

// selectorCommand groups the selector codec commands.
func (c *CLI) selectorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "selector",
		Short: "Parse and serialize W3C selectors",
	}
	cmd.AddCommand(c.selectorParseCommand())
	cmd.AddCommand(c.selectorSerializeCommand())
	return cmd
}

func (c *CLI) selectorParseCommand() *cobra.Command {
	var opts selectorOpts
	cmd := &cobra.Command{
		Use:   "parse VALUE",
		Short: "Parse a fragment or SVG selector value into geometry",
		Example: `  a9s selector parse xywh=pixel:10,10,40,70
  a9s selector parse 'xywh=percent:10,10,50,50' --width 200 --height 100
  a9s selector parse '<svg><polygon points="0,0 10,0 0,10"></polygon></svg>'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			img := imageContext(cfg, opts.width, opts.height, "")
			g, err := selector.ParseIn(selectorFromValue(args[0]), img)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return json.NewEncoder(out).Encode(g)
			}
			fmt.Fprintf(out, "%s %v\n", g.ShapeType(), g)
			return nil
		},
	}
	opts.register(cmd)
	return cmd
}

func (c *CLI) selectorSerializeCommand() *cobra.Command {
	var (
		opts    selectorOpts
		rect    string
		polygon string
	)
	cmd := &cobra.Command{
		Use:   "serialize",
		Short: "Serialize a rectangle or polygon into a selector",
		Example: `  a9s selector serialize --rect 10,10,40,70
  a9s selector serialize --rect 20,10,100,50 --unit percent --width 200 --height 100
  a9s selector serialize --polygon "0,0 10,0 0,10"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			g, err := geometryFromFlags(rect, polygon)
			if err != nil {
				return err
			}
			sel, err := selector.Serialize(g, imageContext(cfg, opts.width, opts.height, opts.unit))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return json.NewEncoder(out).Encode(sel)
			}
			fmt.Fprintln(out, sel.Value)
			return nil
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVar(&opts.unit, "unit", "", "fragment unit: pixel or percent")
	cmd.Flags().StringVar(&rect, "rect", "", "rectangle as x,y,w,h")
	cmd.Flags().StringVar(&polygon, "polygon", "", `polygon as "x,y x,y x,y ..."`)
	cmd.MarkFlagsMutuallyExclusive("rect", "polygon")
	cmd.MarkFlagsOneRequired("rect", "polygon")
	return cmd
}

// selectorFromValue infers the selector type from its value.
func selectorFromValue(v string) selector.Selector {
	if strings.HasPrefix(strings.TrimSpace(v), "<svg") {
		return selector.Selector{Type: selector.TypeSVG, Value: v}
	}
	return selector.Selector{Type: selector.TypeFragment, ConformsTo: selector.MediaFragmentsSpec, Value: v}
}

// geometryFromFlags parses --rect or --polygon.
func geometryFromFlags(rect, polygon string) (geom.Geometry, error) {
	if rect != "" {
		v, err := parseFloats(rect, ",")
		if err != nil || len(v) != 4 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "--rect wants x,y,w,h, got %q", rect)
		}
		r := geom.Rect{X: v[0], Y: v[1], W: v[2], H: v[3]}
		if err := r.Validate(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGeometry, err, "%v", err)
		}
		return r, nil
	}

	var p geom.Polygon
	for _, pair := range strings.Fields(polygon) {
		v, err := parseFloats(pair, ",")
		if err != nil || len(v) != 2 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "--polygon vertex %q is not x,y", pair)
		}
		p.Points = append(p.Points, geom.Point{X: v[0], Y: v[1]})
	}
	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGeometry, err, "%v", err)
	}
	return p, nil
}

func parseFloats(s, sep string) ([]float64, error) {
	parts := strings.Split(s, sep)
	out := make([]float64, len(parts))
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}
