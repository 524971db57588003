package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/a9s/pkg/annotation"
	"github.com/matzehuels/a9s/pkg/cache"
	"github.com/matzehuels/a9s/pkg/config"
	"github.com/matzehuels/a9s/pkg/errors"
	"github.com/matzehuels/a9s/pkg/imaging"
	"github.com/matzehuels/a9s/pkg/render/svg"
	"github.com/matzehuels/a9s/pkg/selector"
)

// renderOpts holds options for the render command.
type renderOpts struct {
	source     string
	input      string
	output     string
	selected   string
	width      float64
	height     float64
	background bool
	noCache    bool
}

// renderCommand draws the annotations of a source as SVG.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render annotations as SVG",
		Long: `Render annotations as SVG.

Annotations come from the configured store, or from a JSON file with --input.
The image size is taken from --width/--height, the source image itself, or
the [image] config section, in that order.`,
		Example: `  a9s render -s photo.jpg -o photo.svg
  a9s render -s photo.jpg -i annotations.json --selected 3f2a... --background`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.runRender(cmd, cfg, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.source, "source", "s", "", "annotated source image")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "read annotations from a JSON file instead of the store")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&opts.selected, "selected", "", "draw this annotation as selected")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "image width in pixels")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "image height in pixels")
	cmd.Flags().BoolVar(&opts.background, "background", false, "embed a reference to the source image")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, cfg config.Config, opts renderOpts) error {
	ctx := cmd.Context()
	prog := newProgress(c.Logger)

	list, err := c.loadAnnotations(ctx, cfg, opts.source, opts.input)
	if err != nil {
		return err
	}
	img := c.resolveImage(cfg, opts.source, opts.width, opts.height)

	content, err := json.Marshal(list)
	if err != nil {
		return err
	}
	style, selected := renderStyles(cfg)
	key := cache.RenderKey(opts.source, cache.Hash(content), cache.RenderKeyOpts{
		Width:    img.Width,
		Height:   img.Height,
		Style:    svg.ComputeStyle(&style) + svg.ComputeStyle(&selected) + fmt.Sprint(opts.background),
		Selected: []string{opts.selected},
	})

	rc, err := c.openCache(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer rc.Close()

	data, hit, err := rc.Get(ctx, key)
	if err != nil {
		c.Logger.Warn("cache read failed", "err", err)
	}
	if !hit {
		ropts := []svg.RenderOption{
			svg.WithStyle(style),
			svg.WithSelectedStyle(selected),
			svg.WithSelected(opts.selected),
		}
		if opts.background {
			ropts = append(ropts, svg.WithSceneOptions(svg.WithBackground(opts.source)))
		}
		data, err = svg.RenderAnnotations(list, img, ropts...)
		if err != nil {
			return err
		}
		if err := rc.Set(ctx, key, data, cfg.Server.RenderTTL.Duration); err != nil {
			c.Logger.Warn("cache write failed", "err", err)
		}
	}
	c.Logger.Debug("render", "annotations", len(list), "cached", hit)

	if opts.output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", opts.output)
	}
	prog.done(fmt.Sprintf("Rendered %d annotations", len(list)))
	printFile(opts.output)
	return nil
}

// loadAnnotations reads annotations of source from a JSON file, or from the
// store when file is empty.
func (c *CLI) loadAnnotations(ctx context.Context, cfg config.Config, source, file string) ([]annotation.Annotation, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", file)
		}
		var list []annotation.Annotation
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", file)
		}
		return list, nil
	}

	store, err := c.openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.List(ctx, source)
}

// resolveImage picks the image context: explicit size, then the decoded
// source image, then the config.
func (c *CLI) resolveImage(cfg config.Config, source string, width, height float64) selector.ImageContext {
	img := imageContext(cfg, width, height, "")
	if width > 0 && height > 0 {
		return img
	}
	if _, err := os.Stat(source); err != nil {
		return img
	}
	src, err := imaging.Load(source)
	if err != nil {
		c.Logger.Debug("cannot read image size", "source", source, "err", err)
		return img
	}
	return imaging.Context(src, img.Unit)
}

func renderStyles(cfg config.Config) (style, selected svg.DrawingStyle) {
	style = svg.DrawingStyle{Fill: cfg.Style.Fill, FillOpacity: cfg.Style.FillOpacity}
	selected = svg.DrawingStyle{Fill: cfg.Style.SelectedFill, FillOpacity: cfg.Style.FillOpacity}
	return style, selected
}
