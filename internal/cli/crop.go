package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/a9s/pkg/cache"
	"github.com/matzehuels/a9s/pkg/errors"
	"github.com/matzehuels/a9s/pkg/imaging"
	"github.com/matzehuels/a9s/pkg/selector"
)

// cropCommand exports the region of one annotation as PNG.
func (c *CLI) cropCommand() *cobra.Command {
	var (
		id      string
		value   string
		output  string
		scale   float64
		noCache bool
	)
	cmd := &cobra.Command{
		Use:   "crop IMAGE",
		Short: "Export an annotated region as PNG",
		Long: `Export an annotated region as PNG.

The region is given by a stored annotation (--id) or a selector value
(--selector). It is clamped to the image; pixels outside a polygon are
transparent.`,
		Example: `  a9s crop photo.jpg --selector xywh=pixel:10,10,40,70 -o region.png
  a9s crop photo.jpg --id 3f2a... --scale 2 -o region.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			sel := selectorFromValue(value)
			if id != "" {
				store, err := c.openStore(ctx, cfg)
				if err != nil {
					return err
				}
				ann, err := store.Get(ctx, id)
				store.Close()
				if err != nil {
					return err
				}
				sel = ann.Target.Selector
			}

			raw, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
			}
			rc, err := c.openCache(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer rc.Close()

			key := cache.CropKey(cache.Hash(raw), sel.Value, scale)
			data, hit, err := rc.Get(ctx, key)
			if err != nil {
				c.Logger.Warn("cache read failed", "err", err)
			}
			if !hit {
				img, err := imaging.Load(path)
				if err != nil {
					return err
				}
				g, err := selector.ParseIn(sel, imaging.Context(img, selector.UnitPixel))
				if err != nil {
					return err
				}
				res, err := imaging.Crop(img, g, scale)
				if err != nil {
					return err
				}
				data = res.PNG
				c.Logger.Debug("cropped", "width", res.Width, "height", res.Height)
				if err := rc.Set(ctx, key, data, 0); err != nil {
					c.Logger.Warn("cache write failed", "err", err)
				}
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", output)
			}
			printSuccess("Cropped %s", sel.Value)
			printFile(output)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "stored annotation to crop")
	cmd.Flags().StringVar(&value, "selector", "", "selector value to crop")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output PNG (default stdout)")
	cmd.Flags().Float64Var(&scale, "scale", 1, "resize factor")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the cache")
	cmd.MarkFlagsMutuallyExclusive("id", "selector")
	cmd.MarkFlagsOneRequired("id", "selector")
	return cmd
}
