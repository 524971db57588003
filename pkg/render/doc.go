// Package render holds the rendering surfaces annotations are drawn on.
//
// Both surfaces implement [tool.Renderer], so drawing tools and editors
// work on either without knowing which one they draw to:
//
//   - [svg]: SVG markup. Used by the `render` command and the HTTP server's
//     /render.svg endpoint.
//   - [term]: a terminal cell grid. Used by the interactive `draw` TUI.
//
// Static annotation sets are rendered with [svg.RenderAnnotations], which
// applies a [svg.DrawingStyle] per annotation:
//
//	out, err := svg.RenderAnnotations(list, img,
//	    svg.WithStyle(svg.DrawingStyle{Fill: "#1a73e8"}),
//	    svg.WithSelected(id))
//
// [tool.Renderer]: github.com/matzehuels/a9s/pkg/tool.Renderer
package render
