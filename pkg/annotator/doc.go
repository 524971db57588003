// Package annotator is a headless annotation surface.
//
// An [Annotator] owns a set of annotations on one source image and routes
// device pointer events to the right place:
//
//   - a press on the selected shape grabs one of its controls, moves drag
//     the control, and the release commits the new geometry
//   - a press on another annotation selects it
//   - a press on empty space starts a drawing tool (drag mode), or the
//     release does (click mode)
//
// Device coordinates pass through a [tool.CoordinateMapper] before any
// geometry math. Rendering goes to an injected [tool.Renderer], so the same
// annotator drives the SVG scene, the terminal canvas, or a test double.
//
// # Lifecycle events
//
// User actions produce events delivered synchronously to observers
// registered with [Annotator.On]:
//
//	createAnnotation   a drawing was finished
//	updateAnnotation   an edit was released after moving
//	deleteAnnotation   the selected annotation was deleted
//	selectionChanged   the selection changed
//	clickAnnotation    an annotation was clicked
//
// Programmatic changes (SetAnnotations, AddAnnotation, UpdateAnnotation,
// RemoveAnnotation) do not emit lifecycle events, so a store observer does
// not write back what it just loaded. [Autosave] is such an observer.
//
// An Annotator is not safe for concurrent use; call it from one event loop.
package annotator
