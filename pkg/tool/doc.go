// Package tool implements the interactive drawing and editing state
// machines of the annotator.
//
// # Drawing
//
// A [DrawingTool] creates a new shape. [RubberbandRect] is the click-drag
// rectangle tool:
//
//	Idle ──Start──▶ Anchored ──DragTo──▶ Dragging ──Finalize──▶ Finalized
//	  └──────────────────────── Cancel ─────────────────────────▶ Cancelled
//
// Its placeholder stays hidden until the first DragTo, so a plain click does
// not flash a zero-size box. [RubberbandPolygon] adds vertices on click.
//
// # Editing
//
// An [EditableShape] puts a persisted shape into edit mode. It exposes one
// body control and one handle per vertex (four corners for [EditableRect]).
// Grab captures the pointer offset, Move recomputes the geometry, redraws
// body, mask and handles, and synchronously emits the new geometry to every
// OnUpdate listener, in call order. Release ends the grab. Editors never
// persist anything themselves.
//
// For rectangles, dragging corner i keeps corner (i+2) mod 4 fixed and
// normalizes the pair with [geom.Normalize].
//
// # Collaborators
//
// Rendering is injected through [Renderer] and [Layer]; device coordinates
// are converted by a [CoordinateMapper] before any of these types see them.
// Nothing in this package touches a concrete rendering surface, so every
// state machine can be driven directly from tests.
package tool
