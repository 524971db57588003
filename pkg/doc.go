// Package pkg provides the libraries behind a9s, a toolkit for drawing and
// editing rectangle and polygon annotations on images.
//
// # Overview
//
// The pkg directory is organized bottom-up:
//
//  1. [geom] - Points, rectangles, polygons, corners and viewports
//  2. [selector] - The W3C selector codec (FragmentSelector, SvgSelector)
//  3. [tool] - Rubberband drawing tools and editable shapes
//  4. [annotation] - The annotation model and its stores
//  5. [annotator] - The headless annotator driving tools from pointer events
//  6. [render] - SVG and terminal rendering surfaces
//
// Supporting packages: [config] (TOML configuration), [cache] (render
// cache), [imaging] (region export), [errors], [observability] and
// [buildinfo].
//
// # Data Flow
//
//	pointer events (device space)
//	         ↓
//	    [geom.Viewport] (to image space)
//	         ↓
//	    [annotator] → [tool] (rubberband / editable shape)
//	         ↓
//	    [selector] (geometry → selector)
//	         ↓
//	    [annotation.Store] (memory, file, redis, mongo)
//
// # Quick Start
//
//	a := annotator.New("photo.jpg", svg.NewScene(1920, 1080))
//	a.On(annotator.Autosave(ctx, store, logger))
//	a.PointerDown(10, 10)
//	a.PointerMove(50, 80)
//	a.PointerUp(50, 80) // emits createAnnotation with xywh=pixel:10,10,40,70
package pkg
