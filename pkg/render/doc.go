// Package render turns sketch snapshots into exportable artifacts.
//
// # Formats
//
//   - [FormatPNG]: raster image rasterized with gogpu/gg, container-sized.
//   - [FormatSVG]: one <rect> per cell, suitable for the browser or print.
//   - [FormatANSI]: 24-bit color terminal blocks, two columns per cell.
//
// All sinks take a [sketch.Snapshot] so they never touch a live controller:
//
//	snap := c.Snapshot()
//	png, err := render.Render(snap, render.FormatPNG, render.WithContainer(500))
package render
