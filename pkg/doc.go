// Package pkg provides the core libraries for etchgrid, a square drawing grid
// that colors cells as the pointer passes over them.
//
// # Overview
//
// The pkg directory is organized into three areas:
//
//  1. Domain logic: [sketch] (grid, modes, controller) and [script]
//  2. Output: [render] (PNG, SVG, ANSI) and [cache] for rendered artifacts
//  3. Infrastructure: [store], [session], [config], [errors], [observability]
//
// # Architecture
//
// Every host (terminal UI, HTTP server, script runner) drives the same
// controller:
//
//	host event (hover, mode, clear, resize)
//	         ↓
//	    [sketch] Controller.Dispatch
//	         ↓
//	    [sketch] Snapshot
//	         ↓
//	    [render] / [store]
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/etchgrid/pkg/render"
//	    "github.com/matzehuels/etchgrid/pkg/sketch"
//	)
//
//	ctl, _ := sketch.NewWithSize(32, sketch.WithMode(sketch.ModeRainbow))
//	_ = ctl.Dispatch(sketch.HoverEvent{Row: 3, Col: 4})
//	png, _ := render.Render(ctl.Snapshot(), "png", render.WithGridLines())
//
// # Main Packages
//
// [sketch] - The grid of cells, the three fill modes (black, greyscale,
// rainbow) and the controller that applies host events to them. Resizing goes
// through a [sketch.Prompter] so each host can ask for a size its own way.
//
// [script] - Line-oriented command files replayed against a controller.
//
// [render] - Snapshot rasterization. PNG uses gogpu/gg, SVG and ANSI are
// written directly.
//
// [cache] - Content-addressed cache for rendered artifacts, keyed by snapshot
// hash and render options. File and null backends.
//
// [store] - Named sketch persistence with memory, local (gdata) and Redis
// backends.
//
// [session] - Per-visitor controllers for the HTTP server with idle expiry.
//
// [config] - TOML configuration with defaults and validation.
//
// [errors] - Coded errors shared by every package.
//
// [observability] - Hook interfaces for metrics. No-op unless installed.
//
// [sketch]: https://pkg.go.dev/github.com/matzehuels/etchgrid/pkg/sketch
// [script]: https://pkg.go.dev/github.com/matzehuels/etchgrid/pkg/script
// [render]: https://pkg.go.dev/github.com/matzehuels/etchgrid/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/etchgrid/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/etchgrid/pkg/store
// [session]: https://pkg.go.dev/github.com/matzehuels/etchgrid/pkg/session
// [config]: https://pkg.go.dev/github.com/matzehuels/etchgrid/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/etchgrid/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/etchgrid/pkg/observability
// [sketch.Prompter]: https://pkg.go.dev/github.com/matzehuels/etchgrid/pkg/sketch#Prompter
package pkg
