package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/etchgrid/pkg/cache"
	"github.com/matzehuels/etchgrid/pkg/errors"
	"github.com/matzehuels/etchgrid/pkg/render"
	"github.com/matzehuels/etchgrid/pkg/sketch"
)

// artifactOpts controls how a drawing is written out.
type artifactOpts struct {
	output    string
	format    string
	px        float64
	gridLines bool
	noCache   bool
}

func (o *artifactOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file (default: ANSI preview on stdout)")
	cmd.Flags().StringVarP(&o.format, "format", "f", "", "png, svg or ansi (default: from the output extension)")
	cmd.Flags().Float64Var(&o.px, "px", 0, "image edge in pixels (default from config)")
	cmd.Flags().BoolVar(&o.gridLines, "grid", false, "draw cell borders")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "render fresh, bypassing the export cache")
}

// resolveFormat picks the explicit format, else the output extension, else
// ANSI for terminal output.
func (o artifactOpts) resolveFormat() (string, error) {
	format := strings.ToLower(o.format)
	if format == "" {
		switch strings.ToLower(filepath.Ext(o.output)) {
		case ".png":
			format = render.FormatPNG
		case ".svg":
			format = render.FormatSVG
		case "", ".ans", ".txt":
			format = render.FormatANSI
		default:
			return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer format from %q, use --format", o.output)
		}
	}
	if err := errors.ValidateFormat(format, render.Formats()...); err != nil {
		return "", err
	}
	return format, nil
}

// exportCommand renders a saved sketch.
func (c *CLI) exportCommand() *cobra.Command {
	var opts artifactOpts

	cmd := &cobra.Command{
		Use:   "export NAME",
		Short: "Render a saved sketch as PNG, SVG or ANSI",
		Args:  cobra.ExactArgs(1),
		Example: `  etchgrid export cat -o cat.png
  etchgrid export cat -o cat.svg --px 800 --grid
  etchgrid export cat`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			snap, err := loadSnapshot(ctx, st, args[0])
			if err != nil {
				return err
			}
			return c.writeArtifact(ctx, cmd.OutOrStdout(), snap, opts)
		},
	}
	opts.register(cmd)
	return cmd
}

// writeArtifact renders snap and writes it to opts.output, or to stdout
// when no output file is given.
func (c *CLI) writeArtifact(ctx context.Context, stdout io.Writer, snap sketch.Snapshot, opts artifactOpts) error {
	format, err := opts.resolveFormat()
	if err != nil {
		return err
	}
	px := opts.px
	if px <= 0 {
		px = c.cfg.Grid.ContainerPx
	}

	renderOpts := []render.Option{render.WithContainer(px)}
	if opts.gridLines {
		renderOpts = append(renderOpts, render.WithGridLines())
	}

	prog := newProgress(c.Logger)
	data, hit, err := cache.Artifact(ctx, c.newCache(opts.noCache), nil, snap,
		cache.ArtifactKeyOpts{Format: format, Container: px, GridLines: opts.gridLines},
		func() ([]byte, error) { return render.Render(snap, format, renderOpts...) })
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	prog.done("Rendered " + format)
	printFile(opts.output)
	printGridSummary(snap.Size, snap.Mode, 0, &hit)
	return nil
}
