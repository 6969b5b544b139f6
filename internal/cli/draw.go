package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/etchgrid/pkg/sketch"
)

type drawOpts struct {
	size int
	mode string
	load string
}

// drawCommand opens the terminal drawing surface.
func (c *CLI) drawCommand() *cobra.Command {
	var opts drawOpts

	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Draw in the terminal",
		Long: `Draw in the terminal by moving the mouse over the grid.

The terminal must report mouse motion (most modern terminals do). Without a
mouse, move the cursor with the arrow keys and paint with space.`,
		Example: `  etchgrid draw
  etchgrid draw --size 32 --mode rainbow
  etchgrid draw --load cat`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDraw(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.size, "size", 0, fmt.Sprintf("grid size (%d-%d, default from config)", sketch.MinSize, sketch.MaxSize))
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "", "starting mode: black, greyscale or rainbow")
	cmd.Flags().StringVar(&opts.load, "load", "", "open a saved sketch")

	return cmd
}

func (c *CLI) runDraw(cmd *cobra.Command, opts drawOpts) error {
	ctx := cmd.Context()
	ctl := c.newController()

	if opts.size != 0 {
		if err := ctl.BuildGrid(opts.size); err != nil {
			return err
		}
	}

	st, err := c.openStore(ctx)
	if err != nil {
		c.Logger.Warn("saving disabled", "err", err)
		st = nil
	}
	if st != nil {
		defer st.Close()
	}

	if opts.load != "" {
		if st == nil {
			return fmt.Errorf("cannot load %q: no sketch store", opts.load)
		}
		if err := restore(ctx, st, ctl, opts.load); err != nil {
			return err
		}
	}

	if opts.mode != "" {
		m, err := sketch.ParseMode(opts.mode)
		if err != nil {
			return err
		}
		if err := ctl.SetMode(m); err != nil {
			return err
		}
	}

	// The TUI owns the terminal; keep log lines from tearing the screen.
	prevLevel := c.Logger.GetLevel()
	c.Logger.SetLevel(log.WarnLevel)
	defer c.Logger.SetLevel(prevLevel)

	p := tea.NewProgram(newDrawModel(ctx, ctl, st), tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}

	if dm, ok := final.(drawModel); ok {
		stats := dm.ctl.Stats()
		printGridSummary(dm.ctl.Size(), dm.ctl.Mode(), stats.TotalFills(), nil)
	}
	return nil
}
