package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/etchgrid/pkg/errors"
	"github.com/matzehuels/etchgrid/pkg/script"
	"github.com/matzehuels/etchgrid/pkg/sketch"
	"github.com/matzehuels/etchgrid/pkg/store"
)

type runOpts struct {
	artifactOpts
	size int
	seed uint64
	save string
}

// runCommand replays a drawing script.
func (c *CLI) runCommand() *cobra.Command {
	var opts runOpts

	cmd := &cobra.Command{
		Use:   "run SCRIPT",
		Short: "Replay a drawing script",
		Long: `Replay a drawing script and export the result.

Scripts hold one command per line: mode, hover, fill, clear, size and seed.
Use "-" to read the script from stdin.`,
		Args: cobra.ExactArgs(1),
		Example: `  etchgrid run smiley.txt -o smiley.png
  etchgrid run smiley.txt --seed 7 --save smiley
  echo "hover 0 0" | etchgrid run -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScript(cmd, args[0], opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().IntVar(&opts.size, "size", 0, "starting grid size (default from config)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "rainbow seed (0 picks a random one)")
	cmd.Flags().StringVar(&opts.save, "save", "", "save the result under this name")

	return cmd
}

func (c *CLI) runScript(cmd *cobra.Command, path string, opts runOpts) error {
	ctx := cmd.Context()

	var src io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrap(errors.ErrCodeNotFound, err, "open script")
		}
		defer f.Close()
		src = f
	}

	var ctlOpts []sketch.Option
	if opts.seed != 0 {
		ctlOpts = append(ctlOpts, sketch.WithSeed(opts.seed))
	}
	ctl := c.newController(ctlOpts...)
	if opts.size != 0 {
		if err := ctl.BuildGrid(opts.size); err != nil {
			return err
		}
	}

	spin := newSpinner(ctx, "Running "+path)
	if opts.output != "" {
		spin.Start()
	}
	res, err := script.New(ctl, script.WithLogger(c.Logger)).Run(ctx, src)
	spin.Stop()
	if err != nil {
		return err
	}
	c.Logger.Debug("script finished", "lines", res.Lines, "commands", res.Commands, "resizes", res.Resizes)

	if opts.save != "" {
		if err := c.saveSnapshot(cmd, opts.save, ctl.Snapshot()); err != nil {
			return err
		}
	}
	return c.writeArtifact(ctx, cmd.OutOrStdout(), ctl.Snapshot(), opts.artifactOpts)
}

func (c *CLI) saveSnapshot(cmd *cobra.Command, name string, snap sketch.Snapshot) error {
	ctx := cmd.Context()
	rec, err := store.FromSnapshot(name, snap)
	if err != nil {
		return err
	}
	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.Save(ctx, rec); err != nil {
		return err
	}
	printSuccess("Saved %s to the %s store", name, st.Backend())
	return nil
}
