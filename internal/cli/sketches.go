package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/etchgrid/pkg/sketch"
	"github.com/matzehuels/etchgrid/pkg/store"
)

// sketchesCommand manages saved sketches.
func (c *CLI) sketchesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sketches",
		Aliases: []string{"ls"},
		Short:   "List and delete saved sketches",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.listSketches(cmd.Context())
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved sketches",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.listSketches(cmd.Context())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete NAME...",
		Short: "Delete saved sketches",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.deleteSketches(cmd.Context(), args)
		},
	})
	return cmd
}

func (c *CLI) listSketches(ctx context.Context) error {
	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	names, err := st.List(ctx)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		printInfo("No saved sketches")
		printNextStep("Save one from the draw view with w, or run", "etchgrid run script.txt --save NAME")
		return nil
	}

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rec, err := st.Load(ctx, name)
		if err != nil {
			rows = append(rows, []string{name, "?", "?", err.Error()})
			continue
		}
		rows = append(rows, []string{
			rec.Name,
			fmt.Sprintf("%d×%d", rec.Size, rec.Size),
			rec.Mode,
			rec.SavedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	fmt.Println(sketchTable(rows))
	printDetail("%d sketches in the %s store", len(names), st.Backend())
	return nil
}

func sketchTable(rows [][]string) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "Size", "Mode", "Saved").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorCyan).Padding(0, 1)
			}
			return lipgloss.NewStyle().Foreground(colorWhite).Padding(0, 1)
		}).
		Render()
}

func (c *CLI) deleteSketches(ctx context.Context, names []string) error {
	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	for _, name := range names {
		if err := st.Delete(ctx, name); err != nil {
			return err
		}
		printSuccess("Deleted %s", name)
	}
	return nil
}

// loadSnapshot fetches a saved sketch as a snapshot.
func loadSnapshot(ctx context.Context, st store.Store, name string) (sketch.Snapshot, error) {
	rec, err := st.Load(ctx, name)
	if err != nil {
		return sketch.Snapshot{}, err
	}
	return rec.Snapshot()
}

// restore loads a saved sketch into ctl.
func restore(ctx context.Context, st store.Store, ctl *sketch.Controller, name string) error {
	snap, err := loadSnapshot(ctx, st, name)
	if err != nil {
		return err
	}
	return ctl.Restore(snap)
}
