package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bubblerow/pkg/errors"
	"github.com/matzehuels/bubblerow/pkg/lineup"
	"github.com/matzehuels/bubblerow/pkg/pipeline"
)

// Output formats for the layout command.
const (
	layoutFormatTable = "table"
	layoutFormatJSON  = "json"
)

// layoutCommand creates the layout command for sorting and packing a dataset.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  layoutFlags
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Sort and pack a dataset into a bubble row",
		Long: `Sort and pack a dataset into a bubble row.

The layout command sorts entities by the chosen metric (smallest first),
computes each bubble's scale relative to the reference entity and packs the
row so neighbouring bubbles keep a gap proportional to the smaller radius.

Without --data the built-in sample dataset is used. Results are cached
locally for faster subsequent runs.`,
		Example: `  bubblerow layout
  bubblerow layout -d companies.yaml -m turnover
  bubblerow layout --centered 7 --format json -o layout.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != layoutFormatTable && format != layoutFormatJSON {
				return errors.New(errors.ErrCodeInvalidFormat, "invalid format %q (must be table or json)", format)
			}
			return c.runLayout(cmd.Context(), cmd.OutOrStdout(), c.layoutOptions(cmd, &flags), flags.noCache, format, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", layoutFormatTable, "output format: table, json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

// runLayout computes the layout and writes it as a table or JSON snapshot.
func (c *CLI) runLayout(ctx context.Context, stdout io.Writer, opts pipeline.Options, noCache bool, format, output string) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	entities, err := pipeline.Load(opts)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()
	res, err := runner.Layout(ctx, entities, opts)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Computed layout of %d entities", len(entities)))

	snap := res.Snapshot()
	w := stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", output)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case layoutFormatJSON:
		err = snap.WriteJSON(w)
	default:
		err = writeLayoutTable(w, snap)
	}
	if err != nil {
		return err
	}

	if output == "" {
		return nil
	}
	printSuccess("Layout computed")
	printFile(output)
	printStats(len(entities), res.Metric.Label(), res.CacheHit)
	printNewline()
	printNextStep("Render a frame", "bubblerow frame -m "+snap.Metric+" -o frame.svg")
	return nil
}

// writeLayoutTable prints one row per entity in sorted order. The centred
// entity is marked with an asterisk.
func writeLayoutTable(w io.Writer, snap lineup.Snapshot) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Pos", "ID", "Name", "Value", "Scale", "Offset", "Moved"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(snap.Items))
	for _, it := range snap.Items {
		pos := strconv.Itoa(it.Position + 1)
		if it.Position == snap.CenteredPosition {
			pos = "*" + pos
		}
		data = append(data, []string{
			pos,
			strconv.Itoa(it.ID),
			it.Name,
			strconv.FormatFloat(it.Value, 'f', 2, 64),
			strconv.FormatFloat(it.Scale, 'f', 3, 64),
			strconv.FormatFloat(it.Offset, 'f', 3, 64),
			moved(it),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d entities by %s, extent %.3f\n", len(snap.Items), snap.Metric, snap.Extent)
	return err
}

// moved describes how far an entity moved from its dataset position.
func moved(it lineup.SnapshotItem) string {
	switch d := it.OriginalPosition - it.Position; {
	case d > 0:
		return fmt.Sprintf("+%d ▲", d)
	case d < 0:
		return fmt.Sprintf("%d ▼", d)
	default:
		return "0"
	}
}
