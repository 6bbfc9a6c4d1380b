package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bubblerow/pkg/errors"
	"github.com/matzehuels/bubblerow/pkg/pipeline"
	"github.com/matzehuels/bubblerow/pkg/sink"
)

type frameFlags struct {
	index   float64
	scroll  float64
	spacing float64
	format  string
	output  string
	labels  bool
	width   float64
	height  float64
	scale   float64
	zoom    float64
}

// frameCommand creates the frame command for rendering one scroll position.
func (c *CLI) frameCommand() *cobra.Command {
	var (
		lf layoutFlags
		ff frameFlags
	)

	cmd := &cobra.Command{
		Use:   "frame",
		Short: "Render the bubble row at one scroll position",
		Long: `Render the bubble row at one scroll position.

The frame is taken at a floating index (--index) or a scroll coordinate
(--scroll). Without either, the centred entity is shown at reference size.
Fractional indices show the interpolated state between two entities.

SVG and JSON are written to stdout unless -o is given. PNG and PDF need
rsvg-convert on the PATH and default to frame.png / frame.pdf.

With --labels, a turnover row also prints each entity's daily turnover
under its name.`,
		Example: `  bubblerow frame -o frame.svg
  bubblerow frame --index 2.5 --labels -f png --zoom 3
  bubblerow frame -m turnover --scroll 480 --spacing 120 -f json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(ff.format); err != nil {
				return err
			}
			fopts := pipeline.FrameOptions{Spacing: ff.spacing}
			if cmd.Flags().Changed("index") {
				fopts.Index = &ff.index
			}
			if cmd.Flags().Changed("scroll") {
				fopts.Coordinate = &ff.scroll
			}
			if fopts.Spacing == 0 {
				fopts.Spacing = c.cfg.ItemSpacing
			}
			ropts := pipeline.RenderOptions{
				Format:   ff.format,
				Width:    ff.width,
				Height:   ff.height,
				Labels:   ff.labels,
				MaxScale: ff.scale,
				Zoom:     ff.zoom,
			}
			return c.runFrame(cmd.Context(), cmd.OutOrStdout(), c.layoutOptions(cmd, &lf), lf.noCache, fopts, ropts, ff.output)
		},
	}

	lf.register(cmd)
	cmd.Flags().Float64Var(&ff.index, "index", 0, "floating index to render (0 is the smallest entity)")
	cmd.Flags().Float64Var(&ff.scroll, "scroll", 0, "scroll coordinate to render")
	cmd.Flags().Float64Var(&ff.spacing, "spacing", 0, "scroll distance between adjacent entities (default: item_spacing from config)")
	cmd.Flags().StringVarP(&ff.format, "format", "f", pipeline.DefaultFormat, "output format: svg, json, png, pdf")
	cmd.Flags().StringVarP(&ff.output, "output", "o", "", "output file")
	cmd.Flags().BoolVar(&ff.labels, "labels", false, "draw entity names under the bubbles")
	cmd.Flags().Float64Var(&ff.width, "width", 0, "canvas width in pixels (default 1200)")
	cmd.Flags().Float64Var(&ff.height, "height", 0, "canvas height in pixels (default 480)")
	cmd.Flags().Float64Var(&ff.scale, "max-scale", 0, "largest drawn bubble relative to the centred one (default 5)")
	cmd.Flags().Float64Var(&ff.zoom, "zoom", 0, "PNG raster zoom factor (default 2)")
	cmd.MarkFlagsMutuallyExclusive("index", "scroll")

	return cmd
}

// runFrame renders the frame and writes it to output, or to stdout for text
// formats when no output is given.
func (c *CLI) runFrame(ctx context.Context, stdout io.Writer, opts pipeline.Options, noCache bool, fopts pipeline.FrameOptions, ropts pipeline.RenderOptions, output string) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", ropts.Format))
	spinner.Start()
	result, err := runner.Execute(ctx, opts, fopts, ropts)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return err
	}
	spinner.Stop()

	if output == "" && !textFormat(ropts.Format) {
		output = "frame." + ropts.Format
	}
	if output == "" {
		_, err := stdout.Write(result.Artifact)
		return err
	}
	if err := os.WriteFile(output, result.Artifact, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", output)
	}

	printSuccess("Frame rendered")
	printFile(output)
	printStats(result.Stats.EntityCount, result.Layout.Metric.Label(), result.Stats.LayoutHit && result.Stats.RenderHit)
	if id := result.Frame.SelectedID; id != nil {
		printKeyValue("Selected", fmt.Sprintf("%s (index %.2f)", result.Layout.Names()[*id], result.Frame.Index))
	}
	return nil
}

func textFormat(format string) bool {
	return format == sink.FormatSVG || format == sink.FormatJSON
}
