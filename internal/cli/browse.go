package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/matzehuels/bubblerow/pkg/core/scroll"
	"github.com/matzehuels/bubblerow/pkg/errors"
	"github.com/matzehuels/bubblerow/pkg/pipeline"
	"github.com/matzehuels/bubblerow/pkg/session"
)

// browseCommand creates the interactive terminal browser.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		flags   layoutFlags
		fresh   bool
		spacing float64
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Scroll through the bubble row in the terminal",
		Long: `Scroll through the bubble row in the terminal.

Arrow keys scroll freely; when you stop, the row snaps to the nearest
entity, which is then shown at reference size. Type a rank and press enter
to travel there, or press tab to switch metric while keeping the current
entity in view.

The centred entity is remembered between runs for the same dataset and
shown first next time, under whichever metric is chosen, unless --fresh or
--centered is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.layoutOptions(cmd, &flags)
			if !fresh {
				c.applyResume(cmd, &opts)
			}
			cfg := c.cfg.TrackerConfig()
			if spacing > 0 {
				cfg.Spacing = spacing
			}
			return c.runBrowse(cmd.Context(), opts, flags.noCache, cfg)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&fresh, "fresh", false, "ignore the remembered position")
	cmd.Flags().Float64Var(&spacing, "spacing", 0, "scroll distance between adjacent entities (default: item_spacing from config)")

	return cmd
}

// applyResume restores the last centred entity for the same dataset. An
// explicit --centered wins.
func (c *CLI) applyResume(cmd *cobra.Command, opts *pipeline.Options) {
	rf, err := session.NewResumeFile("")
	if err != nil {
		return
	}
	r, ok := rf.Load()
	if !ok || r.DataPath != opts.DataPath || r.CenteredID == nil {
		return
	}
	if !cmd.Flags().Changed("centered") {
		opts.PreviousCentered = r.CenteredID
	}
	c.Logger.Debug("resuming browse", "centered", *r.CenteredID, "saved", r.SavedAt.Format(time.RFC3339))
}

func (c *CLI) runBrowse(ctx context.Context, opts pipeline.Options, noCache bool, cfg scroll.Config) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New(errors.ErrCodeUnsupported, "browse needs an interactive terminal; use layout or frame instead")
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	entities, err := pipeline.Load(opts)
	if err != nil {
		return err
	}
	res, err := runner.Layout(ctx, entities, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(newBrowseModel(ctx, runner, opts, res, cfg), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}
	fm, ok := final.(browseModel)
	if !ok {
		return nil
	}

	rf, err := session.NewResumeFile("")
	if err != nil {
		c.Logger.Debug("not saving browse state", "err", err)
		return nil
	}
	r := session.Resume{
		DataPath: opts.DataPath,
		SavedAt:  time.Now(),
	}
	id, ok := fm.centeredID()
	if ok {
		r.CenteredID = &id
	}
	if err := rf.Save(r); err != nil {
		c.Logger.Warn("could not save browse state", "err", err)
		return nil
	}
	if ok {
		printInfo("Stopped at %s by %s", StyleHighlight.Render(fm.byID[id].Name), fm.res.Metric.Label())
	}
	return nil
}
