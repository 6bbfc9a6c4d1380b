package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bubblerow/pkg/cache"
	"github.com/matzehuels/bubblerow/pkg/observability"
	"github.com/matzehuels/bubblerow/pkg/server"
	"github.com/matzehuels/bubblerow/pkg/session"
)

const serveKeyPrefix = "serve:"

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags       layoutFlags
		addr        string
		maxSessions int
		sessionTTL  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts and scroll sessions over HTTP",
		Long: `Serve layouts and scroll sessions over HTTP.

Clients create a session, then post scroll coordinates or wheel deltas as
the user scrolls. The server tracks when scrolling stops and answers with
the coordinate to snap to; select and metric requests move the row
programmatically. Sessions expire after --session-ttl without requests.

Counters for layouts, renders, cache hits and requests are available at
GET /stats.`,
		Example: `  bubblerow serve
  bubblerow serve --addr :9000 -d companies.json --max-sessions 100`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := c.cfg.Server
			if cmd.Flags().Changed("addr") {
				srv.Addr = addr
			}
			if cmd.Flags().Changed("max-sessions") {
				srv.MaxSessions = maxSessions
			}
			opts := server.Options{
				Addr:       srv.Addr,
				Layout:     c.layoutOptions(cmd, &flags),
				Tracker:    c.cfg.TrackerConfig(),
				SessionTTL: srv.SessionTTL.Std(),
				Logger:     c.Logger,
				Store:      session.NewMemoryStore(srv.MaxSessions),
			}
			if cmd.Flags().Changed("session-ttl") {
				opts.SessionTTL = sessionTTL
			}
			return c.runServe(cmd, opts, flags.noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().IntVar(&maxSessions, "max-sessions", 0, "maximum concurrent sessions, 0 for unlimited (default: from config)")
	cmd.Flags().DurationVar(&sessionTTL, "session-ttl", session.DefaultTTL, "idle time before a session expires")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts server.Options, noCache bool) error {
	ctx := cmd.Context()

	rec := observability.NewRecorder()
	observability.SetPipelineHooks(rec)
	observability.SetCacheHooks(rec)
	observability.SetServerHooks(rec)
	defer observability.Reset()
	opts.Recorder = rec

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	runner.Keyer = cache.NewScopedKeyer(runner.Keyer, serveKeyPrefix)
	opts.Runner = runner

	srv, err := server.New(opts)
	if err != nil {
		return err
	}

	printSuccess("Listening on %s", StyleLink.Render("http://"+displayAddr(opts.Addr)))
	printDetail("Sessions expire after %s idle", opts.SessionTTL)
	printNextStep("Create a session", "curl -X POST http://"+displayAddr(opts.Addr)+"/sessions")
	printNewline()

	if err := srv.ListenAndServe(ctx); err != nil {
		return err
	}
	c.Logger.Info("server stopped", "requests", rec.Count("http.request"))
	return nil
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
