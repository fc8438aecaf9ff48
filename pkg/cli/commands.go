package cli

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/breakwatch/breakwatch/internal/viewport"
	"github.com/breakwatch/breakwatch/pkg/config"
	"github.com/breakwatch/breakwatch/pkg/evaluator"
	"github.com/breakwatch/breakwatch/pkg/interfaces"
	"github.com/breakwatch/breakwatch/pkg/logger"
	"github.com/breakwatch/breakwatch/pkg/monitor"
	"github.com/breakwatch/breakwatch/pkg/notifier"
	"github.com/breakwatch/breakwatch/pkg/queue"
	"github.com/breakwatch/breakwatch/pkg/registry"
	"github.com/breakwatch/breakwatch/pkg/types"
)

func (c *CLI) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the merged breakpoint registry in priority order",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.buildRegistry()
			if err != nil {
				return err
			}

			aliasStyle := color.New(color.FgCyan, color.Bold)
			overlapStyle := color.New(color.FgYellow)

			for _, bp := range reg.Items() {
				flag := ""
				if bp.Overlapping {
					flag = overlapStyle.Sprint(" [overlapping]")
				}
				fmt.Fprintf(c.output, "%2d  %-8s %-10s %s%s\n",
					bp.Priority, aliasStyle.Sprint(bp.Alias), bp.Suffix, bp.MediaQuery, flag)
			}
			return nil
		},
	}
}

func (c *CLI) newResolveCmd() *cobra.Command {
	var width, height float64

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the active breakpoint for a given viewport size",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.buildRegistry()
			if err != nil {
				return err
			}

			source := viewport.NewSource(width, height, c.logger)
			m := monitor.New(reg, monitor.Dependencies{
				Evaluator: newAdapter(source, c.logger),
				Scheduler: queue.ImmediateScheduler{},
				Logger:    c.logger,
			})
			defer m.Close()

			if active := m.Active(); active != nil {
				fmt.Fprintf(c.output, "active: %s (%s)\n",
					color.GreenString(active.Alias), active.MediaQuery)
			} else {
				fmt.Fprintln(c.output, "active: none")
			}

			for _, bp := range m.ActiveOverlaps() {
				fmt.Fprintf(c.output, "overlap: %s (%s)\n",
					color.YellowString(bp.Alias), bp.MediaQuery)
			}
			return nil
		},
	}

	cmd.Flags().Float64VarP(&width, "width", "w", 1024, "viewport width in pixels")
	cmd.Flags().Float64VarP(&height, "height", "H", 768, "viewport height in pixels")

	return cmd
}

func (c *CLI) newWatchCmd() *cobra.Command {
	var width, height float64
	var reload bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch viewport sizes from stdin and report breakpoint transitions",
		Long: `Reads one WIDTHxHEIGHT pair per line from stdin (e.g. "800x600") and
reports coalesced breakpoint transitions as the viewport crosses range
boundaries. With --reload, edits to the breakpoint config file rebuild
the registry on the fly.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWatch(cmd, width, height, reload)
		},
	}

	cmd.Flags().Float64VarP(&width, "width", "w", 1024, "initial viewport width in pixels")
	cmd.Flags().Float64VarP(&height, "height", "H", 768, "initial viewport height in pixels")
	cmd.Flags().BoolVar(&reload, "reload", false, "rebuild the registry when the config file changes")

	return cmd
}

// watchSession owns the rebuildable monitor state of one watch run
type watchSession struct {
	cli    *CLI
	source *viewport.Source
	notify *notifier.ChangeNotifier

	monitor *monitor.Monitor
	sub     *monitor.Subscription
	mu      sync.Mutex
}

func (c *CLI) runWatch(cmd *cobra.Command, width, height float64, reload bool) error {
	reg, err := c.buildRegistry()
	if err != nil {
		return err
	}

	monCfg, notifCfg := c.monitorConfig()
	session := &watchSession{
		cli:    c,
		source: viewport.NewSource(width, height, c.logger),
		notify: notifier.New(*notifCfg, c.logger),
	}
	session.attach(reg, monCfg.Scheduling)
	defer session.detach()

	var reloader *config.ReloadManager
	if reload && c.config.ConfigFile != "" {
		reloader = config.NewReloadManager(c.config.ConfigFile, c.logger)
		reloader.AddCallback(func(custom []types.BreakPoint, err error) {
			if err != nil {
				return // parse failures keep the previous registry
			}
			rebuilt, err := registry.Build(config.DefaultBreakPoints(), custom, c.config.RequiredAliases...)
			if err != nil {
				c.logger.Error("Config reload rejected",
					logger.WithField("error", err))
				return
			}
			session.mu.Lock()
			session.detachLocked()
			session.attachLocked(rebuilt, monCfg.Scheduling)
			session.mu.Unlock()
			fmt.Fprintln(c.output, color.CyanString("registry reloaded"))
		})
		if err := reloader.StartWatching(); err != nil {
			return err
		}
		defer reloader.StopWatching()
	}

	group, ctx := newSafeGroup(cmd.Context(), c.logger)
	group.Go(func() error {
		scanner := bufio.NewScanner(c.stdin)
		for scanner.Scan() {
			select {
			case <-ctx.Done():
				return nil
			default:
			}

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			w, h, err := parseSize(line)
			if err != nil {
				fmt.Fprintf(c.errorOut, "skipping %q: %v\n", line, err)
				continue
			}
			session.source.SetSize(w, h)
		}
		return scanner.Err()
	})

	return group.Wait()
}

func (s *watchSession) attach(reg *registry.Registry, policy types.SchedulingPolicy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attachLocked(reg, policy)
}

func (s *watchSession) attachLocked(reg *registry.Registry, policy types.SchedulingPolicy) {
	s.monitor = monitor.New(reg, monitor.Dependencies{
		Evaluator: newAdapter(s.source, s.cli.logger),
		Scheduler: queue.SchedulerFor(policy),
		Notifier:  s.notify,
		Logger:    s.cli.logger,
	})
	s.sub = s.monitor.Subscribe(s.printTransition)
}

func (s *watchSession) detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detachLocked()
}

func (s *watchSession) detachLocked() {
	if s.sub != nil {
		s.sub.Unsubscribe()
		s.sub = nil
	}
	if s.monitor != nil {
		s.monitor.Close()
		s.monitor = nil
	}
}

func (s *watchSession) printTransition(change types.MediaChange) {
	label := change.Alias
	if label == "" {
		label = change.MediaQuery
	}
	if change.Matches {
		fmt.Fprintf(s.cli.output, "%s %s\n", color.GreenString("→ active"), label)
	} else {
		fmt.Fprintf(s.cli.output, "%s %s\n", color.RedString("← inactive"), label)
	}
}

// newAdapter wraps a media source in the multiplexing evaluator adapter
func newAdapter(source interfaces.MediaSource, log logger.Logger) interfaces.QueryEvaluator {
	return evaluator.New(source, log)
}

// parseSize parses "WIDTHxHEIGHT"; height defaults to 0 when omitted
func parseSize(line string) (float64, float64, error) {
	wPart, hPart, found := strings.Cut(line, "x")
	w, err := strconv.ParseFloat(strings.TrimSpace(wPart), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid width %q", wPart)
	}
	if !found {
		return w, 0, nil
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(hPart), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height %q", hPart)
	}
	return w, h, nil
}
