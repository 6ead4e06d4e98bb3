package commands

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/penwyp/go-wpt-filmstrip/internal/application/filmstrip"
	"github.com/penwyp/go-wpt-filmstrip/internal/core/composer"
	"github.com/penwyp/go-wpt-filmstrip/internal/data/cache"
	"github.com/penwyp/go-wpt-filmstrip/internal/data/scanner"
	"github.com/penwyp/go-wpt-filmstrip/internal/data/source"
	"github.com/penwyp/go-wpt-filmstrip/internal/data/watcher"
	"github.com/penwyp/go-wpt-filmstrip/internal/presentation/display"
	"github.com/penwyp/go-wpt-filmstrip/internal/presentation/formatter"
	"github.com/penwyp/go-wpt-filmstrip/internal/presentation/interaction"
	"github.com/penwyp/go-wpt-filmstrip/internal/util"
)

type rootOptions struct {
	// Logging related
	debug bool

	configPath string

	// Sampling and output
	interval     string
	size         string
	outputFormat string
	width        int
	sortBy       string

	// Loading
	concurrency int
	timeout     time.Duration
	watch       bool
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "go-wpt-filmstrip [flags] <source>...",
		Short: "Compare WebPageTest filmstrips side by side",
		Long: `go-wpt-filmstrip lines up the filmstrips of several WebPageTest runs on one
shared time axis, so visual progress can be compared frame by frame.

A source is a timeline JSON document: a local file, a directory of .json files,
or an http(s) URL.

Examples:
  go-wpt-filmstrip before.json after.json              # Compare two runs at 100ms
  go-wpt-filmstrip -i 0.5s -s large ./runs              # Every timeline in ./runs at 500ms
  go-wpt-filmstrip -o json https://example.com/t.json   # Print the composition as JSON
  go-wpt-filmstrip --watch before.json after.json      # Re-render when a file changes`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilmstrip(cmd, args, opts)
		},
	}

	// Sampling configuration
	cmd.Flags().StringVarP(&opts.interval, "interval", "i", defaultInterval,
		"Sampling interval (16ms, 100ms, 0.5s, 1s, 5s)")
	cmd.Flags().StringVarP(&opts.size, "size", "s", defaultSize,
		"Thumbnail size hint (small, medium, large)")

	// Output configuration
	cmd.Flags().StringVarP(&opts.outputFormat, "output", "o", defaultOutput,
		"Output format (table, json, csv)")
	cmd.Flags().IntVar(&opts.width, "width", 0,
		"Table width in columns (0 = terminal width)")
	cmd.Flags().StringVar(&opts.sortBy, "sort", "none",
		"Row order (none, visual-complete, title; prefix - for descending)")

	// Loading
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", defaultConcurrency,
		"Maximum concurrent timeline loads")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", defaultTimeout,
		"Timeout for fetching one timeline")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false,
		"Reload local timelines when they change")

	// System and debugging
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"Config file (default "+defaultConfigFile+")")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false,
		"Enable debug mode")

	return cmd
}

func runFilmstrip(cmd *cobra.Command, args []string, opts *rootOptions) error {
	fc, err := loadFileConfig(opts.configPath)
	if err != nil {
		return err
	}

	if err := initLogging(cmd.ErrOrStderr(), opts.debug, fc); err != nil {
		return err
	}

	cfg, err := buildConfig(cmd, args, opts, &fc)
	if err != nil {
		return err
	}
	if len(cfg.Sources) == 0 {
		return fmt.Errorf("no timeline sources: pass files, directories or URLs, or list sources in the config file")
	}

	output := fc.Output
	if cmd.Flags().Changed("output") {
		output = opts.outputFormat
	}
	f, err := formatter.New(output, opts.width)
	if err != nil {
		return err
	}
	if tf, ok := f.(*formatter.TableFormatter); ok {
		tf.WithColor(display.IsTerminal(cmd.OutOrStdout()))
	}
	field, order, err := interaction.ParseSort(opts.sortBy)
	if err != nil {
		return err
	}
	sorter := interaction.NewSeriesSorter(field, order)

	loader := source.NewLoader(source.NewMultiFetcher(&http.Client{}), cfg.Concurrency, cfg.FetchTimeout).
		WithCache(cache.NewTimelineCache())
	ctrl, err := filmstrip.NewController(cfg, loader)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	util.LogInfo("Starting filmstrip",
		util.F("sources", len(cfg.Sources)),
		util.F("interval", cfg.Interval),
		util.F("size", cfg.Size),
		util.F("watch", opts.watch))

	if opts.watch {
		return runWatch(ctx, ctrl, cfg, sorter, f, cmd.OutOrStdout())
	}
	return runOnce(ctx, ctrl, sorter, f, cmd.OutOrStdout())
}

func initLogging(console io.Writer, debug bool, fc fileConfig) error {
	logLevel := "warn"
	if debug {
		logLevel = "debug"
	}

	logFile := ""
	if fc.LogFile != "" {
		logFile = expandPath(fc.LogFile)
		if err := ensureDir(filepath.Dir(logFile)); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	format := util.FormatText
	if fc.LogFormat == string(util.FormatJSON) {
		format = util.FormatJSON
	}
	return util.InitLogger(logLevel, console, format, logFile)
}

// buildConfig merges the config file with flags and arguments. Flags win over
// the file; arguments replace the file's sources.
func buildConfig(cmd *cobra.Command, args []string, opts *rootOptions, fc *fileConfig) (*filmstrip.Config, error) {
	cfg := &filmstrip.Config{
		Interval:     fc.Interval,
		Size:         fc.Size,
		Sources:      fc.Sources,
		Concurrency:  fc.Concurrency,
		FetchTimeout: fc.Timeout,
	}

	flags := cmd.Flags()
	if flags.Changed("interval") {
		cfg.Interval = opts.interval
	}
	if flags.Changed("size") {
		cfg.Size = opts.size
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = opts.concurrency
	}
	if flags.Changed("timeout") {
		cfg.FetchTimeout = opts.timeout
	}

	if len(args) > 0 {
		locators, err := scanner.ExpandSources(args)
		if err != nil {
			return nil, err
		}
		cfg.Sources = make([]filmstrip.SourceConfig, len(locators))
		for i, loc := range locators {
			cfg.Sources[i] = filmstrip.SourceConfig{Source: normalizeSource(loc)}
		}
	}

	return cfg, nil
}

// runOnce waits until every load has finished and prints the result
func runOnce(ctx context.Context, ctrl *filmstrip.Controller, sorter *interaction.SeriesSorter, f formatter.Formatter, out io.Writer) error {
	done := make(chan *composer.Composition, 1)
	ctrl.Subscribe(func(ev filmstrip.Event, comp *composer.Composition) {
		if ev.Pending > 0 {
			return
		}
		select {
		case done <- comp:
		default:
		}
	})

	runCtx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		return ctrl.Run(gctx)
	})
	ctrl.Start()

	var comp *composer.Composition
	select {
	case comp = <-done:
	case <-gctx.Done():
	}
	cancel()
	if err := g.Wait(); err != nil {
		return err
	}
	if comp == nil {
		return ctx.Err()
	}

	if ran, err := sorter.Apply(ctrl); err != nil {
		return err
	} else if ran {
		comp = ctrl.Composition()
	}

	failed := reportFailures(ctrl)
	if err := f.Format(out, comp); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(comp.Rows) == 0 && failed > 0 {
		return fmt.Errorf("none of %d timelines could be loaded", failed)
	}
	return nil
}

// runWatch renders after every settled pass until ctx ends. Local sources
// are reloaded when their files change.
func runWatch(ctx context.Context, ctrl *filmstrip.Controller, cfg *filmstrip.Config, sorter *interaction.SeriesSorter, f formatter.Formatter, out io.Writer) error {
	var paths []string
	for _, sc := range cfg.Sources {
		if !source.IsRemote(sc.Source) {
			paths = append(paths, source.LocalPath(sc.Source))
		}
	}
	fw, err := watcher.NewFileWatcher(paths)
	if err != nil {
		return fmt.Errorf("failed to watch sources: %w", err)
	}
	defer fw.Close()

	screen := display.NewScreen(out, f)
	screen.EnterAlternateScreen()
	defer screen.ExitAlternateScreen()
	status := fmt.Sprintf("Watching %s, Ctrl+C to quit", util.Plural(len(paths), "timeline"))

	// listeners run inside the pass, so rendering happens on its own goroutine
	settled := make(chan *composer.Composition, 1)
	ctrl.Subscribe(func(ev filmstrip.Event, comp *composer.Composition) {
		if ev.Pending > 0 {
			return
		}
		select {
		case <-settled:
		default:
		}
		settled <- comp
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ctrl.Run(gctx)
	})
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case comp := <-settled:
				// a reorder runs its own pass, which is rendered instead
				if ran, err := sorter.Apply(ctrl); err != nil {
					return err
				} else if ran {
					continue
				}
				reportFailures(ctrl)
				if err := screen.Render(comp, status); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
			}
		}
	})
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case ev, ok := <-fw.Events():
				if !ok {
					return nil
				}
				ids := ctrl.RefreshSource(ev.Path)
				util.LogInfo("Timeline changed", util.F("path", ev.Path), util.F("op", ev.Operation), util.F("series", len(ids)))
			}
		}
	})
	ctrl.Start()

	return g.Wait()
}

// reportFailures logs every series that failed to load and returns how many did
func reportFailures(ctrl *filmstrip.Controller) int {
	failed := 0
	for _, info := range ctrl.Snapshot() {
		if info.Err == nil {
			continue
		}
		failed++
		util.LogError("Timeline could not be loaded", util.F("series", info.ID), util.F("source", info.Source), util.F("error", info.Err))
	}
	return failed
}

func Execute() error {
	return rootCmd.Execute()
}
