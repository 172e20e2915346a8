package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bamsammich/inofd/internal/config"
	"github.com/bamsammich/inofd/internal/engine"
	"github.com/bamsammich/inofd/internal/event"
	"github.com/bamsammich/inofd/internal/filter"
	"github.com/bamsammich/inofd/internal/stats"
	"github.com/bamsammich/inofd/internal/ui"
)

var version = "dev"

// searchFS is the filesystem the search runs against.
var searchFS engine.FS = engine.OSFS{}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// filterFlag is a custom pflag.Value that preserves CLI ordering of
// --exclude and --include rules by appending to a shared filter.Chain.
type filterFlag struct {
	chain   *filter.Chain
	include bool
}

func (*filterFlag) String() string { return "" }
func (*filterFlag) Type() string   { return "pattern" }

func (f *filterFlag) Set(val string) error {
	if f.include {
		return f.chain.AddInclude(val)
	}
	return f.chain.AddExclude(val)
}

var _ pflag.Value = (*filterFlag)(nil)

//nolint:gocyclo,revive // cyclomatic,cognitive-complexity: main CLI entry point orchestrates all flag parsing
func run(args []string, stdout, stderr io.Writer) int {
	var (
		disableReflink bool
		forceHardlink  bool
		skipHidden     bool
		workers        int
		verifyFlag     bool
		noProgress     bool
		verbose        bool
		quiet          bool
		showVersion    bool
		filterFile     string
		logFile        string
	)

	chain := filter.NewChain()

	rootCmd := &cobra.Command{
		Use:   "inofd [flags] <target> <search-path>",
		Short: "Find every hardlink and btrfs reflink of a file",
		Long: `inofd lists the files under <search-path> that share storage with <target>:
hardlinks (same inode) and, on btrfs, reflinks (distinct inode, identical
extent map). The search never leaves the target's device.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				return nil
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintf(stdout, "inofd %s\n", version)
				return nil
			}

			// Configure logging.
			logLevel := slog.LevelWarn
			if verbose {
				logLevel = slog.LevelDebug
			} else if quiet {
				logLevel = slog.LevelError
			}
			textHandler := slog.NewTextHandler(stderr, &slog.HandlerOptions{
				Level: logLevel,
			})
			var logHandler slog.Handler = textHandler
			if logFile != "" {
				lf, lfErr := os.Create(logFile)
				if lfErr != nil {
					return fmt.Errorf("open log file: %w", lfErr)
				}
				defer lf.Close()
				jsonHandler := slog.NewJSONHandler(lf, &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})
				logHandler = ui.NewMultiHandler(textHandler, jsonHandler)
			}
			slog.SetDefault(slog.New(logHandler))

			// Load optional config file. A broken file is reported and ignored.
			cfg, err := config.Load()
			if err != nil {
				slog.Warn("ignoring config file", "error", err)
			}
			for _, key := range cfg.Unknown {
				slog.Warn("unknown config key", "key", key, "file", config.Path())
			}

			applyConfigDefaults(cmd, cfg.Defaults,
				&workers, &skipHidden, &disableReflink, &forceHardlink, &verifyFlag)

			if filterFile != "" {
				if err := chain.LoadFile(filterFile); err != nil {
					return fmt.Errorf("load filter file: %w", err)
				}
			}
			if err := cfg.Filter.Apply(chain); err != nil {
				slog.Warn("ignoring config filter rules", "error", err)
			}

			if workers <= 0 {
				workers = runtime.NumCPU()
			}

			collector := stats.NewCollector()
			events := make(chan event.Event, 256)

			// When --log is set, tee events through a logging goroutine
			// that writes structured records before forwarding to the presenter.
			presenterEvents := (<-chan event.Event)(events)
			if logFile != "" {
				teed := make(chan event.Event, 256)
				go func() {
					for ev := range events {
						slog.LogAttrs(context.Background(), slog.LevelDebug, "inofd.event", eventAttrs(ev)...)
						teed <- ev
					}
					close(teed)
				}()
				presenterEvents = teed
			}

			presenter := ui.NewPresenter(ui.Config{
				Writer:     stdout,
				ErrWriter:  stderr,
				Stats:      collector,
				Width:      termWidth(stderr),
				IsTTY:      isTerminal(stderr),
				Quiet:      quiet,
				NoProgress: noProgress,
			})

			engineCfg := engine.Config{
				Target:         args[0],
				Root:           args[1],
				DisableReflink: disableReflink,
				ForceHardlink:  forceHardlink,
				SkipHidden:     skipHidden,
				Workers:        workers,
				Verify:         verifyFlag,
				FS:             searchFS,
				Stats:          collector,
				Events:         events,
			}
			if !chain.Empty() {
				engineCfg.Filter = chain
			}

			slog.Debug("starting search",
				"target", engineCfg.Target,
				"root", engineCfg.Root,
				"workers", workers,
				"filters", chain.Len(),
				"skip_hidden", skipHidden,
				"disable_reflink", disableReflink,
				"force_hardlink", forceHardlink,
			)

			var presenterErr error
			var presenterWg sync.WaitGroup
			presenterWg.Add(1)
			go func() {
				defer presenterWg.Done()
				presenterErr = presenter.Run(presenterEvents)
			}()

			report, err := engine.Run(engineCfg)
			close(events)
			presenterWg.Wait()
			if presenterErr != nil {
				fmt.Fprintf(stderr, "presenter: %v\n", presenterErr)
			}

			if err != nil {
				slog.Error("search failed", "error", err)
				return &exitError{code: 1}
			}
			slog.Debug("search finished", "stats", report.Stats.String())

			if err := presenter.Report(report); err != nil {
				slog.Error("write report", "error", err)
				return &exitError{code: 1}
			}
			return nil
		},
	}

	rootCmd.Flags().BoolVar(&showVersion, "version", false, "print version and exit")

	rootCmd.Flags().
		BoolVarP(&disableReflink, "disable-reflink", "r", false, "disable the btrfs reflink search")
	rootCmd.Flags().
		BoolVarP(&forceHardlink, "force-hardlink", "f", false, "run the hardlink search even when the link count is 1")
	rootCmd.Flags().
		BoolVarP(&skipHidden, "skip-hidden", "i", false, "skip dot-prefixed files and directories")
	rootCmd.Flags().
		IntVarP(&workers, "workers", "n", 0, "traversal and comparison workers (default: NumCPU)")
	rootCmd.Flags().
		BoolVar(&verifyFlag, "verify", false, "confirm reflink matches by content hash (BLAKE3)")
	rootCmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable progress display")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging, including dropped candidates")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print only matching paths, one per line")
	rootCmd.Flags().StringVar(&logFile, "log", "", "write structured JSON log to FILE")

	// Filter flags: use custom pflag.Value to preserve CLI ordering.
	rootCmd.Flags().
		Var(&filterFlag{chain: chain, include: false}, "exclude", "skip entries matching PATTERN (repeatable)")
	rootCmd.Flags().
		Var(&filterFlag{chain: chain, include: true}, "include", "keep entries matching PATTERN (repeatable)")
	rootCmd.Flags().StringVar(&filterFile, "filter", "", "read filter rules from FILE")
	for _, name := range []string{"filter", "log"} {
		if err := rootCmd.MarkFlagFilename(name); err != nil {
			panic(fmt.Sprintf("mark flag filename: %v", err))
		}
	}
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.AddCommand(newDocsCmd())
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		if exitErr, ok := err.(*exitError); ok {
			return exitErr.code
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	return 0
}

// applyConfigDefaults applies config file defaults for flags not explicitly set on the CLI.
func applyConfigDefaults(
	cmd *cobra.Command,
	defaults config.DefaultsConfig,
	workers *int,
	skipHidden *bool,
	disableReflink *bool,
	forceHardlink *bool,
	verify *bool,
) {
	if !cmd.Flags().Changed("workers") && defaults.Workers != nil {
		*workers = *defaults.Workers
	}
	if !cmd.Flags().Changed("skip-hidden") && defaults.SkipHidden != nil {
		*skipHidden = *defaults.SkipHidden
	}
	if !cmd.Flags().Changed("disable-reflink") && defaults.DisableReflink != nil {
		*disableReflink = *defaults.DisableReflink
	}
	if !cmd.Flags().Changed("force-hardlink") && defaults.ForceHardlink != nil {
		*forceHardlink = *defaults.ForceHardlink
	}
	if !cmd.Flags().Changed("verify") && defaults.Verify != nil {
		*verify = *defaults.Verify
	}
}

func eventAttrs(ev event.Event) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("type", ev.Type.String()),
		slog.String("path", ev.Path),
	}
	if ev.Relation != "" {
		attrs = append(attrs, slog.String("relation", ev.Relation))
	}
	if ev.Kind != "" {
		attrs = append(attrs, slog.String("kind", ev.Kind))
	}
	if ev.Error != nil {
		attrs = append(attrs, slog.String("error", ev.Error.Error()))
	}
	return attrs
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && ui.IsTTY(f.Fd())
}

func termWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		return ui.TermWidth(f.Fd())
	}
	return 0
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}
