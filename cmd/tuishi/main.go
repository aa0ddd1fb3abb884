// Package main provides the CLI entrypoint for tuishi.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/tuishi/internal/config"
	"github.com/verte-zerg/tuishi/internal/logging"
	"github.com/verte-zerg/tuishi/internal/model"
	"github.com/verte-zerg/tuishi/internal/poems"
	"github.com/verte-zerg/tuishi/internal/session"
	"github.com/verte-zerg/tuishi/internal/stats"
	"github.com/verte-zerg/tuishi/internal/store"
	"github.com/verte-zerg/tuishi/internal/tui"
)

const (
	defaultMode        = "auto"
	defaultAlign       = ""
	defaultLogLevel    = "warn"
	defaultLogFormat   = "text"
	defaultCurveWindow = 10
	defaultTopChars    = 10
	defaultWidth       = 80
)

var (
	practiceMode    string
	practiceAuthor  string
	practiceTitle   string
	practiceDataset string
	practiceAlign   string

	statsMode        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsTop         int

	poemsAuthor  string
	poemsDataset string
	poemsSearch  string

	fetchURL   string
	fetchForce bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuishi",
		Short:         "TUI poem typing trainer with pinyin input",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceMode, "mode", defaultMode, "practice mode: auto, english or pinyin")
	rootCmd.Flags().StringVar(&practiceAuthor, "author", "", "only practice poems by this author")
	rootCmd.Flags().StringVar(&practiceTitle, "title", "", "practice the poem with this title")
	rootCmd.Flags().StringVar(&practiceDataset, "dataset", "", "poem dataset file or http(s) URL (default: built-in poems)")
	rootCmd.Flags().StringVar(&practiceAlign, "align", defaultAlign, "text alignment: left, center or justify")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newPoemsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newFetchCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "mode", &practiceMode, fileCfg.Practice.Mode)
	applyStringConfig(cmd, "author", &practiceAuthor, fileCfg.Practice.Author)
	applyStringConfig(cmd, "title", &practiceTitle, fileCfg.Practice.Title)
	applyStringConfig(cmd, "dataset", &practiceDataset, fileCfg.Practice.Dataset)
	applyStringConfig(cmd, "align", &practiceAlign, fileCfg.Practice.Align)

	cfg := model.Config{
		Mode:    practiceMode,
		Author:  practiceAuthor,
		Title:   practiceTitle,
		Dataset: practiceDataset,
		Align:   practiceAlign,
	}
	logCfg := resolveLogConfig(fileCfg)
	if err := validateConfig(cfg, logCfg); err != nil {
		return err
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tuishi needs an interactive terminal")
	}

	logger, logCloser, err := logging.OpenFile(logCfg, config.DefaultLogPath())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := logCloser.Close(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	lib, err := loadLibrary(ctx, cfg.Dataset)
	if err != nil {
		return err
	}
	logger.Info("poems loaded", "dataset", cfg.Dataset, "poems", lib.Len())

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	m, err := tui.NewModel(cfg, lib, poems.NewPicker(), st, st, logger)
	if err != nil {
		return practiceError(cfg, lib, err)
	}
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// loadLibrary resolves a dataset flag: empty means the built-in poems, an
// http(s) URL is fetched into the cache, anything else is a local file.
func loadLibrary(ctx context.Context, dataset string) (*poems.Library, error) {
	dataset = strings.TrimSpace(dataset)
	if dataset == "" {
		return poems.Default()
	}
	if isURL(dataset) {
		ds, err := poems.Fetch(ctx, nil, dataset, config.DefaultDatasetCacheDir(), false)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch dataset: %w", err)
		}
		dataset = ds.Path
	}
	lib, err := poems.Load(dataset)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset %s: %w", dataset, err)
	}
	return lib, nil
}

func isURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

func practiceError(cfg model.Config, lib *poems.Library, err error) error {
	switch {
	case errors.Is(err, poems.ErrNotFound):
		var lines []string
		if similar := lib.Search(cfg.Title, 3); len(similar) > 0 {
			lines = append(lines, "Did you mean:")
			for _, p := range similar {
				lines = append(lines, fmt.Sprintf("  %s (%s)", p.Title, p.Author))
			}
		}
		lines = append(lines, fmt.Sprintf("Run: tuishi poems --author %q", cfg.Author))
		return fmt.Errorf("%w\n%s", err, strings.Join(lines, "\n"))
	case errors.Is(err, poems.ErrNoPoems):
		return fmt.Errorf("%w\nRun: tuishi poems", err)
	default:
		return err
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newPoemsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "poems",
		Short: "List authors, or the titles of one author",
		Args:  cobra.NoArgs,
		RunE:  runPoemsCmd,
	}
	cmd.Flags().StringVar(&poemsAuthor, "author", "", "list titles by this author")
	cmd.Flags().StringVar(&poemsDataset, "dataset", "", "poem dataset file or http(s) URL")
	cmd.Flags().StringVar(&poemsSearch, "search", "", "fuzzy search authors and titles")
	return cmd
}

func runPoemsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "dataset", &poemsDataset, fileCfg.Practice.Dataset)

	lib, err := loadLibrary(cmd.Context(), poemsDataset)
	if err != nil {
		return err
	}
	if poemsSearch != "" {
		return writeSearchResults(cmd.OutOrStdout(), lib, poemsSearch)
	}
	return writePoemList(cmd.OutOrStdout(), lib, poemsAuthor)
}

func writeSearchResults(w io.Writer, lib *poems.Library, query string) error {
	results := lib.Search(query, 0)
	if len(results) == 0 {
		return fmt.Errorf("%w: no match for %q", poems.ErrNotFound, query)
	}
	for _, p := range results {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", p.Author, p.Title); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func writePoemList(w io.Writer, lib *poems.Library, author string) error {
	if author == "" {
		for _, a := range lib.Authors() {
			if _, err := fmt.Fprintf(w, "%s (%d)\n", a, len(lib.Filter(a))); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		return nil
	}
	titles := lib.Titles(author)
	if len(titles) == 0 {
		return fmt.Errorf("%w: author %q", poems.ErrNoPoems, author)
	}
	for _, t := range titles {
		if _, err := fmt.Fprintln(w, t); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsMode, "mode", "", "mode filter: english or pinyin")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().IntVar(&statsTop, "top", defaultTopChars, "number of hardest characters to show")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	mode := ""
	if statsMode != "" {
		parsed, err := session.ParseMode(statsMode)
		if err != nil {
			return fmt.Errorf("invalid --mode value: %w", err)
		}
		if parsed != session.ModeAuto {
			mode = parsed.String()
		}
	}
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow <= 0 {
		return fmt.Errorf("--curve-window must be > 0")
	}

	cfg := model.StatsConfig{
		Mode:        mode,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	report, err := stats.BuildReport(cmd.Context(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build stats: %w", err)
	}
	return report.Render(cmd.OutOrStdout(), terminalWidth(), statsTop)
}

func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultWidth
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download a poem dataset into the cache",
		Args:  cobra.NoArgs,
		RunE:  runFetchCmd,
	}
	cmd.Flags().StringVar(&fetchURL, "url", "", "dataset URL (JSON)")
	cmd.Flags().BoolVar(&fetchForce, "force", false, "download even if cached")
	return cmd
}

func runFetchCmd(cmd *cobra.Command, _ []string) error {
	if strings.TrimSpace(fetchURL) == "" {
		return fmt.Errorf("--url is required")
	}
	logErrf("Fetching %s...\n", fetchURL)
	ds, err := poems.Fetch(cmd.Context(), nil, fetchURL, config.DefaultDatasetCacheDir(), fetchForce)
	if err != nil {
		return fmt.Errorf("failed to fetch dataset: %w", err)
	}
	if ds.Cached {
		logErrf("Using cached dataset %s (%d poems)\n", ds.Path, ds.Poems)
	} else {
		logErrf("Wrote %s (%d poems)\n", ds.Path, ds.Poems)
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), ds.Path); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func resolveLogConfig(fileCfg config.FileConfig) model.LogConfig {
	cfg := model.LogConfig{Level: defaultLogLevel, Format: defaultLogFormat}
	if fileCfg.Log.Level != nil {
		cfg.Level = *fileCfg.Log.Level
	}
	if fileCfg.Log.Format != nil {
		cfg.Format = *fileCfg.Log.Format
	}
	return cfg
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuishi configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# mode = %q          # auto, english or pinyin
# author = ""            # Only practice poems by this author
# title = ""             # Always practice this title
# dataset = ""           # Poem dataset file or http(s) URL
# align = "left"         # left, center or justify

[log]
# level = %q          # debug, info, warn or error
# format = %q         # text or json
`,
		defaultMode,
		defaultLogLevel,
		defaultLogFormat,
	)
}

func validateConfig(cfg model.Config, logCfg model.LogConfig) error {
	if _, err := session.ParseMode(cfg.Mode); err != nil {
		return fmt.Errorf("--mode: %w", err)
	}
	if _, err := tui.ParseAlign(cfg.Align); err != nil {
		return fmt.Errorf("--align: %w", err)
	}
	switch strings.ToLower(logCfg.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be one of debug, info, warn, error")
	}
	switch strings.ToLower(logCfg.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log format must be text or json")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
