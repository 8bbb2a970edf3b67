package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pders01/vidr/internal/config"
	"github.com/pders01/vidr/internal/debuglog"
	"github.com/pders01/vidr/internal/media"
	"github.com/pders01/vidr/internal/query"
	"github.com/pders01/vidr/internal/storage"
	"github.com/pders01/vidr/internal/tui"
	"github.com/pders01/vidr/internal/validation"
)

// Version is the version of the application, set at build time
var Version = "dev"

// uploadsMaxAge bounds how long feeds of unsubscribed uploaders stay cached.
const uploadsMaxAge = 7 * 24 * time.Hour

var (
	configPath   string
	dbPath       string
	logLevel     string
	quiet        bool
	simpleFormat bool
	allowLocal   bool
	fresh        bool
)

var rootCmd = &cobra.Command{
	Use:           "vidr",
	Short:         "Terminal video browser",
	Long:          "vidr searches a video catalog, follows uploaders and plays videos in an external player.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("vidr %s\n", Version)
		fmt.Println("Terminal video browser")
		fmt.Println("github.com/pders01/vidr")
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configGenCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the default configuration to ~/.config/vidr/config.toml",
	Run: func(cmd *cobra.Command, args []string) {
		path, err := validation.NewSecurePathHandler().ConfigPath("")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid config path: %v\n", err)
			os.Exit(1)
		}
		if err := config.GenerateDefaultConfig(path); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Generated default configuration at: %s\n", path)
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&configPath, "config", "", "Path to configuration file")
	flags.StringVar(&dbPath, "db", "", "Path to database file (overrides config)")
	flags.StringVar(&logLevel, "log-level", "", "Debug log level: off, error, warn, info, debug")
	flags.BoolVar(&quiet, "quiet", false, "Skip startup banner")
	flags.BoolVar(&simpleFormat, "simple", false, "Use the two line item format")
	flags.BoolVar(&allowLocal, "allow-local", false, "Allow loopback and private catalog endpoints")
	flags.BoolVar(&fresh, "fresh", false, "Discard the saved session and start with empty pages")

	configCmd.AddCommand(configGenCmd)
	rootCmd.AddCommand(versionCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlags(cfg)

	if err := debuglog.Setup(debuglog.ParseLogLevel(cfg.Log.Level), cfg.Log.File); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: debug log disabled: %v\n", err)
	}
	defer debuglog.Close()

	if err := checkEndpoints(cfg, allowLocal); err != nil {
		return err
	}

	paths := validation.NewSecurePathHandler()
	if dbPath != "" {
		paths = validation.NewPermissivePathHandler()
	}
	cfg.Database.Path, err = paths.DBPath(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("invalid database path: %w", err)
	}
	indexPath, err := paths.IndexPath(cfg.Database.SearchIndex)
	if err != nil {
		debuglog.Warnf("search index path rejected: %v", err)
		indexPath = ""
	}

	store, err := storage.NewStore(cfg.Database.Path, cfg.Database.Timeout)
	if err != nil {
		return err
	}
	defer store.Close()

	if fresh {
		if err := store.ClearSession(); err != nil {
			debuglog.Warnf("clearing saved session: %v", err)
		}
	}

	searcher, closeSearcher := query.NewSearcher(cfg, store, indexPath)
	defer func() {
		if err := closeSearcher(); err != nil {
			debuglog.Warnf("closing search index: %v", err)
		}
	}()

	uploaders, err := config.LoadSubscriptions(cfg.Search.SubscriptionsFile)
	if err != nil {
		debuglog.Warnf("subscriptions unreadable, starting without them: %v", err)
	}
	if n, err := store.PruneUploads(uploaders, uploadsMaxAge); err != nil {
		debuglog.Warnf("pruning feed cache: %v", err)
	} else if n > 0 {
		debuglog.Debugf("pruned %d cached feeds", n)
	}

	if !quiet && term.IsTerminal(int(os.Stdout.Fd())) {
		tui.ShowBanner(Version)
	}

	tui.ApplyColors(cfg.UI.Colors)
	sess := tui.RestoreSession(store, uploaders)
	app := tui.NewApp(cfg, sess, searcher, media.NewLauncher(cfg), store)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func applyFlags(cfg *config.Config) {
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if simpleFormat {
		cfg.UI.SimpleFormat = true
	}
}

// checkEndpoints normalizes the configured catalog endpoints in place.
func checkEndpoints(cfg *config.Config, permissive bool) error {
	v := validation.NewEndpointValidator()
	if permissive {
		v = validation.NewPermissiveEndpointValidator()
	}

	api, err := v.ValidateAndNormalize(cfg.Search.APIURL)
	if err != nil {
		return fmt.Errorf("invalid api_url %q: %w", cfg.Search.APIURL, err)
	}
	cfg.Search.APIURL = api

	if cfg.Search.FeedURL != "" {
		feed, err := v.ValidateAndNormalize(cfg.Search.FeedURL)
		if err != nil {
			return fmt.Errorf("invalid feed_url %q: %w", cfg.Search.FeedURL, err)
		}
		cfg.Search.FeedURL = feed
	}
	return nil
}
