package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Search   SearchConfig   `mapstructure:"search"`
	UI       UIConfig       `mapstructure:"ui"`
	Media    MediaConfig    `mapstructure:"media"`
	Keys     KeyConfig      `mapstructure:"keys"`
	Log      LogConfig      `mapstructure:"log"`
}

type DatabaseConfig struct {
	Path        string        `mapstructure:"path"`
	Timeout     time.Duration `mapstructure:"timeout"`
	SearchIndex string        `mapstructure:"search_index"`
}

// UploaderSource selects how uploader searches are answered.
const (
	SourceAPI  = "api"
	SourceFeed = "feed"
)

type SearchConfig struct {
	APIURL            string        `mapstructure:"api_url"`
	FeedURL           string        `mapstructure:"feed_url"`
	UploaderSource    string        `mapstructure:"uploader_source"`
	MaxResults        int           `mapstructure:"max_results"`
	SearchOrder       string        `mapstructure:"search_order"`
	UserOrder         string        `mapstructure:"user_order"`
	HTTPTimeout       time.Duration `mapstructure:"http_timeout"`
	UserAgent         string        `mapstructure:"user_agent"`
	OfflineFallback   bool          `mapstructure:"offline_fallback"`
	SubscriptionsFile string        `mapstructure:"subscriptions_file"`
}

type UIConfig struct {
	InfoWidth    int      `mapstructure:"info_width"`
	SimpleFormat bool     `mapstructure:"simple_format"`
	RealIndex    bool     `mapstructure:"real_index"`
	Colors       UIColors `mapstructure:"colors"`
}

type UIColors struct {
	Primary   string `mapstructure:"primary"`
	Secondary string `mapstructure:"secondary"`
	Accent    string `mapstructure:"accent"`
	Text      string `mapstructure:"text"`
	Muted     string `mapstructure:"muted"`
	Error     string `mapstructure:"error"`
	Success   string `mapstructure:"success"`
}

type MediaConfig struct {
	Player        string   `mapstructure:"player"`
	PlayerArgs    string   `mapstructure:"player_args"`
	Darwin        []string `mapstructure:"darwin"`
	Linux         []string `mapstructure:"linux"`
	Windows       []string `mapstructure:"windows"`
	// DefaultOpener overrides the platform opener from players.toml.
	DefaultOpener string   `mapstructure:"default_opener"`
}

// Candidates returns the fallback players for the running platform.
func (m MediaConfig) Candidates() []string {
	switch runtime.GOOS {
	case "darwin":
		return m.Darwin
	case "windows":
		return m.Windows
	default:
		return m.Linux
	}
}

type KeyConfig struct {
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit             []string `mapstructure:"quit"`
	ScrollDown       []string `mapstructure:"scroll_down"`
	ScrollUp         []string `mapstructure:"scroll_up"`
	PageLeft         []string `mapstructure:"page_left"`
	PageRight        []string `mapstructure:"page_right"`
	NewPage          []string `mapstructure:"new_page"`
	ClosePage        []string `mapstructure:"close_page"`
	Search           []string `mapstructure:"search"`
	UploaderSearch   []string `mapstructure:"uploader_search"`
	Subscribe        []string `mapstructure:"subscribe"`
	Unsubscribe      []string `mapstructure:"unsubscribe"`
	Refresh          []string `mapstructure:"refresh"`
	Play             []string `mapstructure:"play"`
	Bookmark         []string `mapstructure:"bookmark"`
	DeleteBookmark   []string `mapstructure:"delete_bookmark"`
	MoveBookmarkUp   []string `mapstructure:"move_bookmark_up"`
	MoveBookmarkDown []string `mapstructure:"move_bookmark_down"`
	Details          []string `mapstructure:"details"`
	Yank             []string `mapstructure:"yank"`
	Cancel           []string `mapstructure:"cancel"`
	Help             []string `mapstructure:"help"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Database: DatabaseConfig{
			Path:        filepath.Join(homeDir, ".vidr", "vidr.db"),
			Timeout:     1 * time.Second,
			SearchIndex: filepath.Join(homeDir, ".vidr", "index.bleve"),
		},
		Search: SearchConfig{
			APIURL:            "https://gdata.youtube.com/feeds/api",
			FeedURL:           "https://www.youtube.com/feeds/videos.xml",
			UploaderSource:    SourceAPI,
			MaxResults:        20,
			SearchOrder:       "relevance",
			UserOrder:         "published",
			HTTPTimeout:       30 * time.Second,
			UserAgent:         "vidr/1.0 (https://github.com/pders01/vidr)",
			OfflineFallback:   true,
			SubscriptionsFile: filepath.Join(homeDir, ".config", "vidr", "subscriptions.toml"),
		},
		UI: UIConfig{
			InfoWidth: 23,
			Colors: UIColors{
				Primary:   "#FF6B6B",
				Secondary: "#4ECDC4",
				Accent:    "#95E1D3",
				Text:      "#EAEAEA",
				Muted:     "#94A3B8",
				Error:     "#F87171",
				Success:   "#4ADE80",
			},
		},
		Media: MediaConfig{
			Player:  "mpv",
			Darwin:  []string{"iina", "mpv", "vlc"},
			Linux:   []string{"mpv", "vlc", "mplayer"},
			Windows: []string{"mpv", "vlc"},
		},
		Keys: KeyConfig{
			Bindings: KeyBindings{
				Quit:             []string{"q", "ctrl+c"},
				ScrollDown:       []string{"j", "down"},
				ScrollUp:         []string{"k", "up"},
				PageLeft:         []string{"h", "left"},
				PageRight:        []string{"l", "right"},
				NewPage:          []string{"n"},
				ClosePage:        []string{"w"},
				Search:           []string{"/", ".", " "},
				UploaderSearch:   []string{"u"},
				Subscribe:        []string{"s"},
				Unsubscribe:      []string{"S"},
				Refresh:          []string{"r"},
				Play:             []string{"p", "enter"},
				Bookmark:         []string{"b"},
				DeleteBookmark:   []string{"x"},
				MoveBookmarkUp:   []string{"K"},
				MoveBookmarkDown: []string{"J"},
				Details:          []string{"i"},
				Yank:             []string{"y"},
				Cancel:           []string{"esc"},
				Help:             []string{"?"},
			},
		},
		Log: LogConfig{
			Level: "off",
			File:  filepath.Join(homeDir, ".vidr", "vidr.log"),
		},
	}
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v, "", toMap(defaultConfig()))

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "vidr")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("VIDR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandPaths(&config)

	return &config, nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Database.Path = expandPath(cfg.Database.Path)
	cfg.Database.SearchIndex = expandPath(cfg.Database.SearchIndex)
	cfg.Search.SubscriptionsFile = expandPath(cfg.Search.SubscriptionsFile)
	cfg.Log.File = expandPath(cfg.Log.File)
}

func Save(config *Config, path string) error {
	v := viper.New()
	for key, value := range toMap(config) {
		v.Set(key, value)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

// toMap lays config out the way it is written to TOML.
func toMap(config *Config) map[string]interface{} {
	// Durations are written as strings so the TOML stays readable.
	dbCfg := map[string]interface{}{
		"path":         config.Database.Path,
		"timeout":      config.Database.Timeout.String(),
		"search_index": config.Database.SearchIndex,
	}

	searchCfg := map[string]interface{}{
		"api_url":            config.Search.APIURL,
		"feed_url":           config.Search.FeedURL,
		"uploader_source":    config.Search.UploaderSource,
		"max_results":        config.Search.MaxResults,
		"search_order":       config.Search.SearchOrder,
		"user_order":         config.Search.UserOrder,
		"http_timeout":       config.Search.HTTPTimeout.String(),
		"user_agent":         config.Search.UserAgent,
		"offline_fallback":   config.Search.OfflineFallback,
		"subscriptions_file": config.Search.SubscriptionsFile,
	}

	uiCfg := map[string]interface{}{
		"info_width":    config.UI.InfoWidth,
		"simple_format": config.UI.SimpleFormat,
		"real_index":    config.UI.RealIndex,
		"colors": map[string]interface{}{
			"primary":   config.UI.Colors.Primary,
			"secondary": config.UI.Colors.Secondary,
			"accent":    config.UI.Colors.Accent,
			"text":      config.UI.Colors.Text,
			"muted":     config.UI.Colors.Muted,
			"error":     config.UI.Colors.Error,
			"success":   config.UI.Colors.Success,
		},
	}

	mediaCfg := map[string]interface{}{
		"player":         config.Media.Player,
		"player_args":    config.Media.PlayerArgs,
		"darwin":         config.Media.Darwin,
		"linux":          config.Media.Linux,
		"windows":        config.Media.Windows,
		"default_opener": config.Media.DefaultOpener,
	}

	kb := config.Keys.Bindings
	keysCfg := map[string]interface{}{
		"bindings": map[string]interface{}{
			"quit":               kb.Quit,
			"scroll_down":        kb.ScrollDown,
			"scroll_up":          kb.ScrollUp,
			"page_left":          kb.PageLeft,
			"page_right":         kb.PageRight,
			"new_page":           kb.NewPage,
			"close_page":         kb.ClosePage,
			"search":             kb.Search,
			"uploader_search":    kb.UploaderSearch,
			"subscribe":          kb.Subscribe,
			"unsubscribe":        kb.Unsubscribe,
			"refresh":            kb.Refresh,
			"play":               kb.Play,
			"bookmark":           kb.Bookmark,
			"delete_bookmark":    kb.DeleteBookmark,
			"move_bookmark_up":   kb.MoveBookmarkUp,
			"move_bookmark_down": kb.MoveBookmarkDown,
			"details":            kb.Details,
			"yank":               kb.Yank,
			"cancel":             kb.Cancel,
			"help":               kb.Help,
		},
	}

	return map[string]interface{}{
		"database": dbCfg,
		"search":   searchCfg,
		"ui":       uiCfg,
		"media":    mediaCfg,
		"keys":     keysCfg,
		"log": map[string]interface{}{
			"level": config.Log.Level,
			"file":  config.Log.File,
		},
	}
}

// setDefaults registers every leaf of m so partial config files and
// VIDR_* variables override single keys.
func setDefaults(v *viper.Viper, prefix string, m map[string]interface{}) {
	for key, value := range m {
		if prefix != "" {
			key = prefix + "." + key
		}
		if sub, ok := value.(map[string]interface{}); ok {
			setDefaults(v, key, sub)
			continue
		}
		v.SetDefault(key, value)
	}
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
