package media

import (
	_ "embed"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/pelletier/go-toml/v2"
)

//go:embed players.toml
var playersTOML []byte

// PlayerDefinition describes how a player is invoked.
type PlayerDefinition struct {
	Description string   `toml:"description"`
	Platforms   []string `toml:"platforms"`
	Args        []string `toml:"args,omitempty"`
	ArgsDarwin  []string `toml:"args_darwin,omitempty"`
	ArgsLinux   []string `toml:"args_linux,omitempty"`
	ArgsWindows []string `toml:"args_windows,omitempty"`
}

// PlayersConfig is the layout of players.toml.
type PlayersConfig struct {
	Opener  map[string]string           `toml:"opener"`
	Players map[string]PlayerDefinition `toml:"players"`
}

// PlayerRegistry holds the known players and the platform openers.
type PlayerRegistry struct {
	players map[string]PlayerDefinition
	opener  map[string]string
}

// NewPlayerRegistry loads the built-in definitions and merges the user
// overrides found in overridePaths.
func NewPlayerRegistry(overridePaths ...string) (*PlayerRegistry, error) {
	cfg, err := parsePlayers(playersTOML)
	if err != nil {
		return nil, fmt.Errorf("parsing players.toml: %w", err)
	}

	r := &PlayerRegistry{players: cfg.Players, opener: cfg.Opener}
	if r.players == nil {
		r.players = make(map[string]PlayerDefinition)
	}
	if r.opener == nil {
		r.opener = make(map[string]string)
	}
	for _, path := range overridePaths {
		r.merge(path)
	}
	return r, nil
}

// UserPlayersPath is where user player overrides live.
func UserPlayersPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "vidr", "players.toml")
}

func parsePlayers(data []byte) (*PlayersConfig, error) {
	var cfg PlayersConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *PlayerRegistry) merge(path string) {
	if path == "" {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	user, err := parsePlayers(data)
	if err != nil {
		return
	}
	maps.Copy(r.players, user.Players)
	maps.Copy(r.opener, user.Opener)
}

// Names lists the defined players.
func (r *PlayerRegistry) Names() []string {
	return slices.Sorted(maps.Keys(r.players))
}

// Args returns the registry arguments of player for the running platform.
// Unknown players get none; players not built for this platform are an
// error.
func (r *PlayerRegistry) Args(player string) ([]string, error) {
	def, ok := r.players[player]
	if !ok {
		return nil, nil
	}
	if !slices.Contains(def.Platforms, runtime.GOOS) {
		return nil, fmt.Errorf("%s not supported on %s", player, runtime.GOOS)
	}
	return slices.Clone(platformArgs(def)), nil
}

func platformArgs(def PlayerDefinition) []string {
	switch runtime.GOOS {
	case "darwin":
		if len(def.ArgsDarwin) > 0 {
			return def.ArgsDarwin
		}
	case "linux":
		if len(def.ArgsLinux) > 0 {
			return def.ArgsLinux
		}
	case "windows":
		if len(def.ArgsWindows) > 0 {
			return def.ArgsWindows
		}
	}
	return def.Args
}

// Opener returns the platform's generic URL opener.
func (r *PlayerRegistry) Opener() string {
	return r.opener[runtime.GOOS]
}
