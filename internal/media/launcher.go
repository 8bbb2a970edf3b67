// Package media starts external players for videos.
package media

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/pders01/vidr/internal/config"
	"github.com/pders01/vidr/internal/debuglog"
	"github.com/pders01/vidr/internal/video"
)

// Launcher builds player commands and starts them detached.
type Launcher struct {
	registry      *PlayerRegistry
	player        string
	playerArgs    string
	candidates    []string
	defaultOpener string

	lookPath func(string) (string, error)
	start    func(*exec.Cmd) error
}

func NewLauncher(cfg *config.Config) *Launcher {
	registry, err := NewPlayerRegistry(UserPlayersPath())
	if err != nil {
		debuglog.Warnf("player definitions unavailable: %v", err)
		registry = &PlayerRegistry{players: map[string]PlayerDefinition{}, opener: map[string]string{}}
	}

	debuglog.Debugf("players known: %v", registry.Names())

	opener := cfg.Media.DefaultOpener
	if opener == "" {
		opener = registry.Opener()
	}

	return &Launcher{
		registry:      registry,
		player:        cfg.Media.Player,
		playerArgs:    cfg.Media.PlayerArgs,
		candidates:    cfg.Media.Candidates(),
		defaultOpener: opener,
		lookPath:      exec.LookPath,
		start:         startDetached,
	}
}

// Resolve picks the player to use: the requested one, then the configured
// one, then the first installed candidate, then the platform opener.
func (l *Launcher) Resolve(player string) string {
	if player != "" {
		return player
	}
	if l.player != "" && l.installed(l.player) {
		return l.player
	}
	for _, c := range l.candidates {
		if l.installed(c) {
			return c
		}
	}
	if l.player != "" {
		return l.player
	}
	return l.defaultOpener
}

func (l *Launcher) installed(name string) bool {
	_, err := l.lookPath(name)
	return err == nil
}

// Command builds `player [registry args] [args...] url`. Empty args fall
// back to the configured player arguments.
func (l *Launcher) Command(v *video.Video, player, args string) (*exec.Cmd, error) {
	name := l.Resolve(player)
	if name == "" {
		return nil, fmt.Errorf("no player found to open %s", v.URL())
	}

	argv, err := l.registry.Args(name)
	if err != nil {
		return nil, err
	}
	if args == "" {
		args = l.playerArgs
	}
	argv = append(argv, strings.Fields(args)...)
	argv = append(argv, v.URL())

	return exec.Command(name, argv...), nil
}

// Play starts a player for v without waiting for it. Failures are logged
// and returned for display.
func (l *Launcher) Play(v *video.Video, player, args string) error {
	cmd, err := l.Command(v, player, args)
	if err == nil {
		err = l.start(cmd)
	}
	if err != nil {
		debuglog.WithFields(map[string]interface{}{"video": v.ID, "player": player}).Errorf("play failed: %v", err)
		return err
	}
	debuglog.Infof("playing %s with %s", v.ID, cmd.Path)
	return nil
}

func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", cmd.Args[0], err)
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}
