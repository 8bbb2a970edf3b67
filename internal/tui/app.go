// Package tui is the terminal front end: a bubbletea program that draws the
// current page, the page bar and the status line, and turns key presses
// into session operations.
package tui

import (
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/vidr/internal/config"
	"github.com/pders01/vidr/internal/page"
	"github.com/pders01/vidr/internal/session"
	"github.com/pders01/vidr/internal/video"
)

// Player starts a video in an external player without waiting for it.
type Player interface {
	Play(v *video.Video, player, args string) error
}

// SessionStore keeps the page stack between runs.
type SessionStore interface {
	SaveSession(blob []byte) error
	LoadSession() ([]byte, error)
}

// docCounter is implemented by searchers backed by an offline index.
type docCounter interface {
	DocCount() int
}

// chromeRows is the page bar plus the status line.
const chromeRows = 2

const maxDigits = 4

type App struct {
	config     *config.Config
	session    *session.Session
	searcher   page.Searcher
	player     Player
	store      SessionStore
	keyHandler *KeyHandler
	keys       keyMap
	input      textinput.Model
	prompt     promptKind
	viewport   viewport.Model
	help       help.Model
	view       View
	detail     *video.Video
	digits     string
	status     string
	statusKind StatusKind
	subsLoaded bool
	refreshSeq int
	searchSeq  int
	quitting   bool
	width      int
	height     int

	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
	writeClipboard  func(string) error

	// pendingSearch holds the sequence number of the latest search started
	// on each page.
	pendingSearch map[*page.Search]int
}

// NewApp builds the program model around an existing session. store may be
// nil, in which case the session is not persisted on quit.
func NewApp(cfg *config.Config, sess *session.Session, searcher page.Searcher, player Player, store SessionStore) *App {
	ti := textinput.New()
	ti.Prompt = promptSearch.label()
	ti.PromptStyle = PromptStyle
	ti.CharLimit = 256

	h := help.New()
	h.ShowAll = true

	app := &App{
		config:         cfg,
		session:        sess,
		searcher:       searcher,
		player:         player,
		store:          store,
		keys:           newKeyMap(cfg.Keys.Bindings),
		input:          ti,
		viewport:       viewport.New(0, 0),
		help:           h,
		view:           ViewPages,
		pendingSearch:  map[*page.Search]int{},
		writeClipboard: clipboard.WriteAll,
	}
	app.keyHandler = NewKeyHandler(app, app.keys)

	return app
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	wordWrapWidth := (a.width * 9) / 10
	if wordWrapWidth > 120 {
		wordWrapWidth = 120
	}
	if wordWrapWidth < 40 {
		wordWrapWidth = 40
	}
	if a.width < 50 {
		wordWrapWidth = max(a.width-4, 20)
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}

	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		a.enterPage(),
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.viewport.Width = msg.Width
		a.viewport.Height = a.mainHeight()
		a.input.Width = max(msg.Width-len(a.input.Prompt)-2, 1)
		a.help.Width = msg.Width

	case tea.KeyMsg:
		model, cmd := a.keyHandler.HandleKey(msg)
		a.layout()
		return model, cmd

	case searchDoneMsg:
		a.applySearch(msg)

	case subscriptionsRefreshedMsg:
		a.applyRefresh(msg)

	case uploaderCheckedMsg:
		if !msg.found {
			a.setStatus(MsgNoResultsForUser(msg.uploader), StatusWarn)
			break
		}
		_, cmd := a.addSubscription(msg.uploader)
		cmds = append(cmds, cmd)

	case detailsRenderedMsg:
		if a.view == ViewDetails && a.detail == msg.video {
			a.viewport.SetContent(msg.content)
			a.viewport.GotoTop()
		}

	case playedMsg:
		if msg.err != nil {
			a.setStatus(wrapErr("play", msg.err).Error(), StatusError)
		}

	case yankedMsg:
		if msg.err != nil {
			a.setStatus(wrapErr("copy", msg.err).Error(), StatusError)
		} else {
			a.setStatus(MsgCopied(msg.url), StatusSuccess)
		}

	case errorMsg:
		a.setStatus(msg.err.Error(), StatusError)

	case tea.MouseMsg:
		if a.view == ViewDetails {
			newViewport, cmd := a.viewport.Update(msg)
			a.viewport = newViewport
			cmds = append(cmds, cmd)
		}
	}

	a.layout()
	return a, tea.Batch(cmds...)
}

func (a *App) View() string {
	if a.width <= 0 || a.height <= 0 {
		return ""
	}

	var content string
	switch a.view {
	case ViewDetails:
		content = a.viewport.View()
	case ViewHelp:
		content = lipgloss.NewStyle().
			Padding(1, 2).
			Render(lipgloss.JoinVertical(
				lipgloss.Left,
				HeaderStyle.Render("› keys"),
				"",
				a.help.View(a.keys),
			))
	default:
		content = a.renderPane()
	}

	h := a.mainHeight()
	content = lipgloss.NewStyle().
		Width(a.width).
		Height(h).
		MaxHeight(h).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, content, a.renderPageBar(), a.renderStatusBar())
}

// layout fits the current page's scroll window to the main pane.
func (a *App) layout() {
	if a.height <= 0 {
		return
	}
	a.session.Current().Layout(a.mainHeight(), a.itemHeight())
}

func (a *App) mainHeight() int {
	return max(a.height-chromeRows, 0)
}

func (a *App) itemHeight() int {
	if a.config.UI.SimpleFormat {
		return 2
	}
	return 3
}

func (a *App) infoWidth() int {
	if a.config.UI.InfoWidth > 0 {
		return a.config.UI.InfoWidth
	}
	return video.InfoWidth
}

func (a *App) docCount() int {
	if dc, ok := a.searcher.(docCounter); ok {
		return dc.DocCount()
	}
	return -1
}

func (a *App) setStatus(text string, kind StatusKind) {
	a.status = text
	a.statusKind = kind
}

func (a *App) clearStatus() {
	a.status = ""
	a.statusKind = StatusInfo
}

// Session returns the session the app is driving.
func (a *App) Session() *session.Session {
	return a.session
}
