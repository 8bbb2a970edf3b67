package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/vidr/internal/config"
	"github.com/pders01/vidr/internal/page"
	"github.com/pders01/vidr/internal/session"
	"github.com/pders01/vidr/internal/video"
)

type fakeSearcher struct {
	mu      sync.Mutex
	results map[string][]*video.Video
	calls   []page.Query
}

func (f *fakeSearcher) Search(_ context.Context, uploader, term string, order video.Ordering, maxResults int) []*video.Video {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, page.Query{Uploader: uploader, Term: term, Ordering: order, MaxResults: maxResults})
	return f.results[uploader+"/"+term]
}

func (f *fakeSearcher) lastCall() page.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return page.Query{}
	}
	return f.calls[len(f.calls)-1]
}

type fakePlayer struct {
	mu     sync.Mutex
	played []*video.Video
	err    error
}

func (p *fakePlayer) Play(v *video.Video, _, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.played = append(p.played, v)
	return p.err
}

type memStore struct {
	blob    []byte
	loadErr error
}

func (m *memStore) SaveSession(blob []byte) error {
	m.blob = blob
	return nil
}

func (m *memStore) LoadSession() ([]byte, error) {
	return m.blob, m.loadErr
}

func makeVideos(prefix string, n int, uploader string) []*video.Video {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	out := make([]*video.Video, n)
	for i := range out {
		out[i] = &video.Video{
			ID:          fmt.Sprintf("%s%d", prefix, i),
			Title:       fmt.Sprintf("%s title %d", prefix, i),
			Description: "about " + prefix,
			Uploader:    uploader,
			Uploaded:    base.Add(-time.Duration(i) * time.Hour),
			Views:       int64(100 * (i + 1)),
			Duration:    90,
		}
	}
	return out
}

type testEnv struct {
	app      *App
	searcher *fakeSearcher
	player   *fakePlayer
	store    *memStore
	subsFile string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := config.TestConfig()
	cfg.Search.SubscriptionsFile = filepath.Join(t.TempDir(), "subscriptions.toml")

	env := &testEnv{
		searcher: &fakeSearcher{results: map[string][]*video.Video{}},
		player:   &fakePlayer{},
		store:    &memStore{},
		subsFile: cfg.Search.SubscriptionsFile,
	}
	env.app = NewApp(cfg, session.New(), env.searcher, env.player, env.store)
	env.app.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	return env
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends each key in order and returns the command of the last one.
func press(a *App, keys ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = a.Update(k)
	}
	return cmd
}

// drain runs cmd and feeds the resulting messages back into the app until
// nothing is left.
func drain(a *App, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case nil:
	case tea.BatchMsg:
		for _, c := range msg {
			drain(a, c)
		}
	default:
		_, next := a.Update(msg)
		drain(a, next)
	}
}

// showResults puts items on the current search page.
func showResults(t *testing.T, a *App, q page.Query, items []*video.Video) *page.Search {
	t.Helper()
	p, ok := a.session.Current().(*page.Search)
	require.True(t, ok, "current page should be a search page")
	p.SetResults(q, items)
	a.layout()
	return p
}

func TestViewStateTransitions(t *testing.T) {
	tests := []struct {
		name         string
		initialView  View
		msg          tea.Msg
		expectedView View
		setupFunc    func(*App)
	}{
		{
			name:         "ViewPages to ViewPrompt on '/'",
			initialView:  ViewPages,
			msg:          keyRunes("/"),
			expectedView: ViewPrompt,
		},
		{
			name:         "ViewPages to ViewPrompt on space",
			initialView:  ViewPages,
			msg:          tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}},
			expectedView: ViewPrompt,
		},
		{
			name:         "ViewPages to ViewPrompt on 'u'",
			initialView:  ViewPages,
			msg:          keyRunes("u"),
			expectedView: ViewPrompt,
		},
		{
			name:         "ViewPages to ViewPrompt on 's' from subscriptions",
			initialView:  ViewPages,
			msg:          keyRunes("s"),
			expectedView: ViewPrompt,
			setupFunc: func(a *App) {
				a.session.MoveTo(session.SubscriptionsIndex)
			},
		},
		{
			name:         "ViewPrompt to ViewPages on Escape",
			initialView:  ViewPrompt,
			msg:          tea.KeyMsg{Type: tea.KeyEsc},
			expectedView: ViewPages,
		},
		{
			name:         "ViewPages to ViewHelp on '?'",
			initialView:  ViewPages,
			msg:          keyRunes("?"),
			expectedView: ViewHelp,
		},
		{
			name:         "ViewHelp to ViewPages on Escape",
			initialView:  ViewHelp,
			msg:          tea.KeyMsg{Type: tea.KeyEsc},
			expectedView: ViewPages,
		},
		{
			name:         "ViewPages to ViewDetails on 'i' with an item number",
			initialView:  ViewPages,
			msg:          keyRunes("i"),
			expectedView: ViewDetails,
			setupFunc: func(a *App) {
				a.session.Current().(*page.Search).SetResults(page.Query{Term: "x"}, makeVideos("v", 2, "bob"))
				a.digits = "1"
			},
		},
		{
			name:         "ViewPages stays without an item number",
			initialView:  ViewPages,
			msg:          keyRunes("i"),
			expectedView: ViewPages,
		},
		{
			name:         "ViewDetails to ViewPages on Escape",
			initialView:  ViewDetails,
			msg:          tea.KeyMsg{Type: tea.KeyEsc},
			expectedView: ViewPages,
			setupFunc: func(a *App) {
				a.detail = makeVideos("v", 1, "bob")[0]
			},
		},
		{
			name:         "ViewDetails to ViewPages on 'q'",
			initialView:  ViewDetails,
			msg:          keyRunes("q"),
			expectedView: ViewPages,
			setupFunc: func(a *App) {
				a.detail = makeVideos("v", 1, "bob")[0]
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestEnv(t).app
			app.view = tt.initialView

			if tt.setupFunc != nil {
				tt.setupFunc(app)
			}

			updatedModel, _ := app.Update(tt.msg)
			updatedApp, ok := updatedModel.(*App)
			require.True(t, ok, "model should be *App")

			assert.Equal(t, tt.expectedView, updatedApp.view,
				"expected view to be %v but got %v", tt.expectedView, updatedApp.view)
		})
	}
}

func TestWindowSizeLaysOutCurrentPage(t *testing.T) {
	env := newTestEnv(t)
	a := env.app
	showResults(t, a, page.Query{Term: "x"}, makeVideos("v", 10, "bob"))

	// 20 rows minus page bar and status line leaves 6 detailed items.
	assert.Equal(t, 0, a.session.Current().Window().Start)
	assert.Equal(t, 6, a.session.Current().Window().End)

	a.config.UI.SimpleFormat = true
	a.Update(tea.WindowSizeMsg{Width: 100, Height: 12})
	assert.Equal(t, 5, a.session.Current().Window().End)
}

func TestViewRendersPaneBarAndStatus(t *testing.T) {
	env := newTestEnv(t)
	a := env.app
	showResults(t, a, page.Query{Term: "cats", Ordering: video.OrderRelevance}, makeVideos("cat", 3, "bob"))

	out := a.View()
	assert.Contains(t, out, "0. cat title 0")
	assert.Contains(t, out, "2. cat title 2")
	assert.Contains(t, out, "s:cats")
	assert.Contains(t, out, "bookmarks")
	assert.Contains(t, out, `Displaying videos 1-3 of a search for "cats" ordered by relevance`)
}

func TestViewBeforeWindowSize(t *testing.T) {
	cfg := config.TestConfig()
	a := NewApp(cfg, session.New(), &fakeSearcher{}, &fakePlayer{}, nil)
	assert.Equal(t, "", a.View())
}

func TestNewPageShowsWelcome(t *testing.T) {
	env := newTestEnv(t)
	assert.Contains(t, env.app.View(), "Press / to search")
}

func TestQuitSavesSession(t *testing.T) {
	env := newTestEnv(t)
	a := env.app
	showResults(t, a, page.Query{Term: "cats"}, makeVideos("cat", 2, "bob"))
	a.session.Bookmarks().Add(makeVideos("bm", 1, "eve")[0])

	_, cmd := a.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, a.quitting)
	require.NotNil(t, env.store.blob)

	restored, err := session.Unmarshal(env.store.blob)
	require.NoError(t, err)
	assert.Equal(t, a.session.Len(), restored.Len())
	assert.Len(t, restored.Bookmarks().Items(), 1)
}

func TestCtrlCQuitsFromPrompt(t *testing.T) {
	env := newTestEnv(t)
	a := env.app
	press(a, keyRunes("/"))
	require.Equal(t, ViewPrompt, a.view)

	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.NotNil(t, env.store.blob)
}

func TestRestoreSession(t *testing.T) {
	t.Run("no store", func(t *testing.T) {
		sess := RestoreSession(nil, []string{"bob"})
		assert.Equal(t, 3, sess.Len())
		assert.Equal(t, []string{"bob"}, sess.Subscriptions().Uploaders())
	})

	t.Run("saved session merged with uploaders", func(t *testing.T) {
		saved := session.New("alice")
		saved.OpenNewPage()
		blob, err := session.Marshal(saved)
		require.NoError(t, err)

		sess := RestoreSession(&memStore{blob: blob}, []string{"alice", "bob"})
		assert.Equal(t, 4, sess.Len())
		assert.Equal(t, []string{"alice", "bob"}, sess.Subscriptions().Uploaders())
	})

	t.Run("corrupt session discarded", func(t *testing.T) {
		sess := RestoreSession(&memStore{blob: []byte("{not json")}, nil)
		assert.Equal(t, 3, sess.Len())
	})

	t.Run("load error", func(t *testing.T) {
		sess := RestoreSession(&memStore{loadErr: errors.New("locked")}, nil)
		assert.Equal(t, 3, sess.Len())
	})
}
