package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/vidr/internal/config"
	"github.com/pders01/vidr/internal/page"
	"github.com/pders01/vidr/internal/session"
	"github.com/pders01/vidr/internal/video"
)

var enter = tea.KeyMsg{Type: tea.KeyEnter}

func TestSearchPromptRunsQuery(t *testing.T) {
	env := newTestEnv(t)
	a := env.app
	env.searcher.results["/cats"] = makeVideos("cat", 3, "bob")

	press(a, keyRunes("/"), keyRunes("cats"))
	assert.Equal(t, "cats", a.input.Value())

	cmd := press(a, enter)
	assert.Equal(t, ViewPages, a.view)
	assert.Equal(t, MsgSearching, a.status)
	drain(a, cmd)

	assert.Equal(t, page.Query{Term: "cats", Ordering: video.OrderRelevance, MaxResults: 5}, env.searcher.lastCall())
	p := a.session.Current().(*page.Search)
	require.NotNil(t, p.Query)
	assert.Equal(t, "cats", p.Query.Term)
	assert.Len(t, p.Items(), 3)
	assert.Empty(t, a.status)
}

func TestSearchFromFixedPageOpensNewPage(t *testing.T) {
	env := newTestEnv(t)
	a := env.app
	a.session.MoveTo(session.BookmarksIndex)

	drain(a, press(a, keyRunes("/"), keyRunes("dogs"), enter))

	assert.Equal(t, 4, a.session.Len())
	assert.Equal(t, 2, a.session.Index())
	assert.Equal(t, "s:dogs", a.session.Current().Label())
}

func TestUploaderPrompt(t *testing.T) {
	env := newTestEnv(t)
	a := env.app

	drain(a, press(a, keyRunes("u"), keyRunes("bob/big  dogs"), enter))
	assert.Equal(t, page.Query{Uploader: "bob", Term: "big dogs", Ordering: video.OrderPublished, MaxResults: 5}, env.searcher.lastCall())
	assert.Equal(t, "u:bob/big dogs", a.session.Current().Label())

	press(a, keyRunes("u"), keyRunes("/dogs"), enter)
	assert.Equal(t, StatusError, a.statusKind)
	assert.Len(t, env.searcher.calls, 1)
}

func TestEmptySearchIgnored(t *testing.T) {
	env := newTestEnv(t)
	a := env.app

	cmd := press(a, keyRunes("/"), keyRunes("   "), enter)
	assert.Nil(t, cmd)
	assert.Equal(t, MsgEmptySearch, a.status)
	assert.Empty(t, env.searcher.calls)
}

func TestStaleSearchResultsDropped(t *testing.T) {
	env := newTestEnv(t)
	a := env.app
	env.searcher.results["/cats"] = makeVideos("cat", 3, "bob")

	cmd := press(a, keyRunes("/"), keyRunes("cats"), enter)
	press(a, keyRunes("w"))
	require.Equal(t, 2, a.session.Len())

	drain(a, cmd)
	assert.Equal(t, 2, a.session.Len())
	assert.Empty(t, a.session.Bookmarks().Items())
}

func TestOutOfOrderSearchResults(t *testing.T) {
	env := newTestEnv(t)
	a := env.app
	env.searcher.results["/old"] = makeVideos("old", 2, "bob")
	env.searcher.results["/new"] = makeVideos("new", 3, "eve")

	first := press(a, keyRunes("/"), keyRunes("old"), enter)
	second := press(a, keyRunes("/"), keyRunes("new"), enter)
	require.Equal(t, 3, a.session.Len(), "both searches run on the same page")

	drain(a, second)
	drain(a, first)

	p := a.session.Current()
	assert.Equal(t, "s:new", p.Label())
	require.Len(t, p.Items(), 3)
	assert.Equal(t, "new title 0", p.Items()[0].Title)
}

func TestPlaySelectedItem(t *testing.T) {
	env := newTestEnv(t)
	a := env.app
	items := makeVideos("v", 3, "bob")
	showResults(t, a, page.Query{Term: "x"}, items)

	press(a, keyRunes("1"))
	assert.Equal(t, "1", a.digits)
	assert.Contains(t, a.View(), "#1")

	cmd := press(a, keyRunes("p"))
	assert.Equal(t, MsgPlaying(items[1].Title), a.status)
	assert.Empty(t, a.digits)
	drain(a, cmd)

	require.Len(t, env.player.played, 1)
	assert.Same(t, items[1], env.player.played[0])
}

func TestPlayWithEnterAndRealIndex(t *testing.T) {
	env := newTestEnv(t)
	a := env.app
	a.config.UI.RealIndex = true
	items := makeVideos("v", 3, "bob")
	showResults(t, a, page.Query{Term: "x"}, items)

	drain(a, press(a, keyRunes("1"), enter))
	require.Len(t, env.player.played, 1)
	assert.Same(t, items[0], env.player.played[0])
}

func TestSelectionErrors(t *testing.T) {
	env := newTestEnv(t)
	a := env.app
	showResults(t, a, page.Query{Term: "x"}, makeVideos("v", 2, "bob"))

	press(a, keyRunes("p"))
	assert.Equal(t, MsgSelectFirst, a.status)

	press(a, keyRunes("9"), keyRunes("p"))
	assert.Equal(t, StatusError, a.statusKind)
	assert.Contains(t, a.status, "out of range")

	press(a, keyRunes("1"), tea.KeyMsg{Type: tea.KeyEsc}, keyRunes("p"))
	assert.Equal(t, MsgSelectFirst, a.status)
	assert.Empty(t, env.player.played)
}

func TestPlayErrorShown(t *testing.T) {
	env := newTestEnv(t)
	a := env.app
	env.player.err = errors.New("no player found")
	showResults(t, a, page.Query{Term: "x"}, makeVideos("v", 1, "bob"))

	drain(a, press(a, keyRunes("0"), keyRunes("p")))
	assert.Equal(t, "play: no player found", a.status)
	assert.Equal(t, StatusError, a.statusKind)
}

func TestStatusIsTransient(t *testing.T) {
	env := newTestEnv(t)
	a := env.app
	press(a, keyRunes("p"))
	require.NotEmpty(t, a.status)

	press(a, keyRunes("j"))
	assert.Empty(t, a.status)
	assert.Contains(t, a.View(), "new page")
}

func TestBookmarkKeys(t *testing.T) {
	env := newTestEnv(t)
	a := env.app
	items := makeVideos("v", 3, "bob")
	showResults(t, a, page.Query{Term: "x"}, items)

	press(a, keyRunes("0"), keyRunes("b"))
	assert.Equal(t, MsgBookmarked(items[0].Title), a.status)
	press(a, keyRunes("0"), keyRunes("b"))
	assert.Equal(t, MsgAlreadyBookmarked(items[0].Title), a.status)
	press(a, keyRunes("2"), keyRunes("b"))

	press(a, keyRunes("0"), keyRunes("x"))
	assert.Equal(t, MsgNotBookmarks, a.status)

	a.session.MoveTo(session.BookmarksIndex)
	bm := a.session.Bookmarks()
	require.Len(t, bm.Items(), 2)

	press(a, keyRunes("1"), keyRunes("K"))
	assert.Equal(t, []*video.Video{items[2], items[0]}, bm.Items())

	press(a, keyRunes("0"), keyRunes("J"))
	assert.Equal(t, []*video.Video{items[0], items[2]}, bm.Items())

	press(a, keyRunes("0"), keyRunes("x"))
	assert.Equal(t, []*video.Video{items[2]}, bm.Items())
}

func TestSubscribeFromUserPage(t *testing.T) {
	env := newTestEnv(t)
	a := env.app
	showResults(t, a, page.Query{Uploader: "bob", Ordering: video.OrderPublished}, makeVideos("v", 2, "bob"))

	drain(a, press(a, keyRunes("s")))
	assert.True(t, a.session.Subscriptions().Tracks("bob"))
	assert.Equal(t, MsgUserAdded("bob"), a.status)

	saved, err := config.LoadSubscriptions(env.subsFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, saved)

	press(a, keyRunes("s"))
	assert.Equal(t, MsgUserKnown("bob"), a.status)
}

func TestSubscribeRequiresUserPage(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*testing.T, *App)
		want  string
	}{
		{
			name:  "empty search page",
			setup: func(*testing.T, *App) {},
			want:  MsgNotUserPage,
		},
		{
			name: "term search",
			setup: func(t *testing.T, a *App) {
				showResults(t, a, page.Query{Term: "x"}, makeVideos("v", 1, "bob"))
			},
			want: MsgNotUserPage,
		},
		{
			name:  "bookmarks",
			setup: func(_ *testing.T, a *App) { a.session.MoveTo(session.BookmarksIndex) },
			want:  MsgNotUserPage,
		},
		{
			name: "user page without results",
			setup: func(t *testing.T, a *App) {
				showResults(t, a, page.Query{Uploader: "ghost"}, nil)
			},
			want: MsgNoResultsForUser("ghost"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestEnv(t).app
			tt.setup(t, a)
			press(a, keyRunes("s"))
			assert.Equal(t, tt.want, a.status)
			assert.Empty(t, a.session.Subscriptions().Uploaders())
		})
	}
}

func TestSubscribePromptChecksUploader(t *testing.T) {
	env := newTestEnv(t)
	a := env.app
	env.searcher.results["alice/"] = makeVideos("a", 2, "alice")

	drain(a, press(a, keyRunes("h"), keyRunes("h")))
	require.Equal(t, session.SubscriptionsIndex, a.session.Index())

	drain(a, press(a, keyRunes("s"), keyRunes("alice"), enter))
	assert.Equal(t, []string{"alice"}, a.session.Subscriptions().Uploaders())
	assert.Equal(t, MsgUserAdded("alice"), a.status)
	assert.Len(t, a.session.Subscriptions().Items(), 2)

	drain(a, press(a, keyRunes("s"), keyRunes("ghost"), enter))
	assert.Equal(t, MsgNoResultsForUser("ghost"), a.status)
	assert.False(t, a.session.Subscriptions().Tracks("ghost"))
}

func TestUnsubscribe(t *testing.T) {
	env := newTestEnv(t)
	a := env.app
	a.session.Subscriptions().AddUploader("bob")
	a.session.Subscriptions().AddUploader("eve")
	showResults(t, a, page.Query{Uploader: "bob"}, makeVideos("v", 1, "bob"))

	drain(a, press(a, keyRunes("S")))
	assert.Equal(t, MsgUserRemoved("bob"), a.status)
	assert.Equal(t, []string{"eve"}, a.session.Subscriptions().Uploaders())

	saved, err := config.LoadSubscriptions(env.subsFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"eve"}, saved)

	showResults(t, a, page.Query{Term: "x"}, makeVideos("e", 1, "eve"))
	drain(a, press(a, keyRunes("0"), keyRunes("S")))
	assert.Empty(t, a.session.Subscriptions().Uploaders())
}

func TestRefreshSubscriptions(t *testing.T) {
	env := newTestEnv(t)
	a := env.app

	press(a, keyRunes("r"))
	assert.Equal(t, MsgNoSubscriptions, a.status)

	a.session.Subscriptions().AddUploader("bob")
	env.searcher.results["bob/"] = makeVideos("b", 4, "bob")
	drain(a, press(a, keyRunes("r")))

	assert.Equal(t, MsgRefreshSummary(1, 4, -1), a.status)
	assert.Len(t, a.session.Subscriptions().Items(), 4)
	assert.Equal(t, page.Query{Uploader: "bob", Ordering: video.OrderPublished, MaxResults: 5}, env.searcher.lastCall())
}

func TestRefreshSkipsUploaderRemovedMeanwhile(t *testing.T) {
	env := newTestEnv(t)
	a := env.app
	a.session.Subscriptions().AddUploader("alice")
	a.session.Subscriptions().AddUploader("bob")
	env.searcher.results["alice/"] = makeVideos("a", 2, "alice")
	env.searcher.results["bob/"] = makeVideos("b", 2, "bob")

	cmd := press(a, keyRunes("r"))
	require.NotNil(t, cmd)
	a.removeSubscription("bob")
	drain(a, cmd)

	subs := a.session.Subscriptions()
	assert.Equal(t, []string{"alice"}, subs.Uploaders())
	require.Len(t, subs.Items(), 2)
	for _, v := range subs.Items() {
		assert.Equal(t, "alice", v.Uploader)
	}
	assert.Equal(t, MsgRefreshSummary(1, 2, -1), a.status)
}

func TestOlderRefreshIgnored(t *testing.T) {
	env := newTestEnv(t)
	a := env.app
	a.session.Subscriptions().AddUploader("bob")
	env.searcher.results["bob/"] = makeVideos("b", 1, "bob")
	older := press(a, keyRunes("r"))

	env.searcher.results["bob/"] = makeVideos("b", 3, "bob")
	newer := press(a, keyRunes("r"))

	drain(a, newer)
	drain(a, older)
	assert.Len(t, a.session.Subscriptions().Items(), 3)
}

func TestEnteringSubscriptionsRefreshesOnce(t *testing.T) {
	env := newTestEnv(t)
	a := env.app
	a.session.Subscriptions().AddUploader("bob")
	env.searcher.results["bob/"] = makeVideos("b", 2, "bob")

	assert.Nil(t, press(a, keyRunes("h")))
	cmd := press(a, keyRunes("h"))
	require.NotNil(t, cmd)
	drain(a, cmd)
	assert.Len(t, a.session.Subscriptions().Items(), 2)

	press(a, keyRunes("l"))
	assert.Nil(t, press(a, keyRunes("h")))
	assert.Len(t, env.searcher.calls, 1)
}

func TestPageKeys(t *testing.T) {
	env := newTestEnv(t)
	a := env.app

	press(a, keyRunes("n"))
	assert.Equal(t, 4, a.session.Len())
	assert.Equal(t, 3, a.session.Index())

	press(a, keyRunes("w"))
	assert.Equal(t, 3, a.session.Len())
	assert.Equal(t, 2, a.session.Index())

	press(a, keyRunes("l"))
	assert.Equal(t, 2, a.session.Index())

	press(a, keyRunes("h"))
	press(a, keyRunes("w"))
	assert.Equal(t, MsgCannotClose, a.status)
	assert.Equal(t, 3, a.session.Len())
}

func TestScrollKeys(t *testing.T) {
	env := newTestEnv(t)
	a := env.app
	showResults(t, a, page.Query{Term: "x"}, makeVideos("v", 10, "bob"))

	press(a, keyRunes("j"))
	assert.Equal(t, 4, a.session.Current().Window().Start)
	assert.Contains(t, a.View(), "0. v title 4")

	press(a, keyRunes("k"))
	assert.Equal(t, 0, a.session.Current().Window().Start)

	// Rows are relative to the window.
	press(a, keyRunes("j"))
	drain(a, press(a, keyRunes("0"), keyRunes("p")))
	require.Len(t, env.player.played, 1)
	assert.Equal(t, "v4", env.player.played[0].ID)
}

func TestYankCopiesURL(t *testing.T) {
	env := newTestEnv(t)
	a := env.app
	var copied string
	a.writeClipboard = func(s string) error {
		copied = s
		return nil
	}
	items := makeVideos("v", 1, "bob")
	showResults(t, a, page.Query{Term: "x"}, items)

	drain(a, press(a, keyRunes("0"), keyRunes("y")))
	assert.Equal(t, items[0].URL(), copied)
	assert.Equal(t, MsgCopied(items[0].URL()), a.status)

	a.writeClipboard = func(string) error { return errors.New("no clipboard") }
	drain(a, press(a, keyRunes("0"), keyRunes("y")))
	assert.Equal(t, "copy: no clipboard", a.status)
}

func TestHelpView(t *testing.T) {
	env := newTestEnv(t)
	a := env.app

	press(a, keyRunes("?"))
	require.Equal(t, ViewHelp, a.view)
	out := a.View()
	assert.Contains(t, out, "uploader/term")
	assert.Contains(t, out, "space")

	press(a, keyRunes("?"))
	assert.Equal(t, ViewPages, a.view)
}

func TestCustomBindings(t *testing.T) {
	cfg := config.TestConfig()
	cfg.Keys.Bindings.Search = []string{"ctrl+f"}
	a := NewApp(cfg, session.New(), &fakeSearcher{}, &fakePlayer{}, nil)

	press(a, keyRunes("/"))
	assert.Equal(t, ViewPages, a.view)

	press(a, tea.KeyMsg{Type: tea.KeyCtrlF})
	assert.Equal(t, ViewPrompt, a.view)
	assert.Equal(t, "search: ", a.input.Prompt)
}
