package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/pders01/vidr/internal/config"
)

// keyMap holds the configured bindings. It implements help.KeyMap.
type keyMap struct {
	Quit             key.Binding
	ScrollDown       key.Binding
	ScrollUp         key.Binding
	PageLeft         key.Binding
	PageRight        key.Binding
	NewPage          key.Binding
	ClosePage        key.Binding
	Search           key.Binding
	UploaderSearch   key.Binding
	Subscribe        key.Binding
	Unsubscribe      key.Binding
	Refresh          key.Binding
	Play             key.Binding
	Bookmark         key.Binding
	DeleteBookmark   key.Binding
	MoveBookmarkUp   key.Binding
	MoveBookmarkDown key.Binding
	Details          key.Binding
	Yank             key.Binding
	Cancel           key.Binding
	Help             key.Binding
}

func newKeyMap(kb config.KeyBindings) keyMap {
	bind := func(keys []string, desc string) key.Binding {
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(helpKeys(keys), desc))
	}
	return keyMap{
		Quit:             bind(kb.Quit, "quit"),
		ScrollDown:       bind(kb.ScrollDown, "scroll down"),
		ScrollUp:         bind(kb.ScrollUp, "scroll up"),
		PageLeft:         bind(kb.PageLeft, "previous page"),
		PageRight:        bind(kb.PageRight, "next page"),
		NewPage:          bind(kb.NewPage, "new page"),
		ClosePage:        bind(kb.ClosePage, "close page"),
		Search:           bind(kb.Search, "search"),
		UploaderSearch:   bind(kb.UploaderSearch, "uploader/term"),
		Subscribe:        bind(kb.Subscribe, "subscribe"),
		Unsubscribe:      bind(kb.Unsubscribe, "unsubscribe"),
		Refresh:          bind(kb.Refresh, "refresh subscriptions"),
		Play:             bind(kb.Play, "play #"),
		Bookmark:         bind(kb.Bookmark, "bookmark #"),
		DeleteBookmark:   bind(kb.DeleteBookmark, "delete bookmark #"),
		MoveBookmarkUp:   bind(kb.MoveBookmarkUp, "move bookmark # up"),
		MoveBookmarkDown: bind(kb.MoveBookmarkDown, "move bookmark # down"),
		Details:          bind(kb.Details, "details #"),
		Yank:             bind(kb.Yank, "copy url #"),
		Cancel:           bind(kb.Cancel, "cancel"),
		Help:             bind(kb.Help, "help"),
	}
}

// helpKeys renders a key list for the help view.
func helpKeys(keys []string) string {
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == " " {
			k = "space"
		}
		names = append(names, k)
	}
	return strings.Join(names, "/")
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.UploaderSearch, k.Play, k.PageLeft, k.PageRight, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ScrollDown, k.ScrollUp, k.PageLeft, k.PageRight, k.NewPage, k.ClosePage},
		{k.Search, k.UploaderSearch, k.Subscribe, k.Unsubscribe, k.Refresh},
		{k.Play, k.Details, k.Yank, k.Bookmark, k.DeleteBookmark, k.MoveBookmarkUp, k.MoveBookmarkDown},
		{k.Cancel, k.Help, k.Quit},
	}
}
