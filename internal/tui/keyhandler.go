package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/vidr/internal/page"
	"github.com/pders01/vidr/internal/session"
	"github.com/pders01/vidr/internal/validation"
	"github.com/pders01/vidr/internal/video"
)

type KeyHandler struct {
	app  *App
	keys keyMap
}

func NewKeyHandler(app *App, keys keyMap) *KeyHandler {
	return &KeyHandler{app: app, keys: keys}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return kh.app.quit()
	}

	switch kh.app.view {
	case ViewPrompt:
		return kh.handlePromptKeys(msg)
	case ViewDetails:
		return kh.handleDetailsKeys(msg)
	case ViewHelp:
		return kh.handleHelpKeys(msg)
	}

	kh.app.clearStatus()
	if kh.appendDigit(msg) {
		return kh.app, nil
	}
	return kh.handlePageKeys(msg)
}

// appendDigit collects the item number typed before an item action.
func (kh *KeyHandler) appendDigit(msg tea.KeyMsg) bool {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return false
	}
	r := msg.Runes[0]
	if r < '0' || r > '9' {
		return false
	}
	if len(kh.app.digits) < maxDigits {
		kh.app.digits += string(r)
	}
	return true
}

func (kh *KeyHandler) handlePageKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	k := kh.keys
	digits := a.digits
	a.digits = ""

	switch {
	case key.Matches(msg, k.Quit):
		return a.quit()
	case key.Matches(msg, k.Cancel):
		return a, nil
	case key.Matches(msg, k.Help):
		a.view = ViewHelp
		return a, nil

	case key.Matches(msg, k.ScrollDown):
		a.session.Current().ScrollDown()
	case key.Matches(msg, k.ScrollUp):
		a.session.Current().ScrollUp()
	case key.Matches(msg, k.PageLeft):
		a.session.MoveLeft()
		return a, a.enterPage()
	case key.Matches(msg, k.PageRight):
		a.session.MoveRight()
		return a, a.enterPage()
	case key.Matches(msg, k.NewPage):
		a.session.OpenNewPage()
	case key.Matches(msg, k.ClosePage):
		if !a.session.CloseCurrentPage() {
			a.setStatus(MsgCannotClose, StatusWarn)
			return a, nil
		}
		return a, a.enterPage()

	case key.Matches(msg, k.Search):
		return kh.openPrompt(promptSearch)
	case key.Matches(msg, k.UploaderSearch):
		return kh.openPrompt(promptUploader)
	case key.Matches(msg, k.Subscribe):
		return kh.subscribe()
	case key.Matches(msg, k.Unsubscribe):
		return kh.unsubscribe(digits)
	case key.Matches(msg, k.Refresh):
		return a, a.refreshSubscriptions(true)

	case key.Matches(msg, k.Play):
		return kh.withSelection(digits, kh.play)
	case key.Matches(msg, k.Bookmark):
		return kh.withSelection(digits, kh.bookmark)
	case key.Matches(msg, k.DeleteBookmark):
		return kh.withBookmark(digits, func(i int) { a.session.Bookmarks().Delete(i) })
	case key.Matches(msg, k.MoveBookmarkUp):
		return kh.withBookmark(digits, func(i int) { a.session.Bookmarks().Move(i, -1) })
	case key.Matches(msg, k.MoveBookmarkDown):
		return kh.withBookmark(digits, func(i int) { a.session.Bookmarks().Move(i, 1) })
	case key.Matches(msg, k.Details):
		return kh.withSelection(digits, kh.details)
	case key.Matches(msg, k.Yank):
		return kh.withSelection(digits, func(v *video.Video, _ int) (tea.Model, tea.Cmd) {
			return a, a.yankURL(v)
		})
	}

	return a, nil
}

func (kh *KeyHandler) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	switch msg.Type {
	case tea.KeyEsc:
		kh.closePrompt()
		return a, nil
	case tea.KeyEnter:
		value := a.input.Value()
		kh.closePrompt()
		return kh.submitPrompt(value)
	}

	newInput, cmd := a.input.Update(msg)
	a.input = newInput
	return a, cmd
}

func (kh *KeyHandler) handleDetailsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	k := kh.keys
	switch {
	case key.Matches(msg, k.Cancel), key.Matches(msg, k.Details), key.Matches(msg, k.Quit):
		a.view = ViewPages
		a.detail = nil
		return a, nil
	case key.Matches(msg, k.Yank):
		return a, a.yankURL(a.detail)
	case key.Matches(msg, k.Play):
		return kh.play(a.detail, 0)
	}

	newViewport, cmd := a.viewport.Update(msg)
	a.viewport = newViewport
	return a, cmd
}

func (kh *KeyHandler) handleHelpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := kh.keys
	if key.Matches(msg, k.Cancel) || key.Matches(msg, k.Help) || key.Matches(msg, k.Quit) {
		kh.app.view = ViewPages
	}
	return kh.app, nil
}

func (kh *KeyHandler) openPrompt(kind promptKind) (tea.Model, tea.Cmd) {
	a := kh.app
	a.prompt = kind
	a.view = ViewPrompt
	a.input.Reset()
	a.input.Prompt = kind.label()
	a.input.Width = max(a.width-len(a.input.Prompt)-2, 1)
	switch kind {
	case promptUploader:
		a.input.Placeholder = "uploader/term"
	case promptSubscribe:
		a.input.Placeholder = "uploader"
	default:
		a.input.Placeholder = "terms"
	}
	return a, a.input.Focus()
}

func (kh *KeyHandler) closePrompt() {
	kh.app.input.Blur()
	kh.app.view = ViewPages
}

func (kh *KeyHandler) submitPrompt(value string) (tea.Model, tea.Cmd) {
	a := kh.app
	cfg := a.config.Search

	switch a.prompt {
	case promptUploader:
		uploader, term, err := validation.ParseUploaderQuery(value)
		if err != nil {
			a.setStatus(err.Error(), StatusError)
			return a, nil
		}
		return kh.search(page.Query{
			Uploader:   uploader,
			Term:       term,
			Ordering:   video.ParseOrdering(cfg.UserOrder),
			MaxResults: cfg.MaxResults,
		})

	case promptSubscribe:
		uploader, err := validation.ValidateUploader(value)
		if err != nil {
			a.setStatus(err.Error(), StatusError)
			return a, nil
		}
		if a.session.Subscriptions().Tracks(uploader) {
			a.setStatus(MsgUserKnown(uploader), StatusInfo)
			return a, nil
		}
		a.setStatus(MsgSearching, StatusInfo)
		return a, a.checkUploader(uploader)

	default:
		term := validation.SanitizeTerm(value)
		if term == "" {
			a.setStatus(MsgEmptySearch, StatusWarn)
			return a, nil
		}
		return kh.search(page.Query{
			Term:       term,
			Ordering:   video.ParseOrdering(cfg.SearchOrder),
			MaxResults: cfg.MaxResults,
		})
	}
}

// search runs q on the current page, or on a fresh page when the current
// one is not a search page.
func (kh *KeyHandler) search(q page.Query) (tea.Model, tea.Cmd) {
	a := kh.app
	p, ok := a.session.Current().(*page.Search)
	if !ok {
		p = a.session.OpenNewPage()
	}
	a.setStatus(MsgSearching, StatusInfo)
	return a, a.runSearch(p, q)
}

func (kh *KeyHandler) subscribe() (tea.Model, tea.Cmd) {
	a := kh.app
	if a.session.Index() == session.SubscriptionsIndex {
		return kh.openPrompt(promptSubscribe)
	}

	s, ok := a.session.Current().(*page.Search)
	if !ok || s.Query == nil || s.Query.Uploader == "" {
		a.setStatus(MsgNotUserPage, StatusWarn)
		return a, nil
	}
	if len(s.Items()) == 0 {
		a.setStatus(MsgNoResultsForUser(s.Query.Uploader), StatusWarn)
		return a, nil
	}
	return a.addSubscription(s.Query.Uploader)
}

// unsubscribe drops the uploader of the selected item, or of the current
// uploader search when no item is selected.
func (kh *KeyHandler) unsubscribe(digits string) (tea.Model, tea.Cmd) {
	a := kh.app
	if digits != "" {
		return kh.withSelection(digits, func(v *video.Video, _ int) (tea.Model, tea.Cmd) {
			return a.removeSubscription(v.Uploader)
		})
	}
	if s, ok := a.session.Current().(*page.Search); ok && s.Query != nil && s.Query.Uploader != "" {
		return a.removeSubscription(s.Query.Uploader)
	}
	a.setStatus(MsgSelectFirst, StatusWarn)
	return a, nil
}

// withSelection resolves the typed item number on the current page and
// hands the item to fn.
func (kh *KeyHandler) withSelection(digits string, fn func(v *video.Video, i int) (tea.Model, tea.Cmd)) (tea.Model, tea.Cmd) {
	a := kh.app
	if digits == "" {
		a.setStatus(MsgSelectFirst, StatusWarn)
		return a, nil
	}
	row, _ := strconv.Atoi(digits)
	v, i, err := a.session.SelectItem(row, a.config.UI.RealIndex)
	if err != nil {
		a.setStatus(wrapErr("select", err).Error(), StatusError)
		return a, nil
	}
	return fn(v, i)
}

func (kh *KeyHandler) withBookmark(digits string, fn func(i int)) (tea.Model, tea.Cmd) {
	a := kh.app
	if a.session.Index() != session.BookmarksIndex {
		a.setStatus(MsgNotBookmarks, StatusWarn)
		return a, nil
	}
	return kh.withSelection(digits, func(_ *video.Video, i int) (tea.Model, tea.Cmd) {
		fn(i)
		return a, nil
	})
}

func (kh *KeyHandler) play(v *video.Video, _ int) (tea.Model, tea.Cmd) {
	kh.app.setStatus(MsgPlaying(v.Title), StatusInfo)
	return kh.app, kh.app.playVideo(v)
}

func (kh *KeyHandler) bookmark(v *video.Video, _ int) (tea.Model, tea.Cmd) {
	a := kh.app
	if a.session.Bookmarks().Add(v) {
		a.setStatus(MsgBookmarked(v.Title), StatusSuccess)
	} else {
		a.setStatus(MsgAlreadyBookmarked(v.Title), StatusInfo)
	}
	return a, nil
}

func (kh *KeyHandler) details(v *video.Video, _ int) (tea.Model, tea.Cmd) {
	a := kh.app
	a.view = ViewDetails
	a.detail = v
	a.viewport.SetContent(MsgRendering)
	a.viewport.GotoTop()
	return a, a.renderDetails(v)
}
