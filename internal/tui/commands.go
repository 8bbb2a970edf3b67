package tui

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/vidr/internal/config"
	"github.com/pders01/vidr/internal/debuglog"
	"github.com/pders01/vidr/internal/page"
	"github.com/pders01/vidr/internal/session"
	"github.com/pders01/vidr/internal/textfit"
	"github.com/pders01/vidr/internal/video"
)

type searchDoneMsg struct {
	page  *page.Search
	seq   int
	query page.Query
	items []*video.Video
}

type subscriptionsRefreshedMsg struct {
	seq      int
	items    []*video.Video
	announce bool
}

type uploaderCheckedMsg struct {
	uploader string
	found    bool
}

type detailsRenderedMsg struct {
	video   *video.Video
	content string
}

type playedMsg struct {
	video *video.Video
	err   error
}

type yankedMsg struct {
	url string
	err error
}

type errorMsg struct {
	err error
}

// RestoreSession loads the saved page stack from store, falling back to a
// fresh session, and makes sure every uploader in uploaders is subscribed.
func RestoreSession(store SessionStore, uploaders []string) *session.Session {
	sess := session.New()
	if store != nil {
		blob, err := store.LoadSession()
		switch {
		case err != nil:
			debuglog.Warnf("loading saved session: %v", err)
		case blob != nil:
			restored, err := session.Unmarshal(blob)
			if err != nil {
				debuglog.Warnf("discarding saved session: %v", err)
				break
			}
			sess = restored
		}
	}

	for _, u := range uploaders {
		sess.Subscriptions().AddUploader(u)
	}
	return sess
}

func (a *App) runSearch(p *page.Search, q page.Query) tea.Cmd {
	a.searchSeq++
	seq := a.searchSeq
	a.pendingSearch[p] = seq
	searcher := a.searcher
	return func() tea.Msg {
		items := searcher.Search(context.Background(), q.Uploader, q.Term, q.Ordering, q.MaxResults)
		return searchDoneMsg{page: p, seq: seq, query: q, items: items}
	}
}

// applySearch stores finished results unless their page was closed in the
// meantime or a later search was started on it.
func (a *App) applySearch(msg searchDoneMsg) {
	if a.pendingSearch[msg.page] != msg.seq {
		return
	}
	delete(a.pendingSearch, msg.page)
	if a.session.IndexOf(msg.page) < 0 {
		return
	}
	msg.page.SetResults(msg.query, msg.items)
	if a.status == MsgSearching {
		a.clearStatus()
	}
	debuglog.WithFields(map[string]interface{}{
		"uploader": msg.query.Uploader,
		"term":     msg.query.Term,
		"results":  len(msg.items),
	}).Debugf("search finished")
}

// enterPage loads the subscriptions page the first time it is shown.
func (a *App) enterPage() tea.Cmd {
	if a.session.Index() != session.SubscriptionsIndex || a.subsLoaded {
		return nil
	}
	return a.refreshSubscriptions(false)
}

func (a *App) refreshSubscriptions(announce bool) tea.Cmd {
	subs := a.session.Subscriptions()
	uploaders := subs.Uploaders()
	a.subsLoaded = true
	if len(uploaders) == 0 {
		subs.SetItems(nil)
		if announce {
			a.setStatus(MsgNoSubscriptions, StatusInfo)
		}
		return nil
	}

	a.setStatus(MsgRefreshing, StatusInfo)
	a.refreshSeq++
	seq := a.refreshSeq
	searcher := a.searcher
	maxResults := a.config.Search.MaxResults
	return func() tea.Msg {
		items := page.Collect(context.Background(), searcher, uploaders, maxResults)
		return subscriptionsRefreshedMsg{seq: seq, items: items, announce: announce}
	}
}

// applyRefresh stores the latest refresh. Videos of uploaders dropped while
// it ran are left out.
func (a *App) applyRefresh(msg subscriptionsRefreshedMsg) {
	if msg.seq != a.refreshSeq {
		return
	}
	subs := a.session.Subscriptions()
	subs.SetRefreshed(msg.items)
	if msg.announce {
		a.setStatus(MsgRefreshSummary(len(subs.Uploaders()), len(subs.Items()), a.docCount()), StatusSuccess)
	} else if a.status == MsgRefreshing {
		a.clearStatus()
	}
}

// checkUploader looks for uploads of uploader before subscribing to it.
func (a *App) checkUploader(uploader string) tea.Cmd {
	searcher := a.searcher
	order := video.ParseOrdering(a.config.Search.UserOrder)
	maxResults := a.config.Search.MaxResults
	return func() tea.Msg {
		items := searcher.Search(context.Background(), uploader, "", order, maxResults)
		return uploaderCheckedMsg{uploader: uploader, found: len(items) > 0}
	}
}

func (a *App) addSubscription(uploader string) (tea.Model, tea.Cmd) {
	if !a.session.Subscriptions().AddUploader(uploader) {
		a.setStatus(MsgUserKnown(uploader), StatusInfo)
		return a, nil
	}
	a.subsLoaded = false
	cmd := a.enterPage()
	a.setStatus(MsgUserAdded(uploader), StatusSuccess)
	return a, tea.Batch(a.saveSubscriptions(), cmd)
}

func (a *App) removeSubscription(uploader string) (tea.Model, tea.Cmd) {
	if !a.session.Subscriptions().RemoveUploader(uploader) {
		a.setStatus(fmt.Sprintf("not subscribed to %s", uploader), StatusWarn)
		return a, nil
	}
	a.setStatus(MsgUserRemoved(uploader), StatusSuccess)
	return a, a.saveSubscriptions()
}

// saveSubscriptions writes the subscribed uploaders back to the
// subscriptions file.
func (a *App) saveSubscriptions() tea.Cmd {
	path := a.config.Search.SubscriptionsFile
	if path == "" {
		return nil
	}
	uploaders := a.session.Subscriptions().Uploaders()
	return func() tea.Msg {
		if err := config.SaveSubscriptions(path, uploaders); err != nil {
			return errorMsg{err: wrapErr("save subscriptions", err)}
		}
		return nil
	}
}

func (a *App) playVideo(v *video.Video) tea.Cmd {
	player := a.player
	return func() tea.Msg {
		return playedMsg{video: v, err: player.Play(v, "", "")}
	}
}

func (a *App) yankURL(v *video.Video) tea.Cmd {
	write := a.writeClipboard
	url := v.URL()
	return func() tea.Msg {
		return yankedMsg{url: url, err: write(url)}
	}
}

func (a *App) renderDetails(v *video.Video) tea.Cmd {
	r, err := a.getRenderer()
	return func() tea.Msg {
		if err != nil {
			return detailsRenderedMsg{video: v, content: "Error initializing renderer: " + err.Error()}
		}
		rendered, err := r.Render(detailsMarkdown(v))
		if err != nil {
			return detailsRenderedMsg{video: v, content: fmt.Sprintf("Failed to render details: %s\n\nPress Escape to go back.", err)}
		}
		return detailsRenderedMsg{video: v, content: rendered}
	}
}

// detailsMarkdown lays out one video for the details view.
func detailsMarkdown(v *video.Video) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", v.Title)
	fmt.Fprintf(&b, "*%s • uploaded %s • %s*\n\n", v.Uploader, v.Uploaded.Format("Jan 2, 2006"), textfit.FormatDuration(v.Duration))
	fmt.Fprintf(&b, "`%s`\n\n", strings.TrimSpace(v.VoteLine()))
	fmt.Fprintf(&b, "**Views:** %d • **Comments:** %d\n\n", v.Views, v.Comments)
	fmt.Fprintf(&b, "[Watch](%s)\n\n", v.URL())
	b.WriteString("---\n\n")
	b.WriteString(descriptionMarkdown(v.Description))
	return b.String()
}

var htmlTag = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)

// descriptionMarkdown converts HTML descriptions to markdown and passes
// plain text through.
func descriptionMarkdown(desc string) string {
	if !htmlTag.MatchString(desc) {
		return desc
	}
	md, err := htmltomarkdown.ConvertString(desc)
	if err != nil {
		debuglog.Debugf("description is not convertible html: %v", err)
		return desc
	}
	return md
}

// quit saves the session and stops the program.
func (a *App) quit() (tea.Model, tea.Cmd) {
	a.saveSession()
	a.quitting = true
	return a, tea.Quit
}

func (a *App) saveSession() {
	if a.store == nil {
		return
	}
	start := time.Now()
	blob, err := session.Marshal(a.session)
	if err != nil {
		debuglog.Errorf("saving session: %v", err)
		return
	}
	if err := a.store.SaveSession(blob); err != nil {
		debuglog.Errorf("saving session: %v", err)
		return
	}
	debuglog.Debugf("session saved (%d bytes) in %s", len(blob), time.Since(start))
}
