package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/pders01/vidr/internal/page"
	"github.com/pders01/vidr/internal/textfit"
	"github.com/pders01/vidr/internal/video"
)

// renderPane draws the visible items of the current page.
func (a *App) renderPane() string {
	p := a.session.Current()
	items := p.Visible()
	if len(items) == 0 {
		if s, ok := p.(*page.Search); ok && s.Query == nil {
			return renderCentered(a.width, a.mainHeight(), GetWelcomeMessage())
		}
		return ""
	}

	start := p.Window().Start
	rows := make([]string, 0, len(items)*a.itemHeight())
	for i, v := range items {
		n := i
		if a.config.UI.RealIndex {
			n = start + i + 1
		}
		if a.config.UI.SimpleFormat {
			rows = append(rows, renderSimpleItem(v, n, a.width)...)
		} else {
			rows = append(rows, renderDetailedItem(v, n, a.width, a.infoWidth())...)
		}
	}
	return strings.Join(rows, "\n")
}

// renderDetailedItem lays an item out over three rows: title and
// description on the left, the info pane on the right.
func renderDetailedItem(v *video.Video, n, width, infoWidth int) []string {
	mainWidth := width - infoWidth
	if mainWidth < 1 {
		return []string{
			ItemTitleStyle.Render(textfit.Fit(v.TitleLine(n), width)),
			ItemDescStyle.Render(textfit.Fit(oneLine(v.Description), width)),
			"",
		}
	}

	user, stats, rated := v.InfoLines()
	info := func(s string) string {
		return InfoStyle.Render(fitColumns(s, infoWidth))
	}
	return []string{
		ItemTitleStyle.Render(textfit.Fit(v.TitleLine(n), mainWidth)) + info(user),
		ItemDescStyle.Render(textfit.Fit(oneLine(v.Description), mainWidth)) + info(stats),
		strings.Repeat(" ", mainWidth) + info(rated),
	}
}

// renderSimpleItem lays an item out over two rows: the title with the
// uploader right-aligned, then the stats spread across the line.
func renderSimpleItem(v *video.Video, n, width int) []string {
	title := v.TitleLine(n)
	uploaderWidth := textfit.RealWidth(v.Uploader)

	var head string
	if uploaderWidth > 0 && uploaderWidth+2 < width {
		head = textfit.Fit(title, width-uploaderWidth-1) + " " + v.Uploader
	} else {
		head = textfit.Fit(title, width)
	}

	summary, err := v.SummaryLine(width)
	if err != nil {
		summary = ""
	}
	return []string{
		ItemTitleStyle.Render(head),
		ItemDescStyle.Render(fitColumns(summary, width)),
	}
}

func (a *App) renderPageBar() string {
	bar := a.session.LayoutPageBar(a.width)
	return PageBarStyle.Render(bar.Left) +
		PageBarCurrentStyle.Render(bar.Current) +
		PageBarStyle.Render(bar.Right)
}

func (a *App) renderStatusBar() string {
	var line string
	switch {
	case a.view == ViewPrompt:
		line = a.input.View()
	case a.status != "":
		line = statusStyle(a.statusKind).Render(a.status)
	case a.view == ViewDetails && a.detail != nil:
		line = HelpStyle.Render(truncateEnd(a.detail.Title, a.width/2) + " • esc: back • y: copy url")
	default:
		line = StatusInfoStyle.Render(a.session.Current().Status())
	}
	if a.digits != "" && a.view == ViewPages {
		line += "  " + PromptStyle.Render("#"+a.digits)
	}
	return truncate.StringWithTail(line, uint(max(a.width, 0)), "…")
}

func statusStyle(kind StatusKind) lipgloss.Style {
	switch kind {
	case StatusSuccess:
		return StatusSuccessStyle
	case StatusWarn:
		return StatusWarnStyle
	case StatusError:
		return StatusErrorStyle
	default:
		return StatusInfoStyle
	}
}

// renderCentered centers the provided content within the given width/height box.
func renderCentered(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// fitColumns truncates or pads s to exactly width columns, measured like
// the title and description next to it.
func fitColumns(s string, width int) string {
	return textfit.Cut(s, width)
}
