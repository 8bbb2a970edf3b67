package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/vidr/internal/config"
)

const AppName = "vidr"

// ASCII art logo lines for vidr - canonical definition
var LogoLines = []string{
	"██    ██ ██ ██████  ██████ ",
	"██    ██ ██ ██   ██ ██   ██",
	"██    ██ ██ ██   ██ ██████ ",
	" ██  ██  ██ ██   ██ ██   ██",
	"  ████   ██ ██████  ██   ██",
}

const CompactLogo = `vidr ▶`

// Banner gradient colors
var BannerColors = []lipgloss.Color{
	lipgloss.Color("#FF6B6B"),
	lipgloss.Color("#FFA86B"),
	lipgloss.Color("#95E1D3"),
	lipgloss.Color("#4ECDC4"),
	lipgloss.Color("#FF6B6B"),
}

var (
	PrimaryColor   = lipgloss.Color("#FF6B6B")
	SecondaryColor = lipgloss.Color("#4ECDC4")
	AccentColor    = lipgloss.Color("#95E1D3")

	BackgroundColor = lipgloss.Color("#1A1A2E")
	TextColor       = lipgloss.Color("#EAEAEA")
	MutedColor      = lipgloss.Color("#94A3B8")

	WarnColor    = lipgloss.Color("#FFE66D")
	ErrorColor   = lipgloss.Color("#F87171")
	SuccessColor = lipgloss.Color("#4ADE80")
)

// Styled components. They are rebuilt by ApplyColors.
var (
	LogoStyle           lipgloss.Style
	HeaderStyle         lipgloss.Style
	ItemTitleStyle      lipgloss.Style
	ItemDescStyle       lipgloss.Style
	InfoStyle           lipgloss.Style
	PageBarStyle        lipgloss.Style
	PageBarCurrentStyle lipgloss.Style
	PromptStyle         lipgloss.Style
	HelpStyle           lipgloss.Style

	// Status styles by severity
	StatusInfoStyle    lipgloss.Style
	StatusSuccessStyle lipgloss.Style
	StatusWarnStyle    lipgloss.Style
	StatusErrorStyle   lipgloss.Style
)

func init() {
	buildStyles()
}

// ApplyColors replaces the palette with the configured colors. Empty
// entries keep the built-in color.
func ApplyColors(c config.UIColors) {
	set := func(dst *lipgloss.Color, v string) {
		if v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	set(&PrimaryColor, c.Primary)
	set(&SecondaryColor, c.Secondary)
	set(&AccentColor, c.Accent)
	set(&TextColor, c.Text)
	set(&MutedColor, c.Muted)
	set(&ErrorColor, c.Error)
	set(&SuccessColor, c.Success)
	buildStyles()
}

func buildStyles() {
	LogoStyle = lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Bold(true)

	HeaderStyle = lipgloss.NewStyle().
		Foreground(SecondaryColor).
		Bold(true)

	ItemTitleStyle = lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true)

	ItemDescStyle = lipgloss.NewStyle().
		Foreground(MutedColor)

	InfoStyle = lipgloss.NewStyle().
		Foreground(SecondaryColor)

	PageBarStyle = lipgloss.NewStyle().
		Foreground(MutedColor)

	PageBarCurrentStyle = lipgloss.NewStyle().
		Foreground(BackgroundColor).
		Background(AccentColor).
		Bold(true)

	PromptStyle = lipgloss.NewStyle().
		Foreground(AccentColor).
		Bold(true)

	HelpStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Italic(true)

	StatusInfoStyle = lipgloss.NewStyle().
		Foreground(MutedColor)

	StatusSuccessStyle = lipgloss.NewStyle().
		Foreground(SuccessColor)

	StatusWarnStyle = lipgloss.NewStyle().
		Foreground(WarnColor)

	StatusErrorStyle = lipgloss.NewStyle().
		Foreground(ErrorColor).
		Bold(true)
}

func GetWelcomeMessage() string {
	return GetCompactBanner("Press / to search or u to browse an uploader")
}

func GetCompactBanner(message string) string {
	var coloredLines []string
	for _, line := range LogoLines {
		coloredLines = append(coloredLines, LogoStyle.Render(line))
	}

	logo := lipgloss.JoinVertical(lipgloss.Center, coloredLines...)

	return lipgloss.JoinVertical(
		lipgloss.Center,
		logo,
		"",
		HelpStyle.Render(message),
	)
}

func ShowBanner(version string) {
	lines := make([]string, len(LogoLines)+1)
	copy(lines, LogoLines)
	lines[len(LogoLines)] = ""

	versionTag := version
	if versionTag != "" && versionTag != "dev" {
		if versionTag[0] != 'v' && versionTag[0] != 'V' {
			versionTag = "v" + versionTag
		}
		lines = append(lines, fmt.Sprintf("    Terminal Video Browser %s", versionTag))
	} else {
		lines = append(lines, "    Terminal Video Browser")
	}

	var coloredLines []string
	for i, line := range lines {
		if line == "" {
			coloredLines = append(coloredLines, line)
			continue
		}

		colorIdx := i % len(BannerColors)
		style := lipgloss.NewStyle().
			Foreground(BannerColors[colorIdx]).
			Bold(i < len(LogoLines))

		coloredLines = append(coloredLines, style.Render(line))
	}

	borderChars := lipgloss.Border{
		Top:         "═",
		Bottom:      "═",
		Left:        "║",
		Right:       "║",
		TopLeft:     "╔",
		TopRight:    "╗",
		BottomLeft:  "╚",
		BottomRight: "╝",
	}

	borderStyle := lipgloss.NewStyle().
		Border(borderChars).
		BorderForeground(SecondaryColor).
		Padding(1, 3).
		MarginTop(1)

	banner := lipgloss.JoinVertical(lipgloss.Center, coloredLines...)
	output := borderStyle.Render(banner)

	fmt.Println(lipgloss.NewStyle().
		Width(70).
		Align(lipgloss.Center).
		Render(output))

	separator := lipgloss.NewStyle().
		Foreground(AccentColor).
		Render("▶ ▷ ▶ ▷ ▶")

	fmt.Println(lipgloss.NewStyle().
		Width(70).
		Align(lipgloss.Center).
		MarginBottom(1).
		Render(separator))
}
