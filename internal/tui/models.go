package tui

type View int

const (
	ViewPages View = iota
	ViewPrompt
	ViewDetails
	ViewHelp
)

// promptKind says what the status-line prompt is asking for.
type promptKind int

const (
	promptSearch promptKind = iota
	promptUploader
	promptSubscribe
)

func (p promptKind) label() string {
	switch p {
	case promptUploader:
		return "search user: "
	case promptSubscribe:
		return "add user: "
	default:
		return "search: "
	}
}
