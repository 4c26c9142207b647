package departures

import (
	"strings"
	"unicode/utf8"

	"github.com/naolametric/naolametric/internal/transit"
)

// Icon is a LaMetric icon id.
type Icon string

// Icons used by the display.
const (
	IconTram  Icon = "8958"
	IconBus   Icon = "7956"
	IconBoat  Icon = "12186"
	IconError Icon = "555"
)

// NoResultsText is shown when no passage survives filtering.
const NoResultsText = "Aucun"

// The LaMetric screen fits 12 characters of terminus; longer labels are cut
// to 11 characters and a trailing dot.
const (
	maxTerminusLength = 12
	cutTerminusLength = 11
)

// Frame is one LaMetric screen.
type Frame struct {
	Icon Icon   `json:"icon"`
	Text string `json:"text"`
}

// Response is a LaMetric app payload. It always holds at least one frame.
type Response struct {
	Frames []Frame `json:"frames"`
}

// NoResults is the single-frame response for an empty departure list.
func NoResults() Response {
	return Response{Frames: []Frame{{Icon: IconTram, Text: NoResultsText}}}
}

// ErrorResponse is a single error frame carrying a short message.
func ErrorResponse(message string) Response {
	return Response{Frames: []Frame{{Icon: IconError, Text: message}}}
}

// LineIcon picks the icon for a line number: tram lines 1 to 3, boats
// (prefix N), and buses for everything else including chronobus lines (C).
func LineIcon(line string) Icon {
	switch {
	case len(line) == 1 && line[0] >= '1' && line[0] <= '3':
		return IconTram
	case strings.HasPrefix(line, "N"):
		return IconBoat
	default:
		return IconBus
	}
}

// TruncateTerminus shortens labels longer than 12 characters to their first
// 11 characters followed by ".".
func TruncateTerminus(terminus string) string {
	if utf8.RuneCountInString(terminus) <= maxTerminusLength {
		return terminus
	}
	return string([]rune(terminus)[:cutTerminusLength]) + "."
}

// ToFrame maps a passage to a frame.
func ToFrame(p transit.Passage, showTerminus bool) Frame {
	text := "L" + p.Line + " " + p.Wait
	if showTerminus {
		text = p.Line + " " + TruncateTerminus(p.Terminus) + " " + p.Wait
	}
	return Frame{
		Icon: LineIcon(p.Line),
		Text: text,
	}
}
