package agent

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Goose streams a mix of plain text and single-line JSON events on its
// output. Event classification is best-effort: anything that is not a
// JSON object is plain text.

// Event is one classified output line.
type Event struct {
	// Type is the event's "type" field, or "" for untyped JSON objects.
	Type string
	// Raw is the original line.
	Raw string
}

// ParseEvent classifies an output line. ok is false for plain-text
// lines, which have no event structure to inspect.
func ParseEvent(line string) (Event, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") || !gjson.Valid(trimmed) {
		return Event{}, false
	}
	return Event{
		Type: gjson.Get(trimmed, "type").String(),
		Raw:  line,
	}, true
}

// EventType returns the event type of a line, or "text" for plain text.
func EventType(line string) string {
	ev, ok := ParseEvent(line)
	if !ok {
		return "text"
	}
	if ev.Type == "" {
		return "json"
	}
	return ev.Type
}
