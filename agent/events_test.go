package agent

import "testing"

func TestParseEvent(t *testing.T) {
	ev, ok := ParseEvent(`  {"type":"message","content":"hi"}`)
	if !ok {
		t.Fatal("valid JSON object line should parse")
	}
	if ev.Type != "message" {
		t.Errorf("type = %q, want message", ev.Type)
	}

	if _, ok := ParseEvent("thinking about it..."); ok {
		t.Error("plain text must not parse as an event")
	}
	if _, ok := ParseEvent(`{"type": "broken`); ok {
		t.Error("truncated JSON must not parse as an event")
	}
	if _, ok := ParseEvent(`["array","line"]`); ok {
		t.Error("JSON arrays are not events")
	}
}

func TestEventType(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{`{"type":"tool_use","name":"shell"}`, "tool_use"},
		{`{"content":"no type field"}`, "json"},
		{"starting session", "text"},
		{"", "text"},
		{`{"type":42}`, "42"}, // numeric types stringify
	}
	for _, tt := range tests {
		if got := EventType(tt.line); got != tt.want {
			t.Errorf("EventType(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}
