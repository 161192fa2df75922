package diag

import (
	"reflect"
	"testing"
)

func TestRelevant(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"GOOSE_PROVIDER", true},
		{"ANTHROPIC_API_KEY", true},
		{"OPENAI_HOST", true},
		{"GOOGLE_API_KEY", true},
		{"DATABRICKS_TOKEN", true},
		{"OLLAMA_HOST", true},
		{"GENAI_LOCATOR_URL", true},
		{"BYPASS_GENAI", true},
		{"PATH", true},
		{"HOME", true},
		{"HOMEBREW_PREFIX", false}, // exact match only
		{"SHELL", false},
		{"LANG", false},
	}
	for _, tt := range tests {
		if got := Relevant(tt.key); got != tt.want {
			t.Errorf("Relevant(%q) = %t, want %t", tt.key, got, tt.want)
		}
	}
}

func TestMask(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{"long secret masked", "ANTHROPIC_API_KEY", "sk-ant-0123456789abcdef", "sk-ant-012...cdef"},
		{"exactly sixteen chars", "DATABRICKS_TOKEN", "0123456789abcdef", "0123456789...cdef"},
		{"short secret passes through", "OPENAI_API_KEY", "sk-123", "sk-123"},
		{"threshold-length secret unmasked", "OPENAI_API_KEY", "0123456789", "0123456789"},
		{"non-sensitive never masked", "GOOSE_PROVIDER", "a-value-longer-than-ten", "a-value-longer-than-ten"},
		{"empty value", "OPENAI_API_KEY", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Mask(tt.key, tt.value); got != tt.want {
				t.Errorf("Mask(%q, %q) = %q, want %q", tt.key, tt.value, got, tt.want)
			}
		})
	}
}

func TestFilterEnviron(t *testing.T) {
	environ := []string{
		"GOOSE_MODEL=gpt-4o",
		"OPENAI_API_KEY=sk-0123456789abcdef",
		"SHELL=/bin/bash",
		"HOME=/home/svc",
		"MALFORMED_NO_EQUALS",
	}
	got := FilterEnviron(environ)
	want := map[string]string{
		"GOOSE_MODEL":    "gpt-4o",
		"OPENAI_API_KEY": "sk-0123456...cdef",
		"HOME":           "/home/svc",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterEnviron = %v, want %v", got, want)
	}
}

func TestSortedKeys(t *testing.T) {
	got := SortedKeys(map[string]string{"PATH": "", "GOOSE_MODEL": "", "HOME": ""})
	want := []string{"GOOSE_MODEL", "HOME", "PATH"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortedKeys = %v, want %v", got, want)
	}
}
