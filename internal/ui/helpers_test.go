package ui

import (
	"testing"
	"time"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1048576, "1.0 MiB"},
		{5 * 1024 * 1024 * 1024, "5.0 GiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestTruncateName(t *testing.T) {
	tests := []struct {
		name  string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is t…"},
		{"anything", 0, ""},
		{"ab", 1, "…"},
	}
	for _, tt := range tests {
		if got := truncateName(tt.name, tt.width); got != tt.want {
			t.Errorf("truncateName(%q, %d) = %q, want %q", tt.name, tt.width, got, tt.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 5); got != "ab   " {
		t.Errorf("padRight = %q, want %q", got, "ab   ")
	}
	if got := padRight("toolong", 4); got != "too…" {
		t.Errorf("padRight truncation = %q, want %q", got, "too…")
	}
}

func TestHumanizeModTime(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		t    time.Time
		want string
	}{
		{time.Time{}, "-"},
		{now.Add(-30 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-48 * time.Hour), "2d ago"},
		{now.Add(-90 * 24 * time.Hour), "2025-03-17"},
	}
	for _, tt := range tests {
		if got := humanizeModTime(tt.t, now); got != tt.want {
			t.Errorf("humanizeModTime(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}
}

func TestNextSortField(t *testing.T) {
	if got := nextSortField("name"); got != "size" {
		t.Errorf("after name: got %q", got)
	}
	if got := nextSortField("size"); got != "modified" {
		t.Errorf("after size: got %q", got)
	}
	if got := nextSortField("modified"); got != "name" {
		t.Errorf("after modified: got %q", got)
	}
}

func TestContainsFold(t *testing.T) {
	if !containsFold("ReadMe.md", "readme") {
		t.Error("expected case-insensitive match")
	}
	if containsFold("notes.txt", "readme") {
		t.Error("unexpected match")
	}
	if !containsFold("anything", "") {
		t.Error("empty query should match everything")
	}
}

func TestNextThemeCycles(t *testing.T) {
	seen := map[string]bool{}
	name := themes[0].Name
	for range themes {
		seen[name] = true
		name = nextTheme(name).Name
	}
	if name != themes[0].Name {
		t.Errorf("cycle did not return to start: got %q", name)
	}
	if len(seen) != len(themes) {
		t.Errorf("visited %d themes, want %d", len(seen), len(themes))
	}
}
